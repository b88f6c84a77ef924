package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flicky/printdrop/internal/model"
	"github.com/flicky/printdrop/internal/repository"
)

type mockCategoryRepo struct {
	categories map[string]*model.Category
}

func newMockCategoryRepo() *mockCategoryRepo {
	return &mockCategoryRepo{categories: make(map[string]*model.Category)}
}

func (m *mockCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	var all []model.Category
	for _, c := range m.categories {
		all = append(all, *c)
	}
	return all, nil
}

func (m *mockCategoryRepo) GetBySlug(_ context.Context, slug string) (*model.Category, error) {
	return m.categories[slug], nil
}

func (m *mockCategoryRepo) Upsert(_ context.Context, c *model.Category) error {
	if existing, ok := m.categories[c.Slug]; ok {
		c.ID = existing.ID
	} else {
		c.ID = uuid.New()
	}
	m.categories[c.Slug] = c
	return nil
}

type mockProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (m *mockProductRepo) add(p *model.Product) *model.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.products[p.ID] = p
	return p
}

func (m *mockProductRepo) Create(_ context.Context, p *model.Product) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	m.products[p.ID] = p
	return nil
}

func (m *mockProductRepo) Upsert(ctx context.Context, p *model.Product) error {
	for _, existing := range m.products {
		if existing.CategoryID == p.CategoryID && existing.Name == p.Name {
			p.ID = existing.ID
			m.products[p.ID] = p
			return nil
		}
	}
	return m.Create(ctx, p)
}

func (m *mockProductRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	return m.products[id], nil
}

func (m *mockProductRepo) List(_ context.Context, filter repository.ProductFilter) ([]model.Product, error) {
	var all []model.Product
	for _, p := range m.products {
		if filter.CategoryID != nil && p.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.ActiveOnly && !p.IsActive {
			continue
		}
		all = append(all, *p)
	}
	return all, nil
}

func (m *mockProductRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	p, ok := m.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.IsActive = active
	return nil
}

func TestCatalogService_ListProducts_ByCategory(t *testing.T) {
	categories := newMockCategoryRepo()
	products := newMockProductRepo()
	shirts := &model.Category{Slug: "shirts"}
	mugs := &model.Category{Slug: "mugs"}
	require.NoError(t, categories.Upsert(context.Background(), shirts))
	require.NoError(t, categories.Upsert(context.Background(), mugs))
	products.add(&model.Product{Name: "Tee", CategoryID: shirts.ID, IsActive: true, BasePrice: decimal.NewFromInt(20)})
	products.add(&model.Product{Name: "Old Tee", CategoryID: shirts.ID, IsActive: false})
	products.add(&model.Product{Name: "Mug", CategoryID: mugs.ID, IsActive: true})

	svc := NewCatalogService(categories, products, nil)

	got, err := svc.ListProducts(context.Background(), "shirts")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Tee", got[0].Name)

	all, err := svc.ListProducts(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCatalogService_ListProducts_UnknownCategory(t *testing.T) {
	svc := NewCatalogService(newMockCategoryRepo(), newMockProductRepo(), nil)
	_, err := svc.ListProducts(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCatalogService_GetProduct_NotFound(t *testing.T) {
	products := newMockProductRepo()
	inactive := products.add(&model.Product{Name: "Gone", IsActive: false})
	svc := NewCatalogService(newMockCategoryRepo(), products, nil)

	_, err := svc.GetProduct(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = svc.GetProduct(context.Background(), inactive.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalogService_ListCategories(t *testing.T) {
	categories := newMockCategoryRepo()
	require.NoError(t, categories.Upsert(context.Background(), &model.Category{Name: "Shirts", Slug: "shirts"}))
	svc := NewCatalogService(categories, newMockProductRepo(), nil)

	got, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "shirts", got[0].Slug)
}

func TestCatalogService_SetProductActive(t *testing.T) {
	products := newMockProductRepo()
	p := products.add(&model.Product{Name: "Tee", IsActive: true})
	svc := NewCatalogService(newMockCategoryRepo(), products, nil)

	require.NoError(t, svc.SetProductActive(context.Background(), p.ID, false))
	_, err := svc.GetProduct(context.Background(), p.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	assert.ErrorIs(t, svc.SetProductActive(context.Background(), uuid.New(), true), ErrProductNotFound)
}

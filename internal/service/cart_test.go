package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flicky/printdrop/internal/model"
	"github.com/flicky/printdrop/internal/repository"
)

type mockCartRepo struct {
	lines map[uuid.UUID]*model.CartLine
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{lines: make(map[uuid.UUID]*model.CartLine)}
}

func (m *mockCartRepo) userLines(userID uuid.UUID) []model.CartLine {
	out := []model.CartLine{}
	for _, l := range m.lines {
		if l.UserID == userID {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (m *mockCartRepo) ListLines(_ context.Context, userID uuid.UUID) ([]model.CartLine, error) {
	return m.userLines(userID), nil
}

func (m *mockCartRepo) Add(_ context.Context, item *model.CartItem) error {
	item.ID = uuid.New()
	item.CreatedAt = time.Now().Add(time.Duration(len(m.lines)) * time.Millisecond)
	m.lines[item.ID] = &model.CartLine{CartItem: *item}
	return nil
}

func (m *mockCartRepo) UpdateQuantity(_ context.Context, itemID, userID uuid.UUID, quantity int) (*model.CartItem, error) {
	l, ok := m.lines[itemID]
	if !ok || l.UserID != userID {
		return nil, repository.ErrNotFound
	}
	l.Quantity = quantity
	item := l.CartItem
	return &item, nil
}

func (m *mockCartRepo) Delete(_ context.Context, itemID, userID uuid.UUID) error {
	l, ok := m.lines[itemID]
	if !ok || l.UserID != userID {
		return repository.ErrNotFound
	}
	delete(m.lines, itemID)
	return nil
}

func (m *mockCartRepo) Clear(_ context.Context, userID uuid.UUID) error {
	for id, l := range m.lines {
		if l.UserID == userID {
			delete(m.lines, id)
		}
	}
	return nil
}

type cartFixture struct {
	cart     *mockCartRepo
	products *mockProductRepo
	designs  *mockDesignRepo
	artists  *mockArtistRepo
	svc      *CartService
}

func newCartFixture() *cartFixture {
	f := &cartFixture{
		cart:     newMockCartRepo(),
		products: newMockProductRepo(),
		designs:  newMockDesignRepo(),
		artists:  newMockArtistRepo(),
	}
	f.svc = NewCartService(f.cart, f.products, f.designs, f.artists, DefaultShippingPolicy())
	return f
}

func TestCartService_Add_SnapshotsPrice(t *testing.T) {
	f := newCartFixture()
	tee := f.products.add(&model.Product{Name: "Tee", IsActive: true, BasePrice: decimal.RequireFromString("19.99")})
	design := f.designs.add(&model.Design{Title: "Wave", IsPublic: true, Price: decimal.RequireFromString("5.00")})
	userID := uuid.New()

	item, err := f.svc.Add(context.Background(), userID, AddToCart{ProductID: tee.ID, DesignID: &design.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, "24.99", item.Price.StringFixed(2))
	assert.Equal(t, "5.00", item.DesignPrice.StringFixed(2))

	tee.BasePrice = decimal.RequireFromString("99.00")
	cart, err := f.svc.Get(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "24.99", cart.Lines[0].Price.StringFixed(2))
	assert.Equal(t, "49.98", cart.Summary.Subtotal.StringFixed(2))
	assert.Equal(t, "9.99", cart.Summary.Shipping.StringFixed(2))
}

func TestCartService_Add_DoesNotMergeLines(t *testing.T) {
	f := newCartFixture()
	tee := f.products.add(&model.Product{Name: "Tee", IsActive: true, BasePrice: decimal.NewFromInt(10)})
	userID := uuid.New()

	for i := 0; i < 2; i++ {
		_, err := f.svc.Add(context.Background(), userID, AddToCart{ProductID: tee.ID, Quantity: 1})
		require.NoError(t, err)
	}
	cart, err := f.svc.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, cart.Lines, 2)
	assert.Equal(t, 2, cart.Summary.ItemCount)
}

func TestCartService_Add_ProductNotFound(t *testing.T) {
	f := newCartFixture()
	inactive := f.products.add(&model.Product{Name: "Old", IsActive: false})

	_, err := f.svc.Add(context.Background(), uuid.New(), AddToCart{ProductID: uuid.New(), Quantity: 1})
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = f.svc.Add(context.Background(), uuid.New(), AddToCart{ProductID: inactive.ID, Quantity: 1})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartService_Add_PrivateDesign(t *testing.T) {
	f := newCartFixture()
	tee := f.products.add(&model.Product{Name: "Tee", IsActive: true, BasePrice: decimal.NewFromInt(10)})
	owner := uuid.New()
	artist := f.artists.add(&model.Artist{UserID: owner})
	private := f.designs.add(&model.Design{ArtistID: artist.ID, IsPublic: false, Price: decimal.NewFromInt(3)})

	_, err := f.svc.Add(context.Background(), uuid.New(), AddToCart{ProductID: tee.ID, DesignID: &private.ID, Quantity: 1})
	assert.ErrorIs(t, err, ErrDesignNotFound)

	item, err := f.svc.Add(context.Background(), owner, AddToCart{ProductID: tee.ID, DesignID: &private.ID, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, "13.00", item.Price.StringFixed(2))
}

func TestCartService_Add_InvalidCustomization(t *testing.T) {
	f := newCartFixture()
	tee := f.products.add(&model.Product{
		Name: "Tee", IsActive: true, BasePrice: decimal.NewFromInt(10),
		CustomizationOptions: model.CustomizationOptions{Sizes: []string{"S", "M"}},
	})

	_, err := f.svc.Add(context.Background(), uuid.New(), AddToCart{
		ProductID: tee.ID, Quantity: 1, Customization: model.Customization{Size: "XXL"},
	})
	assert.ErrorIs(t, err, ErrInvalidCustomization)
	assert.Empty(t, f.cart.lines)
}

func TestCartService_UpdateQuantity_OtherUsersItem(t *testing.T) {
	f := newCartFixture()
	tee := f.products.add(&model.Product{Name: "Tee", IsActive: true, BasePrice: decimal.NewFromInt(10)})
	owner := uuid.New()
	item, err := f.svc.Add(context.Background(), owner, AddToCart{ProductID: tee.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = f.svc.UpdateQuantity(context.Background(), uuid.New(), item.ID, 5)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
	assert.Equal(t, 1, f.cart.lines[item.ID].Quantity)

	updated, err := f.svc.UpdateQuantity(context.Background(), owner, item.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Quantity)

	_, err = f.svc.UpdateQuantity(context.Background(), owner, item.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCartService_Remove(t *testing.T) {
	f := newCartFixture()
	tee := f.products.add(&model.Product{Name: "Tee", IsActive: true, BasePrice: decimal.NewFromInt(10)})
	owner := uuid.New()
	item, err := f.svc.Add(context.Background(), owner, AddToCart{ProductID: tee.ID, Quantity: 1})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Remove(context.Background(), uuid.New(), item.ID), ErrCartItemNotFound)
	require.NoError(t, f.svc.Remove(context.Background(), owner, item.ID))
	assert.Empty(t, f.cart.lines)
	assert.ErrorIs(t, f.svc.Remove(context.Background(), owner, item.ID), ErrCartItemNotFound)
}

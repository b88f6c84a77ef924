package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/flicky/printdrop/internal/dto"
	"github.com/flicky/printdrop/internal/model"
	"github.com/flicky/printdrop/internal/repository"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
)

const (
	productCacheTTL    = 60 * time.Second
	categoriesCacheKey = "catalog:categories"
	categoriesCacheTTL = 5 * time.Minute
)

type CatalogService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	redisClient  *redis.Client
}

func NewCatalogService(categoryRepo repository.CategoryRepository, productRepo repository.ProductRepository, redisClient *redis.Client) *CatalogService {
	return &CatalogService{categoryRepo: categoryRepo, productRepo: productRepo, redisClient: redisClient}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	var cached []dto.CategoryResponse
	if s.cacheGet(ctx, categoriesCacheKey, &cached) {
		return cached, nil
	}

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	resp := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		resp = append(resp, dto.CategoryResponse{
			ID: c.ID, Name: c.Name, Slug: c.Slug, Description: c.Description,
			ImageURL: c.ImageURL, SortOrder: c.SortOrder,
		})
	}
	s.cacheSet(ctx, categoriesCacheKey, resp, categoriesCacheTTL)
	return resp, nil
}

// ListProducts lists active products, restricted to one category when
// categorySlug is set. An unknown slug is ErrCategoryNotFound.
func (s *CatalogService) ListProducts(ctx context.Context, categorySlug string) ([]dto.ProductResponse, error) {
	filter := repository.ProductFilter{ActiveOnly: true}
	if categorySlug != "" {
		category, err := s.categoryRepo.GetBySlug(ctx, categorySlug)
		if err != nil {
			return nil, fmt.Errorf("get category: %w", err)
		}
		if category == nil {
			return nil, ErrCategoryNotFound
		}
		filter.CategoryID = &category.ID
	}

	products, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, toProductResponse(&products[i]))
	}
	return items, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	cacheKey := "product:" + id.String()

	var cached dto.ProductResponse
	if s.cacheGet(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}

	resp := toProductResponse(product)
	s.cacheSet(ctx, cacheKey, resp, productCacheTTL)
	return &resp, nil
}

// SetProductActive lists or unlists a product. Products are never deleted
// since cart and order lines keep referring to them.
func (s *CatalogService) SetProductActive(ctx context.Context, id uuid.UUID, active bool) error {
	if err := s.productRepo.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("set product active: %w", err)
	}
	s.InvalidateProduct(ctx, id)
	return nil
}

// InvalidateCategories drops the cached category list after seeding.
func (s *CatalogService) InvalidateCategories(ctx context.Context) {
	if s.redisClient != nil {
		s.redisClient.Del(ctx, categoriesCacheKey)
	}
}

func (s *CatalogService) InvalidateProduct(ctx context.Context, id uuid.UUID) {
	if s.redisClient != nil {
		s.redisClient.Del(ctx, "product:"+id.String())
	}
}

func (s *CatalogService) cacheGet(ctx context.Context, key string, dst any) bool {
	if s.redisClient == nil {
		return false
	}
	cached, err := s.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(cached, dst) == nil
}

func (s *CatalogService) cacheSet(ctx context.Context, key string, v any, ttl time.Duration) {
	if s.redisClient == nil {
		return
	}
	if data, err := json.Marshal(v); err == nil {
		s.redisClient.Set(ctx, key, data, ttl)
	}
}

func toProductResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:                   p.ID,
		Name:                 p.Name,
		Description:          p.Description,
		BasePrice:            p.BasePrice,
		CategoryID:           p.CategoryID,
		ImageURL:             p.ImageURL,
		CustomizationOptions: p.CustomizationOptions,
		IsActive:             p.IsActive,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

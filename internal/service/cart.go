package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/flicky/printdrop/internal/model"
	"github.com/flicky/printdrop/internal/repository"
)

var (
	ErrCartItemNotFound     = errors.New("cart item not found")
	ErrInvalidCustomization = errors.New("invalid customization")
)

type Cart struct {
	Lines   []model.CartLine
	Summary Summary
}

type AddToCart struct {
	ProductID     uuid.UUID
	DesignID      *uuid.UUID
	Quantity      int
	Customization model.Customization
}

type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	designRepo  repository.DesignRepository
	artistRepo  repository.ArtistRepository
	shipping    ShippingPolicy
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	designRepo repository.DesignRepository,
	artistRepo repository.ArtistRepository,
	shipping ShippingPolicy,
) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		designRepo:  designRepo,
		artistRepo:  artistRepo,
		shipping:    shipping,
	}
}

func (s *CartService) Get(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	lines, err := s.cartRepo.ListLines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	return &Cart{Lines: lines, Summary: Summarize(lines, s.shipping)}, nil
}

// Add appends a new line. The unit price is fixed here as the product's base
// price plus the design's price and does not follow later price changes.
func (s *CartService) Add(ctx context.Context, userID uuid.UUID, in AddToCart) (*model.CartItem, error) {
	if in.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
	}

	product, err := s.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}
	if err := in.Customization.CheckAgainst(product.CustomizationOptions); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCustomization, err.Error())
	}

	designPrice := decimal.Zero
	if in.DesignID != nil {
		design, err := s.usableDesign(ctx, userID, *in.DesignID)
		if err != nil {
			return nil, err
		}
		designPrice = design.Price
	}

	item := &model.CartItem{
		UserID:        userID,
		ProductID:     product.ID,
		DesignID:      in.DesignID,
		Quantity:      in.Quantity,
		Customization: in.Customization,
		Price:         product.BasePrice.Add(designPrice).Round(2),
		DesignPrice:   designPrice,
	}
	if err := s.cartRepo.Add(ctx, item); err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("add cart item: %w", err)
	}
	return item, nil
}

// usableDesign returns the design when it is public or belongs to the
// caller's own artist profile.
func (s *CartService) usableDesign(ctx context.Context, userID, designID uuid.UUID) (*model.Design, error) {
	design, err := s.designRepo.GetByID(ctx, designID)
	if err != nil {
		return nil, fmt.Errorf("get design: %w", err)
	}
	if design == nil {
		return nil, ErrDesignNotFound
	}
	if design.IsPublic {
		return design, nil
	}
	artist, err := s.artistRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get artist: %w", err)
	}
	if artist == nil || artist.ID != design.ArtistID {
		return nil, ErrDesignNotFound
	}
	return design, nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*model.CartItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
	}
	item, err := s.cartRepo.UpdateQuantity(ctx, itemID, userID, quantity)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("update cart item: %w", err)
	}
	return item, nil
}

func (s *CartService) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	if err := s.cartRepo.Delete(ctx, itemID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCartItemNotFound
		}
		return fmt.Errorf("remove cart item: %w", err)
	}
	return nil
}

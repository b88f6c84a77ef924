package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/flicky/printdrop/internal/model"
)

// --- Auth ---

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8,max=72"`
	FirstName string `json:"first_name" binding:"required,max=60"`
	LastName  string `json:"last_name" binding:"required,max=60"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID        uuid.UUID      `json:"id"`
	Email     string         `json:"email"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	UserType  model.UserType `json:"user_type"`
}

// --- Catalog ---

type ListProductsRequest struct {
	Category string `form:"category" binding:"omitempty,max=80"`
}

type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	SortOrder   int       `json:"sort_order"`
}

type ProductResponse struct {
	ID                   uuid.UUID                  `json:"id"`
	Name                 string                     `json:"name"`
	Description          string                     `json:"description"`
	BasePrice            decimal.Decimal            `json:"base_price"`
	CategoryID           uuid.UUID                  `json:"category_id"`
	ImageURL             string                     `json:"image_url"`
	CustomizationOptions model.CustomizationOptions `json:"customization_options"`
	IsActive             bool                       `json:"is_active"`
	CreatedAt            time.Time                  `json:"created_at"`
	UpdatedAt            time.Time                  `json:"updated_at"`
}

// --- Artists ---

type SocialLinksRequest struct {
	Website   string `json:"website" binding:"omitempty,url,max=200"`
	Instagram string `json:"instagram" binding:"omitempty,max=100"`
	Twitter   string `json:"twitter" binding:"omitempty,max=100"`
	Behance   string `json:"behance" binding:"omitempty,max=100"`
}

type CreateArtistRequest struct {
	DisplayName  string             `json:"display_name" binding:"required,max=80"`
	Bio          string             `json:"bio" binding:"max=2000"`
	Specialty    string             `json:"specialty" binding:"max=80"`
	PortfolioURL string             `json:"portfolio_url" binding:"omitempty,url,max=200"`
	SocialLinks  SocialLinksRequest `json:"social_links"`
}

type ArtistResponse struct {
	ID             uuid.UUID         `json:"id"`
	UserID         uuid.UUID         `json:"user_id"`
	DisplayName    string            `json:"display_name"`
	Bio            string            `json:"bio"`
	Specialty      string            `json:"specialty"`
	PortfolioURL   string            `json:"portfolio_url"`
	SocialLinks    model.SocialLinks `json:"social_links"`
	IsVerified     bool              `json:"is_verified"`
	CommissionRate decimal.Decimal   `json:"commission_rate"`
	CreatedAt      time.Time         `json:"created_at"`
}

type VerifyArtistRequest struct {
	Verified *bool `json:"verified" binding:"required"`
}

// --- Designs ---

type ListDesignsRequest struct {
	Artist string `form:"artist" binding:"omitempty,uuid"`
}

// CreateDesignForm is the non-file part of the multipart design upload.
type CreateDesignForm struct {
	Title       string `form:"title" binding:"required,max=120"`
	Description string `form:"description" binding:"max=2000"`
	Price       string `form:"price" binding:"omitempty,numeric"`
	Tags        string `form:"tags" binding:"max=500"`
	IsPublic    *bool  `form:"is_public"`
}

type DesignResponse struct {
	ID            uuid.UUID       `json:"id"`
	ArtistID      uuid.UUID       `json:"artist_id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	ImageURL      string          `json:"image_url"`
	Price         decimal.Decimal `json:"price"`
	Tags          []string        `json:"tags"`
	IsPublic      bool            `json:"is_public"`
	DownloadCount int             `json:"download_count"`
	CreatedAt     time.Time       `json:"created_at"`
}

// --- Cart ---

type CustomizationRequest struct {
	Color     string `json:"color" binding:"max=40"`
	Size      string `json:"size" binding:"max=20"`
	Material  string `json:"material" binding:"max=40"`
	Placement string `json:"placement" binding:"omitempty,oneof=front back left-chest right-chest full"`
	Notes     string `json:"notes" binding:"max=500"`
}

func (c CustomizationRequest) Model() model.Customization {
	return model.Customization(c)
}

type AddCartItemRequest struct {
	ProductID     uuid.UUID            `json:"product_id" binding:"required"`
	DesignID      *uuid.UUID           `json:"design_id"`
	Quantity      int                  `json:"quantity" binding:"required,min=1,max=99"`
	Customization CustomizationRequest `json:"customization"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1,max=99"`
}

type CartItemResponse struct {
	ID            uuid.UUID           `json:"id"`
	ProductID     uuid.UUID           `json:"product_id"`
	DesignID      *uuid.UUID          `json:"design_id"`
	Quantity      int                 `json:"quantity"`
	Customization model.Customization `json:"customization"`
	Price         decimal.Decimal     `json:"price"`
	CreatedAt     time.Time           `json:"created_at"`
}

type CartLineResponse struct {
	CartItemResponse
	ProductName  string `json:"product_name"`
	ProductImage string `json:"product_image"`
	DesignTitle  string `json:"design_title,omitempty"`
	DesignImage  string `json:"design_image,omitempty"`
	LineTotal    string `json:"line_total"`
}

// Money amounts in summaries and orders are fixed two-decimal strings.
type CartSummaryResponse struct {
	ItemCount int    `json:"item_count"`
	Subtotal  string `json:"subtotal"`
	Shipping  string `json:"shipping"`
	Total     string `json:"total"`
}

// --- Orders ---

type ShippingAddressRequest struct {
	FullName   string `json:"full_name" binding:"required,max=100"`
	Line1      string `json:"line1" binding:"required,max=200"`
	Line2      string `json:"line2" binding:"max=200"`
	City       string `json:"city" binding:"required,max=100"`
	State      string `json:"state" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"required,max=20"`
	Country    string `json:"country" binding:"required,max=60"`
	Phone      string `json:"phone" binding:"max=32"`
}

func (a ShippingAddressRequest) Model() model.ShippingAddress {
	return model.ShippingAddress(a)
}

// CheckoutRequest may carry a client-computed total; it is ignored and the
// total is always recomputed from the cart.
type CheckoutRequest struct {
	ShippingAddress ShippingAddressRequest `json:"shipping_address" binding:"required"`
	TotalAmount     *decimal.Decimal       `json:"total_amount"`
}

type OrderResponse struct {
	ID              uuid.UUID             `json:"id"`
	UserID          uuid.UUID             `json:"user_id"`
	OrderNumber     string                `json:"order_number"`
	Status          model.OrderStatus     `json:"status"`
	TotalAmount     string                `json:"total_amount"`
	ShippingAmount  string                `json:"shipping_amount"`
	ShippingAddress model.ShippingAddress `json:"shipping_address"`
	PaymentStatus   model.PaymentStatus   `json:"payment_status"`
	Items           []OrderItemResponse   `json:"items"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

type OrderItemResponse struct {
	ID               uuid.UUID           `json:"id"`
	ProductID        uuid.UUID           `json:"product_id"`
	DesignID         *uuid.UUID          `json:"design_id"`
	Quantity         int                 `json:"quantity"`
	UnitPrice        string              `json:"unit_price"`
	Customization    model.Customization `json:"customization"`
	ArtistCommission string              `json:"artist_commission"`
}

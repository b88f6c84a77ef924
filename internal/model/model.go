package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UserType string

const (
	UserTypeCustomer UserType = "customer"
	UserTypeArtist   UserType = "artist"
	UserTypeAdmin    UserType = "admin"
)

type User struct {
	ID        uuid.UUID
	Email     string
	Password  string
	FirstName string
	LastName  string
	UserType  UserType
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Artist struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	DisplayName    string
	Bio            string
	Specialty      string
	PortfolioURL   string
	SocialLinks    SocialLinks
	IsVerified     bool
	CommissionRate decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Category struct {
	ID          uuid.UUID
	Name        string
	Slug        string
	Description string
	ImageURL    string
	SortOrder   int
	CreatedAt   time.Time
}

type Product struct {
	ID                   uuid.UUID
	Name                 string
	Description          string
	BasePrice            decimal.Decimal
	CategoryID           uuid.UUID
	ImageURL             string
	CustomizationOptions CustomizationOptions
	IsActive             bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type Design struct {
	ID            uuid.UUID
	ArtistID      uuid.UUID
	Title         string
	Description   string
	ImageURL      string
	Price         decimal.Decimal
	Tags          []string
	IsPublic      bool
	DownloadCount int
	CreatedAt     time.Time
}

// CartItem is one persisted cart row. Price is the unit price at the time the
// line was added; DesignPrice is the part of it that came from the design.
type CartItem struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	ProductID     uuid.UUID
	DesignID      *uuid.UUID
	Quantity      int
	Customization Customization
	Price         decimal.Decimal
	DesignPrice   decimal.Decimal
	CreatedAt     time.Time
}

// CartLine is a cart row joined with its product and design. Product and
// design fields are empty when the referenced row no longer exists.
type CartLine struct {
	CartItem
	ProductName  string
	ProductImage string
	DesignTitle  string
	DesignImage  string
	ArtistID     *uuid.UUID
	// CommissionRate is the design artist's current rate, zero without a
	// design.
	CommissionRate decimal.Decimal
}

func (l CartLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Order struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	OrderNumber     string
	Status          OrderStatus
	// TotalAmount is the sum of the items; shipping is charged separately.
	TotalAmount     decimal.Decimal
	ShippingAmount  decimal.Decimal
	ShippingAddress ShippingAddress
	PaymentStatus   PaymentStatus
	Items           []OrderItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type OrderItem struct {
	ID               uuid.UUID
	OrderID          uuid.UUID
	ProductID        uuid.UUID
	DesignID         *uuid.UUID
	Quantity         int
	UnitPrice        decimal.Decimal
	Customization    Customization
	ArtistCommission decimal.Decimal
}

type OrderPlacedMessage struct {
	OrderID     uuid.UUID `json:"order_id"`
	UserID      uuid.UUID `json:"user_id"`
	OrderNumber string    `json:"order_number"`
}

package carts

import (
	"errors"
	"time"
)

var (
	ErrItemNotFound    = errors.New("cart item not found")
	ErrVariantInactive = errors.New("variant is not available")
	ErrEmptyCart       = errors.New("cart is empty")
)

type Cart struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	Status    string     `json:"status"` // active, converted, abandoned
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type Item struct {
	ID         int64     `json:"id"`
	CartID     int64     `json:"cart_id"`
	VariantID  int64     `json:"variant_id"`
	Quantity   int       `json:"quantity"`
	PriceCents int64     `json:"price_cents"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Line is an item joined with enough catalog data to render the cart page.
type Line struct {
	ItemID          int64   `json:"item_id"`
	ProductID       int64   `json:"product_id"`
	VariantID       int64   `json:"variant_id"`
	ProductName     string  `json:"product_name"`
	SKU             string  `json:"sku"`
	Metal           string  `json:"metal"`
	Size            *string `json:"size,omitempty"`
	Quantity        int     `json:"quantity"`
	UnitPriceCents  int64   `json:"unit_price_cents"`
	LineTotalCents  int64   `json:"line_total_cents"`
	PrimaryImageURL *string `json:"primary_image_url,omitempty"`
}

type View struct {
	Cart       Cart   `json:"cart"`
	Items      []Line `json:"items"`
	TotalCents int64  `json:"total_cents"`
}

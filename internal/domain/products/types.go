package products

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("product not found")
	ErrDuplicateSlug   = errors.New("slug already exists")
	ErrVariantNotFound = errors.New("variant not found")
	ErrImageNotFound   = errors.New("image not found")
)

// Category is a flat jewelry category: rings, necklaces, earrings, bracelets.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	CategoryID  *int64    `json:"category_id,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Variant is one purchasable configuration of a piece: the metal, its purity
// stamp, the stone if any, and the ring/chain size.
type Variant struct {
	ID         int64     `json:"id"`
	ProductID  int64     `json:"product_id"`
	SKU        string    `json:"sku"`
	Metal      string    `json:"metal"`
	Purity     *string   `json:"purity,omitempty"`
	Stone      *string   `json:"stone,omitempty"`
	Size       *string   `json:"size,omitempty"`
	PriceCents int64     `json:"price_cents"`
	InStock    int       `json:"in_stock"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Image struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	URL       string    `json:"url"`
	Alt       *string   `json:"alt,omitempty"`
	IsPrimary bool      `json:"is_primary"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// Card is the lightweight shape storefront lists render.
type Card struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Slug            string  `json:"slug"`
	CategoryName    *string `json:"category_name,omitempty"`
	MinPriceCents   *int64  `json:"min_price_cents,omitempty"`
	PrimaryImageURL *string `json:"primary_image_url,omitempty"`
}

// Detail bundles everything the product page needs in one fetch.
type Detail struct {
	Product  Product   `json:"product"`
	Category *Category `json:"category,omitempty"`
	Variants []Variant `json:"variants"`
	Images   []Image   `json:"images"`
}

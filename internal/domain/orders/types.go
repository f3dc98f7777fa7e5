package orders

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// Status is the order lifecycle. Transitions are validated; an order never
// moves backwards and cancellation is only possible before shipment.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
}

// CanTransition reports whether from→to is a legal lifecycle step.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Order struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"user_id"`
	OrderNumber   string     `json:"order_number"`
	Status        Status     `json:"status"`
	PaymentStatus string     `json:"payment_status"`
	SubtotalCents int64      `json:"subtotal_cents"`
	ShippingCents int64      `json:"shipping_cents"`
	TotalCents    int64      `json:"total_cents"`
	CancelReason  *string    `json:"cancel_reason,omitempty"`
	ShippedAt     *time.Time `json:"shipped_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type ShippingInfo struct {
	Name       string
	Phone      string
	Address    string
	City       string
	PostalCode *string
	Country    *string
}

// Item is a priced snapshot of a cart line at checkout time. Catalog edits
// after checkout never change what the customer bought.
type Item struct {
	ID             int64   `json:"id"`
	OrderID        int64   `json:"order_id"`
	ProductID      *int64  `json:"product_id,omitempty"`
	VariantID      *int64  `json:"variant_id,omitempty"`
	ProductName    string  `json:"product_name"`
	SKU            string  `json:"sku"`
	Metal          string  `json:"metal"`
	Size           *string `json:"size,omitempty"`
	Quantity       int     `json:"quantity"`
	UnitPriceCents int64   `json:"unit_price_cents"`
	TotalCents     int64   `json:"total_cents"`
}

type Detail struct {
	Order Order  `json:"order"`
	Items []Item `json:"items"`
}

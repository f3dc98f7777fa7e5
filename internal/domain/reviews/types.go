package reviews

import (
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("review not found")
	ErrAlreadyExists = errors.New("user already reviewed this product")
)

type Review struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	UserID    int64     `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Joined for display
	UserName  string  `json:"user_name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// Stats is the aggregate the product page shows beside the stars.
type Stats struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

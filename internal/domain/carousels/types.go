package carousels

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("resource not found")

// Slide is one pane of the homepage hero carousel. Slides outside their
// active window are never served to the storefront.
type Slide struct {
	ID        int64      `json:"id"`
	Headline  string     `json:"headline"`
	Subtext   *string    `json:"subtext,omitempty"`
	ImageURL  string     `json:"image_url"`
	CTALabel  *string    `json:"cta_label,omitempty"`
	CTALink   *string    `json:"cta_link,omitempty"`
	SortOrder int        `json:"sort_order"`
	IsActive  bool       `json:"is_active"`
	StartsAt  *time.Time `json:"starts_at,omitempty"`
	EndsAt    *time.Time `json:"ends_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Collection is a curated, named grouping of products ("Bridal", "Everyday
// Gold") used for merchandising pages.
type Collection struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	CoverURL    *string   `json:"cover_url,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

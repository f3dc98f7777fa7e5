package storage

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"vairanya/internal/domain/carousels"
	"vairanya/internal/domain/carts"
	"vairanya/internal/domain/dashboard"
	"vairanya/internal/domain/orders"
	"vairanya/internal/domain/products"
	"vairanya/internal/domain/reviews"
	"vairanya/internal/domain/staff"
	"vairanya/internal/domain/tasks"
	"vairanya/internal/domain/users"
)

// Storage bundles every repository behind its domain Store interface so
// handlers never touch the pool directly.
type Storage struct {
	Users     users.Store
	Staff     staff.Store
	Products  products.Store
	Carousels carousels.Store
	Reviews   reviews.Store
	Carts     carts.Store
	Orders    orders.Store
	Tasks     tasks.Store
	Dashboard dashboard.Store
}

func New(db *pgxpool.Pool, orderNumbers *orders.NumberGenerator) Storage {
	return Storage{
		Users:     users.NewRepository(db),
		Staff:     staff.NewRepository(db),
		Products:  products.NewRepository(db),
		Carousels: carousels.NewRepository(db),
		Reviews:   reviews.NewRepository(db),
		Carts:     carts.NewRepository(db),
		Orders:    orders.NewRepository(db, orderNumbers),
		Tasks:     tasks.NewRepository(db),
		Dashboard: dashboard.NewRepository(db),
	}
}

package dashboard

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Overview is the admin landing page aggregate.
type Overview struct {
	Customers      int   `json:"customers"`
	Products       int   `json:"products"`
	PendingReviews int   `json:"pending_reviews"`
	OrdersTotal    int   `json:"orders_total"`
	OrdersPending  int   `json:"orders_pending"`
	OrdersToday    int   `json:"orders_today"`
	RevenueCents   int64 `json:"revenue_cents"`
	RevenueDay     int64 `json:"revenue_today_cents"`
}

type DailySale struct {
	Day          time.Time `json:"day"`
	Orders       int       `json:"orders"`
	RevenueCents int64     `json:"revenue_cents"`
}

type Store interface {
	GetOverview(ctx context.Context) (*Overview, error)
	SalesByDay(ctx context.Context, days int) ([]DailySale, error)
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetOverview(ctx context.Context) (*Overview, error) {
	var o Overview
	err := r.db.QueryRow(ctx, `
        SELECT
            (SELECT COUNT(*) FROM users WHERE is_active = true),
            (SELECT COUNT(*) FROM products WHERE is_active = true),
            (SELECT COUNT(*) FROM reviews WHERE is_approved = false),
            (SELECT COUNT(*) FROM orders),
            (SELECT COUNT(*) FROM orders WHERE status = 'pending'),
            (SELECT COUNT(*) FROM orders WHERE created_at >= date_trunc('day', now())),
            (SELECT COALESCE(SUM(total_cents), 0) FROM orders WHERE status NOT IN ('pending', 'cancelled')),
            (SELECT COALESCE(SUM(total_cents), 0) FROM orders
             WHERE status NOT IN ('pending', 'cancelled') AND created_at >= date_trunc('day', now()))
    `).Scan(&o.Customers, &o.Products, &o.PendingReviews,
		&o.OrdersTotal, &o.OrdersPending, &o.OrdersToday,
		&o.RevenueCents, &o.RevenueDay)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// SalesByDay returns one row per calendar day for the last n days, including
// days with no orders.
func (r *Repository) SalesByDay(ctx context.Context, days int) ([]DailySale, error) {
	if days <= 0 || days > 366 {
		days = 30
	}
	rows, err := r.db.Query(ctx, `
        SELECT d.day,
               COUNT(o.id),
               COALESCE(SUM(o.total_cents), 0)
        FROM generate_series(date_trunc('day', now()) - ($1 - 1) * interval '1 day',
                             date_trunc('day', now()), interval '1 day') AS d(day)
        LEFT JOIN orders o
               ON date_trunc('day', o.created_at) = d.day
              AND o.status NOT IN ('pending', 'cancelled')
        GROUP BY d.day
        ORDER BY d.day
    `, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DailySale
	for rows.Next() {
		var s DailySale
		if err := rows.Scan(&s.Day, &s.Orders, &s.RevenueCents); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

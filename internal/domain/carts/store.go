package carts

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store interface {
	EnsureActive(ctx context.Context, userID int64) (int64, error)
	AddItem(ctx context.Context, userID, variantID int64, qty int) error
	UpdateItemQty(ctx context.Context, userID, itemID int64, qty int) error
	RemoveItem(ctx context.Context, userID, itemID int64) error
	Clear(ctx context.Context, userID int64) error
	GetView(ctx context.Context, userID int64) (*View, error)
}

type Repository struct {
	db  *pgxpool.Pool
	ttl time.Duration
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db, ttl: 7 * 24 * time.Hour}
}

// EnsureActive returns the user's live cart, creating one when absent. A
// partial unique index on (user_id) WHERE status = 'active' makes the insert
// race-safe: the loser just re-selects the winner's row.
func (r *Repository) EnsureActive(ctx context.Context, userID int64) (int64, error) {
	for attempt := 0; attempt < 2; attempt++ {
		var id int64
		err := r.db.QueryRow(ctx, `
            SELECT id FROM carts
            WHERE user_id = $1 AND status = 'active'
              AND (expires_at IS NULL OR expires_at > now())
        `, userID).Scan(&id)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return 0, err
		}

		// Expired carts must not block a new one.
		if _, err := r.db.Exec(ctx, `
            UPDATE carts SET status = 'abandoned', updated_at = now()
            WHERE user_id = $1 AND status = 'active' AND expires_at <= now()
        `, userID); err != nil {
			return 0, err
		}

		err = r.db.QueryRow(ctx, `
            INSERT INTO carts (user_id, status, expires_at)
            VALUES ($1, 'active', $2)
            ON CONFLICT DO NOTHING
            RETURNING id
        `, userID, time.Now().Add(r.ttl)).Scan(&id)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return 0, err
		}
		// Lost the insert race; loop once and pick up the winner.
	}
	return 0, errors.New("could not ensure active cart")
}

// AddItem snapshots the variant's current price; a later price change never
// rewrites a cart the customer already saw.
func (r *Repository) AddItem(ctx context.Context, userID, variantID int64, qty int) error {
	cartID, err := r.EnsureActive(ctx, userID)
	if err != nil {
		return err
	}

	var priceCents int64
	err = r.db.QueryRow(ctx, `
        SELECT price_cents FROM product_variants WHERE id = $1 AND is_active = true
    `, variantID).Scan(&priceCents)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrVariantInactive
		}
		return err
	}

	_, err = r.db.Exec(ctx, `
        INSERT INTO cart_items (cart_id, variant_id, quantity, price_cents)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (cart_id, variant_id)
        DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = now()
    `, cartID, variantID, qty, priceCents)
	if err != nil {
		return err
	}
	r.bumpTTL(ctx, cartID)
	return nil
}

func (r *Repository) UpdateItemQty(ctx context.Context, userID, itemID int64, qty int) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE cart_items ci
        SET quantity = $3, updated_at = now()
        FROM carts c
        WHERE ci.id = $2 AND ci.cart_id = c.id
          AND c.user_id = $1 AND c.status = 'active'
    `, userID, itemID, qty)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *Repository) RemoveItem(ctx context.Context, userID, itemID int64) error {
	tag, err := r.db.Exec(ctx, `
        DELETE FROM cart_items ci
        USING carts c
        WHERE ci.id = $2 AND ci.cart_id = c.id
          AND c.user_id = $1 AND c.status = 'active'
    `, userID, itemID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *Repository) Clear(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `
        DELETE FROM cart_items ci
        USING carts c
        WHERE ci.cart_id = c.id AND c.user_id = $1 AND c.status = 'active'
    `, userID)
	return err
}

func (r *Repository) GetView(ctx context.Context, userID int64) (*View, error) {
	cartID, err := r.EnsureActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	var v View
	err = r.db.QueryRow(ctx, `
        SELECT id, user_id, status, expires_at, created_at, updated_at
        FROM carts WHERE id = $1
    `, cartID).Scan(&v.Cart.ID, &v.Cart.UserID, &v.Cart.Status, &v.Cart.ExpiresAt, &v.Cart.CreatedAt, &v.Cart.UpdatedAt)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
        SELECT ci.id, p.id, pv.id, p.name, pv.sku, pv.metal, pv.size,
               ci.quantity, ci.price_cents,
               (SELECT i.url FROM product_images i WHERE i.product_id = p.id ORDER BY i.is_primary DESC, i.sort_order LIMIT 1)
        FROM cart_items ci
        JOIN product_variants pv ON pv.id = ci.variant_id
        JOIN products p ON p.id = pv.product_id
        WHERE ci.cart_id = $1
        ORDER BY ci.created_at
    `, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ItemID, &l.ProductID, &l.VariantID, &l.ProductName, &l.SKU, &l.Metal, &l.Size,
			&l.Quantity, &l.UnitPriceCents, &l.PrimaryImageURL); err != nil {
			return nil, err
		}
		l.LineTotalCents = l.UnitPriceCents * int64(l.Quantity)
		v.TotalCents += l.LineTotalCents
		v.Items = append(v.Items, l)
	}
	return &v, rows.Err()
}

func (r *Repository) bumpTTL(ctx context.Context, cartID int64) {
	_, _ = r.db.Exec(ctx, `
        UPDATE carts SET expires_at = $2, updated_at = now()
        WHERE id = $1 AND status = 'active'
    `, cartID, time.Now().Add(r.ttl))
}

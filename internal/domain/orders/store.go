package orders

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store interface {
	CreateFromCart(ctx context.Context, userID int64, ship ShippingInfo) (*Order, error)
	GetByID(ctx context.Context, id int64) (*Order, error)
	ListByUser(ctx context.Context, userID int64, status string, limit, offset int) ([]Order, int, error)
	GetDetailForUser(ctx context.Context, userID, orderID int64) (*Detail, error)

	ListAll(ctx context.Context, status string, limit, offset int) ([]Order, int, error)
	GetDetail(ctx context.Context, orderID int64) (*Detail, error)
	GetDetailByNumber(ctx context.Context, orderNumber string) (*Detail, error)
	UpdateStatus(ctx context.Context, orderID int64, to Status, cancelReason *string) error
}

type Repository struct {
	db      *pgxpool.Pool
	numbers *NumberGenerator
}

func NewRepository(db *pgxpool.Pool, numbers *NumberGenerator) *Repository {
	return &Repository{db: db, numbers: numbers}
}

const orderColumns = `id, user_id, order_number, status, payment_status, subtotal_cents, shipping_cents, total_cents, cancel_reason, shipped_at, created_at, updated_at`

// CreateFromCart converts the active cart into a pending order in one
// transaction: snapshot lines, compute totals, mark the cart converted. The
// cart is left untouched on any failure.
func (r *Repository) CreateFromCart(ctx context.Context, userID int64, ship ShippingInfo) (*Order, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var cartID int64
	err = tx.QueryRow(ctx, `
        SELECT id FROM carts
        WHERE user_id = $1 AND status = 'active'
          AND (expires_at IS NULL OR expires_at > now())
        FOR UPDATE
    `, userID).Scan(&cartID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEmptyCart
		}
		return nil, err
	}

	rows, err := tx.Query(ctx, `
        SELECT p.id, pv.id, p.name, pv.sku, pv.metal, pv.size, ci.quantity, ci.price_cents
        FROM cart_items ci
        JOIN product_variants pv ON pv.id = ci.variant_id
        JOIN products p ON p.id = pv.product_id
        WHERE ci.cart_id = $1
    `, cartID)
	if err != nil {
		return nil, err
	}

	var items []Item
	var subtotal int64
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ProductID, &it.VariantID, &it.ProductName, &it.SKU, &it.Metal, &it.Size,
			&it.Quantity, &it.UnitPriceCents); err != nil {
			rows.Close()
			return nil, err
		}
		it.TotalCents = it.UnitPriceCents * int64(it.Quantity)
		subtotal += it.TotalCents
		items = append(items, it)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	const shippingCents = 0 // flat free shipping for now
	order := Order{
		UserID:        userID,
		Status:        StatusPending,
		PaymentStatus: "unpaid",
		SubtotalCents: subtotal,
		ShippingCents: shippingCents,
		TotalCents:    subtotal + shippingCents,
	}

	err = tx.QueryRow(ctx, `
        INSERT INTO orders (user_id, order_number, status, payment_status,
                            subtotal_cents, shipping_cents, total_cents,
                            ship_name, ship_phone, ship_address, ship_city, ship_postal_code, ship_country)
        VALUES ($1, '', $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING id, created_at, updated_at
    `, order.UserID, order.Status, order.PaymentStatus,
		order.SubtotalCents, order.ShippingCents, order.TotalCents,
		ship.Name, ship.Phone, ship.Address, ship.City, ship.PostalCode, ship.Country).
		Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}

	order.OrderNumber, err = r.numbers.Generate(order.ID)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `UPDATE orders SET order_number = $2 WHERE id = $1`, order.ID, order.OrderNumber); err != nil {
		return nil, err
	}

	for _, it := range items {
		if _, err := tx.Exec(ctx, `
            INSERT INTO order_items (order_id, product_id, variant_id, product_name, sku, metal, size,
                                     quantity, unit_price_cents, total_cents)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        `, order.ID, it.ProductID, it.VariantID, it.ProductName, it.SKU, it.Metal, it.Size,
			it.Quantity, it.UnitPriceCents, it.TotalCents); err != nil {
			return nil, err
		}
	}

	if _, err := tx.Exec(ctx, `
        UPDATE carts SET status = 'converted', updated_at = now() WHERE id = $1
    `, cartID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Order, error) {
	return r.scanOne(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
}

func (r *Repository) scanOne(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.UserID, &o.OrderNumber, &o.Status, &o.PaymentStatus,
		&o.SubtotalCents, &o.ShippingCents, &o.TotalCents, &o.CancelReason, &o.ShippedAt,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID int64, status string, limit, offset int) ([]Order, int, error) {
	query := `
        SELECT ` + orderColumns + `, COUNT(*) OVER() AS total
        FROM orders
        WHERE user_id = $1 AND ($2 = '' OR status = $2)
        ORDER BY created_at DESC
        LIMIT $3 OFFSET $4
    `
	return r.queryOrders(ctx, query, userID, status, limit, offset)
}

func (r *Repository) ListAll(ctx context.Context, status string, limit, offset int) ([]Order, int, error) {
	query := `
        SELECT ` + orderColumns + `, COUNT(*) OVER() AS total
        FROM orders
        WHERE ($1 = '' OR status = $1)
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3
    `
	return r.queryOrders(ctx, query, status, limit, offset)
}

func (r *Repository) queryOrders(ctx context.Context, query string, args ...any) ([]Order, int, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Order
	var total int
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.OrderNumber, &o.Status, &o.PaymentStatus,
			&o.SubtotalCents, &o.ShippingCents, &o.TotalCents, &o.CancelReason, &o.ShippedAt,
			&o.CreatedAt, &o.UpdatedAt, &total); err != nil {
			return nil, 0, err
		}
		out = append(out, o)
	}
	return out, total, rows.Err()
}

func (r *Repository) GetDetailForUser(ctx context.Context, userID, orderID int64) (*Detail, error) {
	o, err := r.scanOne(r.db.QueryRow(ctx, `
        SELECT `+orderColumns+` FROM orders WHERE id = $1 AND user_id = $2
    `, orderID, userID))
	if err != nil {
		return nil, err
	}
	return r.withItems(ctx, o)
}

func (r *Repository) GetDetail(ctx context.Context, orderID int64) (*Detail, error) {
	o, err := r.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return r.withItems(ctx, o)
}

// GetDetailByNumber resolves a customer-facing order number. The number's
// HMAC tag is checked before the database is touched, so forged or mistyped
// numbers answer not-found without a query.
func (r *Repository) GetDetailByNumber(ctx context.Context, orderNumber string) (*Detail, error) {
	id, ok := r.numbers.Decode(orderNumber)
	if !ok {
		return nil, ErrNotFound
	}
	return r.GetDetail(ctx, id)
}

func (r *Repository) withItems(ctx context.Context, o *Order) (*Detail, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, order_id, product_id, variant_id, product_name, sku, metal, size,
               quantity, unit_price_cents, total_cents
        FROM order_items
        WHERE order_id = $1
        ORDER BY id
    `, o.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	d := Detail{Order: *o}
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.VariantID, &it.ProductName,
			&it.SKU, &it.Metal, &it.Size, &it.Quantity, &it.UnitPriceCents, &it.TotalCents); err != nil {
			return nil, err
		}
		d.Items = append(d.Items, it)
	}
	return &d, rows.Err()
}

// UpdateStatus applies a lifecycle step after validating it against the
// current row under lock.
func (r *Repository) UpdateStatus(ctx context.Context, orderID int64, to Status, cancelReason *string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var from Status
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, orderID).Scan(&from)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if !CanTransition(from, to) {
		return ErrInvalidTransition
	}

	query := `UPDATE orders SET status = $2, cancel_reason = $3, updated_at = now()`
	if to == StatusShipped {
		query += `, shipped_at = now()`
	}
	query += ` WHERE id = $1`

	if _, err := tx.Exec(ctx, query, orderID, to, cancelReason); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

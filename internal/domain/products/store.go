package products

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store interface {
	// Categories
	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, c *Category) error
	UpdateCategory(ctx context.Context, c *Category) error
	DeleteCategory(ctx context.Context, id int64) error

	// Products
	CreateProduct(ctx context.Context, p *Product) error
	UpdateProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, id int64) error
	GetProductByID(ctx context.Context, id int64) (*Product, error)
	GetDetailBySlug(ctx context.Context, slug string) (*Detail, error)
	ListCards(ctx context.Context, categorySlug, search string, limit, offset int) ([]Card, int, error)

	// Variants
	CreateVariant(ctx context.Context, v *Variant) error
	UpdateVariant(ctx context.Context, v *Variant) error
	DeleteVariant(ctx context.Context, id int64) error
	GetVariantByID(ctx context.Context, id int64) (*Variant, error)

	// Images
	AddImage(ctx context.Context, img *Image) error
	RemoveImage(ctx context.Context, productID int64, url string) (bool, error)
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

func (r *Repository) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, name, slug, is_active, created_at
        FROM categories
        WHERE is_active = true
        ORDER BY name
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (r *Repository) CreateCategory(ctx context.Context, c *Category) error {
	err := r.db.QueryRow(ctx, `
        INSERT INTO categories (name, slug, is_active)
        VALUES ($1, $2, true)
        RETURNING id, created_at
    `, c.Name, c.Slug).Scan(&c.ID, &c.CreatedAt)
	return uniqueOr(err)
}

func (r *Repository) UpdateCategory(ctx context.Context, c *Category) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE categories SET name = $2, slug = $3, is_active = $4 WHERE id = $1
    `, c.ID, c.Name, c.Slug, c.IsActive)
	if err != nil {
		return uniqueOr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCategory soft deletes so existing products keep a valid reference.
func (r *Repository) DeleteCategory(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE categories SET is_active = false WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) CreateProduct(ctx context.Context, p *Product) error {
	err := r.db.QueryRow(ctx, `
        INSERT INTO products (name, slug, description, category_id, is_active)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at
    `, p.Name, p.Slug, p.Description, p.CategoryID, p.IsActive).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return uniqueOr(err)
}

func (r *Repository) UpdateProduct(ctx context.Context, p *Product) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE products
        SET name = $2, slug = $3, description = $4, category_id = $5, is_active = $6, updated_at = now()
        WHERE id = $1
    `, p.ID, p.Name, p.Slug, p.Description, p.CategoryID, p.IsActive)
	if err != nil {
		return uniqueOr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteProduct(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) GetProductByID(ctx context.Context, id int64) (*Product, error) {
	var p Product
	err := r.db.QueryRow(ctx, `
        SELECT id, name, slug, description, category_id, is_active, created_at, updated_at
        FROM products WHERE id = $1
    `, id).Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.CategoryID, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repository) GetDetailBySlug(ctx context.Context, slug string) (*Detail, error) {
	var d Detail
	err := r.db.QueryRow(ctx, `
        SELECT id, name, slug, description, category_id, is_active, created_at, updated_at
        FROM products WHERE slug = $1 AND is_active = true
    `, slug).Scan(
		&d.Product.ID, &d.Product.Name, &d.Product.Slug, &d.Product.Description,
		&d.Product.CategoryID, &d.Product.IsActive, &d.Product.CreatedAt, &d.Product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if d.Product.CategoryID != nil {
		var c Category
		err = r.db.QueryRow(ctx, `
            SELECT id, name, slug, is_active, created_at FROM categories WHERE id = $1
        `, *d.Product.CategoryID).Scan(&c.ID, &c.Name, &c.Slug, &c.IsActive, &c.CreatedAt)
		if err == nil {
			d.Category = &c
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}

	vrows, err := r.db.Query(ctx, `
        SELECT id, product_id, sku, metal, purity, stone, size, price_cents, in_stock, is_active, created_at, updated_at
        FROM product_variants
        WHERE product_id = $1 AND is_active = true
        ORDER BY price_cents
    `, d.Product.ID)
	if err != nil {
		return nil, err
	}
	defer vrows.Close()
	for vrows.Next() {
		var v Variant
		if err := vrows.Scan(&v.ID, &v.ProductID, &v.SKU, &v.Metal, &v.Purity, &v.Stone, &v.Size,
			&v.PriceCents, &v.InStock, &v.IsActive, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		d.Variants = append(d.Variants, v)
	}
	if err := vrows.Err(); err != nil {
		return nil, err
	}

	irows, err := r.db.Query(ctx, `
        SELECT id, product_id, url, alt, is_primary, sort_order, created_at
        FROM product_images
        WHERE product_id = $1
        ORDER BY is_primary DESC, sort_order
    `, d.Product.ID)
	if err != nil {
		return nil, err
	}
	defer irows.Close()
	for irows.Next() {
		var img Image
		if err := irows.Scan(&img.ID, &img.ProductID, &img.URL, &img.Alt, &img.IsPrimary, &img.SortOrder, &img.CreatedAt); err != nil {
			return nil, err
		}
		d.Images = append(d.Images, img)
	}
	return &d, irows.Err()
}

func (r *Repository) ListCards(ctx context.Context, categorySlug, search string, limit, offset int) ([]Card, int, error) {
	query := `
        SELECT p.id, p.name, p.slug, c.name,
               (SELECT MIN(v.price_cents) FROM product_variants v WHERE v.product_id = p.id AND v.is_active),
               (SELECT i.url FROM product_images i WHERE i.product_id = p.id ORDER BY i.is_primary DESC, i.sort_order LIMIT 1),
               COUNT(*) OVER() AS total
        FROM products p
        LEFT JOIN categories c ON c.id = p.category_id
        WHERE p.is_active = true
          AND ($1 = '' OR c.slug = $1)
          AND ($2 = '' OR p.name ILIKE '%' || $2 || '%')
        ORDER BY p.created_at DESC
        LIMIT $3 OFFSET $4
    `
	rows, err := r.db.Query(ctx, query, categorySlug, search, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var cards []Card
	var total int
	for rows.Next() {
		var card Card
		if err := rows.Scan(&card.ID, &card.Name, &card.Slug, &card.CategoryName,
			&card.MinPriceCents, &card.PrimaryImageURL, &total); err != nil {
			return nil, 0, err
		}
		cards = append(cards, card)
	}
	return cards, total, rows.Err()
}

func (r *Repository) CreateVariant(ctx context.Context, v *Variant) error {
	err := r.db.QueryRow(ctx, `
        INSERT INTO product_variants (product_id, sku, metal, purity, stone, size, price_cents, in_stock, is_active)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at, updated_at
    `, v.ProductID, v.SKU, v.Metal, v.Purity, v.Stone, v.Size, v.PriceCents, v.InStock, v.IsActive).
		Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	return uniqueOr(err)
}

func (r *Repository) UpdateVariant(ctx context.Context, v *Variant) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE product_variants
        SET sku = $2, metal = $3, purity = $4, stone = $5, size = $6,
            price_cents = $7, in_stock = $8, is_active = $9, updated_at = now()
        WHERE id = $1
    `, v.ID, v.SKU, v.Metal, v.Purity, v.Stone, v.Size, v.PriceCents, v.InStock, v.IsActive)
	if err != nil {
		return uniqueOr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrVariantNotFound
	}
	return nil
}

func (r *Repository) DeleteVariant(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM product_variants WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrVariantNotFound
	}
	return nil
}

func (r *Repository) GetVariantByID(ctx context.Context, id int64) (*Variant, error) {
	var v Variant
	err := r.db.QueryRow(ctx, `
        SELECT id, product_id, sku, metal, purity, stone, size, price_cents, in_stock, is_active, created_at, updated_at
        FROM product_variants WHERE id = $1
    `, id).Scan(&v.ID, &v.ProductID, &v.SKU, &v.Metal, &v.Purity, &v.Stone, &v.Size,
		&v.PriceCents, &v.InStock, &v.IsActive, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVariantNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *Repository) AddImage(ctx context.Context, img *Image) error {
	return r.db.QueryRow(ctx, `
        INSERT INTO product_images (product_id, url, alt, is_primary, sort_order)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at
    `, img.ProductID, img.URL, img.Alt, img.IsPrimary, img.SortOrder).
		Scan(&img.ID, &img.CreatedAt)
}

func (r *Repository) RemoveImage(ctx context.Context, productID int64, url string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
        DELETE FROM product_images WHERE product_id = $1 AND url = $2
    `, productID, url)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func uniqueOr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateSlug
	}
	return err
}

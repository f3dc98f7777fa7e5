package carousels

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store interface {
	// Slides
	ListActiveSlides(ctx context.Context) ([]Slide, error)
	ListAllSlides(ctx context.Context) ([]Slide, error)
	CreateSlide(ctx context.Context, s *Slide) error
	UpdateSlide(ctx context.Context, s *Slide) error
	DeleteSlide(ctx context.Context, id int64) error

	// Collections
	ListCollections(ctx context.Context, activeOnly bool) ([]Collection, error)
	GetCollectionBySlug(ctx context.Context, slug string) (*Collection, error)
	CreateCollection(ctx context.Context, c *Collection) error
	UpdateCollection(ctx context.Context, c *Collection) error
	DeleteCollection(ctx context.Context, id int64) error
	SetCollectionProducts(ctx context.Context, collectionID int64, productIDs []int64) error
	ListCollectionProductIDs(ctx context.Context, collectionID int64) ([]int64, error)
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

const slideColumns = `id, headline, subtext, image_url, cta_label, cta_link, sort_order, is_active, starts_at, ends_at, created_at, updated_at`

func (r *Repository) ListActiveSlides(ctx context.Context) ([]Slide, error) {
	query := `
        SELECT ` + slideColumns + `
        FROM carousel_slides
        WHERE is_active = true
          AND (starts_at IS NULL OR starts_at <= now())
          AND (ends_at IS NULL OR ends_at > now())
        ORDER BY sort_order
    `
	return r.querySlides(ctx, query)
}

func (r *Repository) ListAllSlides(ctx context.Context) ([]Slide, error) {
	return r.querySlides(ctx, `SELECT `+slideColumns+` FROM carousel_slides ORDER BY sort_order`)
}

func (r *Repository) querySlides(ctx context.Context, query string) ([]Slide, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slides []Slide
	for rows.Next() {
		var s Slide
		if err := rows.Scan(&s.ID, &s.Headline, &s.Subtext, &s.ImageURL, &s.CTALabel, &s.CTALink,
			&s.SortOrder, &s.IsActive, &s.StartsAt, &s.EndsAt, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		slides = append(slides, s)
	}
	return slides, rows.Err()
}

func (r *Repository) CreateSlide(ctx context.Context, s *Slide) error {
	return r.db.QueryRow(ctx, `
        INSERT INTO carousel_slides (headline, subtext, image_url, cta_label, cta_link, sort_order, is_active, starts_at, ends_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at, updated_at
    `, s.Headline, s.Subtext, s.ImageURL, s.CTALabel, s.CTALink, s.SortOrder, s.IsActive, s.StartsAt, s.EndsAt).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *Repository) UpdateSlide(ctx context.Context, s *Slide) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE carousel_slides
        SET headline = $2, subtext = $3, image_url = $4, cta_label = $5, cta_link = $6,
            sort_order = $7, is_active = $8, starts_at = $9, ends_at = $10, updated_at = now()
        WHERE id = $1
    `, s.ID, s.Headline, s.Subtext, s.ImageURL, s.CTALabel, s.CTALink, s.SortOrder, s.IsActive, s.StartsAt, s.EndsAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteSlide(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM carousel_slides WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const collectionColumns = `id, name, slug, description, cover_url, is_active, created_at, updated_at`

func (r *Repository) ListCollections(ctx context.Context, activeOnly bool) ([]Collection, error) {
	query := `SELECT ` + collectionColumns + ` FROM collections`
	if activeOnly {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []Collection
	for rows.Next() {
		var c Collection
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CoverURL, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

func (r *Repository) GetCollectionBySlug(ctx context.Context, slug string) (*Collection, error) {
	var c Collection
	err := r.db.QueryRow(ctx, `
        SELECT `+collectionColumns+` FROM collections WHERE slug = $1 AND is_active = true
    `, slug).Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CoverURL, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repository) CreateCollection(ctx context.Context, c *Collection) error {
	return r.db.QueryRow(ctx, `
        INSERT INTO collections (name, slug, description, cover_url, is_active)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at
    `, c.Name, c.Slug, c.Description, c.CoverURL, c.IsActive).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *Repository) UpdateCollection(ctx context.Context, c *Collection) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE collections
        SET name = $2, slug = $3, description = $4, cover_url = $5, is_active = $6, updated_at = now()
        WHERE id = $1
    `, c.ID, c.Name, c.Slug, c.Description, c.CoverURL, c.IsActive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteCollection(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM collections WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetCollectionProducts replaces the collection's membership wholesale. The
// admin UI always submits the full list, so diffing is not worth the code.
func (r *Repository) SetCollectionProducts(ctx context.Context, collectionID int64, productIDs []int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM collection_products WHERE collection_id = $1`, collectionID); err != nil {
		return err
	}
	for i, pid := range productIDs {
		if _, err := tx.Exec(ctx, `
            INSERT INTO collection_products (collection_id, product_id, sort_order)
            VALUES ($1, $2, $3)
        `, collectionID, pid, i); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *Repository) ListCollectionProductIDs(ctx context.Context, collectionID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx, `
        SELECT product_id FROM collection_products
        WHERE collection_id = $1
        ORDER BY sort_order
    `, collectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

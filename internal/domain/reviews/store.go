package reviews

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store interface {
	Create(ctx context.Context, review *Review) error
	ListForProduct(ctx context.Context, productID int64, limit, offset int) ([]Review, int, error)
	ListPending(ctx context.Context, limit, offset int) ([]Review, int, error)
	GetStats(ctx context.Context, productID int64) (Stats, error)
	Delete(ctx context.Context, reviewID, userID int64) error
	SetApproved(ctx context.Context, reviewID int64, approved bool) error
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, review *Review) error {
	query := `
        INSERT INTO product_reviews (product_id, user_id, rating, comment, approved)
        VALUES ($1, $2, $3, $4, false)
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		review.ProductID,
		review.UserID,
		review.Rating,
		review.Comment,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repository) ListForProduct(ctx context.Context, productID int64, limit, offset int) ([]Review, int, error) {
	query := `
        SELECT pr.id, pr.product_id, pr.user_id, pr.rating, pr.comment, pr.approved,
               pr.created_at, pr.updated_at, u.first_name, u.avatar_url,
               COUNT(*) OVER() AS total
        FROM product_reviews pr
        JOIN users u ON u.id = pr.user_id
        WHERE pr.product_id = $1 AND pr.approved = true
        ORDER BY pr.created_at DESC
        LIMIT $2 OFFSET $3
    `
	return r.queryReviews(ctx, query, productID, limit, offset)
}

func (r *Repository) ListPending(ctx context.Context, limit, offset int) ([]Review, int, error) {
	query := `
        SELECT pr.id, pr.product_id, pr.user_id, pr.rating, pr.comment, pr.approved,
               pr.created_at, pr.updated_at, u.first_name, u.avatar_url,
               COUNT(*) OVER() AS total
        FROM product_reviews pr
        JOIN users u ON u.id = pr.user_id
        WHERE pr.approved = false
        ORDER BY pr.created_at
        LIMIT $1 OFFSET $2
    `
	return r.queryReviews(ctx, query, limit, offset)
}

func (r *Repository) queryReviews(ctx context.Context, query string, args ...any) ([]Review, int, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Review
	var total int
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.Approved,
			&rv.CreatedAt, &rv.UpdatedAt, &rv.UserName, &rv.AvatarURL, &total); err != nil {
			return nil, 0, err
		}
		out = append(out, rv)
	}
	return out, total, rows.Err()
}

func (r *Repository) GetStats(ctx context.Context, productID int64) (Stats, error) {
	var s Stats
	err := r.db.QueryRow(ctx, `
        SELECT COUNT(*), COALESCE(AVG(rating), 0)
        FROM product_reviews
        WHERE product_id = $1 AND approved = true
    `, productID).Scan(&s.Count, &s.Average)
	return s, err
}

// Delete removes the user's own review. userID 0 skips the ownership check
// for admin moderation.
func (r *Repository) Delete(ctx context.Context, reviewID, userID int64) error {
	query := `DELETE FROM product_reviews WHERE id = $1 AND ($2 = 0 OR user_id = $2)`
	tag, err := r.db.Exec(ctx, query, reviewID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) SetApproved(ctx context.Context, reviewID int64, approved bool) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE product_reviews SET approved = $2, updated_at = now() WHERE id = $1
    `, reviewID, approved)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

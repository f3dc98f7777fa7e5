package users

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store interface {
	CreateAndInvite(ctx context.Context, user *User, hashedToken string, exp time.Duration) error
	Activate(ctx context.Context, hashedToken string) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, id int64, firstName, lastName string) error
	SetAvatar(ctx context.Context, id int64, url string) error
	SetRefreshToken(ctx context.Context, id int64, token string) error
	GetRefreshToken(ctx context.Context, id int64) (string, error)
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

// CreateAndInvite inserts the user inactive plus an invitation row in one
// transaction, so an activation token never points at a missing user.
func (r *Repository) CreateAndInvite(ctx context.Context, user *User, hashedToken string, exp time.Duration) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
        INSERT INTO users (first_name, last_name, email, password_hash, is_active)
        VALUES ($1, $2, $3, $4, false)
        RETURNING id, created_at, updated_at
    `
	err = tx.QueryRow(ctx, query,
		user.FirstName,
		user.LastName,
		user.Email,
		user.Password.hash,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return err
	}

	_, err = tx.Exec(ctx, `
        INSERT INTO user_invitations (token, user_id, expires_at)
        VALUES ($1, $2, $3)
    `, hashedToken, user.ID, time.Now().Add(exp))
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Activate flips the invited user active and burns the invitation.
func (r *Repository) Activate(ctx context.Context, hashedToken string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var userID int64
	err = tx.QueryRow(ctx, `
        SELECT user_id FROM user_invitations
        WHERE token = $1 AND expires_at > now()
    `, hashedToken).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if _, err := tx.Exec(ctx, `UPDATE users SET is_active = true, updated_at = now() WHERE id = $1`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM user_invitations WHERE user_id = $1`, userID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	query := `
        SELECT id, first_name, last_name, email, password_hash, avatar_url, is_active, created_at, updated_at
        FROM users
        WHERE id = $1 AND is_active = true
    `
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `
        SELECT id, first_name, last_name, email, password_hash, avatar_url, is_active, created_at, updated_at
        FROM users
        WHERE email = $1 AND is_active = true
    `
	return r.scanOne(r.db.QueryRow(ctx, query, email))
}

func (r *Repository) scanOne(row pgx.Row) (*User, error) {
	var user User
	err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.Password.hash,
		&user.AvatarURL,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) UpdateProfile(ctx context.Context, id int64, firstName, lastName string) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE users SET first_name = $2, last_name = $3, updated_at = now()
        WHERE id = $1
    `, id, firstName, lastName)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) SetAvatar(ctx context.Context, id int64, url string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET avatar_url = $2, updated_at = now() WHERE id = $1`, id, url)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) SetRefreshToken(ctx context.Context, id int64, token string) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET refresh_token = $2, updated_at = now() WHERE id = $1`, id, token)
	return err
}

func (r *Repository) GetRefreshToken(ctx context.Context, id int64) (string, error) {
	var token string
	err := r.db.QueryRow(ctx, `SELECT COALESCE(refresh_token, '') FROM users WHERE id = $1`, id).Scan(&token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return token, nil
}

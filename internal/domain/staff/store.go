package staff

import (
	"context"
	"errors"

	"vairanya/internal/session"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store interface {
	GetBySubject(ctx context.Context, subjectID string) (*Member, error)
	GetByID(ctx context.Context, id int64) (*Member, error)
	List(ctx context.Context, limit, offset int) ([]Member, int, error)
	Add(ctx context.Context, m *Member) error
	SetRole(ctx context.Context, id int64, role session.Role) error
	Deactivate(ctx context.Context, id int64) error
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

func (r *Repository) GetBySubject(ctx context.Context, subjectID string) (*Member, error) {
	query := `
        SELECT id, subject_id, display_name, role, is_active, created_at, updated_at
        FROM staff_members
        WHERE subject_id = $1 AND is_active = true
    `
	var m Member
	var role string
	err := r.db.QueryRow(ctx, query, subjectID).Scan(
		&m.ID,
		&m.SubjectID,
		&m.DisplayName,
		&role,
		&m.IsActive,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	parsed, ok := session.ParseRole(role)
	if !ok {
		// A row with a role the application no longer knows must not grant
		// back-office access.
		return nil, ErrNotFound
	}
	m.Role = parsed
	return &m, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Member, error) {
	query := `
        SELECT id, subject_id, display_name, role, is_active, created_at, updated_at
        FROM staff_members
        WHERE id = $1
    `
	var m Member
	var role string
	err := r.db.QueryRow(ctx, query, id).Scan(
		&m.ID,
		&m.SubjectID,
		&m.DisplayName,
		&role,
		&m.IsActive,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	m.Role, _ = session.ParseRole(role)
	return &m, nil
}

func (r *Repository) List(ctx context.Context, limit, offset int) ([]Member, int, error) {
	query := `
        SELECT id, subject_id, display_name, role, is_active, created_at, updated_at,
               COUNT(*) OVER() AS total
        FROM staff_members
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2
    `
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var members []Member
	var total int
	for rows.Next() {
		var m Member
		var role string
		if err := rows.Scan(&m.ID, &m.SubjectID, &m.DisplayName, &role, &m.IsActive, &m.CreatedAt, &m.UpdatedAt, &total); err != nil {
			return nil, 0, err
		}
		m.Role, _ = session.ParseRole(role)
		members = append(members, m)
	}
	return members, total, rows.Err()
}

func (r *Repository) Add(ctx context.Context, m *Member) error {
	query := `
        INSERT INTO staff_members (subject_id, display_name, role, is_active)
        VALUES ($1, $2, $3, true)
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query, m.SubjectID, m.DisplayName, string(m.Role)).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicate
		}
		return err
	}
	m.IsActive = true
	return nil
}

func (r *Repository) SetRole(ctx context.Context, id int64, role session.Role) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE staff_members SET role = $2, updated_at = now() WHERE id = $1
    `, id, string(role))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Deactivate(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE staff_members SET is_active = false, updated_at = now() WHERE id = $1
    `, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

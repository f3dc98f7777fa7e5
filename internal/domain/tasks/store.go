package tasks

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store interface {
	SpawnForOrder(ctx context.Context, orderID int64, kinds []string) error
	List(ctx context.Context, status Status, limit, offset int) ([]Task, int, error)
	ListMine(ctx context.Context, workerID int64, limit, offset int) ([]Task, int, error)
	Claim(ctx context.Context, taskID, workerID int64) (*Task, error)
	Release(ctx context.Context, taskID, workerID int64) error
	Complete(ctx context.Context, taskID, workerID int64) error
	Summarize(ctx context.Context, workerID int64) (*Summary, error)
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const taskColumns = `t.id, t.order_id, o.order_number, t.kind, t.status, t.claimed_by, t.claimed_at, t.done_at, t.created_at`

func (r *Repository) SpawnForOrder(ctx context.Context, orderID int64, kinds []string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, kind := range kinds {
		if _, err := tx.Exec(ctx, `
            INSERT INTO fulfillment_tasks (order_id, kind, status)
            VALUES ($1, $2, 'open')
            ON CONFLICT (order_id, kind) DO NOTHING
        `, orderID, kind); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *Repository) List(ctx context.Context, status Status, limit, offset int) ([]Task, int, error) {
	query := `
        SELECT ` + taskColumns + `, COUNT(*) OVER() AS total
        FROM fulfillment_tasks t
        JOIN orders o ON o.id = t.order_id
        WHERE ($1 = '' OR t.status = $1)
        ORDER BY t.created_at ASC
        LIMIT $2 OFFSET $3
    `
	return r.queryTasks(ctx, query, string(status), limit, offset)
}

func (r *Repository) ListMine(ctx context.Context, workerID int64, limit, offset int) ([]Task, int, error) {
	query := `
        SELECT ` + taskColumns + `, COUNT(*) OVER() AS total
        FROM fulfillment_tasks t
        JOIN orders o ON o.id = t.order_id
        WHERE t.claimed_by = $1 AND t.status = 'claimed'
        ORDER BY t.claimed_at ASC
        LIMIT $2 OFFSET $3
    `
	return r.queryTasks(ctx, query, workerID, limit, offset)
}

func (r *Repository) queryTasks(ctx context.Context, query string, args ...any) ([]Task, int, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Task
	var total int
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.OrderID, &t.OrderNumber, &t.Kind, &t.Status,
			&t.ClaimedBy, &t.ClaimedAt, &t.DoneAt, &t.CreatedAt, &total); err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}

// Claim is first writer wins. A task someone else grabbed between list and
// claim comes back as ErrTaken rather than ErrNotFound.
func (r *Repository) Claim(ctx context.Context, taskID, workerID int64) (*Task, error) {
	var t Task
	err := r.db.QueryRow(ctx, `
        UPDATE fulfillment_tasks t
        SET status = 'claimed', claimed_by = $2, claimed_at = now()
        FROM orders o
        WHERE t.id = $1 AND t.status = 'open' AND o.id = t.order_id
        RETURNING `+taskColumns+`
    `, taskID, workerID).Scan(&t.ID, &t.OrderID, &t.OrderNumber, &t.Kind, &t.Status,
		&t.ClaimedBy, &t.ClaimedAt, &t.DoneAt, &t.CreatedAt)
	if err == nil {
		return &t, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM fulfillment_tasks WHERE id = $1)`, taskID).Scan(&exists); err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrTaken
	}
	return nil, ErrNotFound
}

func (r *Repository) Release(ctx context.Context, taskID, workerID int64) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE fulfillment_tasks
        SET status = 'open', claimed_by = NULL, claimed_at = NULL
        WHERE id = $1 AND claimed_by = $2 AND status = 'claimed'
    `, taskID, workerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotClaimed
	}
	return nil
}

func (r *Repository) Complete(ctx context.Context, taskID, workerID int64) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE fulfillment_tasks
        SET status = 'done', done_at = now()
        WHERE id = $1 AND claimed_by = $2 AND status = 'claimed'
    `, taskID, workerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotClaimed
	}
	return nil
}

func (r *Repository) Summarize(ctx context.Context, workerID int64) (*Summary, error) {
	var s Summary
	err := r.db.QueryRow(ctx, `
        SELECT
            COUNT(*) FILTER (WHERE status = 'open'),
            COUNT(*) FILTER (WHERE status = 'claimed'),
            COUNT(*) FILTER (WHERE status = 'done' AND done_at >= date_trunc('day', now())),
            COUNT(*) FILTER (WHERE status = 'claimed' AND claimed_by = $1)
        FROM fulfillment_tasks
    `, workerID).Scan(&s.Open, &s.Claimed, &s.DoneDay, &s.Mine)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

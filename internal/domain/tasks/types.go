package tasks

import (
	"errors"
	"time"
)

var (
	ErrNotFound   = errors.New("task not found")
	ErrNotClaimed = errors.New("task is not claimed by this worker")
	ErrTaken      = errors.New("task already claimed")
)

type Status string

const (
	StatusOpen    Status = "open"
	StatusClaimed Status = "claimed"
	StatusDone    Status = "done"
)

// Task is one unit of fulfillment work, spawned when an order is confirmed.
type Task struct {
	ID          int64      `json:"id"`
	OrderID     int64      `json:"order_id"`
	OrderNumber string     `json:"order_number"`
	Kind        string     `json:"kind"`
	Status      Status     `json:"status"`
	ClaimedBy   *int64     `json:"claimed_by,omitempty"`
	ClaimedAt   *time.Time `json:"claimed_at,omitempty"`
	DoneAt      *time.Time `json:"done_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Summary feeds the worker dashboard.
type Summary struct {
	Open    int `json:"open"`
	Claimed int `json:"claimed"`
	DoneDay int `json:"done_today"`
	Mine    int `json:"mine"`
}

package task

import (
	"context"
	"time"
)

// Repository defines the interface for task persistence operations
type Repository interface {
	// Create creates a new task
	Create(ctx context.Context, t *Task) error

	// Get retrieves a task by ID
	Get(ctx context.Context, id string) (*Task, error)

	// Update updates an existing task
	Update(ctx context.Context, t *Task) error

	// ListDue retrieves unclaimed tasks due at or before the given
	// time, ordered by due time, capped at limit
	ListDue(ctx context.Context, before time.Time, limit int) ([]*Task, error)
}

package task

import (
	"context"
	"time"

	ierr "github.com/anchorbill/anchorbill/internal/errors"
	"github.com/anchorbill/anchorbill/internal/types"
)

// TaskData is the opaque payload a task carries. For charge tasks it
// names the subscription to bill.
type TaskData struct {
	SubscriptionID string `json:"subscription_id"`
}

// Task is one unit of scheduled billing work. The scheduler claims a
// due task by persisting StartedAt before any side-effecting work and
// retires it by setting EndedAt, recording any failure on Error.
type Task struct {
	ID        string         `json:"id"`
	TaskType  types.TaskType `json:"task_type"`
	ExecuteAt time.Time      `json:"execute_at"`
	StartedAt *time.Time     `json:"started_at,omitempty"`
	EndedAt   *time.Time     `json:"ended_at,omitempty"`
	Error     *string        `json:"error,omitempty"`
	Data      TaskData       `json:"data"`

	types.BaseModel
}

// NewChargeSubscriptionTask creates a charge task due at executeAt.
func NewChargeSubscriptionTask(ctx context.Context, subscriptionID string, executeAt time.Time) (*Task, error) {
	if subscriptionID == "" {
		return nil, ierr.NewError("subscription id is required").
			WithHint("A charge task must reference a subscription").
			Mark(ierr.ErrValidation)
	}

	return &Task{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TASK),
		TaskType:  types.TaskTypeChargeSubscription,
		ExecuteAt: executeAt.UTC(),
		Data:      TaskData{SubscriptionID: subscriptionID},
		BaseModel: types.GetDefaultBaseModel(ctx),
	}, nil
}

// IsDue reports whether the task should be picked up at the given time.
// Claimed or completed tasks are never due again.
func (t *Task) IsDue(now time.Time) bool {
	if t.StartedAt != nil || t.EndedAt != nil {
		return false
	}
	return !t.ExecuteAt.After(now)
}

// MarkStarted claims the task. The caller persists it immediately; the
// stored StartedAt acts as the mutual-exclusion flag.
func (t *Task) MarkStarted(now time.Time) {
	at := now.UTC()
	t.StartedAt = &at
}

// MarkCompleted retires the task, recording err when the charge failed.
// A failed task is still completed: billing favors forward progress
// over halting on a single bad cycle.
func (t *Task) MarkCompleted(now time.Time, err error) {
	at := now.UTC()
	t.EndedAt = &at
	if err != nil {
		msg := err.Error()
		t.Error = &msg
	}
}

func (t *Task) Validate() error {
	if err := t.TaskType.Validate(); err != nil {
		return err
	}
	if t.ExecuteAt.IsZero() {
		return ierr.NewError("execute at is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

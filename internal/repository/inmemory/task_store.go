package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/anchorbill/anchorbill/internal/domain/task"
	ierr "github.com/anchorbill/anchorbill/internal/errors"
)

type InMemoryTaskStore struct {
	mu    sync.RWMutex
	tasks map[string]*task.Task
}

func NewInMemoryTaskStore() *InMemoryTaskStore {
	return &InMemoryTaskStore{
		tasks: make(map[string]*task.Task),
	}
}

func (s *InMemoryTaskStore) Create(ctx context.Context, t *task.Task) error {
	if t == nil {
		return ierr.NewError("task cannot be nil").Mark(ierr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tasks[t.ID]; exists {
		return ierr.NewError("task already exists").
			WithHintf("task %s already exists", t.ID).
			Mark(ierr.ErrAlreadyExists)
	}
	s.tasks[t.ID] = t
	return nil
}

func (s *InMemoryTaskStore) Get(ctx context.Context, id string) (*task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, ierr.NewError("task not found").
			WithHintf("no task with id %s", id).
			Mark(ierr.ErrNotFound)
	}
	return t, nil
}

func (s *InMemoryTaskStore) Update(ctx context.Context, t *task.Task) error {
	if t == nil {
		return ierr.NewError("task cannot be nil").Mark(ierr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[t.ID]; !ok {
		return ierr.NewError("task not found").
			WithHintf("no task with id %s", t.ID).
			Mark(ierr.ErrNotFound)
	}
	s.tasks[t.ID] = t
	return nil
}

// ListDue returns unclaimed tasks whose execute time has passed,
// oldest first, capped at limit.
func (s *InMemoryTaskStore) ListDue(ctx context.Context, before time.Time, limit int) ([]*task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var due []*task.Task
	for _, t := range s.tasks {
		if t.StartedAt == nil && !t.ExecuteAt.After(before) {
			due = append(due, t)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		return due[i].ExecuteAt.Before(due[j].ExecuteAt)
	})
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (s *InMemoryTaskStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = make(map[string]*task.Task)
}

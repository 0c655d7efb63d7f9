// Package inmemory provides map-backed repository implementations.
// Persistence proper lives behind the repository interfaces at the
// system boundary; these stores back tests and local deployments.
package inmemory

import (
	"context"
	"sync"

	"github.com/anchorbill/anchorbill/internal/domain/customer"
	ierr "github.com/anchorbill/anchorbill/internal/errors"
)

type InMemoryCustomerStore struct {
	mu        sync.RWMutex
	customers map[string]*customer.Customer
}

func NewInMemoryCustomerStore() *InMemoryCustomerStore {
	return &InMemoryCustomerStore{
		customers: make(map[string]*customer.Customer),
	}
}

func (s *InMemoryCustomerStore) Create(ctx context.Context, c *customer.Customer) error {
	if c == nil {
		return ierr.NewError("customer cannot be nil").Mark(ierr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.customers[c.ID]; exists {
		return ierr.NewError("customer already exists").
			WithHintf("customer %s already exists", c.ID).
			Mark(ierr.ErrAlreadyExists)
	}
	s.customers[c.ID] = c
	return nil
}

func (s *InMemoryCustomerStore) Get(ctx context.Context, id string) (*customer.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[id]
	if !ok {
		return nil, ierr.NewError("customer not found").
			WithHintf("no customer with id %s", id).
			Mark(ierr.ErrNotFound)
	}
	return c, nil
}

func (s *InMemoryCustomerStore) Update(ctx context.Context, c *customer.Customer) error {
	if c == nil {
		return ierr.NewError("customer cannot be nil").Mark(ierr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.customers[c.ID]; !ok {
		return ierr.NewError("customer not found").
			WithHintf("no customer with id %s", c.ID).
			Mark(ierr.ErrNotFound)
	}
	s.customers[c.ID] = c
	return nil
}

// Clear removes all customers; used between tests.
func (s *InMemoryCustomerStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = make(map[string]*customer.Customer)
}

package inmemory

import (
	"context"
	"sync"

	"github.com/anchorbill/anchorbill/internal/domain/payment"
	ierr "github.com/anchorbill/anchorbill/internal/errors"
)

type InMemoryPaymentStore struct {
	mu       sync.RWMutex
	payments map[string]*payment.Payment
}

func NewInMemoryPaymentStore() *InMemoryPaymentStore {
	return &InMemoryPaymentStore{
		payments: make(map[string]*payment.Payment),
	}
}

func (s *InMemoryPaymentStore) Create(ctx context.Context, p *payment.Payment) error {
	if p == nil {
		return ierr.NewError("payment cannot be nil").Mark(ierr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.payments[p.ID]; exists {
		return ierr.NewError("payment already exists").
			WithHintf("payment %s already exists", p.ID).
			Mark(ierr.ErrAlreadyExists)
	}
	s.payments[p.ID] = p
	return nil
}

func (s *InMemoryPaymentStore) Get(ctx context.Context, id string) (*payment.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.payments[id]
	if !ok {
		return nil, ierr.NewError("payment not found").
			WithHintf("no payment with id %s", id).
			Mark(ierr.ErrNotFound)
	}
	return p, nil
}

func (s *InMemoryPaymentStore) Update(ctx context.Context, p *payment.Payment) error {
	if p == nil {
		return ierr.NewError("payment cannot be nil").Mark(ierr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.payments[p.ID]; !ok {
		return ierr.NewError("payment not found").
			WithHintf("no payment with id %s", p.ID).
			Mark(ierr.ErrNotFound)
	}
	s.payments[p.ID] = p
	return nil
}

func (s *InMemoryPaymentStore) GetByProviderPaymentID(ctx context.Context, providerPaymentID string) (*payment.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.payments {
		if p.ProviderPaymentID != nil && *p.ProviderPaymentID == providerPaymentID {
			return p, nil
		}
	}
	return nil, ierr.NewError("payment not found").
		WithHintf("no payment with provider payment id %s", providerPaymentID).
		Mark(ierr.ErrNotFound)
}

func (s *InMemoryPaymentStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments = make(map[string]*payment.Payment)
}

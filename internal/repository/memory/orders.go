package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/billboardhub/billboard-market/internal/domain"
	"github.com/billboardhub/billboard-market/internal/repository"
)

// OrderRepository is an in-memory repository.OrderRepository.
type OrderRepository struct {
	mu     sync.RWMutex
	orders []*domain.Order
}

// NewOrderRepository creates an empty order book.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

func (r *OrderRepository) Create(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	order.ID = uuid.NewString()
	order.CreatedAt = now
	order.UpdatedAt = now
	stored := *order
	r.orders = append(r.orders, &stored)
	return nil
}

func (r *OrderRepository) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, order := range r.orders {
		if order.ID == id {
			out := *order
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *OrderRepository) List(_ context.Context, filter repository.OrderFilter, offset, limit int) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return newestFirst(r.orders, orderMatcher(filter), offset, limit), nil
}

func (r *OrderRepository) Count(_ context.Context, filter repository.OrderFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return count(r.orders, orderMatcher(filter)), nil
}

func (r *OrderRepository) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, order := range r.orders {
		if order.ID == id {
			order.Status = status
			order.UpdatedAt = time.Now().UTC()
			out := *order
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func orderMatcher(filter repository.OrderFilter) func(*domain.Order) bool {
	return func(o *domain.Order) bool {
		return filter.UserID == "" || o.UserID == filter.UserID
	}
}

// QuoteRepository is an in-memory repository.QuoteRepository.
type QuoteRepository struct {
	mu     sync.RWMutex
	quotes map[string]*domain.Quote
}

// NewQuoteRepository creates an empty store.
func NewQuoteRepository() *QuoteRepository {
	return &QuoteRepository{quotes: make(map[string]*domain.Quote)}
}

func (r *QuoteRepository) Create(_ context.Context, quote *domain.Quote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	quote.ID = uuid.NewString()
	quote.CreatedAt = now
	quote.UpdatedAt = now
	stored := *quote
	r.quotes[quote.ID] = &stored
	return nil
}

func (r *QuoteRepository) GetByID(_ context.Context, id string) (*domain.Quote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	quote, ok := r.quotes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *quote
	return &out, nil
}

func (r *QuoteRepository) Update(_ context.Context, quote *domain.Quote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.quotes[quote.ID]
	if !ok {
		return repository.ErrNotFound
	}
	quote.CreatedAt = existing.CreatedAt
	quote.UpdatedAt = time.Now().UTC()
	stored := *quote
	r.quotes[quote.ID] = &stored
	return nil
}

var (
	_ repository.OrderRepository = (*OrderRepository)(nil)
	_ repository.QuoteRepository = (*QuoteRepository)(nil)
)

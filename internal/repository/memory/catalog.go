package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/billboardhub/billboard-market/internal/domain"
	"github.com/billboardhub/billboard-market/internal/repository"
)

// LocationRepository is an in-memory repository.LocationRepository.
type LocationRepository struct {
	mu     sync.RWMutex
	states []*domain.State
	areas  []*domain.Area
}

// NewLocationRepository creates an empty directory.
func NewLocationRepository() *LocationRepository {
	return &LocationRepository{}
}

func (r *LocationRepository) CreateState(_ context.Context, state *domain.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.states {
		if existing.Name == state.Name {
			return repository.ErrConflict
		}
	}
	now := time.Now().UTC()
	state.ID = uuid.NewString()
	state.CreatedAt = now
	state.UpdatedAt = now
	stored := *state
	r.states = append(r.states, &stored)
	return nil
}

func (r *LocationRepository) GetStateByName(_ context.Context, name string) (*domain.State, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, state := range r.states {
		if state.Name == name {
			out := *state
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *LocationRepository) ListStates(_ context.Context, offset, limit int) ([]domain.State, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return newestFirst(r.states, func(*domain.State) bool { return true }, offset, limit), nil
}

func (r *LocationRepository) CountStates(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.states)), nil
}

func (r *LocationRepository) CreateArea(_ context.Context, area *domain.Area) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	parent := false
	for _, state := range r.states {
		if state.ID == area.StateID {
			parent = true
			break
		}
	}
	if !parent {
		return repository.ErrNotFound
	}
	for _, existing := range r.areas {
		if existing.StateID == area.StateID && existing.Name == area.Name {
			return repository.ErrConflict
		}
	}
	now := time.Now().UTC()
	area.ID = uuid.NewString()
	area.CreatedAt = now
	area.UpdatedAt = now
	stored := *area
	r.areas = append(r.areas, &stored)
	return nil
}

func (r *LocationRepository) GetArea(_ context.Context, stateID, name string) (*domain.Area, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, area := range r.areas {
		if area.StateID == stateID && area.Name == name {
			out := *area
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *LocationRepository) ListAreas(_ context.Context, stateID string, offset, limit int) ([]domain.Area, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return newestFirst(r.areas, func(a *domain.Area) bool { return a.StateID == stateID }, offset, limit), nil
}

func (r *LocationRepository) CountAreas(_ context.Context, stateID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return count(r.areas, func(a *domain.Area) bool { return a.StateID == stateID }), nil
}

// ProductRepository is an in-memory repository.ProductRepository.
type ProductRepository struct {
	mu       sync.RWMutex
	products []*domain.Product
}

// NewProductRepository creates an empty catalogue.
func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

func (r *ProductRepository) Create(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	product.ID = uuid.NewString()
	product.CreatedAt = now
	product.UpdatedAt = now
	r.products = append(r.products, cloneProduct(product))
	return nil
}

func (r *ProductRepository) GetByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.index(id); i >= 0 {
		return cloneProduct(r.products[i]), nil
	}
	return nil, repository.ErrNotFound
}

func (r *ProductRepository) Update(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(product.ID)
	if i < 0 {
		return repository.ErrNotFound
	}
	product.CreatedAt = r.products[i].CreatedAt
	product.UpdatedAt = time.Now().UTC()
	r.products[i] = cloneProduct(product)
	return nil
}

func (r *ProductRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(id)
	if i < 0 {
		return repository.ErrNotFound
	}
	r.products = append(r.products[:i], r.products[i+1:]...)
	return nil
}

func (r *ProductRepository) List(_ context.Context, filter domain.ProductFilter, offset, limit int) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := newestFirst(r.products, productMatcher(filter), offset, limit)
	for i := range items {
		items[i] = *cloneProduct(&items[i])
	}
	return items, nil
}

func (r *ProductRepository) Count(_ context.Context, filter domain.ProductFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return count(r.products, productMatcher(filter)), nil
}

func (r *ProductRepository) index(id string) int {
	for i, product := range r.products {
		if product.ID == id {
			return i
		}
	}
	return -1
}

func productMatcher(filter domain.ProductFilter) func(*domain.Product) bool {
	return func(p *domain.Product) bool {
		if filter.StateID != "" && p.StateID != filter.StateID {
			return false
		}
		if filter.AreaID != "" && p.AreaID != filter.AreaID {
			return false
		}
		return true
	}
}

func cloneProduct(p *domain.Product) *domain.Product {
	out := *p
	if p.Image != nil {
		image := *p.Image
		out.Image = &image
	}
	return &out
}

// newestFirst walks records from the most recently inserted, skipping offset
// matches and returning at most limit copies.
func newestFirst[T any](records []*T, match func(*T) bool, offset, limit int) []T {
	result := []T{}
	skipped := 0
	for i := len(records) - 1; i >= 0 && len(result) < limit; i-- {
		if !match(records[i]) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		result = append(result, *records[i])
	}
	return result
}

func count[T any](records []*T, match func(*T) bool) int64 {
	var total int64
	for _, record := range records {
		if match(record) {
			total++
		}
	}
	return total
}

var (
	_ repository.LocationRepository = (*LocationRepository)(nil)
	_ repository.ProductRepository  = (*ProductRepository)(nil)
)

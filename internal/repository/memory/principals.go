// Package memory holds map-backed repositories used when no Postgres DSN is
// configured and by the service tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/billboardhub/billboard-market/internal/domain"
	"github.com/billboardhub/billboard-market/internal/repository"
)

// AdminRepository is an in-memory repository.AdminRepository.
type AdminRepository struct {
	mu     sync.RWMutex
	hasher repository.PasswordHasher
	admins map[string]*domain.Admin
}

// NewAdminRepository creates an empty store.
func NewAdminRepository(hasher repository.PasswordHasher) *AdminRepository {
	return &AdminRepository{hasher: hasher, admins: make(map[string]*domain.Admin)}
}

func (r *AdminRepository) Create(_ context.Context, admin *domain.Admin, password string) error {
	hash, err := r.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.admins {
		if existing.Email == admin.Email || existing.Username == admin.Username {
			return repository.ErrConflict
		}
	}

	now := time.Now().UTC()
	admin.ID = uuid.NewString()
	admin.PasswordHash = hash
	admin.Tokens = []string{}
	admin.CreatedAt = now
	admin.UpdatedAt = now
	r.admins[admin.ID] = cloneAdmin(admin)
	return nil
}

func (r *AdminRepository) GetByID(_ context.Context, id string) (*domain.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if admin, ok := r.admins[id]; ok {
		return cloneAdmin(admin), nil
	}
	return nil, repository.ErrNotFound
}

func (r *AdminRepository) GetByEmail(_ context.Context, email string) (*domain.Admin, error) {
	return r.find(func(a *domain.Admin) bool { return a.Email == email })
}

func (r *AdminRepository) GetByUsername(_ context.Context, username string) (*domain.Admin, error) {
	return r.find(func(a *domain.Admin) bool { return a.Username == username })
}

func (r *AdminRepository) FindByToken(_ context.Context, id, username, token string) (*domain.Admin, error) {
	return r.find(func(a *domain.Admin) bool {
		return a.ID == id && a.Username == username && slices.Contains(a.Tokens, token)
	})
}

func (r *AdminRepository) UpdateProfile(_ context.Context, id string, update domain.AdminProfileUpdate) (*domain.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	admin, ok := r.admins[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if update.Username != nil {
		for _, other := range r.admins {
			if other.ID != id && other.Username == *update.Username {
				return nil, repository.ErrConflict
			}
		}
	}
	if !update.Empty() {
		update.Apply(admin)
		admin.UpdatedAt = time.Now().UTC()
	}
	return cloneAdmin(admin), nil
}

func (r *AdminRepository) UpdatePassword(_ context.Context, id, password string) error {
	hash, err := r.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return r.mutate(id, func(a *domain.Admin) {
		a.PasswordHash = hash
		a.Tokens = []string{}
	})
}

func (r *AdminRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.admins[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.admins, id)
	return nil
}

func (r *AdminRepository) AppendToken(_ context.Context, id, token string) error {
	return r.mutate(id, func(a *domain.Admin) { a.Tokens = append(a.Tokens, token) })
}

func (r *AdminRepository) RemoveToken(_ context.Context, id, token string) error {
	return r.mutate(id, func(a *domain.Admin) { a.Tokens = removeToken(a.Tokens, token) })
}

func (r *AdminRepository) ClearTokens(_ context.Context, id string) error {
	return r.mutate(id, func(a *domain.Admin) { a.Tokens = []string{} })
}

func (r *AdminRepository) find(match func(*domain.Admin) bool) (*domain.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, admin := range r.admins {
		if match(admin) {
			return cloneAdmin(admin), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *AdminRepository) mutate(id string, fn func(*domain.Admin)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	admin, ok := r.admins[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(admin)
	admin.UpdatedAt = time.Now().UTC()
	return nil
}

func cloneAdmin(a *domain.Admin) *domain.Admin {
	out := *a
	out.Tokens = slices.Clone(a.Tokens)
	return &out
}

// UserRepository is an in-memory repository.UserRepository. Deleted users
// stay in the map flagged as soft-deleted.
type UserRepository struct {
	mu     sync.RWMutex
	hasher repository.PasswordHasher
	users  map[string]*domain.User
}

// NewUserRepository creates an empty store.
func NewUserRepository(hasher repository.PasswordHasher) *UserRepository {
	return &UserRepository{hasher: hasher, users: make(map[string]*domain.User)}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User, password string) error {
	hash, err := r.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if !existing.SoftDeleted && existing.Email == user.Email {
			return repository.ErrConflict
		}
	}

	now := time.Now().UTC()
	user.ID = uuid.NewString()
	user.PasswordHash = hash
	user.Tokens = []string{}
	user.SoftDeleted = false
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id })
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *UserRepository) FindByToken(_ context.Context, id, email, token string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool {
		return u.ID == id && u.Email == email && slices.Contains(u.Tokens, token)
	})
}

func (r *UserRepository) UpdateProfile(_ context.Context, id string, update domain.UserProfileUpdate) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok || user.SoftDeleted {
		return nil, repository.ErrNotFound
	}
	if !update.Empty() {
		update.Apply(user)
		user.UpdatedAt = time.Now().UTC()
	}
	return cloneUser(user), nil
}

func (r *UserRepository) UpdatePassword(_ context.Context, id, password string) error {
	hash, err := r.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return r.mutate(id, func(u *domain.User) {
		u.PasswordHash = hash
		u.Tokens = []string{}
	})
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	return r.mutate(id, func(u *domain.User) {
		u.SoftDeleted = true
		u.Tokens = []string{}
	})
}

func (r *UserRepository) AppendToken(_ context.Context, id, token string) error {
	return r.mutate(id, func(u *domain.User) { u.Tokens = append(u.Tokens, token) })
}

func (r *UserRepository) RemoveToken(_ context.Context, id, token string) error {
	return r.mutate(id, func(u *domain.User) { u.Tokens = removeToken(u.Tokens, token) })
}

func (r *UserRepository) ClearTokens(_ context.Context, id string) error {
	return r.mutate(id, func(u *domain.User) { u.Tokens = []string{} })
}

func (r *UserRepository) find(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if !user.SoftDeleted && match(user) {
			return cloneUser(user), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) mutate(id string, fn func(*domain.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok || user.SoftDeleted {
		return repository.ErrNotFound
	}
	fn(user)
	user.UpdatedAt = time.Now().UTC()
	return nil
}

func cloneUser(u *domain.User) *domain.User {
	out := *u
	out.Tokens = slices.Clone(u.Tokens)
	return &out
}

func removeToken(tokens []string, token string) []string {
	return slices.DeleteFunc(tokens, func(t string) bool { return t == token })
}

var (
	_ repository.AdminRepository = (*AdminRepository)(nil)
	_ repository.UserRepository  = (*UserRepository)(nil)
)

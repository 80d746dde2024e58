package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/billboardhub/billboard-market/internal/domain"
)

var (
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when an insert or update violates a uniqueness rule.
	ErrConflict = errors.New("record already exists")
)

const (
	pgUniqueViolation     = "23505"
	pgInvalidTextRepr     = "22P02"
	pgForeignKeyViolation = "23503"
)

// PasswordHasher turns a plaintext password into its stored one-way hash.
// Repositories call it right before a password is persisted.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// TokenStore mutates a principal's collection of live session tokens.
// Every method is a single atomic update of one record.
type TokenStore interface {
	AppendToken(ctx context.Context, id, token string) error
	RemoveToken(ctx context.Context, id, token string) error
	ClearTokens(ctx context.Context, id string) error
}

// AdminRepository persists administrators.
type AdminRepository interface {
	TokenStore
	Create(ctx context.Context, admin *domain.Admin, password string) error
	GetByID(ctx context.Context, id string) (*domain.Admin, error)
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
	GetByUsername(ctx context.Context, username string) (*domain.Admin, error)
	FindByToken(ctx context.Context, id, username, token string) (*domain.Admin, error)
	UpdateProfile(ctx context.Context, id string, update domain.AdminProfileUpdate) (*domain.Admin, error)
	UpdatePassword(ctx context.Context, id, password string) error
	Delete(ctx context.Context, id string) error
}

// UserRepository persists users. Deleted users are soft-deleted and hidden from
// every lookup.
type UserRepository interface {
	TokenStore
	Create(ctx context.Context, user *domain.User, password string) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByToken(ctx context.Context, id, email, token string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, update domain.UserProfileUpdate) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, password string) error
	Delete(ctx context.Context, id string) error
}

// LocationRepository persists the State → Area directory. Names are expected
// to be normalized by the caller.
type LocationRepository interface {
	CreateState(ctx context.Context, state *domain.State) error
	GetStateByName(ctx context.Context, name string) (*domain.State, error)
	ListStates(ctx context.Context, offset, limit int) ([]domain.State, error)
	CountStates(ctx context.Context) (int64, error)
	CreateArea(ctx context.Context, area *domain.Area) error
	GetArea(ctx context.Context, stateID, name string) (*domain.Area, error)
	ListAreas(ctx context.Context, stateID string, offset, limit int) ([]domain.Area, error)
	CountAreas(ctx context.Context, stateID string) (int64, error)
}

// ProductRepository persists products.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter domain.ProductFilter, offset, limit int) ([]domain.Product, error)
	Count(ctx context.Context, filter domain.ProductFilter) (int64, error)
}

// OrderFilter narrows order listings. An empty UserID lists every order.
type OrderFilter struct {
	UserID string
}

// OrderRepository persists orders.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, filter OrderFilter, offset, limit int) ([]domain.Order, error)
	Count(ctx context.Context, filter OrderFilter) (int64, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
}

// QuoteRepository persists quotes.
type QuoteRepository interface {
	Create(ctx context.Context, quote *domain.Quote) error
	GetByID(ctx context.Context, id string) (*domain.Quote, error)
	Update(ctx context.Context, quote *domain.Quote) error
}

// translate maps driver errors onto the repository sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrConflict
		case pgInvalidTextRepr, pgForeignKeyViolation:
			// malformed ids and dangling references both mean the target does not exist
			return ErrNotFound
		}
	}
	return err
}

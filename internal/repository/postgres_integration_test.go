//go:build integration

package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/billboardhub/billboard-market/internal/domain"
)

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("billboard_test"),
		postgres.WithUsername("billboard"),
		postgres.WithPassword("billboard_test_password"),
		postgres.WithInitScripts(filepath.Join("..", "..", "migrations", "0001_init.sql")),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestPostgres_AdminTokens(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()
	repo := NewAdminRepository(pool, plainHasher{})

	admin := &domain.Admin{FirstName: "Ada", LastName: "Obi", Username: "ada", Email: "ada@example.com"}
	require.NoError(t, repo.Create(ctx, admin, "secret-pw"))
	assert.NotEmpty(t, admin.ID)

	err := repo.Create(ctx, &domain.Admin{Username: "ada", Email: "other@example.com"}, "pw")
	assert.ErrorIs(t, err, ErrConflict)

	require.NoError(t, repo.AppendToken(ctx, admin.ID, "t1"))
	require.NoError(t, repo.AppendToken(ctx, admin.ID, "t2"))

	found, err := repo.FindByToken(ctx, admin.ID, "ada", "t2")
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t2"}, found.Tokens)

	require.NoError(t, repo.RemoveToken(ctx, admin.ID, "t2"))
	_, err = repo.FindByToken(ctx, admin.ID, "ada", "t2")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.UpdatePassword(ctx, admin.ID, "rotated"))
	stored, err := repo.GetByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Tokens)
	assert.Equal(t, "hashed:rotated", stored.PasswordHash)

	_, err = repo.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgres_UserSoftDelete(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()
	repo := NewUserRepository(pool, plainHasher{})

	user := &domain.User{FullName: "Kemi", Email: "kemi@example.com", PhoneNo: "0800", CompanyName: "Acme"}
	require.NoError(t, repo.Create(ctx, user, "pw"))
	require.NoError(t, repo.Delete(ctx, user.ID))

	_, err := repo.GetByEmail(ctx, "kemi@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, repo.Create(ctx, &domain.User{FullName: "Kemi", Email: "kemi@example.com", PhoneNo: "1", CompanyName: "B"}, "pw"))
}

func TestPostgres_LocationsAndProducts(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()
	locations := NewLocationRepository(pool)
	products := NewProductRepository(pool)

	state := &domain.State{Name: "lagos"}
	require.NoError(t, locations.CreateState(ctx, state))
	assert.ErrorIs(t, locations.CreateState(ctx, &domain.State{Name: "lagos"}), ErrConflict)

	area := &domain.Area{Name: "ikeja", StateID: state.ID}
	require.NoError(t, locations.CreateArea(ctx, area))
	assert.ErrorIs(t, locations.CreateArea(ctx, &domain.Area{Name: "ikeja", StateID: state.ID}), ErrConflict)

	got, err := locations.GetArea(ctx, state.ID, "ikeja")
	require.NoError(t, err)
	assert.Equal(t, area.ID, got.ID)

	product := &domain.Product{
		Title:        "Ikeja Gantry",
		Category:     "Gantry",
		Availability: true,
		Description:  "Along the expressway",
		Size:         "40x10",
		StateID:      state.ID,
		AreaID:       area.ID,
		Address:      "1 Allen Avenue",
		OwnerID:      "00000000-0000-0000-0000-000000000001",
	}
	require.NoError(t, products.Create(ctx, product))

	product.Image = &domain.ProductImage{Name: "a.png", URL: "https://cdn/a.png", Key: "products/a.png", Size: 10, MimeType: "image/png"}
	require.NoError(t, products.Update(ctx, product))

	listed, err := products.List(ctx, domain.ProductFilter{AreaID: area.ID}, 0, 10)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.NotNil(t, listed[0].Image)
	assert.Equal(t, "https://cdn/a.png", listed[0].Image.URL)

	total, err := products.Count(ctx, domain.ProductFilter{StateID: state.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/billboardhub/billboard-market/internal/domain"
)

const adminColumns = `id, first_name, last_name, username, email, password_hash, tokens, created_at, updated_at`

type adminRepository struct {
	pool   *pgxpool.Pool
	hasher PasswordHasher
}

// NewAdminRepository returns a Postgres-backed implementation.
func NewAdminRepository(pool *pgxpool.Pool, hasher PasswordHasher) AdminRepository {
	return &adminRepository{pool: pool, hasher: hasher}
}

func (r *adminRepository) Create(ctx context.Context, admin *domain.Admin, password string) error {
	hash, err := r.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	admin.PasswordHash = hash
	admin.Tokens = []string{}

	const query = `
        INSERT INTO admins (first_name, last_name, username, email, password_hash)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	err = r.pool.QueryRow(ctx, query,
		admin.FirstName,
		admin.LastName,
		admin.Username,
		admin.Email,
		admin.PasswordHash,
	).Scan(&admin.ID, &admin.CreatedAt, &admin.UpdatedAt)
	return translate(err)
}

func (r *adminRepository) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	return r.getOne(ctx, `SELECT `+adminColumns+` FROM admins WHERE id=$1`, id)
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	return r.getOne(ctx, `SELECT `+adminColumns+` FROM admins WHERE email=$1`, email)
}

func (r *adminRepository) GetByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	return r.getOne(ctx, `SELECT `+adminColumns+` FROM admins WHERE username=$1`, username)
}

func (r *adminRepository) FindByToken(ctx context.Context, id, username, token string) (*domain.Admin, error) {
	const query = `SELECT ` + adminColumns + ` FROM admins
        WHERE id=$1 AND username=$2 AND $3 = ANY(tokens)`
	return r.getOne(ctx, query, id, username, token)
}

func (r *adminRepository) UpdateProfile(ctx context.Context, id string, update domain.AdminProfileUpdate) (*domain.Admin, error) {
	args := []any{}
	sets := []string{}

	if update.FirstName != nil {
		args = append(args, *update.FirstName)
		sets = append(sets, fmt.Sprintf("first_name=$%d", len(args)))
	}
	if update.LastName != nil {
		args = append(args, *update.LastName)
		sets = append(sets, fmt.Sprintf("last_name=$%d", len(args)))
	}
	if update.Username != nil {
		args = append(args, *update.Username)
		sets = append(sets, fmt.Sprintf("username=$%d", len(args)))
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE admins SET %s, updated_at=NOW() WHERE id=$%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), adminColumns)
	return r.getOne(ctx, query, args...)
}

func (r *adminRepository) UpdatePassword(ctx context.Context, id, password string) error {
	hash, err := r.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	const query = `UPDATE admins SET password_hash=$1, tokens='{}', updated_at=NOW() WHERE id=$2`
	return r.execOne(ctx, query, hash, id)
}

func (r *adminRepository) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, `DELETE FROM admins WHERE id=$1`, id)
}

func (r *adminRepository) AppendToken(ctx context.Context, id, token string) error {
	const query = `UPDATE admins SET tokens=array_append(tokens, $1), updated_at=NOW() WHERE id=$2`
	return r.execOne(ctx, query, token, id)
}

func (r *adminRepository) RemoveToken(ctx context.Context, id, token string) error {
	const query = `UPDATE admins SET tokens=array_remove(tokens, $1) WHERE id=$2`
	return r.execOne(ctx, query, token, id)
}

func (r *adminRepository) ClearTokens(ctx context.Context, id string) error {
	return r.execOne(ctx, `UPDATE admins SET tokens='{}' WHERE id=$1`, id)
}

func (r *adminRepository) getOne(ctx context.Context, query string, args ...any) (*domain.Admin, error) {
	admin, err := scanAdmin(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translate(err)
	}
	return admin, nil
}

func (r *adminRepository) execOne(ctx context.Context, query string, args ...any) error {
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAdmin(row pgx.Row) (*domain.Admin, error) {
	var admin domain.Admin
	if err := row.Scan(
		&admin.ID,
		&admin.FirstName,
		&admin.LastName,
		&admin.Username,
		&admin.Email,
		&admin.PasswordHash,
		&admin.Tokens,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &admin, nil
}

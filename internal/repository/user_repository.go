package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/billboardhub/billboard-market/internal/domain"
)

const userColumns = `id, full_name, email, phone_no, company_name, position, avatar, password_hash, tokens, soft_deleted, created_at, updated_at`

type userRepository struct {
	pool   *pgxpool.Pool
	hasher PasswordHasher
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool, hasher PasswordHasher) UserRepository {
	return &userRepository{pool: pool, hasher: hasher}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User, password string) error {
	hash, err := r.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = hash
	user.Tokens = []string{}

	const query = `
        INSERT INTO users (full_name, email, phone_no, company_name, position, password_hash)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`

	err = r.pool.QueryRow(ctx, query,
		user.FullName,
		user.Email,
		user.PhoneNo,
		user.CompanyName,
		user.Position,
		user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	return translate(err)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1 AND NOT soft_deleted`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1 AND NOT soft_deleted`, email)
}

func (r *userRepository) FindByToken(ctx context.Context, id, email, token string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users
        WHERE id=$1 AND email=$2 AND $3 = ANY(tokens) AND NOT soft_deleted`
	return r.getOne(ctx, query, id, email, token)
}

func (r *userRepository) UpdateProfile(ctx context.Context, id string, update domain.UserProfileUpdate) (*domain.User, error) {
	args := []any{}
	sets := []string{}

	add := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}
	add("full_name", update.FullName)
	add("phone_no", update.PhoneNo)
	add("company_name", update.CompanyName)
	add("position", update.Position)
	add("avatar", update.Avatar)

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE users SET %s, updated_at=NOW() WHERE id=$%d AND NOT soft_deleted RETURNING %s`,
		strings.Join(sets, ", "), len(args), userColumns)
	return r.getOne(ctx, query, args...)
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, password string) error {
	hash, err := r.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	const query = `UPDATE users SET password_hash=$1, tokens='{}', updated_at=NOW() WHERE id=$2 AND NOT soft_deleted`
	return r.execOne(ctx, query, hash, id)
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	const query = `UPDATE users SET soft_deleted=TRUE, tokens='{}', updated_at=NOW() WHERE id=$1 AND NOT soft_deleted`
	return r.execOne(ctx, query, id)
}

func (r *userRepository) AppendToken(ctx context.Context, id, token string) error {
	const query = `UPDATE users SET tokens=array_append(tokens, $1), updated_at=NOW() WHERE id=$2 AND NOT soft_deleted`
	return r.execOne(ctx, query, token, id)
}

func (r *userRepository) RemoveToken(ctx context.Context, id, token string) error {
	const query = `UPDATE users SET tokens=array_remove(tokens, $1) WHERE id=$2`
	return r.execOne(ctx, query, token, id)
}

func (r *userRepository) ClearTokens(ctx context.Context, id string) error {
	return r.execOne(ctx, `UPDATE users SET tokens='{}' WHERE id=$1`, id)
}

func (r *userRepository) getOne(ctx context.Context, query string, args ...any) (*domain.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translate(err)
	}
	return user, nil
}

func (r *userRepository) execOne(ctx context.Context, query string, args ...any) error {
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.FullName,
		&user.Email,
		&user.PhoneNo,
		&user.CompanyName,
		&user.Position,
		&user.Avatar,
		&user.PasswordHash,
		&user.Tokens,
		&user.SoftDeleted,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

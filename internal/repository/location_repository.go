package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/billboardhub/billboard-market/internal/domain"
)

type locationRepository struct {
	pool *pgxpool.Pool
}

// NewLocationRepository builds the repository.
func NewLocationRepository(pool *pgxpool.Pool) LocationRepository {
	return &locationRepository{pool: pool}
}

func (r *locationRepository) CreateState(ctx context.Context, state *domain.State) error {
	const query = `
        INSERT INTO states (name, owner_id)
        VALUES ($1, NULLIF($2, '')::uuid)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query, state.Name, state.OwnerID).
		Scan(&state.ID, &state.CreatedAt, &state.UpdatedAt)
	return translate(err)
}

func (r *locationRepository) GetStateByName(ctx context.Context, name string) (*domain.State, error) {
	const query = `
        SELECT id, name, COALESCE(owner_id::text, ''), created_at, updated_at
        FROM states WHERE name=$1`
	state, err := scanState(r.pool.QueryRow(ctx, query, name))
	if err != nil {
		return nil, translate(err)
	}
	return state, nil
}

func (r *locationRepository) ListStates(ctx context.Context, offset, limit int) ([]domain.State, error) {
	const query = `
        SELECT id, name, COALESCE(owner_id::text, ''), created_at, updated_at
        FROM states ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	result := []domain.State{}
	for rows.Next() {
		state, err := scanState(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *state)
	}
	return result, rows.Err()
}

func (r *locationRepository) CountStates(ctx context.Context) (int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM states`).Scan(&total); err != nil {
		return 0, translate(err)
	}
	return total, nil
}

func (r *locationRepository) CreateArea(ctx context.Context, area *domain.Area) error {
	const query = `
        INSERT INTO areas (name, state_id)
        VALUES ($1, $2)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query, area.Name, area.StateID).
		Scan(&area.ID, &area.CreatedAt, &area.UpdatedAt)
	return translate(err)
}

func (r *locationRepository) GetArea(ctx context.Context, stateID, name string) (*domain.Area, error) {
	const query = `
        SELECT id, name, state_id, created_at, updated_at
        FROM areas WHERE state_id=$1 AND name=$2`
	area, err := scanArea(r.pool.QueryRow(ctx, query, stateID, name))
	if err != nil {
		return nil, translate(err)
	}
	return area, nil
}

func (r *locationRepository) ListAreas(ctx context.Context, stateID string, offset, limit int) ([]domain.Area, error) {
	const query = `
        SELECT id, name, state_id, created_at, updated_at
        FROM areas WHERE state_id=$1
        ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, stateID, limit, offset)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	result := []domain.Area{}
	for rows.Next() {
		area, err := scanArea(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *area)
	}
	return result, rows.Err()
}

func (r *locationRepository) CountAreas(ctx context.Context, stateID string) (int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM areas WHERE state_id=$1`, stateID).Scan(&total); err != nil {
		return 0, translate(err)
	}
	return total, nil
}

func scanState(row pgx.Row) (*domain.State, error) {
	var state domain.State
	if err := row.Scan(&state.ID, &state.Name, &state.OwnerID, &state.CreatedAt, &state.UpdatedAt); err != nil {
		return nil, err
	}
	return &state, nil
}

func scanArea(row pgx.Row) (*domain.Area, error) {
	var area domain.Area
	if err := row.Scan(&area.ID, &area.Name, &area.StateID, &area.CreatedAt, &area.UpdatedAt); err != nil {
		return nil, err
	}
	return &area, nil
}

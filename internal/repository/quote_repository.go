package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/billboardhub/billboard-market/internal/domain"
)

const quoteColumns = `id, order_id, title, price, available_from, available_to, description, invoice, created_at, updated_at`

type quoteRepository struct {
	pool *pgxpool.Pool
}

// NewQuoteRepository constructs repository.
func NewQuoteRepository(pool *pgxpool.Pool) QuoteRepository {
	return &quoteRepository{pool: pool}
}

func (r *quoteRepository) Create(ctx context.Context, quote *domain.Quote) error {
	const query = `
        INSERT INTO quotes (order_id, title, price, available_from, available_to, description, invoice)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		quote.OrderID,
		quote.Title,
		quote.Price,
		quote.AvailableFrom,
		quote.AvailableTo,
		quote.Description,
		quote.Invoice,
	).Scan(&quote.ID, &quote.CreatedAt, &quote.UpdatedAt)
	return translate(err)
}

func (r *quoteRepository) GetByID(ctx context.Context, id string) (*domain.Quote, error) {
	quote, err := scanQuote(r.pool.QueryRow(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE id=$1`, id))
	if err != nil {
		return nil, translate(err)
	}
	return quote, nil
}

func (r *quoteRepository) Update(ctx context.Context, quote *domain.Quote) error {
	const query = `
        UPDATE quotes SET title=$1, price=$2, available_from=$3, available_to=$4, description=$5, updated_at=NOW()
        WHERE id=$6
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		quote.Title,
		quote.Price,
		quote.AvailableFrom,
		quote.AvailableTo,
		quote.Description,
		quote.ID,
	).Scan(&quote.UpdatedAt)
	return translate(err)
}

func scanQuote(row pgx.Row) (*domain.Quote, error) {
	var quote domain.Quote
	if err := row.Scan(
		&quote.ID,
		&quote.OrderID,
		&quote.Title,
		&quote.Price,
		&quote.AvailableFrom,
		&quote.AvailableTo,
		&quote.Description,
		&quote.Invoice,
		&quote.CreatedAt,
		&quote.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &quote, nil
}

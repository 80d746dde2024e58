package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/billboardhub/billboard-market/internal/domain"
)

const orderColumns = `id, user_id, user_name, user_details, product_id, product_title, invoice, date_requested, status, created_at, updated_at`

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository constructs repository.
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	const query = `
        INSERT INTO orders (user_id, user_name, user_details, product_id, product_title, invoice, date_requested, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		order.UserID,
		order.User,
		order.UserDetails,
		order.ProductID,
		order.Product,
		order.Invoice,
		order.DateRequested,
		string(order.Status),
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	return translate(err)
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	order, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
	if err != nil {
		return nil, translate(err)
	}
	return order, nil
}

func (r *orderRepository) List(ctx context.Context, filter OrderFilter, offset, limit int) ([]domain.Order, error) {
	where, args := orderWhere(filter)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM orders%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		orderColumns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	result := []domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	return result, rows.Err()
}

func (r *orderRepository) Count(ctx context.Context, filter OrderFilter) (int64, error) {
	where, args := orderWhere(filter)
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return 0, translate(err)
	}
	return total, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	query := `UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2 RETURNING ` + orderColumns
	order, err := scanOrder(r.pool.QueryRow(ctx, query, string(status), id))
	if err != nil {
		return nil, translate(err)
	}
	return order, nil
}

func orderWhere(filter OrderFilter) (string, []any) {
	if filter.UserID == "" {
		return "", nil
	}
	return " WHERE user_id=$1", []any{filter.UserID}
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		order  domain.Order
		status string
	)
	if err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.User,
		&order.UserDetails,
		&order.ProductID,
		&order.Product,
		&order.Invoice,
		&order.DateRequested,
		&status,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		return nil, err
	}
	order.Status = domain.OrderStatus(status)
	return &order, nil
}

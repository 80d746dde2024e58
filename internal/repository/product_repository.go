package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/billboardhub/billboard-market/internal/domain"
)

const productColumns = `id, title, category, availability, description, size, state_id, area_id, address,
        image_name, image_url, image_key, image_size, image_mimetype, featured, quantity, owner_id, created_at, updated_at`

type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository instantiates repository.
func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &productRepository{pool: pool}
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	const query = `
        INSERT INTO products (title, category, availability, description, size, state_id, area_id, address, featured, quantity, owner_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		product.Title,
		product.Category,
		product.Availability,
		product.Description,
		product.Size,
		product.StateID,
		product.AreaID,
		product.Address,
		product.Featured,
		product.Quantity,
		product.OwnerID,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	return translate(err)
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	product, err := scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, id))
	if err != nil {
		return nil, translate(err)
	}
	return product, nil
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	image := product.Image
	if image == nil {
		image = &domain.ProductImage{}
	}
	const query = `
        UPDATE products SET title=$1, category=$2, availability=$3, description=$4, size=$5, state_id=$6, area_id=$7,
            address=$8, image_name=$9, image_url=$10, image_key=$11, image_size=$12, image_mimetype=$13,
            featured=$14, quantity=$15, updated_at=NOW()
        WHERE id=$16
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		product.Title,
		product.Category,
		product.Availability,
		product.Description,
		product.Size,
		product.StateID,
		product.AreaID,
		product.Address,
		image.Name,
		image.URL,
		image.Key,
		image.Size,
		image.MimeType,
		product.Featured,
		product.Quantity,
		product.ID,
	).Scan(&product.UpdatedAt)
	return translate(err)
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepository) List(ctx context.Context, filter domain.ProductFilter, offset, limit int) ([]domain.Product, error) {
	where, args := productWhere(filter)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM products%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		productColumns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	result := []domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *product)
	}
	return result, rows.Err()
}

func (r *productRepository) Count(ctx context.Context, filter domain.ProductFilter) (int64, error) {
	where, args := productWhere(filter)
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return 0, translate(err)
	}
	return total, nil
}

func productWhere(filter domain.ProductFilter) (string, []any) {
	args := []any{}
	clauses := []string{}
	if filter.StateID != "" {
		args = append(args, filter.StateID)
		clauses = append(clauses, fmt.Sprintf("state_id=$%d", len(args)))
	}
	if filter.AreaID != "" {
		args = append(args, filter.AreaID)
		clauses = append(clauses, fmt.Sprintf("area_id=$%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		product domain.Product
		image   domain.ProductImage
	)
	if err := row.Scan(
		&product.ID,
		&product.Title,
		&product.Category,
		&product.Availability,
		&product.Description,
		&product.Size,
		&product.StateID,
		&product.AreaID,
		&product.Address,
		&image.Name,
		&image.URL,
		&image.Key,
		&image.Size,
		&image.MimeType,
		&product.Featured,
		&product.Quantity,
		&product.OwnerID,
		&product.CreatedAt,
		&product.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if image.URL != "" {
		product.Image = &image
	}
	return &product, nil
}

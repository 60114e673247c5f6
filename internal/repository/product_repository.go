package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/bizops-service/internal/domain"
)

// ProductFilter captures product listing parameters.
type ProductFilter struct {
	SearchTerm   *string
	CategoryCode *string
	SupplierID   *int64
	BelowMin     bool
	Limit        int
	Offset       int
}

// ProductRepository defines persistence access for products.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetByCode(ctx context.Context, code string) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	Delete(ctx context.Context, id int64) error
	// IncrementStock adds quantity to the product's stock.
	IncrementStock(ctx context.Context, id int64, quantity int) error
	// DecrementStock subtracts quantity, guarded so stock never goes negative.
	// Returns false when the product lacks sufficient stock.
	DecrementStock(ctx context.Context, id int64, quantity int) (bool, error)
}

type productRepository struct {
	db DB
}

// NewProductRepository returns a Postgres-backed implementation.
func NewProductRepository(db DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	const query = `
        INSERT INTO products (code, name, category_code, unit_price, stock, min_stock, supplier_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		product.Code,
		product.Name,
		product.CategoryCode,
		product.UnitPrice,
		product.Stock,
		product.MinStock,
		product.SupplierID,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	const query = `
        UPDATE products SET name=$1, unit_price=$2, min_stock=$3, supplier_id=$4, updated_at=NOW()
        WHERE id=$5`

	cmd, err := r.db.Exec(ctx, query,
		product.Name,
		product.UnitPrice,
		product.MinStock,
		product.SupplierID,
		product.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	const query = `
        SELECT id, code, name, category_code, unit_price, stock, min_stock, supplier_id, created_at, updated_at
        FROM products WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *productRepository) GetByCode(ctx context.Context, code string) (*domain.Product, error) {
	const query = `
        SELECT id, code, name, category_code, unit_price, stock, min_stock, supplier_id, created_at, updated_at
        FROM products WHERE code=$1`
	return r.fetchSingle(ctx, query, code)
}

func (r *productRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Product, error) {
	var product domain.Product
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&product.ID,
		&product.Code,
		&product.Name,
		&product.CategoryCode,
		&product.UnitPrice,
		&product.Stock,
		&product.MinStock,
		&product.SupplierID,
		&product.CreatedAt,
		&product.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	base := `SELECT id, code, name, category_code, unit_price, stock, min_stock, supplier_id, created_at, updated_at FROM products`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CategoryCode != nil {
		args = append(args, *filter.CategoryCode)
		clauses = append(clauses, fmt.Sprintf("category_code=$%d", len(args)))
	}
	if filter.SupplierID != nil {
		args = append(args, *filter.SupplierID)
		clauses = append(clauses, fmt.Sprintf("supplier_id=$%d", len(args)))
	}
	if filter.BelowMin {
		clauses = append(clauses, "stock < min_stock")
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(name) LIKE %s OR LOWER(code) LIKE %s)", placeholder, placeholder))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY code LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), normalizeLimit(filter.Limit), normalizeOffset(filter.Offset))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(
			&product.ID,
			&product.Code,
			&product.Name,
			&product.CategoryCode,
			&product.UnitPrice,
			&product.Stock,
			&product.MinStock,
			&product.SupplierID,
			&product.CreatedAt,
			&product.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, product)
	}
	return result, rows.Err()
}

func (r *productRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *productRepository) IncrementStock(ctx context.Context, id int64, quantity int) error {
	cmd, err := r.db.Exec(ctx,
		`UPDATE products SET stock = stock + $1, updated_at=NOW() WHERE id=$2`, quantity, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *productRepository) DecrementStock(ctx context.Context, id int64, quantity int) (bool, error) {
	cmd, err := r.db.Exec(ctx,
		`UPDATE products SET stock = stock - $1, updated_at=NOW() WHERE id=$2 AND stock >= $1`, quantity, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

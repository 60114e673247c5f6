package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/bizops-service/internal/domain"
)

// SaleFilter captures sale listing parameters.
type SaleFilter struct {
	ClientID *int64
	SoldBy   *int64
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

// SaleRepository defines persistence access for sales.
type SaleRepository interface {
	Create(ctx context.Context, sale *domain.Sale) error
	CreateItem(ctx context.Context, item *domain.SaleItem) error
	GetByID(ctx context.Context, id int64) (*domain.Sale, error)
	ListItems(ctx context.Context, saleID int64) ([]domain.SaleItem, error)
	List(ctx context.Context, filter SaleFilter) ([]domain.Sale, error)
}

type saleRepository struct {
	db DB
}

// NewSaleRepository returns a Postgres-backed implementation.
func NewSaleRepository(db DB) SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	const query = `
        INSERT INTO sales (number, client_id, sold_by, total)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`

	return r.db.QueryRow(ctx, query,
		sale.Number,
		sale.ClientID,
		sale.SoldBy,
		sale.Total,
	).Scan(&sale.ID, &sale.CreatedAt)
}

func (r *saleRepository) CreateItem(ctx context.Context, item *domain.SaleItem) error {
	const query = `
        INSERT INTO sale_items (sale_id, product_id, quantity, unit_price, amount)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id`

	return r.db.QueryRow(ctx, query,
		item.SaleID,
		item.ProductID,
		item.Quantity,
		item.UnitPrice,
		item.Amount,
	).Scan(&item.ID)
}

func (r *saleRepository) GetByID(ctx context.Context, id int64) (*domain.Sale, error) {
	const query = `
        SELECT id, number, client_id, sold_by, total, created_at
        FROM sales WHERE id=$1`

	var sale domain.Sale
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&sale.ID,
		&sale.Number,
		&sale.ClientID,
		&sale.SoldBy,
		&sale.Total,
		&sale.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepository) ListItems(ctx context.Context, saleID int64) ([]domain.SaleItem, error) {
	const query = `
        SELECT id, sale_id, product_id, quantity, unit_price, amount
        FROM sale_items WHERE sale_id=$1 ORDER BY id`

	rows, err := r.db.Query(ctx, query, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SaleItem
	for rows.Next() {
		var item domain.SaleItem
		if err := rows.Scan(
			&item.ID,
			&item.SaleID,
			&item.ProductID,
			&item.Quantity,
			&item.UnitPrice,
			&item.Amount,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *saleRepository) List(ctx context.Context, filter SaleFilter) ([]domain.Sale, error) {
	base := `SELECT id, number, client_id, sold_by, total, created_at FROM sales`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		clauses = append(clauses, fmt.Sprintf("client_id=$%d", len(args)))
	}
	if filter.SoldBy != nil {
		args = append(args, *filter.SoldBy)
		clauses = append(clauses, fmt.Sprintf("sold_by=$%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY number DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), normalizeLimit(filter.Limit), normalizeOffset(filter.Offset))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Sale
	for rows.Next() {
		var sale domain.Sale
		if err := rows.Scan(
			&sale.ID,
			&sale.Number,
			&sale.ClientID,
			&sale.SoldBy,
			&sale.Total,
			&sale.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, sale)
	}
	return result, rows.Err()
}

package repository

import (
	"context"

	"github.com/spec-kit/bizops-service/internal/domain"
)

// StockMovementRepository defines persistence access for stock movements.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *domain.StockMovement) error
	ListByProduct(ctx context.Context, productID int64, limit, offset int) ([]domain.StockMovement, error)
	CountByProduct(ctx context.Context, productID int64) (int, error)
}

type stockMovementRepository struct {
	db DB
}

// NewStockMovementRepository returns a Postgres-backed implementation.
func NewStockMovementRepository(db DB) StockMovementRepository {
	return &stockMovementRepository{db: db}
}

func (r *stockMovementRepository) Create(ctx context.Context, movement *domain.StockMovement) error {
	const query = `
        INSERT INTO stock_movements (product_id, kind, quantity, reference)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`

	return r.db.QueryRow(ctx, query,
		movement.ProductID,
		movement.Kind,
		movement.Quantity,
		movement.Reference,
	).Scan(&movement.ID, &movement.CreatedAt)
}

func (r *stockMovementRepository) ListByProduct(ctx context.Context, productID int64, limit, offset int) ([]domain.StockMovement, error) {
	const query = `
        SELECT id, product_id, kind, quantity, reference, created_at
        FROM stock_movements WHERE product_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, productID, normalizeLimit(limit), normalizeOffset(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StockMovement
	for rows.Next() {
		var movement domain.StockMovement
		if err := rows.Scan(
			&movement.ID,
			&movement.ProductID,
			&movement.Kind,
			&movement.Quantity,
			&movement.Reference,
			&movement.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, movement)
	}
	return result, rows.Err()
}

func (r *stockMovementRepository) CountByProduct(ctx context.Context, productID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM stock_movements WHERE product_id=$1`, productID).Scan(&count)
	return count, err
}

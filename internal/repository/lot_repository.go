package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/bizops-service/internal/domain"
)

// LotFilter captures purchase-lot listing parameters.
type LotFilter struct {
	SupplierID   *int64
	ReceivedFrom *time.Time
	ReceivedTo   *time.Time
	Limit        int
	Offset       int
}

// LotRepository defines persistence access for purchase lots.
type LotRepository interface {
	Create(ctx context.Context, lot *domain.PurchaseLot) error
	CreateItem(ctx context.Context, item *domain.PurchaseLotItem) error
	GetByID(ctx context.Context, id int64) (*domain.PurchaseLot, error)
	ListItems(ctx context.Context, lotID int64) ([]domain.PurchaseLotItem, error)
	List(ctx context.Context, filter LotFilter) ([]domain.PurchaseLot, error)
}

type lotRepository struct {
	db DB
}

// NewLotRepository returns a Postgres-backed implementation.
func NewLotRepository(db DB) LotRepository {
	return &lotRepository{db: db}
}

func (r *lotRepository) Create(ctx context.Context, lot *domain.PurchaseLot) error {
	const query = `
        INSERT INTO purchase_lots (number, supplier_id, received_by, received_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`

	return r.db.QueryRow(ctx, query,
		lot.Number,
		lot.SupplierID,
		lot.ReceivedBy,
		lot.ReceivedAt,
	).Scan(&lot.ID, &lot.CreatedAt)
}

func (r *lotRepository) CreateItem(ctx context.Context, item *domain.PurchaseLotItem) error {
	const query = `
        INSERT INTO purchase_lot_items (lot_id, product_id, quantity, unit_cost)
        VALUES ($1, $2, $3, $4)
        RETURNING id`

	return r.db.QueryRow(ctx, query,
		item.LotID,
		item.ProductID,
		item.Quantity,
		item.UnitCost,
	).Scan(&item.ID)
}

func (r *lotRepository) GetByID(ctx context.Context, id int64) (*domain.PurchaseLot, error) {
	const query = `
        SELECT id, number, supplier_id, received_by, received_at, created_at
        FROM purchase_lots WHERE id=$1`

	var lot domain.PurchaseLot
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&lot.ID,
		&lot.Number,
		&lot.SupplierID,
		&lot.ReceivedBy,
		&lot.ReceivedAt,
		&lot.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &lot, nil
}

func (r *lotRepository) ListItems(ctx context.Context, lotID int64) ([]domain.PurchaseLotItem, error) {
	const query = `
        SELECT id, lot_id, product_id, quantity, unit_cost
        FROM purchase_lot_items WHERE lot_id=$1 ORDER BY id`

	rows, err := r.db.Query(ctx, query, lotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.PurchaseLotItem
	for rows.Next() {
		var item domain.PurchaseLotItem
		if err := rows.Scan(
			&item.ID,
			&item.LotID,
			&item.ProductID,
			&item.Quantity,
			&item.UnitCost,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *lotRepository) List(ctx context.Context, filter LotFilter) ([]domain.PurchaseLot, error) {
	base := `SELECT id, number, supplier_id, received_by, received_at, created_at FROM purchase_lots`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.SupplierID != nil {
		args = append(args, *filter.SupplierID)
		clauses = append(clauses, fmt.Sprintf("supplier_id=$%d", len(args)))
	}
	if filter.ReceivedFrom != nil {
		args = append(args, *filter.ReceivedFrom)
		clauses = append(clauses, fmt.Sprintf("received_at >= $%d", len(args)))
	}
	if filter.ReceivedTo != nil {
		args = append(args, *filter.ReceivedTo)
		clauses = append(clauses, fmt.Sprintf("received_at <= $%d", len(args)))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY number DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), normalizeLimit(filter.Limit), normalizeOffset(filter.Offset))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.PurchaseLot
	for rows.Next() {
		var lot domain.PurchaseLot
		if err := rows.Scan(
			&lot.ID,
			&lot.Number,
			&lot.SupplierID,
			&lot.ReceivedBy,
			&lot.ReceivedAt,
			&lot.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, lot)
	}
	return result, rows.Err()
}

package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/bizops-service/internal/domain"
)

// InvoiceFilter captures invoice listing parameters.
type InvoiceFilter struct {
	ClientID  *int64
	CreatedBy *int64
	Status    *domain.InvoiceStatus
	IssuedFrom *time.Time
	IssuedTo   *time.Time
	Limit      int
	Offset     int
}

// InvoiceRepository defines persistence access for invoices and their items.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *domain.Invoice) error
	CreateItem(ctx context.Context, item *domain.InvoiceItem) error
	UpdateStatus(ctx context.Context, id int64, status domain.InvoiceStatus) error
	GetByID(ctx context.Context, id int64) (*domain.Invoice, error)
	GetByNumber(ctx context.Context, number string) (*domain.Invoice, error)
	ListItems(ctx context.Context, invoiceID int64) ([]domain.InvoiceItem, error)
	List(ctx context.Context, filter InvoiceFilter) ([]domain.Invoice, error)
	IsCreatedBy(ctx context.Context, invoiceID, userID int64) (bool, error)
}

type invoiceRepository struct {
	db DB
}

// NewInvoiceRepository returns a Postgres-backed implementation.
func NewInvoiceRepository(db DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	const query = `
        INSERT INTO invoices (number, client_id, project_id, created_by, status, issue_date, due_date, total)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		invoice.Number,
		invoice.ClientID,
		invoice.ProjectID,
		invoice.CreatedBy,
		invoice.Status,
		invoice.IssueDate,
		invoice.DueDate,
		invoice.Total,
	).Scan(&invoice.ID, &invoice.CreatedAt, &invoice.UpdatedAt)
}

func (r *invoiceRepository) CreateItem(ctx context.Context, item *domain.InvoiceItem) error {
	const query = `
        INSERT INTO invoice_items (invoice_id, description, quantity, unit_price, amount)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id`

	return r.db.QueryRow(ctx, query,
		item.InvoiceID,
		item.Description,
		item.Quantity,
		item.UnitPrice,
		item.Amount,
	).Scan(&item.ID)
}

func (r *invoiceRepository) UpdateStatus(ctx context.Context, id int64, status domain.InvoiceStatus) error {
	cmd, err := r.db.Exec(ctx, `UPDATE invoices SET status=$1, updated_at=NOW() WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *invoiceRepository) GetByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	const query = `
        SELECT id, number, client_id, project_id, created_by, status, issue_date, due_date, total, created_at, updated_at
        FROM invoices WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *invoiceRepository) GetByNumber(ctx context.Context, number string) (*domain.Invoice, error) {
	const query = `
        SELECT id, number, client_id, project_id, created_by, status, issue_date, due_date, total, created_at, updated_at
        FROM invoices WHERE number=$1`
	return r.fetchSingle(ctx, query, number)
}

func (r *invoiceRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Invoice, error) {
	var invoice domain.Invoice
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&invoice.ID,
		&invoice.Number,
		&invoice.ClientID,
		&invoice.ProjectID,
		&invoice.CreatedBy,
		&invoice.Status,
		&invoice.IssueDate,
		&invoice.DueDate,
		&invoice.Total,
		&invoice.CreatedAt,
		&invoice.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) ListItems(ctx context.Context, invoiceID int64) ([]domain.InvoiceItem, error) {
	const query = `
        SELECT id, invoice_id, description, quantity, unit_price, amount
        FROM invoice_items WHERE invoice_id=$1 ORDER BY id`

	rows, err := r.db.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.InvoiceItem
	for rows.Next() {
		var item domain.InvoiceItem
		if err := rows.Scan(
			&item.ID,
			&item.InvoiceID,
			&item.Description,
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

func (r *invoiceRepository) List(ctx context.Context, filter InvoiceFilter) ([]domain.Invoice, error) {
	base := `SELECT id, number, client_id, project_id, created_by, status, issue_date, due_date, total, created_at, updated_at FROM invoices`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		clauses = append(clauses, fmt.Sprintf("client_id=$%d", len(args)))
	}
	if filter.CreatedBy != nil {
		args = append(args, *filter.CreatedBy)
		clauses = append(clauses, fmt.Sprintf("created_by=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.IssuedFrom != nil {
		args = append(args, *filter.IssuedFrom)
		clauses = append(clauses, fmt.Sprintf("issue_date >= $%d", len(args)))
	}
	if filter.IssuedTo != nil {
		args = append(args, *filter.IssuedTo)
		clauses = append(clauses, fmt.Sprintf("issue_date <= $%d", len(args)))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY number DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), normalizeLimit(filter.Limit), normalizeOffset(filter.Offset))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Invoice
	for rows.Next() {
		var invoice domain.Invoice
		if err := rows.Scan(
			&invoice.ID,
			&invoice.Number,
			&invoice.ClientID,
			&invoice.ProjectID,
			&invoice.CreatedBy,
			&invoice.Status,
			&invoice.IssueDate,
			&invoice.DueDate,
			&invoice.Total,
			&invoice.CreatedAt,
			&invoice.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, invoice)
	}
	return result, rows.Err()
}

// IsCreatedBy reports whether the user originally created the invoice.
func (r *invoiceRepository) IsCreatedBy(ctx context.Context, invoiceID, userID int64) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM invoices WHERE id=$1 AND created_by=$2)`
	var created bool
	err := r.db.QueryRow(ctx, query, invoiceID, userID).Scan(&created)
	return created, err
}

package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/bizops-service/internal/domain"
)

// SubscriptionFilter captures subscription listing parameters.
type SubscriptionFilter struct {
	ClientID *int64
	Status   *domain.SubscriptionStatus
	Limit    int
	Offset   int
}

// SubscriptionRepository defines persistence access for subscriptions.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *domain.Subscription) error
	Update(ctx context.Context, sub *domain.Subscription) error
	GetByID(ctx context.Context, id int64) (*domain.Subscription, error)
	List(ctx context.Context, filter SubscriptionFilter) ([]domain.Subscription, error)
	Delete(ctx context.Context, id int64) error
}

type subscriptionRepository struct {
	db DB
}

// NewSubscriptionRepository returns a Postgres-backed implementation.
func NewSubscriptionRepository(db DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *domain.Subscription) error {
	const query = `
        INSERT INTO subscriptions (client_id, plan, amount, period, status, started_at, renews_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		sub.ClientID,
		sub.Plan,
		sub.Amount,
		sub.Period,
		sub.Status,
		sub.StartedAt,
		sub.RenewsAt,
	).Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)
}

func (r *subscriptionRepository) Update(ctx context.Context, sub *domain.Subscription) error {
	const query = `
        UPDATE subscriptions SET plan=$1, amount=$2, period=$3, status=$4, renews_at=$5, updated_at=NOW()
        WHERE id=$6`

	cmd, err := r.db.Exec(ctx, query,
		sub.Plan,
		sub.Amount,
		sub.Period,
		sub.Status,
		sub.RenewsAt,
		sub.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *subscriptionRepository) GetByID(ctx context.Context, id int64) (*domain.Subscription, error) {
	const query = `
        SELECT id, client_id, plan, amount, period, status, started_at, renews_at, created_at, updated_at
        FROM subscriptions WHERE id=$1`

	var sub domain.Subscription
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&sub.ID,
		&sub.ClientID,
		&sub.Plan,
		&sub.Amount,
		&sub.Period,
		&sub.Status,
		&sub.StartedAt,
		&sub.RenewsAt,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) List(ctx context.Context, filter SubscriptionFilter) ([]domain.Subscription, error) {
	base := `SELECT id, client_id, plan, amount, period, status, started_at, renews_at, created_at, updated_at FROM subscriptions`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		clauses = append(clauses, fmt.Sprintf("client_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), normalizeLimit(filter.Limit), normalizeOffset(filter.Offset))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Subscription
	for rows.Next() {
		var sub domain.Subscription
		if err := rows.Scan(
			&sub.ID,
			&sub.ClientID,
			&sub.Plan,
			&sub.Amount,
			&sub.Period,
			&sub.Status,
			&sub.StartedAt,
			&sub.RenewsAt,
			&sub.CreatedAt,
			&sub.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, sub)
	}
	return result, rows.Err()
}

func (r *subscriptionRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM subscriptions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

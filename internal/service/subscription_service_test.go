package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/bizops-service/internal/domain"
	"github.com/spec-kit/bizops-service/internal/repository"
)

type memSubscriptionRepo struct {
	nextID int64
	subs   map[int64]*domain.Subscription
}

func newMemSubscriptionRepo() *memSubscriptionRepo {
	return &memSubscriptionRepo{nextID: 1, subs: make(map[int64]*domain.Subscription)}
}

func (r *memSubscriptionRepo) Create(ctx context.Context, sub *domain.Subscription) error {
	sub.ID = r.nextID
	r.nextID++
	clone := *sub
	r.subs[sub.ID] = &clone
	return nil
}

func (r *memSubscriptionRepo) Update(ctx context.Context, sub *domain.Subscription) error {
	if _, ok := r.subs[sub.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *sub
	r.subs[sub.ID] = &clone
	return nil
}

func (r *memSubscriptionRepo) GetByID(ctx context.Context, id int64) (*domain.Subscription, error) {
	sub, ok := r.subs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *sub
	return &clone, nil
}

func (r *memSubscriptionRepo) List(ctx context.Context, filter repository.SubscriptionFilter) ([]domain.Subscription, error) {
	out := make([]domain.Subscription, 0, len(r.subs))
	for _, sub := range r.subs {
		out = append(out, *sub)
	}
	return out, nil
}

func (r *memSubscriptionRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.subs[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.subs, id)
	return nil
}

func newSubscriptionFixture(t *testing.T) (*SubscriptionService, int64) {
	t.Helper()
	clients := newMemClientRepo()
	client := &domain.Client{Name: "Acme", Email: "billing@acme.test", CreatedBy: 1}
	require.NoError(t, clients.Create(context.Background(), client))
	return NewSubscriptionService(newMemSubscriptionRepo(), clients), client.ID
}

func withFrozenClock(t *testing.T, at time.Time) {
	t.Helper()
	prev := timeNow
	timeNow = func() time.Time { return at }
	t.Cleanup(func() { timeNow = prev })
}

func TestSubscriptionCreateDerivesRenewal(t *testing.T) {
	svc, clientID := newSubscriptionFixture(t)
	start := time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)
	withFrozenClock(t, start)

	monthly, err := svc.Create(context.Background(), SubscriptionCreateInput{
		ClientID: clientID,
		Plan:     "standard",
		Amount:   decimal.NewFromInt(49),
		Period:   domain.SubscriptionPeriodMonthly,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionStatusActive, monthly.Status)
	assert.Equal(t, start, monthly.StartedAt)
	assert.Equal(t, start.AddDate(0, 1, 0), monthly.RenewsAt)

	yearly, err := svc.Create(context.Background(), SubscriptionCreateInput{
		ClientID: clientID,
		Plan:     "premium",
		Amount:   decimal.NewFromInt(490),
		Period:   domain.SubscriptionPeriodYearly,
	})
	require.NoError(t, err)
	assert.Equal(t, start.AddDate(1, 0, 0), yearly.RenewsAt)
}

func TestSubscriptionCreateRejectsUnknownPeriod(t *testing.T) {
	svc, clientID := newSubscriptionFixture(t)

	_, err := svc.Create(context.Background(), SubscriptionCreateInput{
		ClientID: clientID,
		Plan:     "standard",
		Amount:   decimal.NewFromInt(49),
		Period:   domain.SubscriptionPeriod("WEEKLY"),
	})
	requireDomainError(t, err, "VALIDATION_FAILED")
}

func TestSubscriptionRenewAdvancesFromRenewsAt(t *testing.T) {
	svc, clientID := newSubscriptionFixture(t)
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	withFrozenClock(t, start)

	sub, err := svc.Create(context.Background(), SubscriptionCreateInput{
		ClientID: clientID,
		Plan:     "standard",
		Amount:   decimal.NewFromInt(49),
		Period:   domain.SubscriptionPeriodMonthly,
	})
	require.NoError(t, err)

	renewed, err := svc.Renew(context.Background(), sub.ID)
	require.NoError(t, err)
	assert.Equal(t, start.AddDate(0, 2, 0), renewed.RenewsAt)
}

func TestSubscriptionRenewRequiresActive(t *testing.T) {
	svc, clientID := newSubscriptionFixture(t)
	withFrozenClock(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))

	sub, err := svc.Create(context.Background(), SubscriptionCreateInput{
		ClientID: clientID,
		Plan:     "standard",
		Amount:   decimal.NewFromInt(49),
		Period:   domain.SubscriptionPeriodMonthly,
	})
	require.NoError(t, err)

	paused := domain.SubscriptionStatusPaused
	_, err = svc.Update(context.Background(), sub.ID, SubscriptionUpdateInput{Status: &paused})
	require.NoError(t, err)

	_, err = svc.Renew(context.Background(), sub.ID)
	requireDomainError(t, err, "VALIDATION_FAILED")
}

func TestSubscriptionCancelledRejectsStatusChange(t *testing.T) {
	svc, clientID := newSubscriptionFixture(t)
	withFrozenClock(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))

	sub, err := svc.Create(context.Background(), SubscriptionCreateInput{
		ClientID: clientID,
		Plan:     "standard",
		Amount:   decimal.NewFromInt(49),
		Period:   domain.SubscriptionPeriodMonthly,
	})
	require.NoError(t, err)

	cancelled := domain.SubscriptionStatusCancelled
	_, err = svc.Update(context.Background(), sub.ID, SubscriptionUpdateInput{Status: &cancelled})
	require.NoError(t, err)

	active := domain.SubscriptionStatusActive
	_, err = svc.Update(context.Background(), sub.ID, SubscriptionUpdateInput{Status: &active})
	requireDomainError(t, err, "VALIDATION_FAILED")
}

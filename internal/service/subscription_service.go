package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/bizops-service/internal/domain"
	"github.com/spec-kit/bizops-service/internal/repository"
	apperrors "github.com/spec-kit/bizops-service/pkg/util"
)

// timeNow is swapped out in tests.
var timeNow = time.Now

// SubscriptionService manages recurring billing plans.
type SubscriptionService struct {
	subscriptions repository.SubscriptionRepository
	clients       repository.ClientRepository
}

// NewSubscriptionService builds the service.
func NewSubscriptionService(subscriptions repository.SubscriptionRepository, clients repository.ClientRepository) *SubscriptionService {
	return &SubscriptionService{subscriptions: subscriptions, clients: clients}
}

// SubscriptionCreateInput describes subscription creation payload.
type SubscriptionCreateInput struct {
	ClientID int64
	Plan     string
	Amount   decimal.Decimal
	Period   domain.SubscriptionPeriod
}

// SubscriptionUpdateInput describes subscription update payload.
type SubscriptionUpdateInput struct {
	Plan   *string
	Amount *decimal.Decimal
	Status *domain.SubscriptionStatus
}

// Create starts a subscription for a client. The first renewal is derived
// from the start date and the billing period.
func (s *SubscriptionService) Create(ctx context.Context, input SubscriptionCreateInput) (*domain.Subscription, error) {
	if _, err := s.clients.GetByID(ctx, input.ClientID); err != nil {
		return nil, err
	}
	if input.Period != domain.SubscriptionPeriodMonthly && input.Period != domain.SubscriptionPeriodYearly {
		return nil, apperrors.NewValidationError("unknown billing period", map[string]any{"period": input.Period})
	}

	sub := &domain.Subscription{
		ClientID: input.ClientID,
		Plan:     input.Plan,
		Amount:   input.Amount,
		Period:   input.Period,
		Status:   domain.SubscriptionStatusActive,
	}
	sub.StartedAt = timeNow()
	sub.RenewsAt = sub.NextRenewal(sub.StartedAt)

	if err := s.subscriptions.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Update applies partial changes. Reactivating a cancelled subscription is
// not supported.
func (s *SubscriptionService) Update(ctx context.Context, id int64, input SubscriptionUpdateInput) (*domain.Subscription, error) {
	sub, err := s.subscriptions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Status != nil {
		if sub.Status == domain.SubscriptionStatusCancelled {
			return nil, apperrors.NewValidationError("subscription is cancelled", nil)
		}
		switch *input.Status {
		case domain.SubscriptionStatusActive, domain.SubscriptionStatusPaused, domain.SubscriptionStatusCancelled:
			sub.Status = *input.Status
		default:
			return nil, apperrors.NewValidationError("unknown subscription status", map[string]any{"status": *input.Status})
		}
	}
	if input.Plan != nil {
		sub.Plan = *input.Plan
	}
	if input.Amount != nil {
		sub.Amount = *input.Amount
	}

	if err := s.subscriptions.Update(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Renew advances an active subscription to its next billing cycle.
func (s *SubscriptionService) Renew(ctx context.Context, id int64) (*domain.Subscription, error) {
	sub, err := s.subscriptions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.Status != domain.SubscriptionStatusActive {
		return nil, apperrors.NewValidationError("only active subscriptions renew", map[string]any{"status": sub.Status})
	}

	sub.RenewsAt = sub.NextRenewal(sub.RenewsAt)
	if err := s.subscriptions.Update(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Get fetches one subscription.
func (s *SubscriptionService) Get(ctx context.Context, id int64) (*domain.Subscription, error) {
	return s.subscriptions.GetByID(ctx, id)
}

// List returns subscriptions matching the filter.
func (s *SubscriptionService) List(ctx context.Context, filter repository.SubscriptionFilter) ([]domain.Subscription, error) {
	return s.subscriptions.List(ctx, filter)
}

// Delete removes a subscription record.
func (s *SubscriptionService) Delete(ctx context.Context, id int64) error {
	if _, err := s.subscriptions.GetByID(ctx, id); err != nil {
		return err
	}
	return s.subscriptions.Delete(ctx, id)
}

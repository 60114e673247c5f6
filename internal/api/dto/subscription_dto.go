package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/bizops-service/internal/domain"
)

// CreateSubscriptionRequest payload for new subscriptions.
type CreateSubscriptionRequest struct {
	ClientID int64           `json:"client_id" validate:"required,gt=0"`
	Plan     string          `json:"plan" validate:"required"`
	Amount   decimal.Decimal `json:"amount"`
	Period   string          `json:"period" validate:"required,oneof=MONTHLY YEARLY"`
}

// UpdateSubscriptionRequest payload for partial subscription updates.
type UpdateSubscriptionRequest struct {
	Plan   *string          `json:"plan"`
	Amount *decimal.Decimal `json:"amount"`
	Status *string          `json:"status" validate:"omitempty,oneof=ACTIVE PAUSED CANCELLED"`
}

// SubscriptionResponse subscription representation.
type SubscriptionResponse struct {
	ID        int64                     `json:"id"`
	ClientID  int64                     `json:"client_id"`
	Plan      string                    `json:"plan"`
	Amount    decimal.Decimal           `json:"amount"`
	Period    domain.SubscriptionPeriod `json:"period"`
	Status    domain.SubscriptionStatus `json:"status"`
	StartedAt time.Time                 `json:"started_at"`
	RenewsAt  time.Time                 `json:"renews_at"`
	CreatedAt time.Time                 `json:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at"`
}

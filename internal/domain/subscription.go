package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubscriptionPeriod enumerates billing cadences.
type SubscriptionPeriod string

const (
	SubscriptionPeriodMonthly SubscriptionPeriod = "MONTHLY"
	SubscriptionPeriodYearly  SubscriptionPeriod = "YEARLY"
)

// SubscriptionStatus represents lifecycle states for a subscription.
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "ACTIVE"
	SubscriptionStatusPaused    SubscriptionStatus = "PAUSED"
	SubscriptionStatusCancelled SubscriptionStatus = "CANCELLED"
)

// Subscription is a recurring service billed to a client.
type Subscription struct {
	ID        int64
	ClientID  int64
	Plan      string
	Amount    decimal.Decimal
	Period    SubscriptionPeriod
	Status    SubscriptionStatus
	StartedAt time.Time
	RenewsAt  time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NextRenewal derives the renewal date following from when the given cycle starts.
func (s Subscription) NextRenewal(from time.Time) time.Time {
	if s.Period == SubscriptionPeriodYearly {
		return from.AddDate(1, 0, 0)
	}
	return from.AddDate(0, 1, 0)
}

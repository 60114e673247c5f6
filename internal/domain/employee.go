package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is the staff profile attached to a user account.
type Employee struct {
	ID        int64
	UserID    int64
	Position  string
	Salary    decimal.Decimal
	HiredAt   time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateEmployeeRequest payload for new staff profiles.
type CreateEmployeeRequest struct {
	UserID   int64           `json:"user_id" validate:"required,gt=0"`
	Position string          `json:"position" validate:"required"`
	Salary   decimal.Decimal `json:"salary"`
	HiredAt  time.Time       `json:"hired_at" validate:"required"`
}

// UpdateEmployeeRequest payload for partial profile updates.
type UpdateEmployeeRequest struct {
	Position *string          `json:"position"`
	Salary   *decimal.Decimal `json:"salary"`
}

// EmployeeResponse staff profile representation.
type EmployeeResponse struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Position  string          `json:"position"`
	Salary    decimal.Decimal `json:"salary"`
	HiredAt   time.Time       `json:"hired_at"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

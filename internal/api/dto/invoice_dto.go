package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/bizops-service/internal/domain"
)

// InvoiceItemRequest is one billed line in the creation payload.
type InvoiceItemRequest struct {
	Description string          `json:"description" validate:"required"`
	Quantity    int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreateInvoiceRequest payload for new invoices.
type CreateInvoiceRequest struct {
	ClientID  int64                `json:"client_id" validate:"required,gt=0"`
	ProjectID *int64               `json:"project_id" validate:"omitempty,gt=0"`
	IssueDate time.Time            `json:"issue_date" validate:"required"`
	DueDate   *time.Time           `json:"due_date"`
	Items     []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateInvoiceStatusRequest payload for lifecycle transitions.
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=DRAFT ISSUED PAID VOID"`
}

// InvoiceItemResponse billed line representation.
type InvoiceItemResponse struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceResponse invoice representation.
type InvoiceResponse struct {
	ID        int64                 `json:"id"`
	Number    string                `json:"number"`
	ClientID  int64                 `json:"client_id"`
	ProjectID *int64                `json:"project_id"`
	CreatedBy int64                 `json:"created_by"`
	Status    domain.InvoiceStatus  `json:"status"`
	IssueDate time.Time             `json:"issue_date"`
	DueDate   *time.Time            `json:"due_date"`
	Total     decimal.Decimal       `json:"total"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
	Items     []InvoiceItemResponse `json:"items,omitempty"`
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus represents lifecycle states for an invoice.
type InvoiceStatus string

const (
	InvoiceStatusDraft  InvoiceStatus = "DRAFT"
	InvoiceStatusIssued InvoiceStatus = "ISSUED"
	InvoiceStatusPaid   InvoiceStatus = "PAID"
	InvoiceStatusVoid   InvoiceStatus = "VOID"
)

// Invoice is a billing document issued to a client. The number is generated
// per calendar year (INV-2024-0001).
type Invoice struct {
	ID        int64
	Number    string
	ClientID  int64
	ProjectID *int64
	CreatedBy int64
	Status    InvoiceStatus
	IssueDate time.Time
	DueDate   *time.Time
	Total     decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
	Items     []InvoiceItem
}

// InvoiceItem is a single billed line.
type InvoiceItem struct {
	ID          int64
	InvoiceID   int64
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal
}

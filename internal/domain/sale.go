package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is a point-of-sale transaction. Creating one decrements product stock
// and records a movement per item, all inside one transaction.
type Sale struct {
	ID        int64
	Number    string
	ClientID  *int64
	SoldBy    int64
	Total     decimal.Decimal
	CreatedAt time.Time
	Items     []SaleItem
}

// SaleItem is a sold product line.
type SaleItem struct {
	ID        int64
	SaleID    int64
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
	Amount    decimal.Decimal
}

// MovementKind distinguishes stock inflows from outflows.
type MovementKind string

const (
	MovementIn  MovementKind = "IN"
	MovementOut MovementKind = "OUT"
)

// StockMovement is the audit record written alongside every stock change.
type StockMovement struct {
	ID        int64
	ProductID int64
	Kind      MovementKind
	Quantity  int
	Reference string
	CreatedAt time.Time
}

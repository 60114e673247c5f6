package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable inventory item. Its code is generated from the
// category code (PRD-ELE-000001).
type Product struct {
	ID           int64
	Code         string
	Name         string
	CategoryCode string
	UnitPrice    decimal.Decimal
	Stock        int
	MinStock     int
	SupplierID   *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

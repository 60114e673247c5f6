package domain

import "time"

// Supplier provides purchased stock.
type Supplier struct {
	ID        int64
	Name      string
	Email     string
	Phone     string
	TaxID     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

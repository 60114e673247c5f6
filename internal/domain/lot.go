package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseLot is a batch of stock received from a supplier. Receiving a lot
// increments product stock for every item in the same transaction.
type PurchaseLot struct {
	ID         int64
	Number     string
	SupplierID int64
	ReceivedBy int64
	ReceivedAt time.Time
	CreatedAt  time.Time
	Items      []PurchaseLotItem
}

// PurchaseLotItem is a purchased product line within a lot.
type PurchaseLotItem struct {
	ID        int64
	LotID     int64
	ProductID int64
	Quantity  int
	UnitCost  decimal.Decimal
}

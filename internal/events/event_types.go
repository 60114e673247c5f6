package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventInvoiceCreated EventType = "invoice_created"
	EventSaleCreated    EventType = "sale_created"
	EventLotReceived    EventType = "lot_received"
	EventStockLow       EventType = "stock_low"
)

// Event represents a domain event emitted by services.
type Event struct {
	Type      EventType   `json:"type"`
	ActorID   int64       `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// InvoiceCreatedPayload payload.
type InvoiceCreatedPayload struct {
	InvoiceID int64           `json:"invoice_id"`
	Number    string          `json:"number"`
	ClientID  int64           `json:"client_id"`
	Total     decimal.Decimal `json:"total"`
}

// SaleCreatedPayload payload.
type SaleCreatedPayload struct {
	SaleID int64           `json:"sale_id"`
	Number string          `json:"number"`
	Total  decimal.Decimal `json:"total"`
}

// LotReceivedPayload payload.
type LotReceivedPayload struct {
	LotID      int64  `json:"lot_id"`
	Number     string `json:"number"`
	SupplierID int64  `json:"supplier_id"`
	ItemCount  int    `json:"item_count"`
}

// StockLowPayload payload.
type StockLowPayload struct {
	ProductID int64  `json:"product_id"`
	Code      string `json:"code"`
	Stock     int    `json:"stock"`
	MinStock  int    `json:"min_stock"`
}

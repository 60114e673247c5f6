package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/bizops-service/internal/domain"
)

// CreateProductRequest payload for new products.
type CreateProductRequest struct {
	Name         string          `json:"name" validate:"required"`
	CategoryCode string          `json:"category_code" validate:"required,min=2,max=5"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	MinStock     int             `json:"min_stock" validate:"gte=0"`
	SupplierID   *int64          `json:"supplier_id" validate:"omitempty,gt=0"`
}

// UpdateProductRequest payload for partial product updates.
type UpdateProductRequest struct {
	Name       *string          `json:"name"`
	UnitPrice  *decimal.Decimal `json:"unit_price"`
	MinStock   *int             `json:"min_stock" validate:"omitempty,gte=0"`
	SupplierID *int64           `json:"supplier_id" validate:"omitempty,gt=0"`
}

// ProductResponse product representation.
type ProductResponse struct {
	ID           int64           `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	CategoryCode string          `json:"category_code"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Stock        int             `json:"stock"`
	MinStock     int             `json:"min_stock"`
	SupplierID   *int64          `json:"supplier_id"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// StockMovementResponse audit record representation.
type StockMovementResponse struct {
	ID        int64               `json:"id"`
	ProductID int64               `json:"product_id"`
	Kind      domain.MovementKind `json:"kind"`
	Quantity  int                 `json:"quantity"`
	Reference string              `json:"reference"`
	CreatedAt time.Time           `json:"created_at"`
}

// CreateSupplierRequest payload for new suppliers.
type CreateSupplierRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone"`
	TaxID string `json:"tax_id"`
}

// UpdateSupplierRequest payload for partial supplier updates.
type UpdateSupplierRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone"`
	TaxID *string `json:"tax_id"`
}

// SupplierResponse supplier representation.
type SupplierResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	TaxID     string    `json:"tax_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LotItemRequest is one purchased line in the receipt payload.
type LotItemRequest struct {
	ProductID int64           `json:"product_id" validate:"required,gt=0"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// CreateLotRequest payload for receiving a lot.
type CreateLotRequest struct {
	SupplierID int64            `json:"supplier_id" validate:"required,gt=0"`
	ReceivedAt time.Time        `json:"received_at" validate:"required"`
	Items      []LotItemRequest `json:"items" validate:"required,min=1,dive"`
}

// LotItemResponse purchased line representation.
type LotItemResponse struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// LotResponse lot representation.
type LotResponse struct {
	ID         int64             `json:"id"`
	Number     string            `json:"number"`
	SupplierID int64             `json:"supplier_id"`
	ReceivedBy int64             `json:"received_by"`
	ReceivedAt time.Time         `json:"received_at"`
	CreatedAt  time.Time         `json:"created_at"`
	Items      []LotItemResponse `json:"items,omitempty"`
}

// SaleItemRequest is one sold line in the creation payload.
type SaleItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

// CreateSaleRequest payload for new sales.
type CreateSaleRequest struct {
	ClientID *int64            `json:"client_id" validate:"omitempty,gt=0"`
	Items    []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

// SaleItemResponse sold line representation.
type SaleItemResponse struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`
}

// SaleResponse sale representation.
type SaleResponse struct {
	ID        int64              `json:"id"`
	Number    string             `json:"number"`
	ClientID  *int64             `json:"client_id"`
	SoldBy    int64              `json:"sold_by"`
	Total     decimal.Decimal    `json:"total"`
	CreatedAt time.Time          `json:"created_at"`
	Items     []SaleItemResponse `json:"items,omitempty"`
}

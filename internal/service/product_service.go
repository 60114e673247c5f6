package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/bizops-service/internal/domain"
	"github.com/spec-kit/bizops-service/internal/repository"
	apperrors "github.com/spec-kit/bizops-service/pkg/util"
)

// ProductService manages catalog items.
type ProductService struct {
	products  repository.ProductRepository
	movements repository.StockMovementRepository
	allocator *SequenceAllocator
}

// NewProductService builds the service.
func NewProductService(
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
	allocator *SequenceAllocator,
) *ProductService {
	return &ProductService{products: products, movements: movements, allocator: allocator}
}

// ProductCreateInput describes product creation payload.
type ProductCreateInput struct {
	Name         string
	CategoryCode string
	UnitPrice    decimal.Decimal
	MinStock     int
	SupplierID   *int64
}

// ProductUpdateInput describes product update payload.
type ProductUpdateInput struct {
	Name       *string
	UnitPrice  *decimal.Decimal
	MinStock   *int
	SupplierID *int64
}

// Create allocates the next code in the product's category and stores the
// item with zero stock. Stock only moves through lots and sales.
func (s *ProductService) Create(ctx context.Context, input ProductCreateInput) (*domain.Product, error) {
	category := strings.ToUpper(strings.TrimSpace(input.CategoryCode))
	if category == "" {
		return nil, apperrors.NewValidationError("category code is required", nil)
	}

	code, err := s.allocator.NextProductCode(ctx, category)
	if err != nil {
		return nil, err
	}

	product := &domain.Product{
		Code:         code,
		Name:         input.Name,
		CategoryCode: category,
		UnitPrice:    input.UnitPrice,
		Stock:        0,
		MinStock:     input.MinStock,
		SupplierID:   input.SupplierID,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update applies partial changes. Code, category and stock are immutable here.
func (s *ProductService) Update(ctx context.Context, id int64, input ProductUpdateInput) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.UnitPrice != nil {
		product.UnitPrice = *input.UnitPrice
	}
	if input.MinStock != nil {
		product.MinStock = *input.MinStock
	}
	if input.SupplierID != nil {
		product.SupplierID = input.SupplierID
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Get fetches one product.
func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

// GetByCode fetches one product by generated code.
func (s *ProductService) GetByCode(ctx context.Context, code string) (*domain.Product, error) {
	return s.products.GetByCode(ctx, code)
}

// List returns products matching the filter.
func (s *ProductService) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	return s.products.List(ctx, filter)
}

// Movements returns the audit trail for a product.
func (s *ProductService) Movements(ctx context.Context, productID int64, limit, offset int) ([]domain.StockMovement, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.movements.ListByProduct(ctx, productID, limit, offset)
}

// Delete removes a product. Products with recorded movements cannot be
// deleted.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if _, err := s.products.GetByID(ctx, id); err != nil {
		return err
	}
	count, err := s.movements.CountByProduct(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.NewConflict("product has stock movements", map[string]any{"movements": count})
	}
	return s.products.Delete(ctx, id)
}

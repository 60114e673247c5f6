package service

import (
	"context"

	"github.com/spec-kit/bizops-service/internal/domain"
	"github.com/spec-kit/bizops-service/internal/repository"
	apperrors "github.com/spec-kit/bizops-service/pkg/util"
)

// SupplierService manages purchase sources.
type SupplierService struct {
	suppliers repository.SupplierRepository
}

// NewSupplierService builds the service.
func NewSupplierService(suppliers repository.SupplierRepository) *SupplierService {
	return &SupplierService{suppliers: suppliers}
}

// SupplierCreateInput describes supplier creation payload.
type SupplierCreateInput struct {
	Name  string
	Email string
	Phone string
	TaxID string
}

// SupplierUpdateInput describes supplier update payload.
type SupplierUpdateInput struct {
	Name  *string
	Email *string
	Phone *string
	TaxID *string
}

// Create registers a supplier.
func (s *SupplierService) Create(ctx context.Context, input SupplierCreateInput) (*domain.Supplier, error) {
	supplier := &domain.Supplier{
		Name:  input.Name,
		Email: input.Email,
		Phone: input.Phone,
		TaxID: input.TaxID,
	}
	if err := s.suppliers.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// Update applies partial changes.
func (s *SupplierService) Update(ctx context.Context, id int64, input SupplierUpdateInput) (*domain.Supplier, error) {
	supplier, err := s.suppliers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		supplier.Name = *input.Name
	}
	if input.Email != nil {
		supplier.Email = *input.Email
	}
	if input.Phone != nil {
		supplier.Phone = *input.Phone
	}
	if input.TaxID != nil {
		supplier.TaxID = *input.TaxID
	}

	if err := s.suppliers.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// Get fetches one supplier.
func (s *SupplierService) Get(ctx context.Context, id int64) (*domain.Supplier, error) {
	return s.suppliers.GetByID(ctx, id)
}

// List returns suppliers.
func (s *SupplierService) List(ctx context.Context, search *string, limit, offset int) ([]domain.Supplier, error) {
	return s.suppliers.List(ctx, search, limit, offset)
}

// Delete removes a supplier. Suppliers with received lots cannot be deleted.
func (s *SupplierService) Delete(ctx context.Context, id int64) error {
	if _, err := s.suppliers.GetByID(ctx, id); err != nil {
		return err
	}
	lots, err := s.suppliers.CountLots(ctx, id)
	if err != nil {
		return err
	}
	if lots > 0 {
		return apperrors.NewConflict("supplier has received lots", map[string]any{"lots": lots})
	}
	return s.suppliers.Delete(ctx, id)
}

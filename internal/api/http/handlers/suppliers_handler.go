package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bizops-service/internal/api/dto"
	"github.com/spec-kit/bizops-service/internal/domain"
	"github.com/spec-kit/bizops-service/internal/service"
	apperrors "github.com/spec-kit/bizops-service/pkg/util"
)

// SuppliersHandler exposes supplier endpoints.
type SuppliersHandler struct {
	suppliers *service.SupplierService
}

// NewSuppliersHandler constructs handler.
func NewSuppliersHandler(supplierService *service.SupplierService) *SuppliersHandler {
	return &SuppliersHandler{suppliers: supplierService}
}

// Create handles POST /api/suppliers.
func (h *SuppliersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateSupplierRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	supplier, err := h.suppliers.Create(c.Context(), service.SupplierCreateInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		TaxID: req.TaxID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": supplierResponse(supplier)})
}

// Update handles PATCH /api/suppliers/:id.
func (h *SuppliersHandler) Update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateSupplierRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	supplier, err := h.suppliers.Update(c.Context(), id, service.SupplierUpdateInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		TaxID: req.TaxID,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": supplierResponse(supplier)})
}

// Get handles GET /api/suppliers/:id.
func (h *SuppliersHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	supplier, err := h.suppliers.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": supplierResponse(supplier)})
}

// List handles GET /api/suppliers.
func (h *SuppliersHandler) List(c *fiber.Ctx) error {
	var search *string
	if val := c.Query("search"); val != "" {
		search = &val
	}
	limit, offset := paginate(c)

	suppliers, err := h.suppliers.List(c.Context(), search, limit, offset)
	if err != nil {
		return err
	}
	resp := make([]dto.SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		resp = append(resp, supplierResponse(&suppliers[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Delete handles DELETE /api/suppliers/:id.
func (h *SuppliersHandler) Delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.suppliers.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "deleted"}})
}

func supplierResponse(supplier *domain.Supplier) dto.SupplierResponse {
	return dto.SupplierResponse{
		ID:        supplier.ID,
		Name:      supplier.Name,
		Email:     supplier.Email,
		Phone:     supplier.Phone,
		TaxID:     supplier.TaxID,
		CreatedAt: supplier.CreatedAt,
		UpdatedAt: supplier.UpdatedAt,
	}
}

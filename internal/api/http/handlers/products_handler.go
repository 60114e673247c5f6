package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bizops-service/internal/api/dto"
	"github.com/spec-kit/bizops-service/internal/domain"
	"github.com/spec-kit/bizops-service/internal/repository"
	"github.com/spec-kit/bizops-service/internal/service"
	apperrors "github.com/spec-kit/bizops-service/pkg/util"
)

// ProductsHandler exposes catalog endpoints.
type ProductsHandler struct {
	products *service.ProductService
}

// NewProductsHandler constructs handler.
func NewProductsHandler(productService *service.ProductService) *ProductsHandler {
	return &ProductsHandler{products: productService}
}

// Create handles POST /api/products.
func (h *ProductsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	product, err := h.products.Create(c.Context(), service.ProductCreateInput{
		Name:         req.Name,
		CategoryCode: req.CategoryCode,
		UnitPrice:    req.UnitPrice,
		MinStock:     req.MinStock,
		SupplierID:   req.SupplierID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": productResponse(product)})
}

// Update handles PATCH /api/products/:id.
func (h *ProductsHandler) Update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	product, err := h.products.Update(c.Context(), id, service.ProductUpdateInput{
		Name:       req.Name,
		UnitPrice:  req.UnitPrice,
		MinStock:   req.MinStock,
		SupplierID: req.SupplierID,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": productResponse(product)})
}

// Get handles GET /api/products/:id.
func (h *ProductsHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	product, err := h.products.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": productResponse(product)})
}

// List handles GET /api/products.
func (h *ProductsHandler) List(c *fiber.Ctx) error {
	filter := repository.ProductFilter{SupplierID: parseInt64Query(c, "supplier_id")}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}
	if category := c.Query("category"); category != "" {
		filter.CategoryCode = &category
	}
	if below := parseBoolQuery(c, "below_min"); below != nil {
		filter.BelowMin = *below
	}
	filter.Limit, filter.Offset = paginate(c)

	products, err := h.products.List(c.Context(), filter)
	if err != nil {
		return err
	}
	resp := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		resp = append(resp, productResponse(&products[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Movements handles GET /api/products/:id/movements.
func (h *ProductsHandler) Movements(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	limit, offset := paginate(c)
	movements, err := h.products.Movements(c.Context(), id, limit, offset)
	if err != nil {
		return err
	}
	resp := make([]dto.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		resp = append(resp, dto.StockMovementResponse{
			ID:        m.ID,
			ProductID: m.ProductID,
			Kind:      m.Kind,
			Quantity:  m.Quantity,
			Reference: m.Reference,
			CreatedAt: m.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Delete handles DELETE /api/products/:id.
func (h *ProductsHandler) Delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.products.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "deleted"}})
}

func productResponse(product *domain.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:           product.ID,
		Code:         product.Code,
		Name:         product.Name,
		CategoryCode: product.CategoryCode,
		UnitPrice:    product.UnitPrice,
		Stock:        product.Stock,
		MinStock:     product.MinStock,
		SupplierID:   product.SupplierID,
		CreatedAt:    product.CreatedAt,
		UpdatedAt:    product.UpdatedAt,
	}
}

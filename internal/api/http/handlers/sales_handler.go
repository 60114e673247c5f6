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

// SalesHandler exposes point-of-sale endpoints.
type SalesHandler struct {
	sales *service.SaleService
}

// NewSalesHandler constructs handler.
func NewSalesHandler(saleService *service.SaleService) *SalesHandler {
	return &SalesHandler{sales: saleService}
}

// Create handles POST /api/sales.
func (h *SalesHandler) Create(c *fiber.Ctx) error {
	actor, err := identity(c)
	if err != nil {
		return err
	}

	var req dto.CreateSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	items := make([]service.SaleItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.SaleItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	sale, err := h.sales.Create(c.Context(), actor.ID, service.SaleCreateInput{
		ClientID: req.ClientID,
		Items:    items,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": saleResponse(sale)})
}

// Get handles GET /api/sales/:id.
func (h *SalesHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	sale, err := h.sales.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": saleResponse(sale)})
}

// List handles GET /api/sales.
func (h *SalesHandler) List(c *fiber.Ctx) error {
	filter := repository.SaleFilter{
		ClientID: parseInt64Query(c, "client_id"),
		SoldBy:   parseInt64Query(c, "sold_by"),
		From:     parseTimeQuery(c, "from"),
		To:       parseTimeQuery(c, "to"),
	}
	filter.Limit, filter.Offset = paginate(c)

	sales, err := h.sales.List(c.Context(), filter)
	if err != nil {
		return err
	}
	resp := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		resp = append(resp, saleResponse(&sales[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

func saleResponse(sale *domain.Sale) dto.SaleResponse {
	resp := dto.SaleResponse{
		ID:        sale.ID,
		Number:    sale.Number,
		ClientID:  sale.ClientID,
		SoldBy:    sale.SoldBy,
		Total:     sale.Total,
		CreatedAt: sale.CreatedAt,
	}
	for _, item := range sale.Items {
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Amount:    item.Amount,
		})
	}
	return resp
}

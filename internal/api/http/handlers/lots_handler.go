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

// LotsHandler exposes stock receipt endpoints.
type LotsHandler struct {
	lots *service.LotService
}

// NewLotsHandler constructs handler.
func NewLotsHandler(lotService *service.LotService) *LotsHandler {
	return &LotsHandler{lots: lotService}
}

// Create handles POST /api/lots.
func (h *LotsHandler) Create(c *fiber.Ctx) error {
	actor, err := identity(c)
	if err != nil {
		return err
	}

	var req dto.CreateLotRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	items := make([]service.LotItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.LotItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitCost:  item.UnitCost,
		})
	}

	lot, err := h.lots.Create(c.Context(), actor.ID, service.LotCreateInput{
		SupplierID: req.SupplierID,
		ReceivedAt: req.ReceivedAt,
		Items:      items,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": lotResponse(lot)})
}

// Get handles GET /api/lots/:id.
func (h *LotsHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	lot, err := h.lots.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": lotResponse(lot)})
}

// List handles GET /api/lots.
func (h *LotsHandler) List(c *fiber.Ctx) error {
	filter := repository.LotFilter{
		SupplierID:   parseInt64Query(c, "supplier_id"),
		ReceivedFrom: parseTimeQuery(c, "received_from"),
		ReceivedTo:   parseTimeQuery(c, "received_to"),
	}
	filter.Limit, filter.Offset = paginate(c)

	lots, err := h.lots.List(c.Context(), filter)
	if err != nil {
		return err
	}
	resp := make([]dto.LotResponse, 0, len(lots))
	for i := range lots {
		resp = append(resp, lotResponse(&lots[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

func lotResponse(lot *domain.PurchaseLot) dto.LotResponse {
	resp := dto.LotResponse{
		ID:         lot.ID,
		Number:     lot.Number,
		SupplierID: lot.SupplierID,
		ReceivedBy: lot.ReceivedBy,
		ReceivedAt: lot.ReceivedAt,
		CreatedAt:  lot.CreatedAt,
	}
	for _, item := range lot.Items {
		resp.Items = append(resp.Items, dto.LotItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitCost:  item.UnitCost,
		})
	}
	return resp
}

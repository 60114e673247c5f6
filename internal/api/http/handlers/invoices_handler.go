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

// InvoicesHandler exposes billing endpoints.
type InvoicesHandler struct {
	invoices *service.InvoiceService
}

// NewInvoicesHandler constructs handler.
func NewInvoicesHandler(invoiceService *service.InvoiceService) *InvoicesHandler {
	return &InvoicesHandler{invoices: invoiceService}
}

// Create handles POST /api/invoices.
func (h *InvoicesHandler) Create(c *fiber.Ctx) error {
	actor, err := identity(c)
	if err != nil {
		return err
	}

	var req dto.CreateInvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	items := make([]service.InvoiceItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.InvoiceItemInput{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	invoice, err := h.invoices.Create(c.Context(), actor.ID, service.InvoiceCreateInput{
		ClientID:  req.ClientID,
		ProjectID: req.ProjectID,
		IssueDate: req.IssueDate,
		DueDate:   req.DueDate,
		Items:     items,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": invoiceResponse(invoice)})
}

// UpdateStatus handles PATCH /api/invoices/:id/status.
func (h *InvoicesHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateInvoiceStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	invoice, err := h.invoices.UpdateStatus(c.Context(), id, domain.InvoiceStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": invoiceResponse(invoice)})
}

// Get handles GET /api/invoices/:id.
func (h *InvoicesHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	invoice, err := h.invoices.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": invoiceResponse(invoice)})
}

// List handles GET /api/invoices.
func (h *InvoicesHandler) List(c *fiber.Ctx) error {
	filter := repository.InvoiceFilter{
		ClientID:   parseInt64Query(c, "client_id"),
		CreatedBy:  parseInt64Query(c, "created_by"),
		IssuedFrom: parseTimeQuery(c, "issued_from"),
		IssuedTo:   parseTimeQuery(c, "issued_to"),
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := domain.InvoiceStatus(statusStr)
		filter.Status = &status
	}
	filter.Limit, filter.Offset = paginate(c)

	invoices, err := h.invoices.List(c.Context(), filter)
	if err != nil {
		return err
	}
	resp := make([]dto.InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		resp = append(resp, invoiceResponse(&invoices[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

func invoiceResponse(invoice *domain.Invoice) dto.InvoiceResponse {
	resp := dto.InvoiceResponse{
		ID:        invoice.ID,
		Number:    invoice.Number,
		ClientID:  invoice.ClientID,
		ProjectID: invoice.ProjectID,
		CreatedBy: invoice.CreatedBy,
		Status:    invoice.Status,
		IssueDate: invoice.IssueDate,
		DueDate:   invoice.DueDate,
		Total:     invoice.Total,
		CreatedAt: invoice.CreatedAt,
		UpdatedAt: invoice.UpdatedAt,
	}
	for _, item := range invoice.Items {
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		})
	}
	return resp
}

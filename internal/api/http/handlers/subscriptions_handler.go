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

// SubscriptionsHandler exposes recurring billing endpoints.
type SubscriptionsHandler struct {
	subscriptions *service.SubscriptionService
}

// NewSubscriptionsHandler constructs handler.
func NewSubscriptionsHandler(subscriptionService *service.SubscriptionService) *SubscriptionsHandler {
	return &SubscriptionsHandler{subscriptions: subscriptionService}
}

// Create handles POST /api/subscriptions.
func (h *SubscriptionsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	sub, err := h.subscriptions.Create(c.Context(), service.SubscriptionCreateInput{
		ClientID: req.ClientID,
		Plan:     req.Plan,
		Amount:   req.Amount,
		Period:   domain.SubscriptionPeriod(req.Period),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": subscriptionResponse(sub)})
}

// Update handles PATCH /api/subscriptions/:id.
func (h *SubscriptionsHandler) Update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	input := service.SubscriptionUpdateInput{
		Plan:   req.Plan,
		Amount: req.Amount,
	}
	if req.Status != nil {
		status := domain.SubscriptionStatus(*req.Status)
		input.Status = &status
	}

	sub, err := h.subscriptions.Update(c.Context(), id, input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": subscriptionResponse(sub)})
}

// Renew handles POST /api/subscriptions/:id/renew.
func (h *SubscriptionsHandler) Renew(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	sub, err := h.subscriptions.Renew(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": subscriptionResponse(sub)})
}

// Get handles GET /api/subscriptions/:id.
func (h *SubscriptionsHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	sub, err := h.subscriptions.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": subscriptionResponse(sub)})
}

// List handles GET /api/subscriptions.
func (h *SubscriptionsHandler) List(c *fiber.Ctx) error {
	filter := repository.SubscriptionFilter{ClientID: parseInt64Query(c, "client_id")}
	if statusStr := c.Query("status"); statusStr != "" {
		status := domain.SubscriptionStatus(statusStr)
		filter.Status = &status
	}
	filter.Limit, filter.Offset = paginate(c)

	subs, err := h.subscriptions.List(c.Context(), filter)
	if err != nil {
		return err
	}
	resp := make([]dto.SubscriptionResponse, 0, len(subs))
	for i := range subs {
		resp = append(resp, subscriptionResponse(&subs[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Delete handles DELETE /api/subscriptions/:id.
func (h *SubscriptionsHandler) Delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.subscriptions.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "deleted"}})
}

func subscriptionResponse(sub *domain.Subscription) dto.SubscriptionResponse {
	return dto.SubscriptionResponse{
		ID:        sub.ID,
		ClientID:  sub.ClientID,
		Plan:      sub.Plan,
		Amount:    sub.Amount,
		Period:    sub.Period,
		Status:    sub.Status,
		StartedAt: sub.StartedAt,
		RenewsAt:  sub.RenewsAt,
		CreatedAt: sub.CreatedAt,
		UpdatedAt: sub.UpdatedAt,
	}
}

package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bizops-service/internal/auth"
	apperrors "github.com/spec-kit/bizops-service/pkg/util"
)

func identity(c *fiber.Ctx) (*auth.Identity, error) {
	id, ok := auth.IdentityFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthenticated("authentication required")
	}
	return id, nil
}

func parseIDParam(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewNotFound("resource", map[string]any{name: c.Params(name)})
	}
	return id, nil
}

func parseIntQuery(c *fiber.Ctx, key string, defaultVal int) int {
	if val := c.Query(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultVal
}

func parseBoolQuery(c *fiber.Ctx, key string) *bool {
	if val := c.Query(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return &parsed
		}
	}
	return nil
}

func parseInt64Query(c *fiber.Ctx, key string) *int64 {
	if val := c.Query(key); val != "" {
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil && parsed > 0 {
			return &parsed
		}
	}
	return nil
}

func parseTimeQuery(c *fiber.Ctx, key string) *time.Time {
	if val := c.Query(key); val != "" {
		if parsed, err := time.Parse(time.RFC3339, val); err == nil {
			return &parsed
		}
		if parsed, err := time.Parse("2006-01-02", val); err == nil {
			return &parsed
		}
	}
	return nil
}

func paginate(c *fiber.Ctx) (limit, offset int) {
	page := parseIntQuery(c, "page", 1)
	pageSize := parseIntQuery(c, "page_size", 50)
	return pageSize, (page - 1) * pageSize
}

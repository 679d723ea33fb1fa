package middlewares

import (
	"errors"

	"barangay-backend/models"
	"barangay-backend/workflow"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// ErrorHandler centralizes error responses and keeps messages sanitized.
// The workflow error taxonomy maps to distinct status codes so callers can
// tell input errors, races and collaborator outages apart.
func ErrorHandler(c *fiber.Ctx, err error) error {
	// 1) Fiber errors (use their status code + message)
	if fe, ok := err.(*fiber.Error); ok {
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
	}

	// 2) Validation errors (422 + per-field info)
	if ve, ok := err.(validator.ValidationErrors); ok {
		out := make(map[string]string, len(ve))
		for _, fe := range ve {
			// fe.Field() is struct field name; you can map to json tag if you prefer
			out[fe.Field()] = fe.Tag()
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "validation failed",
			"errors":  out,
		})
	}

	// 3) Workflow taxonomy
	var payloadErr *models.ValidationError
	if errors.As(err, &payloadErr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "validation failed",
			"errors":  payloadErr.Fields,
		})
	}
	var missing *workflow.MissingFieldError
	if errors.As(err, &missing) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": missing.Error(),
		})
	}
	if errors.Is(err, workflow.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "request not found"})
	}
	if errors.Is(err, workflow.ErrForbidden) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "not allowed"})
	}
	if errors.Is(err, workflow.ErrInvalidTransition) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "invalid transition"})
	}
	var dep *workflow.DependencyFailure
	if errors.As(err, &dep) {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": dep.Error()})
	}

	// 4) Unknown errors (500)
	logrus.WithError(err).Error("internal error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "internal server error",
	})
}

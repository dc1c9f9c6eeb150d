package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"vibecommerce/internal/domain"
	applog "vibecommerce/internal/log"
)

const genericError = "Something went wrong. Please try again."

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

func created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": data})
}

func message(c *fiber.Ctx, msg string) error {
	return c.JSON(fiber.Map{"success": true, "message": msg})
}

// Classify maps err to a status and a message that is safe to show.
func Classify(err error) (int, string) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		if fe.Code >= fiber.StatusInternalServerError {
			return fe.Code, genericError
		}
		return fe.Code, fe.Message
	}
	var de *domain.Error
	if errors.As(err, &de) {
		switch de.Kind {
		case domain.ErrValidation:
			return fiber.StatusBadRequest, de.Msg
		case domain.ErrNotFound:
			return fiber.StatusNotFound, de.Msg
		case domain.ErrUnauthorized:
			return fiber.StatusUnauthorized, de.Msg
		case domain.ErrPersistence:
			return fiber.StatusInternalServerError, de.Msg
		}
	}
	return fiber.StatusInternalServerError, genericError
}

// ErrorHandler renders every error returned by a handler as
// {success:false, error}. Internal causes are logged, never sent.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status, msg := Classify(err)
	c.Status(status)
	switch {
	case status >= fiber.StatusInternalServerError:
		applog.Error(c, "server.error", err, nil)
	case status == fiber.StatusUnauthorized:
		applog.Security(c, "auth.denied", map[string]any{"reason": msg})
	}
	return c.JSON(fiber.Map{"success": false, "error": msg})
}

func badBody() error { return domain.Validation("Invalid request body") }

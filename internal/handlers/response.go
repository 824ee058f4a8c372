package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"catalog/internal/services"
	"catalog/pkg/validator"
)

// Envelope statuses.
const (
	StatusOK      = "ok"
	StatusWarning = "warning"
	StatusError   = "error"
)

func respond(c *fiber.Ctx, code int, status, msg string) error {
	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"msg":    msg,
	})
}

func respondOK(c *fiber.Ctx, msg string) error {
	return respond(c, fiber.StatusOK, StatusOK, msg)
}

func respondResults(c *fiber.Ctx, results interface{}) error {
	return c.JSON(fiber.Map{"results": results})
}

// respondError maps client errors to their envelope and hands anything else to
// the app's ErrorHandler.
func respondError(c *fiber.Ctx, err error) error {
	var payloadErr *PayloadError
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &payloadErr):
		return respond(c, payloadErr.Status, StatusError, payloadErr.Msg)
	case errors.As(err, &validationErrs):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": StatusError,
			"msg":    validationErrs.Error(),
			"errors": validationErrs.Map(),
		})
	case errors.Is(err, services.ErrCategoryCount), errors.Is(err, services.ErrBrandNotFound):
		return respond(c, fiber.StatusBadRequest, StatusError, err.Error())
	case errors.Is(err, services.ErrProductNotFound):
		return respond(c, fiber.StatusNotFound, StatusError, err.Error())
	default:
		return err
	}
}

// ErrorHandler renders errors that reached Fiber as an error envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return respond(c, fiberErr.Code, StatusError, fiberErr.Message)
	}
	log.Printf("Error handling %s %s: %v", c.Method(), c.Path(), err)
	return respond(c, fiber.StatusInternalServerError, StatusError, "internal server error")
}

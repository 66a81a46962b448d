package response

import (
	"errors"
	"log"

	apperrors "loyalty/internal/errors"

	"github.com/gofiber/fiber/v2"
)

func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

func ServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

func Unauthorized(c *fiber.Ctx) error {
	return Error(c, fiber.StatusUnauthorized, "Unauthorized")
}

// DomainError renders err with the status its Kind maps to and the stable
// error code.
func DomainError(c *fiber.Ctx, err error) error {
	var de *apperrors.DomainError
	if !errors.As(err, &de) {
		log.Printf("unexpected error: %v", err)
		return ServerError(c, "internal server error")
	}

	status := StatusFor(de.Kind)
	message := de.Message
	if de.Kind == apperrors.KindStoreFailure {
		log.Printf("store failure on %s %s: %v", c.Method(), c.Path(), err)
		message = apperrors.ErrStoreFailure.Message
	}
	return c.Status(status).JSON(fiber.Map{
		"error": message,
		"code":  de.Code,
	})
}

// StatusFor maps an error kind to an HTTP status.
func StatusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindNotFound:
		return fiber.StatusNotFound
	case apperrors.KindAlreadyExists, apperrors.KindConflict:
		return fiber.StatusConflict
	case apperrors.KindInvalidAmount, apperrors.KindInvalidInput:
		return fiber.StatusBadRequest
	case apperrors.KindInsufficientBalance:
		return fiber.StatusPaymentRequired
	case apperrors.KindNotValidNow, apperrors.KindBelowMinimum, apperrors.KindAboveMaximum,
		apperrors.KindInactive, apperrors.KindRedemptionCapReached:
		return fiber.StatusUnprocessableEntity
	case apperrors.KindUnauthorized:
		return fiber.StatusForbidden
	case apperrors.KindStoreFailure:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

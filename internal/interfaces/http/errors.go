package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tiendamx/pos-mostrador/internal/application/dto"
	"github.com/tiendamx/pos-mostrador/internal/domain"
)

// respondError traduce los errores de dominio a su status HTTP. Los casos de
// uso devuelven sentinelas envueltos; aquí se mapean una sola vez en lugar de
// repetir el switch en cada handler.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrAmountNotPositive),
		errors.Is(err, domain.ErrAmountExceedsBalance):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrReservedExceedsStock),
		errors.Is(err, domain.ErrCreditNeedsCustomer),
		errors.Is(err, domain.ErrCreditNotAuthorized),
		errors.Is(err, domain.ErrCreditLimitExceeded),
		errors.Is(err, domain.ErrLayawayCancelled),
		errors.Is(err, domain.ErrTurnAlreadyOpen),
		errors.Is(err, domain.ErrNoOpenTurn),
		errors.Is(err, domain.ErrTurnClosed),
		errors.Is(err, domain.ErrProductHasSales),
		errors.Is(err, domain.ErrCustomerHasBalance):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: msg})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

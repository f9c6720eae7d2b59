package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/authz"
)

// writeError traduce un error de dominio a su respuesta HTTP. Lo desconocido es 500 y se
// registra con el logger de la petición; el cliente no ve la causa.
func writeError(c *fiber.Ctx, err error) error {
	var partial *domain.PartialRejectionError
	if errors.As(err, &partial) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:  domain.ErrPartialRejection.Error(),
			Code:   "PARTIAL_REJECTION",
			Fields: partial.Fields,
		})
	}

	status, code := classify(err)
	if status == fiber.StatusInternalServerError {
		RequestLogger(c).Error().Err(err).Msg("error interno")
		return c.Status(status).JSON(dto.ErrorResponse{Error: "error interno", Code: code})
	}

	msg := err.Error()
	var denial *authz.Denial
	if errors.As(err, &denial) {
		msg = denial.Message
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: msg, Code: code})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNoValidFields):
		return fiber.StatusBadRequest, "NO_VALID_FIELDS"
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrEmailAlreadyExists), errors.Is(err, domain.ErrConflict):
		return fiber.StatusBadRequest, "CONFLICT"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, "INVALID_CREDENTIALS"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrRateLimited):
		return fiber.StatusTooManyRequests, "RATE_LIMITED"
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

// ErrorHandler fiber.Config.ErrorHandler: cualquier error que escape de un handler se
// devuelve como {error, code}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Error: fe.Message, Code: "HTTP_ERROR"})
	}
	return writeError(c, err)
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "cuerpo inválido", Code: "INVALID_BODY"})
}

func badID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "id inválido", Code: "INVALID_ID"})
}

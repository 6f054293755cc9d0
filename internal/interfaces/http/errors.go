package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/panaderia-stock/internal/application/dto"
	"github.com/jhoicas/panaderia-stock/internal/domain"
	"github.com/jhoicas/panaderia-stock/pkg/logger"
)

// LocalErrorCode código de error de la respuesta; lo leen las métricas de rechazos.
const LocalErrorCode = "error_code"

// writeError traduce errores de dominio a respuestas HTTP. Los 5xx se registran en el log.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	status, body := mapError(err)
	if status >= fiber.StatusInternalServerError && log != nil {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
	}
	c.Locals(LocalErrorCode, body.Code)
	return c.Status(status).JSON(body)
}

func mapError(err error) (int, dto.ErrorResponse) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: reqErr.code, Message: reqErr.message, Details: reqErr.fields}
	}
	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		return fiber.StatusConflict, dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: stockErr.Error(),
			Details: dto.FromShortages(stockErr.Shortages),
		}
	}
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"}
	case errors.Is(err, domain.ErrInvalidTransition):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: err.Error()}
	case errors.Is(err, domain.ErrAlreadyApplied):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "ALREADY_APPLIED", Message: err.Error()}
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()}
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()}
	case errors.Is(err, domain.ErrSameLocation):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "SAME_LOCATION", Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
	}
}

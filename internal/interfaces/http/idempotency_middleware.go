package http

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/panaderia-stock/internal/application/dto"
	"github.com/jhoicas/panaderia-stock/internal/application/ports"
	"github.com/jhoicas/panaderia-stock/pkg/logger"
)

// HeaderIdempotencyKey cabecera con la clave de idempotencia del cliente.
const HeaderIdempotencyKey = "Idempotency-Key"

const maxIdempotencyKeyLength = 128

// Idempotency repite la respuesta guardada cuando un POST llega de nuevo con la misma
// Idempotency-Key. Sin cabecera la petición sigue normal. La clave se acota por usuario y ruta.
func Idempotency(store ports.IdempotencyStore, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if store == nil || c.Method() != fiber.MethodPost {
			return c.Next()
		}
		key := c.Get(HeaderIdempotencyKey)
		if key == "" {
			return c.Next()
		}
		if len(key) > maxIdempotencyKeyLength {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_KEY_INVALID", Message: "Idempotency-Key demasiado larga"})
		}
		scoped := GetUserID(c) + ":" + c.Path() + ":" + key
		sum := sha256.Sum256(c.Body())
		fingerprint := hex.EncodeToString(sum[:])

		existing, acquired, err := store.Acquire(c.UserContext(), scoped, fingerprint)
		if err != nil {
			if log != nil {
				log.Error().Err(err).Str("path", c.Path()).Msg("idempotencia: no se pudo reservar la clave")
			}
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_STORAGE_UNAVAILABLE", Message: "intente más tarde"})
		}
		if !acquired {
			switch {
			case existing == nil || !existing.Completed:
				return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_IN_PROGRESS", Message: "la petición original aún se está procesando"})
			case existing.Fingerprint != fingerprint:
				return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_PARAMETER_MISMATCH", Message: "la clave ya se usó con otro cuerpo"})
			}
			c.Set("Idempotent-Replayed", "true")
			if existing.ContentType != "" {
				c.Set(fiber.HeaderContentType, existing.ContentType)
			}
			return c.Status(existing.StatusCode).Send(existing.Body)
		}

		if err := c.Next(); err != nil {
			_ = store.Release(c.UserContext(), scoped)
			return err
		}
		// fallos de servidor y de permisos no se guardan: la misma clave puede reintentarse
		status := c.Response().StatusCode()
		if status >= fiber.StatusInternalServerError || status == fiber.StatusUnauthorized || status == fiber.StatusForbidden {
			_ = store.Release(c.UserContext(), scoped)
			return nil
		}
		rec := ports.IdempotencyRecord{
			Fingerprint: fingerprint,
			Completed:   true,
			StatusCode:  status,
			ContentType: string(c.Response().Header.ContentType()),
			Body:        append([]byte(nil), c.Response().Body()...),
		}
		if err := store.Complete(c.UserContext(), scoped, rec); err != nil && log != nil {
			log.Warn().Err(err).Str("path", c.Path()).Msg("idempotencia: no se pudo guardar la respuesta")
		}
		return nil
	}
}

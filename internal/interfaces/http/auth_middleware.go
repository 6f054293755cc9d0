package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/panaderia-stock/internal/application/dto"
	"github.com/jhoicas/panaderia-stock/internal/domain/entity"
	"github.com/jhoicas/panaderia-stock/pkg/jwt"
)

// Locals keys para usuario, rol y capacidades en Fiber.
const (
	LocalUserID       = "user_id"
	LocalRole         = "role"
	LocalCapabilities = "capabilities"
)

// AuthMiddleware valida el Bearer Token JWT y resuelve una sola vez el rol a su conjunto de
// capacidades, que queda en c.Locals junto al UserID.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		userID, role, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalRole, role)
		c.Locals(LocalCapabilities, entity.CapabilitiesForRole(role))
		return c.Next()
	}
}

// RequireCapability exige la capacidad indicada. Debe usarse DESPUÉS de AuthMiddleware.
func RequireCapability(required entity.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !GetCapabilities(c).Has(required) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetRole devuelve el rol del token.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}

// GetCapabilities devuelve las capacidades resueltas; vacío si no pasó por AuthMiddleware.
func GetCapabilities(c *fiber.Ctx) entity.CapabilitySet {
	caps, _ := c.Locals(LocalCapabilities).(entity.CapabilitySet)
	return caps
}

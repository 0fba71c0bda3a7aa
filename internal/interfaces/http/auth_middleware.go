package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/colibri-pos/internal/domain/entity"
	"github.com/jhoicas/colibri-pos/pkg/jwt"
)

// Locals keys en Fiber.
const (
	LocalActor     = "actor"
	LocalRequestID = "request_id"
)

// AuthConfig parámetros para validar el Bearer Token.
type AuthConfig struct {
	Secret string
	Issuer string // vacío = no se valida
}

// AuthMiddleware valida el Bearer Token JWT y deja el entity.Actor en c.Locals.
func AuthMiddleware(cfg AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return respondError(c, fiber.StatusUnauthorized, CodeMissingToken, "Authorization header requerido")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return respondError(c, fiber.StatusUnauthorized, CodeInvalidToken, "formato: Bearer <token>")
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return respondError(c, fiber.StatusUnauthorized, CodeMissingToken, "token vacío")
		}
		id, err := jwt.Parse(cfg.Secret, cfg.Issuer, tokenString)
		if err != nil {
			return respondError(c, fiber.StatusUnauthorized, CodeInvalidToken, "token inválido o expirado")
		}
		c.Locals(LocalActor, entity.Actor{UserID: id.UserID, Username: id.Username, Role: id.Role})
		return c.Next()
	}
}

// RequireRole corta la petición si el rol del token no está entre los permitidos.
// Debe ir después de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return respondError(c, fiber.StatusUnauthorized, CodeMissingRole, "el token no incluye rol")
		}
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return respondError(c, fiber.StatusForbidden, CodeForbidden, "acceso denegado para el rol "+role)
	}
}

// GetActor devuelve el actor autenticado (zero value si no pasó por AuthMiddleware).
func GetActor(c *fiber.Ctx) entity.Actor {
	a, _ := c.Locals(LocalActor).(entity.Actor)
	return a
}

// GetUserID devuelve el UserID del contexto.
func GetUserID(c *fiber.Ctx) string {
	return GetActor(c).UserID
}

// GetRole devuelve el rol del contexto.
func GetRole(c *fiber.Ctx) string {
	return GetActor(c).Role
}

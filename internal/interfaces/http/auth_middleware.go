package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taller-api/internal/application/auth"
	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/authz"
)

// Locals keys para el actor resuelto y el token de la sesión.
const (
	LocalActor = "actor"
	LocalToken = "session_token"
)

// AuthMiddleware resuelve la sesión (Bearer primero, luego cookie) y guarda el actor en
// c.Locals. Sin sesión válida responde 401.
func AuthMiddleware(uc *auth.AuthUseCase, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := extractToken(c, cookieName)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: err.Error(), Code: "INVALID_TOKEN"})
		}
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "autenticación requerida", Code: "MISSING_TOKEN"})
		}
		actor, err := uc.Resolve(c.UserContext(), token)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "sesión inválida o expirada", Code: "INVALID_TOKEN"})
			}
			return writeError(c, err)
		}
		c.Locals(LocalActor, actor)
		c.Locals(LocalToken, token)
		return c.Next()
	}
}

// OptionalAuth como AuthMiddleware pero deja pasar peticiones anónimas o con sesión inválida.
func OptionalAuth(uc *auth.AuthUseCase, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := extractToken(c, cookieName)
		if err != nil || token == "" {
			return c.Next()
		}
		actor, err := uc.Resolve(c.UserContext(), token)
		if err == nil {
			c.Locals(LocalActor, actor)
			c.Locals(LocalToken, token)
		}
		return c.Next()
	}
}

func extractToken(c *fiber.Ctx, cookieName string) (string, error) {
	if h := c.Get(fiber.HeaderAuthorization); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", errors.New("formato: Bearer <token>")
		}
		return strings.TrimSpace(parts[1]), nil
	}
	if cookieName != "" {
		return c.Cookies(cookieName), nil
	}
	return "", nil
}

// GetActor devuelve el actor del contexto; el valor cero si la petición es anónima.
func GetActor(c *fiber.Ctx) authz.Actor {
	a, _ := c.Locals(LocalActor).(authz.Actor)
	return a
}

// GetSessionToken devuelve el token con el que se resolvió la sesión.
func GetSessionToken(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalToken).(string)
	return s
}

package middleware

import (
	"strings"

	"foodbank-inventory/internal/resolver"
	"foodbank-inventory/internal/service"
	"foodbank-inventory/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

const callerKey = "caller"

// Identify resolves the bearer token, if any, to a resolver.Caller stored in
// Locals. Missing or unusable tokens leave the caller anonymous; routes that
// need a user add RequireAuth.
func Identify(auth service.AuthService, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller := resolver.Anonymous()

		if token, ok := bearerToken(c.Get(fiber.HeaderAuthorization)); ok {
			user, err := auth.Authenticate(c.UserContext(), token)
			switch {
			case err == nil:
				caller = resolver.Caller{UserID: user.ID, Username: user.Username}
			case service.IsAuthentication(err):
				log.Debug("ignoring bearer token", "reason", err.Error(), "path", c.Path())
			default:
				return err
			}
		}

		c.Locals(callerKey, caller)
		return c.Next()
	}
}

// RequireAuth rejects anonymous callers with 401
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !CallerFrom(c).Authenticated() {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": service.ErrNotLoggedIn.Error()})
		}
		return c.Next()
	}
}

// CallerFrom returns the caller set by Identify, or an anonymous one
func CallerFrom(c *fiber.Ctx) resolver.Caller {
	if caller, ok := c.Locals(callerKey).(resolver.Caller); ok {
		return caller
	}
	return resolver.Anonymous()
}

// bearerToken extracts the token from "Bearer <token>"
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}
	return parts[1], true
}

package middleware

import (
	"strings"

	"go-inventory-crm/internal/model"

	"github.com/gofiber/fiber/v2"
)

const identityKey = "identity"

// TokenValidator resolves a bearer token into the session identity.
type TokenValidator interface {
	ValidateToken(token string) (*model.Identity, error)
}

// RequireAuth validates the bearer token and stores the identity for downstream handlers.
// Every authenticated account may call every route.
func RequireAuth(tokens TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			// browsers cannot set headers on websocket upgrades
			if t := c.Query("token"); t != "" && strings.HasPrefix(c.Path(), "/ws") {
				authHeader = "Bearer " + t
			}
		}
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization token"})
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid authorization format, use: Bearer <token>"})
		}

		id, err := tokens.ValidateToken(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}

		c.Locals(identityKey, *id)
		c.SetUserContext(model.WithIdentity(c.UserContext(), *id))
		return c.Next()
	}
}

// CurrentIdentity returns the identity stored by RequireAuth.
func CurrentIdentity(c *fiber.Ctx) (model.Identity, bool) {
	id, ok := c.Locals(identityKey).(model.Identity)
	return id, ok
}

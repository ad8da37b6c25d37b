package handlers

import (
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"

	applog "numa/internal/log"
)

const tokenKey = "admin_token"

// RequireAdmin accepts a valid HS256 bearer token with role "admin" and puts
// the admin email into the request locals. An empty secret rejects every
// request: HMAC with an empty key is forgeable by anyone.
func RequireAdmin(secret string) fiber.Handler {
	if secret == "" {
		return func(c *fiber.Ctx) error {
			applog.Security(c, "access.denied.admin", map[string]any{"reason": "no signing secret"})
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}
	}
	return jwtware.New(jwtware.Config{
		SigningKey:    []byte(secret),
		SigningMethod: "HS256",
		ContextKey:    tokenKey,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "access.denied.admin", map[string]any{"reason": err.Error()})
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		},
		SuccessHandler: func(c *fiber.Ctx) error {
			tok, ok := c.Locals(tokenKey).(*jwt.Token)
			if !ok {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok || claims["role"] != "admin" {
				applog.Security(c, "access.denied.admin", map[string]any{"reason": "role"})
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
			}
			email, _ := claims["email"].(string)
			c.Locals(applog.AdminKey, email)
			return c.Next()
		},
	})
}

func adminEmail(c *fiber.Ctx) string {
	e, _ := c.Locals(applog.AdminKey).(string)
	return e
}

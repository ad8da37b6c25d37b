package handlers

import (
	"github.com/gofiber/fiber/v2"

	"numa/internal/log"
	"numa/internal/services"
	"numa/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type loginReq struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// POST /api/admin/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body")
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		log.Security(c, "auth.login.fail", map[string]any{"email": req.Email, "reason": "bad_format"})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "E-posta veya şifre hatalı"})
	}
	if !validate.Password(req.Password) {
		log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "bad_password_format"})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "E-posta veya şifre hatalı"})
	}

	a, token, err := h.Auth.Login(email, req.Password)
	if err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"email": email})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "E-posta veya şifre hatalı"})
	}

	log.Audit(c, "auth.login.success", map[string]any{"email": a.Email})
	return c.JSON(fiber.Map{"token": token, "email": a.Email, "name": a.Name})
}

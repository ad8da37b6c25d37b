package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "numa/internal/log"
	"numa/internal/repos"
	"numa/internal/services"
)

func statusOf(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrEmptyCart):
		return fiber.StatusBadRequest
	case errors.Is(err, repos.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrBadCreds):
		return fiber.StatusUnauthorized
	case repos.IsRemote(err), errors.Is(err, services.ErrStoreUnavailable):
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

func messageOf(code int, err error) string {
	switch code {
	case fiber.StatusBadRequest:
		if errors.Is(err, services.ErrEmptyCart) {
			return "Sepetiniz boş"
		}
		return strings.TrimPrefix(err.Error(), services.ErrValidation.Error()+": ")
	case fiber.StatusNotFound:
		return "Kayıt bulunamadı"
	case fiber.StatusUnauthorized:
		return "E-posta veya şifre hatalı"
	case fiber.StatusServiceUnavailable:
		return "Servis geçici olarak kullanılamıyor"
	}
	return "Bir hata oluştu, lütfen tekrar deneyin"
}

// fail maps err to a status code and a JSON body {key: message}. Internal
// causes are logged, never returned.
func failAs(c *fiber.Ctx, action, key string, err error) error {
	code := statusOf(err)
	if code >= fiber.StatusInternalServerError {
		applog.Error(c, action, err, nil)
	} else {
		applog.Info(c, action, map[string]any{"reason": err.Error()})
	}
	return c.Status(code).JSON(fiber.Map{key: messageOf(code, err)})
}

func fail(c *fiber.Ctx, action string, err error) error {
	return failAs(c, action, "error", err)
}

func badRequest(c *fiber.Ctx, field string) error {
	applog.Security(c, "validation.fail", map[string]any{"field": field})
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid " + field})
}

// ErrorHandler is the app-wide fiber error handler: JSON bodies, and a
// generic message for anything 5xx.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
	}
	msg := messageOf(fiber.StatusInternalServerError, err)
	if fe != nil && code < fiber.StatusInternalServerError {
		msg = fe.Message
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}

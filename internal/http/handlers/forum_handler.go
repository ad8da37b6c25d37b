package handlers

import (
	"github.com/gofiber/fiber/v2"

	"numa/internal/services"
	"numa/internal/validate"
)

type ForumHandler struct {
	Forum *services.ForumService
}

// GET /api/forum?tag=
func (h *ForumHandler) List(c *fiber.Ctx) error {
	res, err := h.Forum.Published(c.Query("tag"))
	if err != nil {
		return fail(c, "forum.list.fail", err)
	}
	return c.JSON(res)
}

// GET /api/forum/:slug
func (h *ForumHandler) Read(c *fiber.Ctx) error {
	slug, ok := validate.Slug(c.Params("slug"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Yazı bulunamadı"})
	}
	p, stale, err := h.Forum.Read(slug)
	if err != nil {
		if services.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Yazı bulunamadı"})
		}
		return fail(c, "forum.read.fail", err)
	}
	return c.JSON(fiber.Map{"post": p, "stale": stale})
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"numa/internal/services"
	"numa/internal/validate"
)

type FavoriteHandler struct {
	Favorites *services.FavoriteService
}

type favoriteReq struct {
	ProductID string `json:"productId" form:"productId"`
}

// GET /api/favorites
func (h *FavoriteHandler) List(c *fiber.Ctx) error {
	items, err := h.Favorites.List(ensureSID(c))
	if err != nil {
		return fail(c, "favorites.list.fail", err)
	}
	return c.JSON(fiber.Map{"items": items})
}

// POST /api/favorites {productId}
func (h *FavoriteHandler) Save(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var req favoriteReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body")
	}
	id, ok := validate.ID(req.ProductID)
	if !ok {
		return badRequest(c, "productId")
	}
	if err := h.Favorites.Add(sid, id); err != nil {
		return fail(c, "favorites.add.fail", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"productId": id})
}

// DELETE /api/favorites?productId=
func (h *FavoriteHandler) Unsave(c *fiber.Ctx) error {
	sid := ensureSID(c)
	id, ok := validate.ID(c.Query("productId"))
	if !ok {
		return badRequest(c, "productId")
	}
	if err := h.Favorites.Remove(sid, id); err != nil {
		return fail(c, "favorites.remove.fail", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

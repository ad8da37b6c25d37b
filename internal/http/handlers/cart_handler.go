package handlers

import (
	"github.com/gofiber/fiber/v2"

	"numa/internal/services"
	"numa/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

type cartLineReq struct {
	ProductID string `json:"productId" form:"productId"`
	Quantity  int    `json:"quantity" form:"quantity"`
}

// GET /api/cart
func (h *CartHandler) View(c *fiber.Ctx) error {
	return c.JSON(h.Cart.View(ensureSID(c)))
}

// POST /api/cart {productId, quantity}
func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var req cartLineReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body")
	}
	id, ok := validate.ID(req.ProductID)
	if !ok {
		return badRequest(c, "productId")
	}
	qty := req.Quantity
	if qty <= 0 {
		qty = 1
	}
	cv, err := h.Cart.Add(sid, id, validate.ClampQty(qty))
	if err != nil {
		return fail(c, "cart.add.fail", err)
	}
	return c.JSON(cv)
}

// PUT /api/cart/:productId {quantity}; zero or less removes the line
func (h *CartHandler) Update(c *fiber.Ctx) error {
	sid := ensureSID(c)
	id, ok := validate.ID(c.Params("productId"))
	if !ok {
		return badRequest(c, "productId")
	}
	var req cartLineReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body")
	}
	cv, err := h.Cart.SetQuantity(sid, id, validate.ClampQty(req.Quantity))
	if err != nil {
		return fail(c, "cart.update.fail", err)
	}
	return c.JSON(cv)
}

// DELETE /api/cart/:productId
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	id, ok := validate.ID(c.Params("productId"))
	if !ok {
		return badRequest(c, "productId")
	}
	cv, err := h.Cart.Remove(sid, id)
	if err != nil {
		return fail(c, "cart.remove.fail", err)
	}
	return c.JSON(cv)
}

// DELETE /api/cart
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	if err := h.Cart.Clear(ensureSID(c)); err != nil {
		return fail(c, "cart.clear.fail", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "numa/internal/log"
	"numa/internal/services"
	"numa/internal/validate"
)

type AdminHandler struct {
	Catalog   *services.CatalogService
	Settings  *services.SettingsService
	Forum     *services.ForumService
	Stock     *services.StockService
	Scheduler *services.ArticleScheduler
	Payments  *services.PaymentService
	Images    ImageStore
}

// GET /api/admin/products: full records, hidden fields included
func (h *AdminHandler) Products(c *fiber.Ctx) error {
	res, err := h.Catalog.List(services.ProductFilter{Sort: c.Query("sort")})
	if err != nil {
		return fail(c, "admin.products.list.fail", err)
	}
	return c.JSON(res)
}

// POST /api/admin/products
func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	var in productReq
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body")
	}
	p, err := h.Catalog.Create(in.toProduct(""))
	if err != nil {
		return fail(c, "admin.products.create.fail", err)
	}
	applog.Audit(c, "admin.products.create", map[string]any{"product_id": p.ID, "name": p.Name})
	return c.Status(fiber.StatusCreated).JSON(p)
}

// PUT /api/admin/products/:id
func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id")
	}
	var in productReq
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body")
	}
	p, err := h.Catalog.Update(in.toProduct(id))
	if err != nil {
		return fail(c, "admin.products.update.fail", err)
	}
	applog.Audit(c, "admin.products.update", map[string]any{"product_id": id})
	return c.JSON(p)
}

// DELETE /api/admin/products/:id
func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id")
	}
	if err := h.Catalog.Delete(id); err != nil {
		return fail(c, "admin.products.delete.fail", err)
	}
	applog.Audit(c, "admin.products.delete", map[string]any{"product_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// GET /api/admin/orders
func (h *AdminHandler) Orders(c *fiber.Ctx) error {
	ords, err := h.Payments.Recent(c.QueryInt("limit", 100))
	if err != nil {
		return fail(c, "admin.orders.list.fail", err)
	}
	return c.JSON(fiber.Map{"items": ords})
}

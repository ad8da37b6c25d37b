package handlers

import (
	"github.com/gofiber/fiber/v2"

	"numa/internal/domain"
	"numa/internal/log"
	"numa/internal/services"
	"numa/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// GET /api/products?category=&q=&inStock=&featured=&sort=
func (h *ProductHandler) List(c *fiber.Ctx) error {
	f := services.ProductFilter{
		Category:    c.Query("category"),
		InStockOnly: c.QueryBool("inStock"),
		Featured:    c.QueryBool("featured"),
		Sort:        c.Query("sort"),
	}
	if f.Category != "" && !domain.ValidCategory(f.Category) {
		return badRequest(c, "category")
	}
	if raw := c.Query("q"); raw != "" {
		q, ok := validate.Q(raw)
		if !ok {
			log.Security(c, "validation.fail", map[string]any{"field": "q"})
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid search"})
		}
		f.Query = q
	}
	res, err := h.Catalog.List(f)
	if err != nil {
		return fail(c, "products.list.fail", err)
	}
	for i := range res.Items {
		res.Items[i] = res.Items[i].Public()
	}
	return c.JSON(res)
}

// GET /api/products/:id
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "product"})
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Bu ürün artık mevcut değil"})
	}
	p, stale, err := h.Catalog.Get(id)
	if err != nil {
		if services.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Bu ürün artık mevcut değil"})
		}
		return fail(c, "products.get.fail", err)
	}
	return c.JSON(fiber.Map{"product": p.Public(), "stale": stale})
}

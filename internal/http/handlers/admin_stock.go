package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "numa/internal/log"
	"numa/internal/services"
)

// POST /api/admin/stock/adjust
func (h *AdminHandler) AdjustStock(c *fiber.Ctx) error {
	var a services.StockAdjustment
	if err := c.BodyParser(&a); err != nil {
		return badRequest(c, "body")
	}
	a.AdminEmail = adminEmail(c)
	p, entry, err := h.Stock.Adjust(a)
	if err != nil {
		return fail(c, "admin.stock.adjust.fail", err)
	}
	applog.Audit(c, "admin.stock.adjust", map[string]any{
		"product_id": p.ID,
		"type":       entry.Type,
		"quantity":   entry.Quantity,
		"previous":   entry.PreviousStock,
		"new":        entry.NewStock,
	})
	return c.JSON(fiber.Map{"product": p, "history": entry})
}

// GET /api/admin/stock/history?productId=&limit=
func (h *AdminHandler) StockHistory(c *fiber.Ctx) error {
	rows, err := h.Stock.History(c.Query("productId"), c.QueryInt("limit", 100))
	if err != nil {
		return fail(c, "admin.stock.history.fail", err)
	}
	return c.JSON(fiber.Map{"items": rows})
}

// GET /api/admin/scheduler
func (h *AdminHandler) SchedulerStatus(c *fiber.Ctx) error {
	return c.JSON(h.Scheduler.Status())
}

// POST /api/admin/scheduler/start {time: "HH:MM"}
func (h *AdminHandler) StartScheduler(c *fiber.Ctx) error {
	var req struct {
		Time string `json:"time" form:"time"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body")
	}
	if err := h.Scheduler.Start(req.Time); err != nil {
		return fail(c, "admin.scheduler.start.fail", err)
	}
	applog.Audit(c, "admin.scheduler.start", map[string]any{"at": req.Time})
	return c.JSON(h.Scheduler.Status())
}

// POST /api/admin/scheduler/stop
func (h *AdminHandler) StopScheduler(c *fiber.Ctx) error {
	h.Scheduler.Stop()
	applog.Audit(c, "admin.scheduler.stop", nil)
	return c.JSON(h.Scheduler.Status())
}

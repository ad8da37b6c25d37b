package handlers

import (
	"github.com/gofiber/fiber/v2"

	"numa/internal/domain"
	applog "numa/internal/log"
	"numa/internal/validate"
)

// GET /api/admin/settings
func (h *AdminHandler) GetSettings(c *fiber.Ctx) error {
	st, stale, err := h.Settings.Get()
	if err != nil {
		return fail(c, "admin.settings.get.fail", err)
	}
	return c.JSON(fiber.Map{"settings": st, "stale": stale})
}

// PUT /api/admin/settings
func (h *AdminHandler) SaveSettings(c *fiber.Ctx) error {
	var st domain.SiteSettings
	if err := c.BodyParser(&st); err != nil {
		return badRequest(c, "body")
	}
	saved, err := h.Settings.Save(st)
	if err != nil {
		return fail(c, "admin.settings.save.fail", err)
	}
	applog.Audit(c, "admin.settings.save", map[string]any{
		"campaign_active": saved.Campaign.IsActive,
		"ai_enabled":      saved.AI.Enabled,
	})
	return c.JSON(saved)
}

// GET /api/admin/forum: drafts included
func (h *AdminHandler) Posts(c *fiber.Ctx) error {
	posts, err := h.Forum.All()
	if err != nil {
		return fail(c, "admin.forum.list.fail", err)
	}
	return c.JSON(fiber.Map{"items": posts})
}

// POST /api/admin/forum
func (h *AdminHandler) CreatePost(c *fiber.Ctx) error {
	var p domain.ForumPost
	if err := c.BodyParser(&p); err != nil {
		return badRequest(c, "body")
	}
	p.ID = ""
	p.IsGenerated = false
	if p.Author == "" {
		p.Author = adminEmail(c)
	}
	saved, err := h.Forum.Create(p)
	if err != nil {
		return fail(c, "admin.forum.create.fail", err)
	}
	applog.Audit(c, "admin.forum.create", map[string]any{"post_id": saved.ID, "slug": saved.Slug})
	return c.Status(fiber.StatusCreated).JSON(saved)
}

// PUT /api/admin/forum/:id
func (h *AdminHandler) UpdatePost(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id")
	}
	var p domain.ForumPost
	if err := c.BodyParser(&p); err != nil {
		return badRequest(c, "body")
	}
	p.ID = id
	saved, err := h.Forum.Update(p)
	if err != nil {
		return fail(c, "admin.forum.update.fail", err)
	}
	applog.Audit(c, "admin.forum.update", map[string]any{"post_id": id})
	return c.JSON(saved)
}

// DELETE /api/admin/forum/:id
func (h *AdminHandler) DeletePost(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id")
	}
	if err := h.Forum.Delete(id); err != nil {
		return fail(c, "admin.forum.delete.fail", err)
	}
	applog.Audit(c, "admin.forum.delete", map[string]any{"post_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"numa/internal/services"
)

type SettingsHandler struct {
	Settings *services.SettingsService
	Now      func() time.Time
}

// GET /api/settings: storefront view, without the AI block.
func (h *SettingsHandler) Public(c *fiber.Ctx) error {
	st, stale, err := h.Settings.Get()
	if err != nil {
		return fail(c, "settings.get.fail", err)
	}
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	camp := fiber.Map{"active": false}
	if services.CampaignLive(st.Campaign, now()) {
		camp = fiber.Map{
			"active":      true,
			"title":       st.Campaign.Title,
			"description": st.Campaign.Description,
			"summary":     services.CampaignDescribe(st.Campaign),
			"minAmount":   st.Campaign.MinAmount,
			"endDate":     st.Campaign.EndDate,
		}
	}
	return c.JSON(fiber.Map{
		"siteName":     st.SiteName,
		"contactEmail": st.ContactEmail,
		"contactPhone": st.ContactPhone,
		"shippingNote": st.ShippingNote,
		"campaign":     camp,
		"stale":        stale,
	})
}

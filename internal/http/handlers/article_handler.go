package handlers

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "numa/internal/log"
	"numa/internal/services"
)

type ArticleHandler struct {
	Articles   *services.ArticleService
	CronSecret string
}

func (h *ArticleHandler) authorized(c *fiber.Ctx) bool {
	if h.CronSecret == "" {
		return false
	}
	got := c.Query("secret")
	if auth := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(auth, "Bearer ") {
		got = strings.TrimPrefix(auth, "Bearer ")
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.CronSecret)) == 1
}

// GET|POST /api/generate-article[?topic=]
func (h *ArticleHandler) Generate(c *fiber.Ctx) error {
	if !h.authorized(c) {
		applog.Security(c, "article.generate.unauthorized", nil)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	post, err := h.Articles.Generate(c.UserContext(), c.Query("topic"))
	if err != nil {
		applog.Error(c, "article.generate.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Article generation failed"})
	}
	return c.JSON(fiber.Map{"success": true, "postId": post.ID, "slug": post.Slug})
}

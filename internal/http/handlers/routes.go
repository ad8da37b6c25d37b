package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	applog "numa/internal/log"
)

func tooMany(action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		applog.Security(c, action, nil)
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Çok fazla istek, lütfen biraz sonra tekrar deneyin"})
	}
}

// Mount registers every route of the storefront API on app.
func Mount(app *fiber.App, d *Deps) {
	api := app.Group("/api")

	// Catalog and content
	api.Get("/products", d.ProductHandler.List)
	api.Get("/products/:id", d.ProductHandler.Detail)
	api.Get("/forum", d.ForumHandler.List)
	api.Get("/forum/:slug", d.ForumHandler.Read)
	api.Get("/settings", d.SettingsHandler.Public)

	// Visitor state
	api.Get("/cart", d.CartHandler.View)
	api.Post("/cart", d.CartHandler.Add)
	api.Delete("/cart", d.CartHandler.Clear)
	api.Put("/cart/:productId", d.CartHandler.Update)
	api.Delete("/cart/:productId", d.CartHandler.Remove)
	api.Get("/favorites", d.FavoriteHandler.List)
	api.Post("/favorites", d.FavoriteHandler.Save)
	api.Delete("/favorites", d.FavoriteHandler.Unsave)

	// Payment
	api.All("/create-payment", limiter.New(limiter.Config{
		Max:          10,
		Expiration:   time.Minute,
		LimitReached: tooMany("rate.checkout.hit"),
	}), d.PaymentHandler.Create)
	api.All("/shopier-callback", d.PaymentHandler.Callback)
	for _, m := range []string{fiber.MethodGet, fiber.MethodPost} {
		app.Add(m, "/payment/success", d.PaymentHandler.Result(true))
		app.Add(m, "/payment/fail", d.PaymentHandler.Result(false))
	}

	// Scheduled article generation (cron)
	api.Get("/generate-article", d.ArticleHandler.Generate)
	api.Post("/generate-article", d.ArticleHandler.Generate)

	// Admin
	api.Post("/admin/login", limiter.New(limiter.Config{
		Max:          5,
		Expiration:   10 * time.Minute,
		LimitReached: tooMany("rate.login.hit"),
	}), d.AuthHandler.Login)

	admin := api.Group("/admin", RequireAdmin(d.JWTSecret))
	admin.Get("/products", d.AdminHandler.Products)
	admin.Post("/products", d.AdminHandler.CreateProduct)
	admin.Put("/products/:id", d.AdminHandler.UpdateProduct)
	admin.Delete("/products/:id", d.AdminHandler.DeleteProduct)
	admin.Post("/products/:id/image", d.AdminHandler.UploadImage)
	admin.Get("/settings", d.AdminHandler.GetSettings)
	admin.Put("/settings", d.AdminHandler.SaveSettings)
	admin.Get("/forum", d.AdminHandler.Posts)
	admin.Post("/forum", d.AdminHandler.CreatePost)
	admin.Put("/forum/:id", d.AdminHandler.UpdatePost)
	admin.Delete("/forum/:id", d.AdminHandler.DeletePost)
	admin.Post("/stock/adjust", d.AdminHandler.AdjustStock)
	admin.Get("/stock/history", d.AdminHandler.StockHistory)
	admin.Get("/scheduler", d.AdminHandler.SchedulerStatus)
	admin.Post("/scheduler/start", d.AdminHandler.StartScheduler)
	admin.Post("/scheduler/stop", d.AdminHandler.StopScheduler)
	admin.Get("/orders", d.AdminHandler.Orders)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	})
}

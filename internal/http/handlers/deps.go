package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"numa/internal/config"
	"numa/internal/domain"
	"numa/internal/gemini"
	applog "numa/internal/log"
	"numa/internal/repos"
	"numa/internal/services"
	"numa/internal/shopier"
)

// ImageStore uploads product images; nil disables uploads.
type ImageStore interface {
	Put(ctx context.Context, key string, data []byte) (string, error)
}

type Deps struct {
	ProductHandler  *ProductHandler
	ForumHandler    *ForumHandler
	CartHandler     *CartHandler
	FavoriteHandler *FavoriteHandler
	SettingsHandler *SettingsHandler
	PaymentHandler  *PaymentHandler
	ArticleHandler  *ArticleHandler
	AdminHandler    *AdminHandler
	AuthHandler     *AuthHandler

	Settings  *services.SettingsService
	Articles  *services.ArticleService
	Scheduler *services.ArticleScheduler
	JWTSecret string
}

func NewDeps(db *sqlx.DB, cfg config.Config, views fiber.Views, images ImageStore) *Deps {
	policy := services.PolicyFor(cfg.ReadFallback)

	prodRepo := repos.NewProductRepo(db)
	settingsRepo := repos.NewSettingsRepo(db)
	forumRepo := repos.NewForumRepo(db)
	stockRepo := repos.NewStockRepo(db)
	cartRepo := repos.NewCartRepo(db)
	favRepo := repos.NewFavoriteRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	adminRepo := repos.NewAdminRepo(db)

	catalogSvc := services.NewCatalogService(prodRepo, policy)
	settingsSvc := services.NewSettingsService(settingsRepo, policy)
	forumSvc := services.NewForumService(forumRepo, policy)
	stockSvc := services.NewStockService(stockRepo)
	cartSvc := services.NewCartService(cartRepo, catalogSvc, settingsSvc)
	favSvc := services.NewFavoriteService(favRepo, catalogSvc)
	authSvc := services.NewAuthService(adminRepo, cfg.JWTSecret)

	gw := shopier.New(cfg.ShopierAPIKey, cfg.ShopierAPISecret, cfg.ShopierWebsiteIndex,
		cfg.ShopierPaymentURL, cfg.SiteURL+"/api/shopier-callback")
	checkoutSvc := services.NewCheckoutService(catalogSvc, settingsSvc, gw)
	paymentSvc := services.NewPaymentService(gw, orderRepo)

	articleSvc := services.NewArticleService(gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel), forumSvc, settingsSvc)
	scheduler := services.NewArticleScheduler(articleSvc.Run)
	settingsSvc.OnSave = func(st domain.SiteSettings) {
		if err := scheduler.Apply(st.AI.Enabled, st.AI.Time); err != nil {
			applog.Error(nil, "scheduler.apply.fail", err, nil)
		}
	}

	return &Deps{
		ProductHandler:  &ProductHandler{Catalog: catalogSvc},
		ForumHandler:    &ForumHandler{Forum: forumSvc},
		CartHandler:     &CartHandler{Cart: cartSvc},
		FavoriteHandler: &FavoriteHandler{Favorites: favSvc},
		SettingsHandler: &SettingsHandler{Settings: settingsSvc},
		PaymentHandler: &PaymentHandler{
			Checkout: checkoutSvc, Payments: paymentSvc, Settings: settingsSvc,
			Views: views, SiteURL: cfg.SiteURL,
		},
		ArticleHandler: &ArticleHandler{Articles: articleSvc, CronSecret: cfg.CronSecret},
		AdminHandler: &AdminHandler{
			Catalog: catalogSvc, Settings: settingsSvc, Forum: forumSvc, Stock: stockSvc,
			Scheduler: scheduler, Payments: paymentSvc, Images: images,
		},
		AuthHandler: &AuthHandler{Auth: authSvc},

		Settings:  settingsSvc,
		Articles:  articleSvc,
		Scheduler: scheduler,
		JWTSecret: cfg.JWTSecret,
	}
}

// StartScheduler arms the article scheduler from the stored AI settings.
func (d *Deps) StartScheduler() error {
	st, _, err := d.Settings.Get()
	if err != nil {
		return err
	}
	return d.Scheduler.Apply(st.AI.Enabled, st.AI.Time)
}

package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"numa/internal/config"
	"numa/internal/http/handlers"
	"numa/internal/media"
	"numa/internal/repos"
	"numa/web"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	db, err := repos.OpenDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := repos.SeedAdmin(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal(err)
	}

	// Product images are optional
	var images handlers.ImageStore
	store, err := media.NewStore(context.Background(), media.Options{
		Bucket: cfg.S3Bucket, Region: cfg.S3Region, Endpoint: cfg.S3Endpoint,
		AccessKeyID: cfg.S3AccessKeyID, SecretKey: cfg.S3SecretKey, PublicBaseURL: cfg.S3PublicBaseURL,
	})
	switch {
	case err == nil:
		images = store
	case errors.Is(err, media.ErrDisabled):
		log.Printf("[media] S3_BUCKET not set; image uploads disabled")
	default:
		log.Fatal(err)
	}

	// Templates & app
	engine := html.NewFileSystem(http.FS(web.Templates()), ".html")

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: handlers.ErrorHandler,
	})
	// Global body size guard (image uploads included)
	app.Server().MaxRequestBodySize = media.MaxImageBytes + 1<<20

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: cfg.CORSOrigins != "*",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			// the gateway may retry notifications in bursts
			return c.Path() == "/api/shopier-callback" || c.Path() == "/healthz"
		},
	}))

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db, cfg, engine, images)
	handlers.Mount(app, deps)

	if err := deps.StartScheduler(); err != nil {
		log.Printf("[warn] article scheduler not started: %v", err)
	}
	defer deps.Scheduler.Stop()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Printf("[shutdown] stopping")
		deps.Scheduler.Stop()
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

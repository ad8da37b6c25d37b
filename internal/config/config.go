package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	DBDriver string // sqlite | pgx
	DBDSN    string
	LogFile  string
	SiteURL  string

	JWTSecret     string
	AdminEmail    string
	AdminPassword string

	ShopierAPIKey       string
	ShopierAPISecret    string
	ShopierWebsiteIndex string
	ShopierPaymentURL   string

	GeminiAPIKey string
	GeminiModel  string
	CronSecret   string

	ReadFallback bool
	CORSOrigins  string

	S3Bucket        string
	S3Region        string
	S3Endpoint      string
	S3AccessKeyID   string
	S3SecretKey     string
	S3PublicBaseURL string
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// Load reads the environment, seeded from .env when present.
// Variables already set in the environment are never overwritten.
func Load() Config {
	if envMap, err := godotenv.Read(); err == nil {
		for k, v := range envMap {
			if os.Getenv(k) == "" {
				_ = os.Setenv(k, v)
			}
		}
	}

	cfg := Config{
		Port:     getenv("PORT", "8080"),
		DBDriver: getenv("DB_DRIVER", "sqlite"),
		DBDSN:    getenv("DB_DSN", "numa.db"), // sqlite file in project root
		LogFile:  getenv("LOG_FILE", ""),
		SiteURL:  strings.TrimRight(getenv("SITE_URL", "http://localhost:8080"), "/"),

		JWTSecret:     getenv("JWT_SECRET", ""),
		AdminEmail:    getenv("ADMIN_EMAIL", ""),
		AdminPassword: getenv("ADMIN_PASSWORD", ""),

		ShopierAPIKey:       getenv("SHOPIER_API_KEY", ""),
		ShopierAPISecret:    getenv("SHOPIER_API_SECRET", ""),
		ShopierWebsiteIndex: getenv("SHOPIER_WEBSITE_INDEX", "1"),
		ShopierPaymentURL:   getenv("SHOPIER_PAYMENT_URL", "https://www.shopier.com/ShowProduct/api_pay4.php"),

		GeminiAPIKey: getenv("GEMINI_API_KEY", ""),
		GeminiModel:  getenv("GEMINI_MODEL", "gemini-1.5-flash"),
		CronSecret:   getenv("CRON_SECRET", ""),

		ReadFallback: getenv("READ_FALLBACK", "true") != "false",
		CORSOrigins:  getenv("CORS_ORIGINS", "*"),

		S3Bucket:        getenv("S3_BUCKET", ""),
		S3Region:        getenv("S3_REGION", "auto"),
		S3Endpoint:      getenv("S3_ENDPOINT", ""),
		S3AccessKeyID:   getenv("S3_ACCESS_KEY_ID", ""),
		S3SecretKey:     getenv("S3_SECRET_ACCESS_KEY", ""),
		S3PublicBaseURL: strings.TrimRight(getenv("S3_PUBLIC_BASE_URL", ""), "/"),
	}

	if cfg.JWTSecret == "" {
		log.Printf("[warn] JWT_SECRET not set; admin API will reject every token")
	}
	log.Printf("[config] PORT=%s DB_DRIVER=%s DB_DSN=%s LOG_FILE=%s SITE_URL=%s READ_FALLBACK=%t S3_BUCKET=%s",
		cfg.Port, cfg.DBDriver, redactDSN(cfg.DBDSN), cfg.LogFile, cfg.SiteURL, cfg.ReadFallback, cfg.S3Bucket)
	return cfg
}

// redactDSN hides the password part of a postgres URL.
func redactDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return dsn
	}
	creds := dsn[scheme+3 : at]
	if i := strings.Index(creds, ":"); i >= 0 {
		return dsn[:scheme+3] + creds[:i] + ":***" + dsn[at:]
	}
	return dsn
}

package repos

import (
	"encoding/json"
	"log"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"numa/internal/domain"
)

// SettingsID is the key of the site settings singleton.
const SettingsID = "site-settings"

// OpenDB opens the store for driver "sqlite" (default) or "pgx" and makes
// sure the schema and baseline data exist.
func OpenDB(driver, dsn string) (*sqlx.DB, error) {
	if driver == "" {
		driver = "sqlite"
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// one connection: ":memory:" databases are per connection
		db.SetMaxOpenConns(1)
		if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
			return nil, err
		}
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed demo catalog and default settings if the store is empty
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Statements are kept portable between sqlite and postgres.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  original_name TEXT NOT NULL DEFAULT '',
  brand TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  price DOUBLE PRECISION NOT NULL CHECK (price >= 0),
  original_price DOUBLE PRECISION,
  image_url TEXT NOT NULL DEFAULT '',
  images_json TEXT NOT NULL DEFAULT '[]',
  category TEXT NOT NULL CHECK (category IN ('women','men','unisex')),
  size TEXT NOT NULL DEFAULT '',
  in_stock BOOLEAN NOT NULL DEFAULT TRUE,
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  total_sold INTEGER NOT NULL DEFAULT 0,
  notes_json TEXT NOT NULL DEFAULT '{}',
  seo_keywords_json TEXT NOT NULL DEFAULT '[]',
  featured BOOLEAN NOT NULL DEFAULT FALSE,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category)`,
	`CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at)`,

	`CREATE TABLE IF NOT EXISTS settings(
  id TEXT PRIMARY KEY,
  data TEXT NOT NULL,
  updated_at TEXT NOT NULL
)`,

	`CREATE TABLE IF NOT EXISTS forum_posts(
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  content TEXT NOT NULL,
  excerpt TEXT NOT NULL DEFAULT '',
  tags_json TEXT NOT NULL DEFAULT '[]',
  meta_title TEXT NOT NULL DEFAULT '',
  meta_description TEXT NOT NULL DEFAULT '',
  keywords_json TEXT NOT NULL DEFAULT '[]',
  author TEXT NOT NULL DEFAULT '',
  is_published BOOLEAN NOT NULL DEFAULT FALSE,
  is_generated BOOLEAN NOT NULL DEFAULT FALSE,
  view_count INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_forum_posts_created_at ON forum_posts(created_at)`,

	// Append-only; rows are never updated or deleted.
	`CREATE TABLE IF NOT EXISTS stock_history(
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL DEFAULT '',
  type TEXT NOT NULL CHECK (type IN ('increase','decrease','sale','adjustment')),
  quantity INTEGER NOT NULL,
  previous_stock INTEGER NOT NULL,
  new_stock INTEGER NOT NULL,
  reason TEXT NOT NULL DEFAULT '',
  admin_email TEXT NOT NULL DEFAULT '',
  sale_price DOUBLE PRECISION,
  sale_note TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_stock_history_product ON stock_history(product_id)`,

	// Serialized carts keyed by visitor session
	`CREATE TABLE IF NOT EXISTS carts(
  session_id TEXT PRIMARY KEY,
  data TEXT NOT NULL,
  updated_at TEXT NOT NULL
)`,

	`CREATE TABLE IF NOT EXISTS favorites(
  session_id TEXT NOT NULL,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  created_at TEXT NOT NULL,
  PRIMARY KEY (session_id, product_id)
)`,

	// Verified gateway notifications
	`CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  status TEXT NOT NULL,
  amount DOUBLE PRECISION NOT NULL DEFAULT 0,
  currency TEXT NOT NULL DEFAULT '',
  installment TEXT NOT NULL DEFAULT '',
  test_mode BOOLEAN NOT NULL DEFAULT FALSE,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at)`,

	`CREATE TABLE IF NOT EXISTS admins(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  created_at TEXT NOT NULL
)`,
}

func ensureSchema(db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n == 0 {
		log.Println("[seed] inserting demo perfumes")
		repo := NewProductRepo(db)
		for _, p := range SampleProducts() {
			if _, err := repo.Create(p); err != nil {
				return err
			}
		}
	}

	if err := db.Get(&n, db.Rebind(`SELECT COUNT(*) FROM settings WHERE id = ?`), SettingsID); err != nil {
		return err
	}
	if n == 0 {
		log.Println("[seed] inserting default site settings")
		b, _ := json.Marshal(DefaultSettings())
		if _, err := db.Exec(db.Rebind(`INSERT INTO settings(id, data, updated_at) VALUES(?,?,?)`),
			SettingsID, string(b), stamp()); err != nil {
			return err
		}
	}
	return nil
}

// SeedAdmin ensures an admin account exists for email (idempotent).
func SeedAdmin(db *sqlx.DB, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return err
	}
	_, err = db.Exec(db.Rebind(`
		INSERT INTO admins(id, email, name, password_hash, created_at)
		VALUES(?,?,?,?,?)
		ON CONFLICT(email) DO NOTHING
	`), "admin-"+email, email, "Admin", string(h), stamp())
	return err
}

// DefaultSettings are used for a fresh store and as the read fallback.
func DefaultSettings() domain.SiteSettings {
	return domain.SiteSettings{
		SiteName:     "NUMA Parfüm",
		ContactEmail: "info@numaparfum.com",
		ShippingNote: "Tüm siparişlerde ücretsiz kargo",
		Campaign: domain.CampaignSettings{
			IsActive:      false,
			Title:         "Sepette İndirim",
			Description:   "1000 TL ve üzeri alışverişlerde %10 indirim",
			MinAmount:     1000,
			DiscountType:  domain.DiscountPercentage,
			DiscountValue: 10,
		},
		AI: domain.AISettings{
			Enabled:     false,
			Time:        "09:00",
			AutoPublish: true,
			Topics: []string{
				"Kış aylarında kalıcı parfüm seçimi",
				"Odunsu ve amber notaların farkı",
				"Parfüm nasıl saklanır",
			},
		},
	}
}

// SampleProducts is the demo catalog; it also serves as the read fallback
// when the store is unreachable.
func SampleProducts() []domain.Product {
	op := func(v float64) *float64 { return &v }
	return []domain.Product{
		{
			ID: "numa-001", Name: "NUMA No.1 Rose Oud", OriginalName: "Rose Oud Intense", Brand: "Maison Sample",
			Description: "Gül ve oud notalarının yoğun buluşması.", Price: 850, OriginalPrice: op(1100),
			ImageURL: "/images/numa-001.jpg", Images: domain.StringList{"/images/numa-001.jpg"},
			Category: domain.CategoryWomen, Size: "50ml", InStock: true, Stock: 12,
			Notes:       domain.Notes{Top: []string{"Bergamot"}, Middle: []string{"Gül"}, Base: []string{"Oud", "Amber"}},
			SEOKeywords: domain.StringList{"gül parfüm", "oud"}, Featured: true,
		},
		{
			ID: "numa-002", Name: "NUMA No.7 Cedar Smoke", OriginalName: "Cedar Smoke", Brand: "Atelier Sample",
			Description: "Sedir ağacı ve tütsü ile kuru odunsu bir koku.", Price: 790,
			ImageURL: "/images/numa-002.jpg", Images: domain.StringList{"/images/numa-002.jpg"},
			Category: domain.CategoryMen, Size: "50ml", InStock: true, Stock: 8,
			Notes:       domain.Notes{Top: []string{"Kakule"}, Middle: []string{"Tütsü"}, Base: []string{"Sedir", "Vetiver"}},
			SEOKeywords: domain.StringList{"erkek parfüm", "odunsu"},
		},
		{
			ID: "numa-003", Name: "NUMA No.12 White Musk", OriginalName: "White Musk Veil", Brand: "Maison Sample",
			Description: "Temiz, pudralı misk.", Price: 690,
			ImageURL: "/images/numa-003.jpg", Images: domain.StringList{"/images/numa-003.jpg"},
			Category: domain.CategoryUnisex, Size: "100ml", InStock: false, Stock: 0,
			Notes:       domain.Notes{Top: []string{"Aldehit"}, Middle: []string{"İris"}, Base: []string{"Misk"}},
			SEOKeywords: domain.StringList{"misk", "unisex parfüm"},
		},
	}
}

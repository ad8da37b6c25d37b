package domain

import "time"

// Category values for perfumes.
const (
	CategoryWomen  = "women"
	CategoryMen    = "men"
	CategoryUnisex = "unisex"
)

func ValidCategory(c string) bool {
	switch c {
	case CategoryWomen, CategoryMen, CategoryUnisex:
		return true
	}
	return false
}

type Product struct {
	ID            string     `db:"id" json:"id"`
	Name          string     `db:"name" json:"name"`
	OriginalName  string     `db:"original_name" json:"originalName,omitempty"` // hidden on the storefront
	Brand         string     `db:"brand" json:"brand,omitempty"`                // hidden on the storefront
	Description   string     `db:"description" json:"description"`
	Price         float64    `db:"price" json:"price"`
	OriginalPrice *float64   `db:"original_price" json:"originalPrice,omitempty"`
	ImageURL      string     `db:"image_url" json:"imageUrl"`
	Images        StringList `db:"images_json" json:"images"`
	Category      string     `db:"category" json:"category"` // women | men | unisex
	Size          string     `db:"size" json:"size"`
	InStock       bool       `db:"in_stock" json:"inStock"`
	Stock         int        `db:"stock" json:"stock"`
	TotalSold     int        `db:"total_sold" json:"totalSold"`
	Notes         Notes      `db:"notes_json" json:"notes"`
	SEOKeywords   StringList `db:"seo_keywords_json" json:"seoKeywords"`
	Featured      bool       `db:"featured" json:"featured"`
	CreatedAt     string     `db:"created_at" json:"createdAt"`
	UpdatedAt     string     `db:"updated_at" json:"updatedAt"`
}

// Public strips the fields that only the admin panel may see.
func (p Product) Public() Product {
	p.OriginalName = ""
	p.Brand = ""
	return p
}

// Notes are the scent pyramid of a perfume.
type Notes struct {
	Top    []string `json:"top"`
	Middle []string `json:"middle"`
	Base   []string `json:"base"`
}

// CartProduct is the product snapshot kept inside a cart line.
type CartProduct struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"imageUrl,omitempty"`
	Size     string  `json:"size,omitempty"`
	Category string  `json:"category,omitempty"`
}

func SnapshotOf(p Product) CartProduct {
	return CartProduct{ID: p.ID, Name: p.Name, Price: p.Price, ImageURL: p.ImageURL, Size: p.Size, Category: p.Category}
}

type CartItem struct {
	Product  CartProduct `json:"product"`
	Quantity int         `json:"quantity"`
}

// Discount types.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

type CampaignSettings struct {
	IsActive      bool       `json:"isActive"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	MinAmount     float64    `json:"minAmount"`
	DiscountType  string     `json:"discountType"` // percentage | fixed
	DiscountValue float64    `json:"discountValue"`
	StartDate     *time.Time `json:"startDate,omitempty"`
	EndDate       *time.Time `json:"endDate,omitempty"`
}

type AISettings struct {
	Enabled     bool     `json:"enabled"`
	Time        string   `json:"time"` // HH:MM, server local time
	Topics      []string `json:"topics"`
	AutoPublish bool     `json:"autoPublish"`
}

type SiteSettings struct {
	SiteName     string           `json:"siteName"`
	ContactEmail string           `json:"contactEmail"`
	ContactPhone string           `json:"contactPhone"`
	ShippingNote string           `json:"shippingNote"`
	Campaign     CampaignSettings `json:"campaign"`
	AI           AISettings       `json:"ai"`
	UpdatedAt    string           `json:"updatedAt,omitempty"`
}

// Stock movement types.
const (
	StockIncrease   = "increase"
	StockDecrease   = "decrease"
	StockSale       = "sale"
	StockAdjustment = "adjustment"
)

type StockHistory struct {
	ID            string   `db:"id" json:"id"`
	ProductID     string   `db:"product_id" json:"productId"`
	ProductName   string   `db:"product_name" json:"productName"`
	Type          string   `db:"type" json:"type"`
	Quantity      int      `db:"quantity" json:"quantity"`
	PreviousStock int      `db:"previous_stock" json:"previousStock"`
	NewStock      int      `db:"new_stock" json:"newStock"`
	Reason        string   `db:"reason" json:"reason"`
	AdminEmail    string   `db:"admin_email" json:"adminEmail"`
	SalePrice     *float64 `db:"sale_price" json:"salePrice,omitempty"`
	SaleNote      string   `db:"sale_note" json:"saleNote,omitempty"`
	CreatedAt     string   `db:"created_at" json:"createdAt"`
}

type ForumPost struct {
	ID              string     `db:"id" json:"id"`
	Title           string     `db:"title" json:"title"`
	Slug            string     `db:"slug" json:"slug"`
	Content         string     `db:"content" json:"content"`
	Excerpt         string     `db:"excerpt" json:"excerpt"`
	Tags            StringList `db:"tags_json" json:"tags"`
	MetaTitle       string     `db:"meta_title" json:"metaTitle"`
	MetaDescription string     `db:"meta_description" json:"metaDescription"`
	Keywords        StringList `db:"keywords_json" json:"keywords"`
	Author          string     `db:"author" json:"author"`
	IsPublished     bool       `db:"is_published" json:"isPublished"`
	IsGenerated     bool       `db:"is_generated" json:"isGenerated"`
	ViewCount       int        `db:"view_count" json:"viewCount"`
	CreatedAt       string     `db:"created_at" json:"createdAt"`
	UpdatedAt       string     `db:"updated_at" json:"updatedAt"`
}

// PaymentRecord is a verified gateway notification.
type PaymentRecord struct {
	OrderID     string  `db:"id" json:"orderId"`
	Status      string  `db:"status" json:"status"`
	Amount      float64 `db:"amount" json:"amount"`
	Currency    string  `db:"currency" json:"currency"`
	Installment string  `db:"installment" json:"installment,omitempty"`
	TestMode    bool    `db:"test_mode" json:"testMode"`
	CreatedAt   string  `db:"created_at" json:"createdAt"`
	UpdatedAt   string  `db:"updated_at" json:"updatedAt"`
}

type Admin struct {
	ID    string `db:"id"`
	Email string `db:"email"`
	Name  string `db:"name"`
	Hash  string `db:"password_hash"`
}

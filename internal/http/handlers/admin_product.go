package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"numa/internal/domain"
	applog "numa/internal/log"
	"numa/internal/media"
	"numa/internal/validate"
)

// productReq is the editable part of a product. Stock counters are changed
// through stock adjustments only, except the initial stock on create.
type productReq struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	OriginalName  string       `json:"originalName"`
	Brand         string       `json:"brand"`
	Description   string       `json:"description"`
	Price         float64      `json:"price"`
	OriginalPrice *float64     `json:"originalPrice"`
	ImageURL      string       `json:"imageUrl"`
	Images        []string     `json:"images"`
	Category      string       `json:"category"`
	Size          string       `json:"size"`
	Stock         int          `json:"stock"`
	Notes         domain.Notes `json:"notes"`
	SEOKeywords   []string     `json:"seoKeywords"`
	Featured      bool         `json:"featured"`
}

func (r productReq) toProduct(id string) domain.Product {
	if id == "" {
		id = r.ID
	}
	return domain.Product{
		ID: id, Name: r.Name, OriginalName: r.OriginalName, Brand: r.Brand,
		Description: r.Description, Price: r.Price, OriginalPrice: r.OriginalPrice,
		ImageURL: r.ImageURL, Images: r.Images, Category: r.Category, Size: r.Size,
		Stock: r.Stock, Notes: r.Notes, SEOKeywords: r.SEOKeywords, Featured: r.Featured,
	}
}

// POST /api/admin/products/:id/image (multipart field "image")
func (h *AdminHandler) UploadImage(c *fiber.Ctx) error {
	if h.Images == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Görsel yükleme yapılandırılmamış"})
	}
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id")
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return badRequest(c, "image")
	}
	if fh.Size > media.MaxImageBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": "Görsel 5MB'dan büyük olamaz"})
	}
	key, err := media.ImageKey(id, fh.Filename)
	if err != nil {
		applog.Security(c, "admin.products.image.reject", map[string]any{"product_id": id, "filename": fh.Filename})
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{"error": "Yalnızca jpg, png veya webp"})
	}
	f, err := fh.Open()
	if err != nil {
		return fail(c, "admin.products.image.read", err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, media.MaxImageBytes+1))
	if err != nil {
		return fail(c, "admin.products.image.read", err)
	}

	url, err := h.Images.Put(c.UserContext(), key, data)
	if err != nil {
		return fail(c, "admin.products.image.upload", err)
	}
	p, err := h.Catalog.AddImage(id, url)
	if err != nil {
		return fail(c, "admin.products.image.save", err)
	}
	applog.Audit(c, "admin.products.image", map[string]any{"product_id": id, "url": url})
	return c.JSON(p)
}

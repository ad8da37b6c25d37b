package repos

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"numa/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
    id, name, original_name, brand, description, price, original_price, image_url, images_json,
    category, size, in_stock, stock, total_sold, notes_json, seo_keywords_json, featured,
    created_at, updated_at`

// List returns the whole catalog, newest first. Filtering happens in the
// service layer; the catalog is small.
func (r *ProductRepo) List() ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.Select(&out, `SELECT `+productCols+` FROM products ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, wrap("products.list", err)
	}
	return out, nil
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, r.db.Rebind(`SELECT `+productCols+` FROM products WHERE id = ?`), id)
	return p, wrap("products.get", err)
}

// Create inserts p, assigning an id when empty and fresh timestamps.
func (r *ProductRepo) Create(p domain.Product) (domain.Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := stamp()
	p.CreatedAt, p.UpdatedAt = now, now
	_, err := r.db.NamedExec(`
	  INSERT INTO products(`+productCols+`)
	  VALUES(:id, :name, :original_name, :brand, :description, :price, :original_price, :image_url, :images_json,
	         :category, :size, :in_stock, :stock, :total_sold, :notes_json, :seo_keywords_json, :featured,
	         :created_at, :updated_at)
	`, p)
	if err != nil {
		return domain.Product{}, wrap("products.create", err)
	}
	return p, nil
}

// Update overwrites the editable fields of p. Stock counters are owned by
// the stock adjustment flow and left untouched here.
func (r *ProductRepo) Update(p domain.Product) (domain.Product, error) {
	p.UpdatedAt = stamp()
	res, err := r.db.NamedExec(`
	  UPDATE products SET
	    name = :name, original_name = :original_name, brand = :brand, description = :description,
	    price = :price, original_price = :original_price, image_url = :image_url, images_json = :images_json,
	    category = :category, size = :size, notes_json = :notes_json, seo_keywords_json = :seo_keywords_json,
	    featured = :featured, updated_at = :updated_at
	  WHERE id = :id
	`, p)
	if err != nil {
		return domain.Product{}, wrap("products.update", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Product{}, ErrNotFound
	}
	return r.Get(p.ID)
}

func (r *ProductRepo) Delete(id string) error {
	res, err := r.db.Exec(r.db.Rebind(`DELETE FROM products WHERE id = ?`), id)
	if err != nil {
		return wrap("products.delete", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// AddImage appends url to the gallery and makes it the cover when none is set.
func (r *ProductRepo) AddImage(id, url string) (domain.Product, error) {
	p, err := r.Get(id)
	if err != nil {
		return domain.Product{}, err
	}
	p.Images = append(p.Images, url)
	if p.ImageURL == "" {
		p.ImageURL = url
	}
	return r.Update(p)
}

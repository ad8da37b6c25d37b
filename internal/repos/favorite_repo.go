package repos

import (
	"github.com/jmoiron/sqlx"

	"numa/internal/domain"
)

type FavoriteRepo struct{ db *sqlx.DB }

func NewFavoriteRepo(db *sqlx.DB) *FavoriteRepo { return &FavoriteRepo{db: db} }

func (r *FavoriteRepo) Add(sessionID, productID string) error {
	_, err := r.db.Exec(r.db.Rebind(`
	  INSERT INTO favorites(session_id, product_id, created_at)
	  VALUES(?, ?, ?)
	  ON CONFLICT(session_id, product_id) DO NOTHING
	`), sessionID, productID, stamp())
	return wrap("favorites.add", err)
}

func (r *FavoriteRepo) Remove(sessionID, productID string) error {
	_, err := r.db.Exec(r.db.Rebind(`DELETE FROM favorites WHERE session_id = ? AND product_id = ?`), sessionID, productID)
	return wrap("favorites.remove", err)
}

// List returns the favourite products of a session, most recently saved first.
func (r *FavoriteRepo) List(sessionID string) ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.Select(&out, r.db.Rebind(`
	  SELECT p.id, p.name, p.original_name, p.brand, p.description, p.price, p.original_price, p.image_url,
	         p.images_json, p.category, p.size, p.in_stock, p.stock, p.total_sold, p.notes_json,
	         p.seo_keywords_json, p.featured, p.created_at, p.updated_at
	  FROM favorites f
	  JOIN products p ON p.id = f.product_id
	  WHERE f.session_id = ?
	  ORDER BY f.created_at DESC
	`), sessionID)
	if err != nil {
		return nil, wrap("favorites.list", err)
	}
	return out, nil
}

package repos

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"numa/internal/domain"
)

type StockRepo struct{ db *sqlx.DB }

func NewStockRepo(db *sqlx.DB) *StockRepo { return &StockRepo{db: db} }

// StockApplier computes the new product state and its history entry from
// the current product.
type StockApplier func(domain.Product) (domain.Product, domain.StockHistory, error)

// Adjust loads and locks the product, lets apply compute the movement, then
// writes the stock counters and the history row in one transaction.
func (r *StockRepo) Adjust(productID string, apply StockApplier) (domain.Product, domain.StockHistory, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return domain.Product{}, domain.StockHistory{}, wrap("stock.begin", err)
	}
	defer func() { _ = tx.Rollback() }()

	var p domain.Product
	if err := tx.Get(&p, tx.Rebind(lockProductQuery(r.db.DriverName())), productID); err != nil {
		return domain.Product{}, domain.StockHistory{}, wrap("stock.load", err)
	}

	next, h, err := apply(p)
	if err != nil {
		return domain.Product{}, domain.StockHistory{}, err
	}
	now := stamp()
	next.UpdatedAt = now
	if _, err := tx.Exec(tx.Rebind(`
		UPDATE products SET stock = ?, in_stock = ?, total_sold = ?, updated_at = ?
		WHERE id = ?
	`), next.Stock, next.InStock, next.TotalSold, now, productID); err != nil {
		return domain.Product{}, domain.StockHistory{}, wrap("stock.update", err)
	}

	h.ID = uuid.NewString()
	h.CreatedAt = now
	if _, err := tx.NamedExec(`
		INSERT INTO stock_history(id, product_id, product_name, type, quantity, previous_stock, new_stock,
		                          reason, admin_email, sale_price, sale_note, created_at)
		VALUES(:id, :product_id, :product_name, :type, :quantity, :previous_stock, :new_stock,
		       :reason, :admin_email, :sale_price, :sale_note, :created_at)
	`, h); err != nil {
		return domain.Product{}, domain.StockHistory{}, wrap("stock.history", err)
	}
	if err := tx.Commit(); err != nil {
		return domain.Product{}, domain.StockHistory{}, wrap("stock.commit", err)
	}
	return next, h, nil
}

// lockProductQuery loads a product for update. sqlite serializes writers on
// its own and has no FOR UPDATE; other drivers lock the row so concurrent
// adjustments cannot both start from the same stock.
func lockProductQuery(driver string) string {
	q := `SELECT ` + productCols + ` FROM products WHERE id = ?`
	if driver != "sqlite" {
		q += ` FOR UPDATE`
	}
	return q
}

// History returns movements newest first; empty productID lists all products.
func (r *StockRepo) History(productID string, limit int) ([]domain.StockHistory, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []domain.StockHistory{}
	q := `SELECT id, product_id, product_name, type, quantity, previous_stock, new_stock, reason,
	             admin_email, sale_price, sale_note, created_at
	      FROM stock_history`
	args := []any{}
	if productID != "" {
		q += ` WHERE product_id = ?`
		args = append(args, productID)
	}
	q += ` ORDER BY created_at DESC, id LIMIT ?`
	args = append(args, limit)
	if err := r.db.Select(&out, r.db.Rebind(q), args...); err != nil {
		return nil, wrap("stock.history.list", err)
	}
	return out, nil
}

package repos

import (
	"github.com/jmoiron/sqlx"

	"numa/internal/domain"
)

// OrderRepo records gateway payment notifications. Orders are not stored
// before the buyer is redirected to the gateway.
type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// Record upserts by order id; a later notification (pending -> success)
// overwrites the status.
func (r *OrderRepo) Record(p domain.PaymentRecord) error {
	now := stamp()
	_, err := r.db.Exec(r.db.Rebind(`
	  INSERT INTO orders(id, status, amount, currency, installment, test_mode, created_at, updated_at)
	  VALUES(?, ?, ?, ?, ?, ?, ?, ?)
	  ON CONFLICT(id) DO UPDATE SET
	    status = excluded.status, amount = excluded.amount, currency = excluded.currency,
	    installment = excluded.installment, test_mode = excluded.test_mode, updated_at = excluded.updated_at
	`), p.OrderID, p.Status, p.Amount, p.Currency, p.Installment, p.TestMode, now, now)
	return wrap("orders.record", err)
}

func (r *OrderRepo) Get(orderID string) (domain.PaymentRecord, error) {
	var p domain.PaymentRecord
	err := r.db.Get(&p, r.db.Rebind(`
		SELECT id, status, amount, currency, installment, test_mode, created_at, updated_at
		FROM orders WHERE id = ?
	`), orderID)
	return p, wrap("orders.get", err)
}

func (r *OrderRepo) ListLatest(limit int) ([]domain.PaymentRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []domain.PaymentRecord{}
	err := r.db.Select(&out, r.db.Rebind(`
		SELECT id, status, amount, currency, installment, test_mode, created_at, updated_at
		FROM orders
		ORDER BY updated_at DESC
		LIMIT ?
	`), limit)
	if err != nil {
		return nil, wrap("orders.list", err)
	}
	return out, nil
}

package repos

import "github.com/jmoiron/sqlx"

// CartRepo is a key-value store of serialized carts, one blob per session.
type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

// Load returns ErrNotFound when the session has no saved cart.
func (r *CartRepo) Load(sessionID string) ([]byte, error) {
	var data string
	if err := r.db.Get(&data, r.db.Rebind(`SELECT data FROM carts WHERE session_id = ?`), sessionID); err != nil {
		return nil, wrap("carts.load", err)
	}
	return []byte(data), nil
}

func (r *CartRepo) Save(sessionID string, data []byte) error {
	_, err := r.db.Exec(r.db.Rebind(`
		INSERT INTO carts(session_id, data, updated_at) VALUES(?,?,?)
		ON CONFLICT(session_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`), sessionID, string(data), stamp())
	return wrap("carts.save", err)
}

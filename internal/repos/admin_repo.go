package repos

import (
	"strings"

	"github.com/jmoiron/sqlx"

	"numa/internal/domain"
)

type AdminRepo struct{ db *sqlx.DB }

func NewAdminRepo(db *sqlx.DB) *AdminRepo { return &AdminRepo{db: db} }

func (r *AdminRepo) ByEmail(email string) (*domain.Admin, error) {
	var a domain.Admin
	err := r.db.Get(&a, r.db.Rebind(`SELECT id, email, name, password_hash FROM admins WHERE email = ?`),
		strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, wrap("admins.by_email", err)
	}
	return &a, nil
}

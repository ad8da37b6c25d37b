package repos

import (
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"numa/internal/domain"
)

type SettingsRepo struct{ db *sqlx.DB }

func NewSettingsRepo(db *sqlx.DB) *SettingsRepo { return &SettingsRepo{db: db} }

func (r *SettingsRepo) Get() (domain.SiteSettings, error) {
	var row struct {
		Data      string `db:"data"`
		UpdatedAt string `db:"updated_at"`
	}
	if err := r.db.Get(&row, r.db.Rebind(`SELECT data, updated_at FROM settings WHERE id = ?`), SettingsID); err != nil {
		return domain.SiteSettings{}, wrap("settings.get", err)
	}
	var s domain.SiteSettings
	if err := json.Unmarshal([]byte(row.Data), &s); err != nil {
		return domain.SiteSettings{}, &RemoteError{Op: "settings.decode", Err: err}
	}
	s.UpdatedAt = row.UpdatedAt
	return s, nil
}

func (r *SettingsRepo) Save(s domain.SiteSettings) (domain.SiteSettings, error) {
	s.UpdatedAt = stamp()
	b, err := json.Marshal(s)
	if err != nil {
		return domain.SiteSettings{}, err
	}
	_, err = r.db.Exec(r.db.Rebind(`
		INSERT INTO settings(id, data, updated_at) VALUES(?,?,?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`), SettingsID, string(b), s.UpdatedAt)
	if err != nil {
		return domain.SiteSettings{}, wrap("settings.save", err)
	}
	return s, nil
}

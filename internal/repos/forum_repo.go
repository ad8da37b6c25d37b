package repos

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"numa/internal/domain"
)

type ForumRepo struct{ db *sqlx.DB }

func NewForumRepo(db *sqlx.DB) *ForumRepo { return &ForumRepo{db: db} }

const forumCols = `
    id, title, slug, content, excerpt, tags_json, meta_title, meta_description, keywords_json,
    author, is_published, is_generated, view_count, created_at, updated_at`

// List returns posts newest first. publishedOnly hides drafts.
func (r *ForumRepo) List(publishedOnly bool) ([]domain.ForumPost, error) {
	q := `SELECT ` + forumCols + ` FROM forum_posts`
	if publishedOnly {
		q += ` WHERE is_published = TRUE`
	}
	q += ` ORDER BY created_at DESC, id`
	out := []domain.ForumPost{}
	if err := r.db.Select(&out, q); err != nil {
		return nil, wrap("forum.list", err)
	}
	return out, nil
}

func (r *ForumRepo) GetBySlug(slug string) (domain.ForumPost, error) {
	var p domain.ForumPost
	err := r.db.Get(&p, r.db.Rebind(`SELECT `+forumCols+` FROM forum_posts WHERE slug = ?`), slug)
	return p, wrap("forum.get_slug", err)
}

func (r *ForumRepo) Get(id string) (domain.ForumPost, error) {
	var p domain.ForumPost
	err := r.db.Get(&p, r.db.Rebind(`SELECT `+forumCols+` FROM forum_posts WHERE id = ?`), id)
	return p, wrap("forum.get", err)
}

func (r *ForumRepo) SlugExists(slug string) (bool, error) {
	var n int
	if err := r.db.Get(&n, r.db.Rebind(`SELECT COUNT(*) FROM forum_posts WHERE slug = ?`), slug); err != nil {
		return false, wrap("forum.slug_exists", err)
	}
	return n > 0, nil
}

func (r *ForumRepo) Create(p domain.ForumPost) (domain.ForumPost, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := stamp()
	p.CreatedAt, p.UpdatedAt = now, now
	p.ViewCount = 0
	_, err := r.db.NamedExec(`
	  INSERT INTO forum_posts(`+forumCols+`)
	  VALUES(:id, :title, :slug, :content, :excerpt, :tags_json, :meta_title, :meta_description, :keywords_json,
	         :author, :is_published, :is_generated, :view_count, :created_at, :updated_at)
	`, p)
	if err != nil {
		return domain.ForumPost{}, wrap("forum.create", err)
	}
	return p, nil
}

func (r *ForumRepo) Update(p domain.ForumPost) (domain.ForumPost, error) {
	p.UpdatedAt = stamp()
	res, err := r.db.NamedExec(`
	  UPDATE forum_posts SET
	    title = :title, slug = :slug, content = :content, excerpt = :excerpt, tags_json = :tags_json,
	    meta_title = :meta_title, meta_description = :meta_description, keywords_json = :keywords_json,
	    author = :author, is_published = :is_published, updated_at = :updated_at
	  WHERE id = :id
	`, p)
	if err != nil {
		return domain.ForumPost{}, wrap("forum.update", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ForumPost{}, ErrNotFound
	}
	return r.Get(p.ID)
}

func (r *ForumRepo) Delete(id string) error {
	res, err := r.db.Exec(r.db.Rebind(`DELETE FROM forum_posts WHERE id = ?`), id)
	if err != nil {
		return wrap("forum.delete", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ForumRepo) IncrementViews(id string) error {
	_, err := r.db.Exec(r.db.Rebind(`UPDATE forum_posts SET view_count = view_count + 1 WHERE id = ?`), id)
	return wrap("forum.views", err)
}

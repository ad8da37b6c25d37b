package services

import (
	"strings"
	"sync"

	"numa/internal/domain"
	applog "numa/internal/log"
	"numa/internal/repos"
)

// PostList is a forum read; Stale marks a shadow copy served while the
// store was unreachable.
type PostList struct {
	Items []domain.ForumPost `json:"items"`
	Stale bool               `json:"stale"`
}

type ForumService struct {
	Repo     *repos.ForumRepo
	Fallback FallbackPolicy

	mu     sync.RWMutex
	shadow []domain.ForumPost // last good published list
}

func NewForumService(repo *repos.ForumRepo, policy FallbackPolicy) *ForumService {
	return &ForumService{Repo: repo, Fallback: policy}
}

// Published lists published posts, optionally only those tagged tag.
func (s *ForumService) Published(tag string) (PostList, error) {
	posts, err := s.Repo.List(true)
	stale := false
	if err != nil {
		if s.Fallback != UseFallback || !repos.IsRemote(err) {
			return PostList{}, err
		}
		applog.Error(nil, "forum.list.fallback", err, nil)
		s.mu.RLock()
		posts = append([]domain.ForumPost(nil), s.shadow...)
		s.mu.RUnlock()
		stale = true
	} else {
		s.mu.Lock()
		s.shadow = append([]domain.ForumPost(nil), posts...)
		s.mu.Unlock()
	}
	return PostList{Items: filterTag(posts, tag), Stale: stale}, nil
}

func filterTag(posts []domain.ForumPost, tag string) []domain.ForumPost {
	tag = strings.ToLower(strings.TrimSpace(tag))
	out := make([]domain.ForumPost, 0, len(posts))
	for _, p := range posts {
		if tag == "" {
			out = append(out, p)
			continue
		}
		for _, t := range p.Tags {
			if strings.ToLower(t) == tag {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// Read returns a published post by slug and counts the view. A failed view
// increment does not fail the read.
func (s *ForumService) Read(slug string) (domain.ForumPost, bool, error) {
	p, err := s.Repo.GetBySlug(slug)
	if err != nil {
		if s.Fallback == UseFallback && repos.IsRemote(err) {
			s.mu.RLock()
			defer s.mu.RUnlock()
			for _, sp := range s.shadow {
				if sp.Slug == slug {
					return sp, true, nil
				}
			}
			return domain.ForumPost{}, true, repos.ErrNotFound
		}
		return domain.ForumPost{}, false, err
	}
	if !p.IsPublished {
		return domain.ForumPost{}, false, repos.ErrNotFound
	}
	if err := s.Repo.IncrementViews(p.ID); err != nil {
		applog.Error(nil, "forum.views.fail", err, map[string]any{"post_id": p.ID})
	} else {
		p.ViewCount++
	}
	return p, false, nil
}

func (s *ForumService) All() ([]domain.ForumPost, error) {
	return s.Repo.List(false)
}

func (s *ForumService) Get(id string) (domain.ForumPost, error) {
	return s.Repo.Get(id)
}

// Create stores p, deriving a unique slug from the title when none is given.
func (s *ForumService) Create(p domain.ForumPost) (domain.ForumPost, error) {
	if err := validatePost(&p); err != nil {
		return domain.ForumPost{}, err
	}
	base := Slugify(p.Slug)
	if base == "" {
		base = Slugify(p.Title)
	}
	slug, err := uniqueSlug(base, s.Repo.SlugExists)
	if err != nil {
		return domain.ForumPost{}, err
	}
	p.Slug = slug
	return s.Repo.Create(p)
}

func (s *ForumService) Update(p domain.ForumPost) (domain.ForumPost, error) {
	if err := validatePost(&p); err != nil {
		return domain.ForumPost{}, err
	}
	cur, err := s.Repo.Get(p.ID)
	if err != nil {
		return domain.ForumPost{}, err
	}
	slug := Slugify(p.Slug)
	if slug == "" {
		slug = cur.Slug
	}
	if slug != cur.Slug {
		slug, err = uniqueSlug(slug, s.Repo.SlugExists)
		if err != nil {
			return domain.ForumPost{}, err
		}
	}
	p.Slug = slug
	return s.Repo.Update(p)
}

func (s *ForumService) Delete(id string) error {
	return s.Repo.Delete(id)
}

func validatePost(p *domain.ForumPost) error {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return invalid("title is required")
	}
	if strings.TrimSpace(p.Content) == "" {
		return invalid("content is required")
	}
	if p.Excerpt == "" {
		p.Excerpt = excerptOf(p.Content, 160)
	}
	if p.MetaTitle == "" {
		p.MetaTitle = p.Title
	}
	if p.MetaDescription == "" {
		p.MetaDescription = p.Excerpt
	}
	return nil
}

// excerptOf cuts content at a word boundary within n runes.
func excerptOf(content string, n int) string {
	r := []rune(strings.Join(strings.Fields(content), " "))
	if len(r) <= n {
		return string(r)
	}
	cut := string(r[:n])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"numa/internal/domain"
	applog "numa/internal/log"
)

// TextGenerator is the generative model behind article generation.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

var ErrBadArticle = errors.New("generated article is malformed")

const articlePrompt = `Sen NUMA Parfüm için yazan deneyimli bir parfüm uzmanısın.
Konu: %s

Türkçe, SEO uyumlu, 600-900 kelimelik bir blog yazısı hazırla. İçerik markdown olsun,
ara başlıklar (##) kullan ve okuru NUMA koleksiyonunu keşfetmeye davet eden kısa bir
kapanış paragrafı ekle. Marka adı uydurma.

Yanıtı yalnızca şu alanlara sahip bir JSON nesnesi olarak ver:
{"title": "...", "content": "...", "excerpt": "...", "tags": ["..."],
 "metaTitle": "...", "metaDescription": "...", "keywords": ["..."]}`

type generatedArticle struct {
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	Excerpt         string   `json:"excerpt"`
	Tags            []string `json:"tags"`
	MetaTitle       string   `json:"metaTitle"`
	MetaDescription string   `json:"metaDescription"`
	Keywords        []string `json:"keywords"`
}

// ArticleService writes AI generated forum posts.
type ArticleService struct {
	AI       TextGenerator
	Forum    *ForumService
	Settings *SettingsService

	mu   sync.Mutex
	turn int
}

func NewArticleService(ai TextGenerator, forum *ForumService, settings *SettingsService) *ArticleService {
	return &ArticleService{AI: ai, Forum: forum, Settings: settings}
}

// nextTopic walks the configured topics round robin.
func (s *ArticleService) nextTopic(topics []string) string {
	clean := topics[:0:0]
	for _, t := range topics {
		if t = strings.TrimSpace(t); t != "" {
			clean = append(clean, t)
		}
	}
	if len(clean) == 0 {
		return "Parfüm seçerken dikkat edilmesi gerekenler"
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t := clean[s.turn%len(clean)]
	s.turn++
	return t
}

// Generate asks the model for one article on topic (or the next configured
// topic when empty) and stores it.
func (s *ArticleService) Generate(ctx context.Context, topic string) (domain.ForumPost, error) {
	st, _, err := s.Settings.Get()
	if err != nil {
		return domain.ForumPost{}, err
	}
	if strings.TrimSpace(topic) == "" {
		topic = s.nextTopic(st.AI.Topics)
	}

	raw, err := s.AI.Generate(ctx, fmt.Sprintf(articlePrompt, topic))
	if err != nil {
		return domain.ForumPost{}, err
	}
	art, err := parseArticle(raw)
	if err != nil {
		return domain.ForumPost{}, err
	}

	post, err := s.Forum.Create(domain.ForumPost{
		Title:           art.Title,
		Content:         art.Content,
		Excerpt:         art.Excerpt,
		Tags:            art.Tags,
		MetaTitle:       art.MetaTitle,
		MetaDescription: art.MetaDescription,
		Keywords:        art.Keywords,
		Author:          "NUMA AI",
		IsPublished:     st.AI.AutoPublish,
		IsGenerated:     true,
	})
	if err != nil {
		return domain.ForumPost{}, err
	}
	applog.Audit(nil, "article.generated", map[string]any{"post_id": post.ID, "slug": post.Slug, "topic": topic})
	return post, nil
}

// Run is the scheduler job: it does nothing while generation is disabled.
func (s *ArticleService) Run(ctx context.Context) error {
	st, _, err := s.Settings.Get()
	if err != nil {
		return err
	}
	if !st.AI.Enabled {
		return nil
	}
	_, err = s.Generate(ctx, "")
	return err
}

// parseArticle accepts bare JSON or JSON wrapped in a ``` fence.
func parseArticle(raw string) (generatedArticle, error) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	if i, j := strings.Index(s, "{"), strings.LastIndex(s, "}"); i >= 0 && j > i {
		s = s[i : j+1]
	}
	var a generatedArticle
	if err := json.Unmarshal([]byte(s), &a); err != nil {
		return generatedArticle{}, fmt.Errorf("%w: %v", ErrBadArticle, err)
	}
	if strings.TrimSpace(a.Title) == "" || strings.TrimSpace(a.Content) == "" {
		return generatedArticle{}, fmt.Errorf("%w: missing title or content", ErrBadArticle)
	}
	return a, nil
}

package coursehub

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// ArticleIndex is an in-memory cache of published articles, newest first,
// with a slug lookup. It is rebuilt from the ArticleStore after the TTL
// expires or after Invalidate.
type ArticleIndex struct {
	mu       sync.RWMutex
	articles []Article
	bySlug   map[string]int
	fetched  time.Time
	ttl      time.Duration
	store    *ArticleStore
}

// NewArticleIndex creates an ArticleIndex backed by the given store.
func NewArticleIndex(s *ArticleStore, ttl time.Duration) *ArticleIndex {
	return &ArticleIndex{store: s, ttl: ttl}
}

func (x *ArticleIndex) valid() bool {
	return x.articles != nil && time.Since(x.fetched) < x.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (x *ArticleIndex) Invalidate() {
	x.mu.Lock()
	x.articles = nil
	x.bySlug = nil
	x.mu.Unlock()
}

func (x *ArticleIndex) load(ctx context.Context) error {
	if x.valid() {
		return nil
	}
	all, err := x.store.All(ctx)
	if err != nil {
		return err
	}
	published := make([]Article, 0, len(all))
	for _, a := range all {
		if a.Published() {
			published = append(published, a)
		}
	}
	SortByPublishDate(published)
	bySlug := make(map[string]int, len(published))
	for i, a := range published {
		// First match wins when two titles share a slug.
		if _, dup := bySlug[a.Slug()]; !dup {
			bySlug[a.Slug()] = i
		}
	}
	x.articles = published
	x.bySlug = bySlug
	x.fetched = time.Now()
	return nil
}

// ensureLoaded returns cached articles after ensuring the cache is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (x *ArticleIndex) ensureLoaded(ctx context.Context) ([]Article, map[string]int, error) {
	x.mu.RLock()
	if x.valid() {
		articles, bySlug := x.articles, x.bySlug
		x.mu.RUnlock()
		return articles, bySlug, nil
	}
	x.mu.RUnlock()

	x.mu.Lock()
	defer x.mu.Unlock()
	if err := x.load(ctx); err != nil {
		return nil, nil, err
	}
	return x.articles, x.bySlug, nil
}

// Published returns published articles, newest publish date first.
// The slice is shared; callers must not modify it.
func (x *ArticleIndex) Published(ctx context.Context) ([]Article, error) {
	articles, _, err := x.ensureLoaded(ctx)
	return articles, err
}

// BySlug returns the published article whose title slugifies to slug.
func (x *ArticleIndex) BySlug(ctx context.Context, slug string) (Article, error) {
	articles, bySlug, err := x.ensureLoaded(ctx)
	if err != nil {
		return Article{}, err
	}
	i, ok := bySlug[slug]
	if !ok {
		return Article{}, fmt.Errorf("article %q: %w", slug, ErrNotFound)
	}
	return articles[i], nil
}

// SortByPublishDate orders articles newest first.
func SortByPublishDate(articles []Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishDate.After(articles[j].PublishDate)
	})
}

// SortByUpdated orders articles most recently updated first.
func SortByUpdated(articles []Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].UpdatedAt.After(articles[j].UpdatedAt)
	})
}

// DashboardStats summarizes content for the admin dashboard.
type DashboardStats struct {
	TotalArticles     int
	PublishedArticles int
	DraftArticles     int
	TotalPages        int
	Recent            []Article
}

const recentArticles = 5

// Dashboard computes DashboardStats. It does not modify articles.
func Dashboard(articles []Article, pages []Page) DashboardStats {
	st := DashboardStats{
		TotalArticles: len(articles),
		TotalPages:    len(pages),
	}
	for _, a := range articles {
		switch a.Status {
		case StatusPublished:
			st.PublishedArticles++
		case StatusDraft:
			st.DraftArticles++
		}
	}
	recent := make([]Article, len(articles))
	copy(recent, articles)
	SortByUpdated(recent)
	if len(recent) > recentArticles {
		recent = recent[:recentArticles]
	}
	st.Recent = recent
	return st
}

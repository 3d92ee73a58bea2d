package coursehub

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"
)

// ArticleStore is the in-memory article collection.
type ArticleStore struct {
	mu       sync.RWMutex
	articles []Article
	latency  Latency
	now      func() time.Time
}

// NewArticleStore creates a store seeded with a copy of seed.
func NewArticleStore(seed []Article, latency Latency) *ArticleStore {
	return &ArticleStore{
		articles: slices.Clone(seed),
		latency:  latency,
		now:      time.Now,
	}
}

// All returns a snapshot of every article, in insertion order.
func (s *ArticleStore) All(ctx context.Context) ([]Article, error) {
	wait(ctx, s.latency.List)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.articles), nil
}

// Get returns the article with the given id.
func (s *ArticleStore) Get(ctx context.Context, id int) (Article, error) {
	wait(ctx, s.latency.Read)
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.index(id)
	if i < 0 {
		return Article{}, fmt.Errorf("article %d: %w", id, ErrNotFound)
	}
	return s.articles[i], nil
}

// Create assigns the next id and timestamps, then appends the article.
func (s *ArticleStore) Create(ctx context.Context, a Article) (Article, error) {
	wait(ctx, s.latency.Write)
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = nextID(s.articles, func(a Article) int { return a.ID })
	a.CreatedAt = s.now().UTC()
	a.UpdatedAt = a.CreatedAt
	s.articles = append(s.articles, a)
	return a, nil
}

// Update merges patch into the article. The id never changes and
// UpdatedAt never moves backwards.
func (s *ArticleStore) Update(ctx context.Context, id int, patch ArticlePatch) (Article, error) {
	wait(ctx, s.latency.Write)
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return Article{}, fmt.Errorf("article %d: %w", id, ErrNotFound)
	}
	a := s.articles[i]
	patch.apply(&a)
	a.ID = id
	a.UpdatedAt = stamp(s.now, a.UpdatedAt)
	s.articles[i] = a
	return a, nil
}

// Delete removes the article and returns what was removed.
func (s *ArticleStore) Delete(ctx context.Context, id int) (Article, error) {
	wait(ctx, s.latency.Write)
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return Article{}, fmt.Errorf("article %d: %w", id, ErrNotFound)
	}
	a := s.articles[i]
	s.articles = slices.Delete(s.articles, i, i+1)
	return a, nil
}

func (s *ArticleStore) index(id int) int {
	return slices.IndexFunc(s.articles, func(a Article) bool { return a.ID == id })
}

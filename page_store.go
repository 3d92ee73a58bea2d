package coursehub

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"
)

var defaultPageTitles = map[string]string{
	"about":   "About Us",
	"contact": "Contact",
	"privacy": "Privacy Policy",
}

// DefaultPageTitle returns the title used for a page that has never been edited.
func DefaultPageTitle(slug string) string {
	if t, ok := defaultPageTitles[slug]; ok {
		return t
	}
	return slug
}

// PageStore is the in-memory static page collection, keyed by slug.
type PageStore struct {
	mu      sync.RWMutex
	pages   []Page
	latency Latency
	now     func() time.Time
}

// NewPageStore creates a store seeded with a copy of seed.
func NewPageStore(seed []Page, latency Latency) *PageStore {
	return &PageStore{
		pages:   slices.Clone(seed),
		latency: latency,
		now:     time.Now,
	}
}

// All returns a snapshot of every known page.
func (s *PageStore) All(ctx context.Context) ([]Page, error) {
	wait(ctx, s.latency.List)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.pages), nil
}

// Get returns the page for slug without side effects.
func (s *PageStore) Get(ctx context.Context, slug string) (Page, error) {
	wait(ctx, s.latency.Read)
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.index(slug)
	if i < 0 {
		return Page{}, fmt.Errorf("page %q: %w", slug, ErrNotFound)
	}
	return s.pages[i], nil
}

// GetOrCreateDefault returns the page for slug, first storing an empty
// page with the default title if none exists yet.
func (s *PageStore) GetOrCreateDefault(ctx context.Context, slug string) (Page, error) {
	wait(ctx, s.latency.Read)
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(slug); i >= 0 {
		return s.pages[i], nil
	}
	p := Page{
		ID:        nextID(s.pages, func(p Page) int { return p.ID }),
		Slug:      slug,
		Title:     DefaultPageTitle(slug),
		UpdatedAt: s.now().UTC(),
	}
	s.pages = append(s.pages, p)
	return p, nil
}

// Update merges patch into the page for slug, creating it when absent.
// It currently never fails.
func (s *PageStore) Update(ctx context.Context, slug string, patch PagePatch) (Page, error) {
	wait(ctx, s.latency.Write)
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(slug)
	if i < 0 {
		p := Page{
			ID:    nextID(s.pages, func(p Page) int { return p.ID }),
			Slug:  slug,
			Title: DefaultPageTitle(slug),
		}
		patch.apply(&p)
		p.UpdatedAt = s.now().UTC()
		s.pages = append(s.pages, p)
		return p, nil
	}
	p := s.pages[i]
	patch.apply(&p)
	p.Slug = slug
	p.UpdatedAt = stamp(s.now, p.UpdatedAt)
	s.pages[i] = p
	return p, nil
}

func (s *PageStore) index(slug string) int {
	return slices.IndexFunc(s.pages, func(p Page) bool { return p.Slug == slug })
}

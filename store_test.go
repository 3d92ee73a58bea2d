package coursehub

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestArticleStore(t *testing.T, seed ...Article) *ArticleStore {
	t.Helper()
	return NewArticleStore(seed, Latency{})
}

func TestArticleCreateAssignsIncreasingIDs(t *testing.T) {
	ctx := context.Background()
	s := newTestArticleStore(t)

	a, err := s.Create(ctx, Article{Title: "A", Excerpt: "e", Content: "<p>c</p>", Status: StatusDraft})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if a.ID != 1 {
		t.Fatalf("first id = %d, want 1", a.ID)
	}
	b, err := s.Create(ctx, Article{Title: "B"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if b.ID != 2 {
		t.Fatalf("second id = %d, want 2", b.ID)
	}

	if _, err := s.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	all, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(all) != 1 || all[0].ID != 2 {
		t.Fatalf("All = %+v, want single article with id 2", all)
	}

	c, err := s.Create(ctx, Article{Title: "C"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if c.ID != 3 {
		t.Errorf("third id = %d, want 3 (ids must not be reused)", c.ID)
	}
}

func TestArticleCreateAfterDeletingAll(t *testing.T) {
	ctx := context.Background()
	s := newTestArticleStore(t, Article{ID: 7, Title: "seeded"})

	if _, err := s.Delete(ctx, 7); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	a, err := s.Create(ctx, Article{Title: "fresh"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if a.ID != 1 {
		t.Errorf("id on empty store = %d, want 1", a.ID)
	}
}

func TestArticleCreateStampsTimes(t *testing.T) {
	s := newTestArticleStore(t)
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	a, err := s.Create(context.Background(), Article{Title: "A", CreatedAt: time.Unix(1, 0)})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !a.CreatedAt.Equal(fixed) || !a.UpdatedAt.Equal(fixed) {
		t.Errorf("timestamps = %v / %v, want %v", a.CreatedAt, a.UpdatedAt, fixed)
	}
}

func TestArticleGetNotFound(t *testing.T) {
	s := newTestArticleStore(t)
	_, err := s.Get(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestArticleDeleteThenGet(t *testing.T) {
	ctx := context.Background()
	s := newTestArticleStore(t, Article{ID: 1, Title: "A"})

	removed, err := s.Delete(ctx, 1)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if removed.Title != "A" {
		t.Errorf("removed = %+v, want title A", removed)
	}
	if _, err := s.Get(ctx, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete: expected ErrNotFound, got %v", err)
	}
	if _, err := s.Delete(ctx, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete: expected ErrNotFound, got %v", err)
	}
}

func TestArticleUpdateMergesAndKeepsID(t *testing.T) {
	ctx := context.Background()
	prev := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := newTestArticleStore(t, Article{
		ID:        5,
		Title:     "Old",
		Excerpt:   "keep me",
		Status:    StatusDraft,
		UpdatedAt: prev,
	})

	title := "New"
	status := StatusPublished
	got, err := s.Update(ctx, 5, ArticlePatch{Title: &title, Status: &status})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.ID != 5 {
		t.Errorf("ID = %d, want 5", got.ID)
	}
	if got.Title != "New" || got.Status != StatusPublished {
		t.Errorf("patched fields not applied: %+v", got)
	}
	if got.Excerpt != "keep me" {
		t.Errorf("Excerpt = %q, want untouched value", got.Excerpt)
	}
	if got.UpdatedAt.Before(prev) {
		t.Errorf("UpdatedAt went backwards: %v < %v", got.UpdatedAt, prev)
	}
}

func TestArticleUpdateNeverMovesUpdatedAtBackwards(t *testing.T) {
	future := time.Now().Add(time.Hour).UTC()
	s := newTestArticleStore(t, Article{ID: 1, UpdatedAt: future})

	got, err := s.Update(context.Background(), 1, ArticlePatch{})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.UpdatedAt.Before(future) {
		t.Errorf("UpdatedAt = %v, want >= %v", got.UpdatedAt, future)
	}
}

func TestArticleUpdateNotFound(t *testing.T) {
	s := newTestArticleStore(t)
	_, err := s.Update(context.Background(), 3, ArticlePatch{})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestArticleSnapshotsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := newTestArticleStore(t, Article{ID: 1, Title: "A"})

	all, _ := s.All(ctx)
	all[0].Title = "mutated"

	got, err := s.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Title != "A" {
		t.Errorf("store state changed through snapshot: %q", got.Title)
	}
}

func TestLatencyWaitEndsWithContext(t *testing.T) {
	s := NewArticleStore(nil, Latency{Write: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a, err := s.Create(ctx, Article{Title: "still created"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if a.ID != 1 {
		t.Errorf("id = %d, want 1", a.ID)
	}
	if _, err := s.Get(context.Background(), 1); err != nil {
		t.Errorf("create with a cancelled context should still be stored: %v", err)
	}
}

func TestPageGetOrCreateDefault(t *testing.T) {
	ctx := context.Background()
	s := NewPageStore([]Page{{ID: 1, Slug: "about", Title: "About Us", Content: "<p>hi</p>"}}, Latency{})

	p, err := s.GetOrCreateDefault(ctx, "nonexistent-slug")
	if err != nil {
		t.Fatalf("GetOrCreateDefault failed: %v", err)
	}
	if p.Slug != "nonexistent-slug" || p.Content != "" {
		t.Errorf("synthesized page = %+v", p)
	}
	if p.Title != "nonexistent-slug" {
		t.Errorf("Title = %q, want slug fallback", p.Title)
	}
	if p.ID != 2 {
		t.Errorf("ID = %d, want 2", p.ID)
	}

	again, err := s.GetOrCreateDefault(ctx, "nonexistent-slug")
	if err != nil {
		t.Fatalf("GetOrCreateDefault failed: %v", err)
	}
	if again != p {
		t.Errorf("second call = %+v, want %+v", again, p)
	}
	all, _ := s.All(ctx)
	if len(all) != 2 {
		t.Errorf("pages = %d, want 2 (no duplicate synthesis)", len(all))
	}
}

func TestPageDefaultTitles(t *testing.T) {
	tests := map[string]string{
		"about":   "About Us",
		"contact": "Contact",
		"privacy": "Privacy Policy",
		"terms":   "terms",
	}
	s := NewPageStore(nil, Latency{})
	for slug, want := range tests {
		p, err := s.GetOrCreateDefault(context.Background(), slug)
		if err != nil {
			t.Fatalf("GetOrCreateDefault(%q) failed: %v", slug, err)
		}
		if p.Title != want {
			t.Errorf("GetOrCreateDefault(%q).Title = %q, want %q", slug, p.Title, want)
		}
	}
}

func TestPageGetIsPure(t *testing.T) {
	ctx := context.Background()
	s := NewPageStore(nil, Latency{})

	if _, err := s.Get(ctx, "about"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	all, _ := s.All(ctx)
	if len(all) != 0 {
		t.Errorf("Get must not create pages, got %d", len(all))
	}
}

func TestPageUpdateExistingKeepsSlug(t *testing.T) {
	ctx := context.Background()
	s := NewPageStore([]Page{{ID: 3, Slug: "contact", Title: "Contact", Content: "old"}}, Latency{})

	content := "<p>new</p>"
	p, err := s.Update(ctx, "contact", PagePatch{Content: &content})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if p.ID != 3 || p.Slug != "contact" || p.Title != "Contact" || p.Content != content {
		t.Errorf("Update = %+v", p)
	}
}

func TestPageUpdateCreatesUnknownSlug(t *testing.T) {
	ctx := context.Background()
	s := NewPageStore([]Page{{ID: 4, Slug: "about"}}, Latency{})

	title := "Terms"
	p, err := s.Update(ctx, "terms", PagePatch{Title: &title})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if p.ID != 5 || p.Slug != "terms" || p.Title != "Terms" {
		t.Errorf("Update = %+v", p)
	}
	got, err := s.Get(ctx, "terms")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != p {
		t.Errorf("Get = %+v, want %+v", got, p)
	}
}

func TestSettingsUpdateIsShallowMerge(t *testing.T) {
	ctx := context.Background()
	s := NewSettingsStore(Settings{
		AffiliateLink:       "https://old",
		AffiliateButtonText: "Go",
		SiteName:            "Course Hub",
		SiteDescription:     "Reviews",
	}, Latency{})

	link := "https://x"
	got := s.Update(ctx, SettingsPatch{AffiliateLink: &link})
	if got.AffiliateLink != "https://x" {
		t.Errorf("AffiliateLink = %q", got.AffiliateLink)
	}
	if got.SiteName != "Course Hub" || got.SiteDescription != "Reviews" || got.AffiliateButtonText != "Go" {
		t.Errorf("untouched fields changed: %+v", got)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("UpdatedAt should be stamped")
	}
	if s.Get(ctx) != got {
		t.Errorf("Get = %+v, want %+v", s.Get(ctx), got)
	}
}

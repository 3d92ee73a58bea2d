package coursehub

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Snapshot persists the full content of the stores to SQLite so a
// restart does not lose admin edits. The in-memory stores stay the
// source of truth; the snapshot is only read at startup.
type Snapshot struct {
	db *sql.DB
}

// OpenSnapshot opens (or creates) the SQLite database at path, ensures the
// data directory exists, and creates the schema.
func OpenSnapshot(path string) (*Snapshot, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(1)
	s := &Snapshot{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Snapshot) Close() error {
	return s.db.Close()
}

func (s *Snapshot) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS articles (
    id INTEGER PRIMARY KEY,
    title TEXT NOT NULL,
    excerpt TEXT NOT NULL,
    content TEXT NOT NULL,
    featured_image TEXT NOT NULL,
    status TEXT NOT NULL,
    publish_date TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS pages (
    id INTEGER PRIMARY KEY,
    slug TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS settings (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    affiliate_link TEXT NOT NULL,
    affiliate_button_text TEXT NOT NULL,
    site_name TEXT NOT NULL,
    site_description TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`)
	return err
}

// Load returns the stored content. ok is false when nothing was saved yet.
func (s *Snapshot) Load(ctx context.Context) (seed Seed, ok bool, err error) {
	var st Settings
	var updated string
	err = s.db.QueryRowContext(ctx, `SELECT affiliate_link, affiliate_button_text, site_name, site_description, updated_at FROM settings WHERE id = 1`).
		Scan(&st.AffiliateLink, &st.AffiliateButtonText, &st.SiteName, &st.SiteDescription, &updated)
	if err == sql.ErrNoRows {
		return Seed{}, false, nil
	}
	if err != nil {
		return Seed{}, false, fmt.Errorf("load settings: %w", err)
	}
	st.UpdatedAt = parseTime(updated)
	seed.Settings = st

	if seed.Articles, err = s.loadArticles(ctx); err != nil {
		return Seed{}, false, err
	}
	if seed.Pages, err = s.loadPages(ctx); err != nil {
		return Seed{}, false, err
	}
	return seed, true, nil
}

func (s *Snapshot) loadArticles(ctx context.Context) ([]Article, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, excerpt, content, featured_image, status, publish_date, created_at, updated_at FROM articles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load articles: %w", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		var a Article
		var status, publish, created, updated string
		if err := rows.Scan(&a.ID, &a.Title, &a.Excerpt, &a.Content, &a.FeaturedImage, &status, &publish, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		a.Status = ArticleStatus(status)
		a.PublishDate = parseTime(publish)
		a.CreatedAt = parseTime(created)
		a.UpdatedAt = parseTime(updated)
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func (s *Snapshot) loadPages(ctx context.Context) ([]Page, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, slug, title, content, updated_at FROM pages ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load pages: %w", err)
	}
	defer rows.Close()

	var pages []Page
	for rows.Next() {
		var p Page
		var updated string
		if err := rows.Scan(&p.ID, &p.Slug, &p.Title, &p.Content, &updated); err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		p.UpdatedAt = parseTime(updated)
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// Save replaces the stored content with seed in one transaction.
func (s *Snapshot) Save(ctx context.Context, seed Seed) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{`DELETE FROM articles`, `DELETE FROM pages`, `DELETE FROM settings`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	for _, a := range seed.Articles {
		if _, err := tx.ExecContext(ctx, `INSERT INTO articles (id, title, excerpt, content, featured_image, status, publish_date, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.ID, a.Title, a.Excerpt, a.Content, a.FeaturedImage, string(a.Status),
			formatTime(a.PublishDate), formatTime(a.CreatedAt), formatTime(a.UpdatedAt)); err != nil {
			return fmt.Errorf("save article %d: %w", a.ID, err)
		}
	}
	for _, p := range seed.Pages {
		if _, err := tx.ExecContext(ctx, `INSERT INTO pages (id, slug, title, content, updated_at) VALUES (?, ?, ?, ?, ?)`,
			p.ID, p.Slug, p.Title, p.Content, formatTime(p.UpdatedAt)); err != nil {
			return fmt.Errorf("save page %q: %w", p.Slug, err)
		}
	}
	st := seed.Settings
	if _, err := tx.ExecContext(ctx, `INSERT INTO settings (id, affiliate_link, affiliate_button_text, site_name, site_description, updated_at) VALUES (1, ?, ?, ?, ?, ?)`,
		st.AffiliateLink, st.AffiliateButtonText, st.SiteName, st.SiteDescription, formatTime(st.UpdatedAt)); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return tx.Commit()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

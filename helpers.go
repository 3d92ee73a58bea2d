package coursehub

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"
	"time"
)

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// ArticlePath returns the public path of a.
func ArticlePath(a Article) string {
	return "/article/" + url.PathEscape(a.Slug()) + "/"
}

// FormatDate renders t like "January 15, 2024", or "Recent" when unset.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "Recent"
	}
	return t.Format("January 02, 2006")
}

// RelatedArticles returns up to n published articles other than current.
// posts must already be ordered newest first.
func RelatedArticles(current Article, posts []Article, n int) []Article {
	var related []Article
	for _, p := range posts {
		if p.ID == current.ID {
			continue
		}
		related = append(related, p)
		if len(related) == n {
			break
		}
	}
	return related
}

// WebsiteJsonLD returns a JSON-LD string for a WebSite schema.
func WebsiteJsonLD(cfg SiteConfig, st Settings) string {
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "WebSite",
		"name":        st.SiteName,
		"url":         BuildURL(cfg.URL),
		"description": st.SiteDescription,
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// ArticleJsonLD returns a JSON-LD string for a BlogPosting schema.
func ArticleJsonLD(a Article, cfg SiteConfig, st Settings) string {
	articleURL := cfg.URL + ArticlePath(a)
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      a.Title,
		"description":   a.Excerpt,
		"datePublished": a.PublishDate.Format(time.RFC3339),
		"dateModified":  a.UpdatedAt.Format(time.RFC3339),
		"url":           articleURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   articleURL,
		},
	}
	if a.FeaturedImage != "" {
		data["image"] = a.FeaturedImage
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	if st.SiteName != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  st.SiteName,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

package views

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/eringen/coursehub"
)

// PathEscape wraps url.PathEscape for use in templates.
func PathEscape(s string) string {
	return url.PathEscape(s)
}

// StatusClass returns the CSS classes for an article status badge.
func StatusClass(s coursehub.ArticleStatus) string {
	if s == coursehub.StatusPublished {
		return "badge published"
	}
	return "badge"
}

// HumanSize formats a byte count as B, KB or MB.
func HumanSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return strconv.Itoa(n) + " B"
	}
}

func articleEditPath(a coursehub.Article) string {
	return "/admin/articles/" + strconv.Itoa(a.ID) + "/"
}

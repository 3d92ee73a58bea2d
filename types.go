package coursehub

import "time"

// ArticleStatus is the publication state of an article.
type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPublished ArticleStatus = "published"
)

// Valid reports whether s is a known status.
func (s ArticleStatus) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// Article is a blog article. Content holds rich HTML.
type Article struct {
	ID            int           `json:"id"`
	Title         string        `json:"title"`
	Excerpt       string        `json:"excerpt"`
	Content       string        `json:"content"`
	FeaturedImage string        `json:"featuredImage,omitempty"`
	Status        ArticleStatus `json:"status"`
	PublishDate   time.Time     `json:"publishDate"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// Slug is the public URL key of the article, derived from its title.
func (a Article) Slug() string {
	return Slugify(a.Title)
}

// Published reports whether the article is visible on the public site.
func (a Article) Published() bool {
	return a.Status == StatusPublished
}

// ArticlePatch is a partial update. Nil fields are left untouched.
type ArticlePatch struct {
	Title         *string
	Excerpt       *string
	Content       *string
	FeaturedImage *string
	Status        *ArticleStatus
	PublishDate   *time.Time
}

func (p ArticlePatch) apply(a *Article) {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Excerpt != nil {
		a.Excerpt = *p.Excerpt
	}
	if p.Content != nil {
		a.Content = *p.Content
	}
	if p.FeaturedImage != nil {
		a.FeaturedImage = *p.FeaturedImage
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.PublishDate != nil {
		a.PublishDate = *p.PublishDate
	}
}

// Page is a named static page such as "about".
type Page struct {
	ID        int       `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PagePatch is a partial page update. The slug can never be changed.
type PagePatch struct {
	Title   *string
	Content *string
}

func (p PagePatch) apply(pg *Page) {
	if p.Title != nil {
		pg.Title = *p.Title
	}
	if p.Content != nil {
		pg.Content = *p.Content
	}
}

// Settings is the site-wide affiliate configuration.
type Settings struct {
	AffiliateLink       string    `json:"affiliateLink"`
	AffiliateButtonText string    `json:"affiliateButtonText"`
	SiteName            string    `json:"siteName"`
	SiteDescription     string    `json:"siteDescription"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// ButtonText returns the affiliate call to action, with a fallback.
func (s Settings) ButtonText() string {
	if s.AffiliateButtonText != "" {
		return s.AffiliateButtonText
	}
	return "Explore Courses"
}

// SettingsPatch is a partial settings update.
type SettingsPatch struct {
	AffiliateLink       *string
	AffiliateButtonText *string
	SiteName            *string
	SiteDescription     *string
}

func (p SettingsPatch) apply(s *Settings) {
	if p.AffiliateLink != nil {
		s.AffiliateLink = *p.AffiliateLink
	}
	if p.AffiliateButtonText != nil {
		s.AffiliateButtonText = *p.AffiliateButtonText
	}
	if p.SiteName != nil {
		s.SiteName = *p.SiteName
	}
	if p.SiteDescription != nil {
		s.SiteDescription = *p.SiteDescription
	}
}

// Image is an uploaded file in the media library.
type Image struct {
	Filename   string
	URL        string
	Width      int
	Height     int
	Size       int
	UploadedAt time.Time
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}

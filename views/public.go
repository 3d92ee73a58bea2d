package views

import (
	"bytes"

	"github.com/a-h/templ"

	"github.com/eringen/coursehub"
)

func (v *site) home(articles []coursehub.Article, st coursehub.Settings) templ.Component {
	return component(func(buf *bytes.Buffer) {
		meta := coursehub.PageMeta{
			Title:       st.SiteName,
			Description: st.SiteDescription,
			URL:         coursehub.BuildURL(v.cfg.URL),
			OGType:      "website",
		}
		v.layout(buf, meta, st, coursehub.WebsiteJsonLD(v.cfg, st), func() {
			write(buf, `<section><h1>`)
			text(buf, st.SiteName)
			write(buf, `</h1><p>`)
			text(buf, st.SiteDescription)
			write(buf, `</p>`)
			affiliateButton(buf, st)
			write(buf, `</section><section>`)
			if len(articles) == 0 {
				write(buf, `<p class="muted">No articles yet. Check back soon.</p>`)
			}
			for _, a := range articles {
				articleCard(buf, a)
			}
			write(buf, `</section>`)
		})
	})
}

func (v *site) article(a coursehub.Article, related []coursehub.Article, st coursehub.Settings) templ.Component {
	return component(func(buf *bytes.Buffer) {
		meta := coursehub.PageMeta{
			Title:       a.Title,
			Description: a.Excerpt,
			URL:         v.cfg.URL + coursehub.ArticlePath(a),
			OGType:      "article",
		}
		v.layout(buf, meta, st, coursehub.ArticleJsonLD(a, v.cfg, st), func() {
			write(buf, `<article><h1>`)
			text(buf, a.Title)
			write(buf, `</h1><p class="muted">`)
			text(buf, coursehub.FormatDate(a.PublishDate))
			write(buf, `</p>`)
			if a.FeaturedImage != "" {
				write(buf, `<img src="`)
				text(buf, a.FeaturedImage)
				write(buf, `" alt="`)
				text(buf, a.Title)
				write(buf, `" style="max-width:100%">`)
			}
			// Content was sanitized when it was saved.
			write(buf, `<div class="content">`, a.Content, `</div></article>`)
			affiliateButton(buf, st)
			if len(related) > 0 {
				write(buf, `<section><h2>More reviews</h2>`)
				for _, r := range related {
					articleCard(buf, r)
				}
				write(buf, `</section>`)
			}
		})
	})
}

func (v *site) page(p coursehub.Page, st coursehub.Settings) templ.Component {
	return component(func(buf *bytes.Buffer) {
		meta := coursehub.PageMeta{
			Title:       p.Title,
			Description: st.SiteDescription,
			URL:         coursehub.BuildURL(v.cfg.URL, p.Slug),
			OGType:      "website",
		}
		v.layout(buf, meta, st, "", func() {
			write(buf, `<h1>`)
			text(buf, p.Title)
			write(buf, `</h1>`)
			if p.Content == "" {
				write(buf, `<p class="muted">This page has no content yet.</p>`)
				return
			}
			write(buf, `<div class="content">`, p.Content, `</div>`)
		})
	})
}

func (v *site) notFound() templ.Component {
	return component(func(buf *bytes.Buffer) {
		v.errorPage(buf, "Page not found", "The page you are looking for does not exist.")
	})
}

func (v *site) serverError() templ.Component {
	return component(func(buf *bytes.Buffer) {
		v.errorPage(buf, "Something went wrong", "Please try again in a moment.")
	})
}

func (v *site) errorPage(buf *bytes.Buffer, title, body string) {
	meta := coursehub.PageMeta{Title: title, URL: coursehub.BuildURL(v.cfg.URL), OGType: "website"}
	v.layout(buf, meta, coursehub.Settings{SiteName: "Course Hub"}, "", func() {
		write(buf, `<h1>`)
		text(buf, title)
		write(buf, `</h1><p>`)
		text(buf, body)
		write(buf, `</p><p><a href="/">Back to articles</a></p>`)
	})
}

func articleCard(buf *bytes.Buffer, a coursehub.Article) {
	write(buf, `<div class="card"><h2><a href="`)
	text(buf, coursehub.ArticlePath(a))
	write(buf, `">`)
	text(buf, a.Title)
	write(buf, `</a></h2><p class="muted">`)
	text(buf, coursehub.FormatDate(a.PublishDate))
	write(buf, `</p><p>`)
	text(buf, a.Excerpt)
	write(buf, `</p></div>`)
}

// affiliateButton links through /go/ so the target stays configurable.
func affiliateButton(buf *bytes.Buffer, st coursehub.Settings) {
	if st.AffiliateLink == "" {
		return
	}
	write(buf, `<p><a class="cta" href="/go/" rel="sponsored nofollow">`)
	text(buf, st.ButtonText())
	write(buf, `</a></p>`)
}

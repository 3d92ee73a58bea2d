package views

import (
	"bytes"
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/coursehub"
)

func (v *site) adminLogin(showError bool, csrf string) templ.Component {
	return component(func(buf *bytes.Buffer) {
		v.adminLayout(buf, "Log in", csrf, false, func() {
			write(buf, `<h1>Admin login</h1>`)
			if showError {
				write(buf, `<p class="error" role="alert">Invalid credentials</p>`)
			}
			write(buf, `<form method="post" action="/admin/login/">`)
			csrfField(buf, csrf)
			write(buf, `<label>Username <input name="username" autocomplete="username" required></label>`,
				`<label>Password <input type="password" name="password" autocomplete="current-password" required></label>`,
				`<p><button type="submit">Log in</button></p></form>`)
		})
	})
}

func (v *site) adminDashboard(stats coursehub.DashboardStats, csrf string) templ.Component {
	return component(func(buf *bytes.Buffer) {
		v.adminLayout(buf, "Dashboard", csrf, true, func() {
			write(buf, `<h1>Dashboard</h1><table><tbody>`)
			statRow(buf, "Total articles", stats.TotalArticles)
			statRow(buf, "Published", stats.PublishedArticles)
			statRow(buf, "Drafts", stats.DraftArticles)
			statRow(buf, "Pages", stats.TotalPages)
			write(buf, `</tbody></table><h2>Recently updated</h2>`)
			if len(stats.Recent) == 0 {
				write(buf, `<p class="muted">No articles yet.</p>`)
			}
			for _, a := range stats.Recent {
				write(buf, `<div class="card"><a href="`)
				text(buf, articleEditPath(a))
				write(buf, `">`)
				text(buf, a.Title)
				write(buf, `</a> <span class="`, StatusClass(a.Status), `">`)
				text(buf, string(a.Status))
				write(buf, `</span> <span class="muted">`)
				text(buf, coursehub.FormatDate(a.UpdatedAt))
				write(buf, `</span></div>`)
			}
			write(buf, `<p><a class="cta" href="/admin/articles/new/">New article</a></p>`)
		})
	})
}

func statRow(buf *bytes.Buffer, label string, n int) {
	write(buf, `<tr><th>`)
	text(buf, label)
	write(buf, `</th><td>`, strconv.Itoa(n), `</td></tr>`)
}

func (v *site) adminArticles(articles []coursehub.Article, msg, csrf string) templ.Component {
	return component(func(buf *bytes.Buffer) {
		v.adminLayout(buf, "Articles", csrf, true, func() {
			write(buf, `<h1>Articles</h1>`)
			message(buf, msg)
			write(buf, `<p><a class="cta" href="/admin/articles/new/">New article</a></p>`)
			if len(articles) == 0 {
				write(buf, `<p class="muted">No articles yet.</p>`)
				return
			}
			write(buf, `<table><thead><tr><th>Title</th><th>Status</th><th>Updated</th><th></th></tr></thead><tbody>`)
			for _, a := range articles {
				write(buf, `<tr><td><a href="`)
				text(buf, articleEditPath(a))
				write(buf, `">`)
				text(buf, a.Title)
				write(buf, `</a></td><td><span class="`, StatusClass(a.Status), `">`)
				text(buf, string(a.Status))
				write(buf, `</span></td><td>`)
				text(buf, coursehub.FormatDate(a.UpdatedAt))
				write(buf, `</td><td><form method="post" action="`)
				text(buf, articleEditPath(a)+"delete/")
				write(buf, `" onsubmit="return confirm('Delete this article?')">`)
				csrfField(buf, csrf)
				write(buf, `<button type="submit">Delete</button></form></td></tr>`)
			}
			write(buf, `</tbody></table>`)
		})
	})
}

func (v *site) adminArticleForm(a coursehub.Article, csrf string) templ.Component {
	return component(func(buf *bytes.Buffer) {
		title, action := "New article", "/admin/articles/"
		if a.ID != 0 {
			title, action = "Edit article", articleEditPath(a)
		}
		v.adminLayout(buf, title, csrf, true, func() {
			write(buf, `<h1>`)
			text(buf, title)
			write(buf, `</h1><form method="post" action="`)
			text(buf, action)
			write(buf, `">`)
			csrfField(buf, csrf)
			write(buf, `<label>Title <input name="title" required value="`)
			text(buf, a.Title)
			write(buf, `"></label><label>Excerpt <input name="excerpt" value="`)
			text(buf, a.Excerpt)
			write(buf, `"></label><label>Featured image URL <input name="featuredImage" value="`)
			text(buf, a.FeaturedImage)
			write(buf, `"></label><label>Status <select name="status">`)
			for _, s := range []coursehub.ArticleStatus{coursehub.StatusDraft, coursehub.StatusPublished} {
				write(buf, `<option value="`, string(s), `"`)
				if a.Status == s {
					write(buf, ` selected`)
				}
				write(buf, `>`, string(s), `</option>`)
			}
			write(buf, `</select></label><label>Format <select name="format">`,
				`<option value="html">HTML</option><option value="markdown">Markdown</option></select></label>`,
				`<label>Content <textarea name="content">`)
			text(buf, a.Content)
			write(buf, `</textarea></label><p><button type="submit">Save</button> <a href="/admin/articles/">Cancel</a></p></form>`)
		})
	})
}

func (v *site) adminPages(pages []coursehub.Page, msg, csrf string) templ.Component {
	return component(func(buf *bytes.Buffer) {
		v.adminLayout(buf, "Pages", csrf, true, func() {
			write(buf, `<h1>Pages</h1>`)
			message(buf, msg)
			write(buf, `<table><thead><tr><th>Page</th><th>Updated</th></tr></thead><tbody>`)
			for _, p := range pages {
				write(buf, `<tr><td><a href="/admin/pages/`)
				text(buf, PathEscape(p.Slug))
				write(buf, `/">`)
				text(buf, p.Title)
				write(buf, `</a></td><td>`)
				text(buf, coursehub.FormatDate(p.UpdatedAt))
				write(buf, `</td></tr>`)
			}
			write(buf, `</tbody></table>`)
		})
	})
}

func (v *site) adminPageForm(p coursehub.Page, csrf string) templ.Component {
	return component(func(buf *bytes.Buffer) {
		v.adminLayout(buf, "Edit "+p.Title, csrf, true, func() {
			write(buf, `<h1>Edit page</h1><form method="post" action="/admin/pages/`)
			text(buf, PathEscape(p.Slug))
			write(buf, `/">`)
			csrfField(buf, csrf)
			write(buf, `<label>Title <input name="title" value="`)
			text(buf, p.Title)
			write(buf, `"></label><label>Format <select name="format">`,
				`<option value="html">HTML</option><option value="markdown">Markdown</option></select></label>`,
				`<label>Content <textarea name="content">`)
			text(buf, p.Content)
			write(buf, `</textarea></label><p><button type="submit">Save</button> <a href="/admin/pages/">Cancel</a></p></form>`)
		})
	})
}

func (v *site) adminSettings(st coursehub.Settings, msg, csrf string) templ.Component {
	return component(func(buf *bytes.Buffer) {
		v.adminLayout(buf, "Settings", csrf, true, func() {
			write(buf, `<h1>Settings</h1>`)
			message(buf, msg)
			write(buf, `<form method="post" action="/admin/settings/">`)
			csrfField(buf, csrf)
			settingsInput(buf, "Site name", "siteName", st.SiteName)
			settingsInput(buf, "Site description", "siteDescription", st.SiteDescription)
			settingsInput(buf, "Affiliate link", "affiliateLink", st.AffiliateLink)
			settingsInput(buf, "Affiliate button text", "affiliateButtonText", st.AffiliateButtonText)
			write(buf, `<p><button type="submit">Save settings</button></p></form>`)
		})
	})
}

func settingsInput(buf *bytes.Buffer, label, name, value string) {
	write(buf, `<label>`)
	text(buf, label)
	write(buf, ` <input name="`, name, `" value="`)
	text(buf, value)
	write(buf, `"></label>`)
}

func (v *site) adminImages(images []coursehub.Image, csrf string) templ.Component {
	return component(func(buf *bytes.Buffer) {
		v.adminLayout(buf, "Images", csrf, true, func() {
			write(buf, `<h1>Images</h1><form method="post" action="/admin/images/upload/" enctype="multipart/form-data">`)
			csrfField(buf, csrf)
			write(buf, `<input type="file" name="image" accept="image/*" required> <button type="submit">Upload</button></form>`)
			if len(images) == 0 {
				write(buf, `<p class="muted">No images uploaded yet.</p>`)
				return
			}
			write(buf, `<table><tbody>`)
			for _, img := range images {
				write(buf, `<tr><td><img src="`)
				text(buf, img.URL)
				write(buf, `" alt="" width="120"></td><td><code>`)
				text(buf, img.URL)
				write(buf, `</code><br><span class="muted">`)
				text(buf, strconv.Itoa(img.Width)+"×"+strconv.Itoa(img.Height)+", "+HumanSize(img.Size))
				write(buf, `</span></td><td><form method="post" action="/admin/images/`)
				text(buf, PathEscape(img.Filename))
				write(buf, `/delete/">`)
				csrfField(buf, csrf)
				write(buf, `<button type="submit">Delete</button></form></td></tr>`)
			}
			write(buf, `</tbody></table>`)
		})
	})
}

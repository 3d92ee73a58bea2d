package views

import (
	"bytes"

	"github.com/eringen/coursehub"
)

const stylesheet = `body{margin:0;font-family:Georgia,serif;color:#1f2328;background:#fdfbf7}
a{color:#9a3412}
header,footer{padding:1rem 2rem;border-bottom:1px solid #e7e2d8}
footer{border-top:1px solid #e7e2d8;border-bottom:0;font-size:.9rem}
nav a{margin-right:1rem;text-decoration:none}
main{max-width:48rem;margin:0 auto;padding:2rem}
.card{border:1px solid #e7e2d8;border-radius:6px;padding:1rem;margin-bottom:1rem;background:#fff}
.cta{display:inline-block;background:#9a3412;color:#fff;padding:.6rem 1.2rem;border-radius:4px;text-decoration:none}
.muted{color:#6b6b6b;font-size:.9rem}
.badge{font-size:.75rem;padding:.1rem .5rem;border-radius:999px;background:#eee}
.badge.published{background:#dcfce7}
.notice{background:#fef3c7;padding:.5rem 1rem;border-radius:4px}
.error{background:#fee2e2;padding:.5rem 1rem;border-radius:4px}
table{width:100%;border-collapse:collapse}td,th{text-align:left;padding:.4rem;border-bottom:1px solid #eee}
label{display:block;margin-top:1rem}input,textarea,select{width:100%;padding:.4rem;box-sizing:border-box}
textarea{min-height:16rem;font-family:monospace}`

// layout wraps body in the shared public chrome.
func (v *site) layout(buf *bytes.Buffer, meta coursehub.PageMeta, st coursehub.Settings, jsonLD string, body func()) {
	title := meta.Title
	if st.SiteName != "" && title != st.SiteName {
		title = title + " | " + st.SiteName
	}
	write(buf, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`,
		`<meta name="viewport" content="width=device-width, initial-scale=1">`, `<title>`)
	text(buf, title)
	write(buf, `</title><meta name="description" content="`)
	text(buf, meta.Description)
	write(buf, `"><link rel="canonical" href="`)
	text(buf, meta.URL)
	write(buf, `"><meta property="og:title" content="`)
	text(buf, meta.Title)
	write(buf, `"><meta property="og:type" content="`)
	text(buf, meta.OGType)
	write(buf, `"><meta property="og:url" content="`)
	text(buf, meta.URL)
	write(buf, `"><link rel="icon" href="/favicon.svg" type="image/svg+xml">`,
		`<link rel="alternate" type="application/rss+xml" title="RSS" href="/feed.xml">`)
	if jsonLD != "" {
		write(buf, `<script type="application/ld+json">`, jsonLD, `</script>`)
	}
	write(buf, `<style>`, stylesheet, `</style></head><body><header><a href="/"><strong>`)
	text(buf, st.SiteName)
	write(buf, `</strong></a> <nav style="display:inline;margin-left:2rem">`,
		`<a href="/">Articles</a><a href="/about/">About</a><a href="/contact/">Contact</a></nav></header><main>`)
	body()
	write(buf, `</main><footer><a href="/privacy/">Privacy</a> · <a href="/feed.xml">RSS</a>`)
	if st.AffiliateLink != "" {
		write(buf, ` · <span class="muted">This site contains affiliate links.</span>`)
	}
	write(buf, `</footer></body></html>`)
}

// adminLayout wraps body in the admin chrome.
func (v *site) adminLayout(buf *bytes.Buffer, title, csrf string, nav bool, body func()) {
	write(buf, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`,
		`<meta name="robots" content="noindex"><title>`)
	text(buf, title)
	write(buf, ` | Admin</title><style>`, stylesheet, `</style></head><body>`)
	if nav {
		write(buf, `<header><nav style="display:inline">`,
			`<a href="/admin/dashboard/">Dashboard</a><a href="/admin/articles/">Articles</a>`,
			`<a href="/admin/pages/">Pages</a><a href="/admin/images/">Images</a>`,
			`<a href="/admin/settings/">Settings</a><a href="/" target="_blank">View site</a></nav>`,
			`<form method="post" action="/admin/logout/" style="display:inline;float:right">`)
		csrfField(buf, csrf)
		write(buf, `<button type="submit">Log out</button></form></header>`)
	}
	write(buf, `<main>`)
	body()
	write(buf, `</main></body></html>`)
}

func csrfField(buf *bytes.Buffer, csrf string) {
	write(buf, `<input type="hidden" name="_csrf" value="`)
	text(buf, csrf)
	write(buf, `">`)
}

func message(buf *bytes.Buffer, msg string) {
	if msg == "" {
		return
	}
	write(buf, `<p class="notice" role="status">`)
	text(buf, msg)
	write(buf, `</p>`)
}

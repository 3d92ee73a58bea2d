// Package views is the default set of coursehub templates. Each component
// writes plain HTML; applications can replace any of them through
// coursehub.ViewFuncs.
package views

import (
	"bytes"
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/coursehub"
)

// New returns the default ViewFuncs for cfg.
func New(cfg coursehub.SiteConfig) coursehub.ViewFuncs {
	v := &site{cfg: cfg}
	return coursehub.ViewFuncs{
		Home:             v.home,
		Article:          v.article,
		Page:             v.page,
		AdminLogin:       v.adminLogin,
		AdminDashboard:   v.adminDashboard,
		AdminArticles:    v.adminArticles,
		AdminArticleForm: v.adminArticleForm,
		AdminPages:       v.adminPages,
		AdminPageForm:    v.adminPageForm,
		AdminSettings:    v.adminSettings,
		AdminImages:      v.adminImages,
		NotFound:         v.notFound,
		ServerError:      v.serverError,
	}
}

type site struct {
	cfg coursehub.SiteConfig
}

// component adapts a buffer-writing func to templ.Component.
func component(fn func(buf *bytes.Buffer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		fn(&buf)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// write appends s verbatim.
func write(buf *bytes.Buffer, parts ...string) {
	for _, s := range parts {
		buf.WriteString(s)
	}
}

// text appends s HTML-escaped.
func text(buf *bytes.Buffer, s string) {
	buf.WriteString(templ.EscapeString(s))
}

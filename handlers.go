package coursehub

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

const relatedCount = 3

func (a *App) handleHome(c echo.Context) error {
	ctx := c.Request().Context()
	articles, err := a.Index.Published(ctx)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Home(articles, a.Settings.Get(ctx)))
}

func (a *App) handleArticle(c echo.Context) error {
	ctx := c.Request().Context()
	article, err := a.Index.BySlug(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}
	articles, err := a.Index.Published(ctx)
	if err != nil {
		return err
	}
	related := RelatedArticles(article, articles, relatedCount)
	return Render(c, a.Views.Article(article, related, a.Settings.Get(ctx)))
}

// handlePage serves a static page, creating an empty default on first visit.
func (a *App) handlePage(slug string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		page, err := a.Pages.GetOrCreateDefault(ctx, slug)
		if err != nil {
			return err
		}
		return Render(c, a.Views.Page(page, a.Settings.Get(ctx)))
	}
}

// handleAffiliate sends visitors to the configured affiliate link.
func (a *App) handleAffiliate(c echo.Context) error {
	link := a.Settings.Get(c.Request().Context()).AffiliateLink
	u, ok := SafeURL(link)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	return c.Redirect(http.StatusFound, u)
}

func (a *App) handleSitemap(c echo.Context) error {
	articles, err := a.Index.Published(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderSitemap(c, articles)
}

func (a *App) handleFeed(c echo.Context) error {
	ctx := c.Request().Context()
	articles, err := a.Index.Published(ctx)
	if err != nil {
		return err
	}
	return a.renderRSS(c, articles, a.Settings.Get(ctx))
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.Config.StaticDir + "/favicon.svg")
}

func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /admin/\nDisallow: /go/\n\nSitemap: %s/sitemap.xml\n", a.Config.URL)
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if (ok && he.Code == http.StatusNotFound) || errors.Is(err, ErrNotFound) {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

package coursehub

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/coursehub/markdown"
)

const (
	msgArticleCreated = "Article created successfully!"
	msgArticleUpdated = "Article updated successfully!"
	msgArticleDeleted = "Article deleted successfully!"
	msgArticleFailed  = "Failed to save article. Please try again."
	msgTitleRequired  = "Title is required."
	msgImageInvalid   = "Featured image must be an http(s) or site-relative URL."
	msgPageSaved      = "Page updated successfully!"
	msgPageFailed     = "Failed to save page. Please try again."
	msgSettingsSaved  = "Settings saved successfully!"
	msgSettingsFailed = "Affiliate link must be an http(s) URL."
)

func (a *App) handleAdminIndex(c echo.Context) error {
	if a.IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/dashboard/")
	}
	return c.Redirect(http.StatusSeeOther, "/admin/login/")
}

func (a *App) handleAdminLoginForm(c echo.Context) error {
	if a.IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/dashboard/")
	}
	return Render(c, a.Views.AdminLogin(false, CsrfToken(c)))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")
	ok, err := a.Guard(c).Login(c.Request().Context(), username, password)
	if err != nil {
		return err
	}
	if !ok {
		a.loginLimiter.Record(ip)
		return RenderStatus(c, http.StatusUnauthorized, a.Views.AdminLogin(true, CsrfToken(c)))
	}
	a.loginLimiter.Reset(ip)
	return c.Redirect(http.StatusSeeOther, "/admin/dashboard/")
}

func (a *App) handleAdminLogout(c echo.Context) error {
	if err := a.Guard(c).Logout(); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/login/")
}

func (a *App) handleAdminDashboard(c echo.Context) error {
	ctx := c.Request().Context()
	articles, err := a.Articles.All(ctx)
	if err != nil {
		return err
	}
	pages, err := a.Pages.All(ctx)
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminDashboard(Dashboard(articles, pages), CsrfToken(c)))
}

func (a *App) handleAdminArticles(c echo.Context) error {
	return a.renderAdminArticles(c, http.StatusOK, c.QueryParam("msg"))
}

func (a *App) handleAdminArticleNew(c echo.Context) error {
	return Render(c, a.Views.AdminArticleForm(Article{Status: StatusDraft}, CsrfToken(c)))
}

func (a *App) handleAdminArticleEdit(c echo.Context) error {
	id, err := articleID(c)
	if err != nil {
		return err
	}
	article, err := a.Articles.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminArticleForm(article, CsrfToken(c)))
}

func (a *App) handleAdminArticleCreate(c echo.Context) error {
	form, err := parseArticleForm(c)
	if err != nil {
		return a.renderAdminArticles(c, http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()
	if _, err := a.Articles.Create(ctx, Article{
		Title:         *form.Title,
		Excerpt:       *form.Excerpt,
		Content:       *form.Content,
		FeaturedImage: *form.FeaturedImage,
		Status:        *form.Status,
		PublishDate:   *form.PublishDate,
	}); err != nil {
		c.Logger().Errorf("create article: %v", err)
		return a.renderAdminArticles(c, http.StatusInternalServerError, msgArticleFailed)
	}
	a.afterArticleWrite(c)
	return a.renderAdminArticles(c, http.StatusOK, msgArticleCreated)
}

func (a *App) handleAdminArticleUpdate(c echo.Context) error {
	id, err := articleID(c)
	if err != nil {
		return err
	}
	form, err := parseArticleForm(c)
	if err != nil {
		return a.renderAdminArticles(c, http.StatusBadRequest, err.Error())
	}
	if _, err := a.Articles.Update(c.Request().Context(), id, form); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		c.Logger().Errorf("update article %d: %v", id, err)
		return a.renderAdminArticles(c, http.StatusInternalServerError, msgArticleFailed)
	}
	a.afterArticleWrite(c)
	return a.renderAdminArticles(c, http.StatusOK, msgArticleUpdated)
}

func (a *App) handleAdminArticleDelete(c echo.Context) error {
	id, err := articleID(c)
	if err != nil {
		return err
	}
	if _, err := a.Articles.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	a.afterArticleWrite(c)
	return a.renderAdminArticles(c, http.StatusOK, msgArticleDeleted)
}

func (a *App) afterArticleWrite(c echo.Context) {
	a.Index.Invalidate()
	a.persist(c.Request().Context())
}

func (a *App) renderAdminArticles(c echo.Context, code int, msg string) error {
	articles, err := a.Articles.All(c.Request().Context())
	if err != nil {
		return err
	}
	SortByUpdated(articles)
	return RenderStatus(c, code, a.Views.AdminArticles(articles, msg, CsrfToken(c)))
}

func (a *App) handleAdminPages(c echo.Context) error {
	return a.renderAdminPages(c, http.StatusOK, c.QueryParam("msg"))
}

func (a *App) handleAdminPageEdit(c echo.Context) error {
	slug, err := pageSlug(c)
	if err != nil {
		return err
	}
	page, err := a.Pages.GetOrCreateDefault(c.Request().Context(), slug)
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminPageForm(page, CsrfToken(c)))
}

func (a *App) handleAdminPageSave(c echo.Context) error {
	slug, err := pageSlug(c)
	if err != nil {
		return err
	}
	title := strings.TrimSpace(c.FormValue("title"))
	content, err := ingestContent(c.FormValue("content"), c.FormValue("format"))
	if err != nil {
		c.Logger().Errorf("page %q: %v", slug, err)
		return a.renderAdminPages(c, http.StatusBadRequest, msgPageFailed)
	}
	patch := PagePatch{Content: &content}
	if title != "" {
		patch.Title = &title
	}
	if _, err := a.Pages.Update(c.Request().Context(), slug, patch); err != nil {
		c.Logger().Errorf("page %q: %v", slug, err)
		return a.renderAdminPages(c, http.StatusInternalServerError, msgPageFailed)
	}
	a.persist(c.Request().Context())
	return a.renderAdminPages(c, http.StatusOK, msgPageSaved)
}

func (a *App) renderAdminPages(c echo.Context, code int, msg string) error {
	ctx := c.Request().Context()
	// The three site pages always show up in the editor list.
	for _, slug := range sitemapPages {
		if _, err := a.Pages.GetOrCreateDefault(ctx, slug); err != nil {
			return err
		}
	}
	pages, err := a.Pages.All(ctx)
	if err != nil {
		return err
	}
	return RenderStatus(c, code, a.Views.AdminPages(pages, msg, CsrfToken(c)))
}

func (a *App) handleAdminSettings(c echo.Context) error {
	return Render(c, a.Views.AdminSettings(a.Settings.Get(c.Request().Context()), c.QueryParam("msg"), CsrfToken(c)))
}

func (a *App) handleAdminSettingsSave(c echo.Context) error {
	ctx := c.Request().Context()
	link := strings.TrimSpace(c.FormValue("affiliateLink"))
	if link != "" && !isHTTPURL(link) {
		return RenderStatus(c, http.StatusBadRequest, a.Views.AdminSettings(a.Settings.Get(ctx), msgSettingsFailed, CsrfToken(c)))
	}
	buttonText := strings.TrimSpace(c.FormValue("affiliateButtonText"))
	siteName := strings.TrimSpace(c.FormValue("siteName"))
	siteDescription := strings.TrimSpace(c.FormValue("siteDescription"))
	st := a.Settings.Update(ctx, SettingsPatch{
		AffiliateLink:       &link,
		AffiliateButtonText: &buttonText,
		SiteName:            &siteName,
		SiteDescription:     &siteDescription,
	})
	a.persist(ctx)
	return Render(c, a.Views.AdminSettings(st, msgSettingsSaved, CsrfToken(c)))
}

// formError is a validation failure shown to the editor as-is.
type formError string

func (e formError) Error() string { return string(e) }

// pageSlug returns the :slug param, which must already be in slug form.
func pageSlug(c echo.Context) (string, error) {
	slug := c.Param("slug")
	if slug == "" || Slugify(slug) != slug {
		return "", echo.NewHTTPError(http.StatusNotFound)
	}
	return slug, nil
}

func articleID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, echo.NewHTTPError(http.StatusNotFound)
	}
	return id, nil
}

// parseArticleForm reads the article editor form into a full patch.
// Saving always stamps the publish date, as the editor did.
func parseArticleForm(c echo.Context) (ArticlePatch, error) {
	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		return ArticlePatch{}, formError(msgTitleRequired)
	}
	excerpt := strings.TrimSpace(c.FormValue("excerpt"))
	content, err := ingestContent(c.FormValue("content"), c.FormValue("format"))
	if err != nil {
		return ArticlePatch{}, formError(msgArticleFailed)
	}
	image := strings.TrimSpace(c.FormValue("featuredImage"))
	if image != "" {
		safe, ok := SafeURL(image)
		if !ok {
			return ArticlePatch{}, formError(msgImageInvalid)
		}
		image = safe
	}
	status := ArticleStatus(c.FormValue("status"))
	if !status.Valid() {
		status = StatusDraft
	}
	now := time.Now().UTC()
	return ArticlePatch{
		Title:         &title,
		Excerpt:       &excerpt,
		Content:       &content,
		FeaturedImage: &image,
		Status:        &status,
		PublishDate:   &now,
	}, nil
}

// ingestContent converts Markdown when asked and sanitizes the resulting HTML.
func ingestContent(body, format string) (string, error) {
	if format == "markdown" {
		html, err := markdown.ToHTML(body)
		if err != nil {
			return "", err
		}
		body = html
	}
	return SanitizeHTML(body), nil
}

func isHTTPURL(s string) bool {
	u, ok := SafeURL(s)
	if !ok {
		return false
	}
	lower := strings.ToLower(u)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Package coursehub is a course-review blog with an admin CMS, built with
// Go, Echo, and templ. It manages articles, static pages and the site-wide
// affiliate settings, all held in in-memory stores seeded at startup.
//
// Users provide templ components via the ViewFuncs struct (the views
// package ships a default set), and coursehub handles the handler logic,
// middleware and store operations.
package coursehub

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// ViewFuncs holds the templ components the framework calls when
// rendering pages.
type ViewFuncs struct {
	Home             func(articles []Article, settings Settings) templ.Component
	Article          func(article Article, related []Article, settings Settings) templ.Component
	Page             func(page Page, settings Settings) templ.Component
	AdminLogin       func(showError bool, csrfToken string) templ.Component
	AdminDashboard   func(stats DashboardStats, csrfToken string) templ.Component
	AdminArticles    func(articles []Article, message string, csrfToken string) templ.Component
	AdminArticleForm func(article Article, csrfToken string) templ.Component
	AdminPages       func(pages []Page, message string, csrfToken string) templ.Component
	AdminPageForm    func(page Page, csrfToken string) templ.Component
	AdminSettings    func(settings Settings, message string, csrfToken string) templ.Component
	AdminImages      func(images []Image, csrfToken string) templ.Component
	NotFound         func() templ.Component
	ServerError      func() templ.Component
}

// App is the central coursehub application. It owns the stores and
// wires them into handlers, middleware, and the user-provided templates.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Articles *ArticleStore
	Pages    *PageStore
	Settings *SettingsStore
	Index    *ArticleIndex
	Views    ViewFuncs

	verifier     CredentialVerifier
	latency      *Latency
	seed         *Seed
	snapshot     *Snapshot
	persistMu    sync.Mutex
	closeOnce    sync.Once
	closeErr     error
	loginLimiter *LoginLimiter
	customRoutes []func(*App)
}

// New creates a coursehub App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Views:  views,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Init builds the stores, middleware and routes without listening.
func (a *App) Init() error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("coursehub: SessionSecret is required")
	}
	a.Echo.HideBanner = true
	a.Echo.Logger.SetLevel(parseLogLevel(a.Config.LogLevel))

	if a.verifier == nil {
		a.verifier = a.Config.Verifier()
	}
	latency := a.Config.Latency()
	if a.latency != nil {
		latency = *a.latency
	}

	seed, err := a.loadSeed()
	if err != nil {
		return err
	}
	a.Articles = NewArticleStore(seed.Articles, latency)
	a.Pages = NewPageStore(seed.Pages, latency)
	a.Settings = NewSettingsStore(seed.Settings, latency)
	a.Index = NewArticleIndex(a.Articles, a.Config.IndexTTL)

	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// loadSeed picks the snapshot when one holds data, else the seed datasets.
func (a *App) loadSeed() (Seed, error) {
	seed := Seed{}
	if a.seed != nil {
		seed = *a.seed
	} else {
		s, err := LoadSeed(SeedData)
		if err != nil {
			return Seed{}, err
		}
		seed = s
	}
	if a.Config.SnapshotDB == "" {
		return seed, nil
	}
	snap, err := OpenSnapshot(a.Config.SnapshotDB)
	if err != nil {
		return Seed{}, fmt.Errorf("coursehub: open snapshot: %w", err)
	}
	a.snapshot = snap
	saved, ok, err := snap.Load(context.Background())
	if err != nil {
		return Seed{}, fmt.Errorf("coursehub: load snapshot: %w", err)
	}
	if ok {
		a.Echo.Logger.Infof("restored %d articles and %d pages from %s", len(saved.Articles), len(saved.Pages), a.Config.SnapshotDB)
		return saved, nil
	}
	return seed, nil
}

// Start initializes the app and starts the server.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.Config.StaticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Public routes
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)
	e.GET("/article/:slug/", a.handleArticle)
	e.GET("/about/", a.handlePage("about"))
	e.GET("/contact/", a.handlePage("contact"))
	e.GET("/privacy/", a.handlePage("privacy"))
	e.GET("/go/", a.handleAffiliate)

	// Admin routes
	e.GET("/admin/", a.handleAdminIndex)
	e.GET("/admin/login/", a.handleAdminLoginForm)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", a.handleAdminLogout)

	g := e.Group("/admin", a.requireAdmin)
	g.GET("/dashboard/", a.handleAdminDashboard)
	g.GET("/articles/", a.handleAdminArticles)
	g.GET("/articles/new/", a.handleAdminArticleNew)
	g.POST("/articles/", a.handleAdminArticleCreate)
	g.GET("/articles/:id/", a.handleAdminArticleEdit)
	g.POST("/articles/:id/", a.handleAdminArticleUpdate)
	g.DELETE("/articles/:id/", a.handleAdminArticleDelete)
	g.POST("/articles/:id/delete/", a.handleAdminArticleDelete)
	g.GET("/pages/", a.handleAdminPages)
	g.GET("/pages/:slug/", a.handleAdminPageEdit)
	g.POST("/pages/:slug/", a.handleAdminPageSave)
	g.GET("/settings/", a.handleAdminSettings)
	g.POST("/settings/", a.handleAdminSettingsSave)
	g.GET("/images/", a.handleImageList)
	g.POST("/images/upload/", a.handleImageUpload)
	g.DELETE("/images/:filename/", a.handleImageDelete)
	g.POST("/images/:filename/delete/", a.handleImageDelete)
}

// persist writes the current store content to the snapshot, if configured.
// Failures are logged; the in-memory state stays authoritative.
func (a *App) persist(ctx context.Context) {
	if a.snapshot == nil {
		return
	}
	// Collect and save as one step so an older state never overwrites a newer one.
	a.persistMu.Lock()
	defer a.persistMu.Unlock()
	seed, err := a.collect(ctx)
	if err == nil {
		err = a.snapshot.Save(ctx, seed)
	}
	if err != nil {
		a.Echo.Logger.Errorf("snapshot save: %v", err)
	}
}

func (a *App) collect(ctx context.Context) (Seed, error) {
	articles, err := a.Articles.All(ctx)
	if err != nil {
		return Seed{}, err
	}
	pages, err := a.Pages.All(ctx)
	if err != nil {
		return Seed{}, err
	}
	return Seed{Articles: articles, Pages: pages, Settings: a.Settings.Get(ctx)}, nil
}

// Close saves a final snapshot and releases resources. Call this when
// the app is shutting down; later calls are no-ops.
func (a *App) Close() error {
	a.closeOnce.Do(func() {
		if a.loginLimiter != nil {
			a.loginLimiter.Close()
		}
		if a.snapshot != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			a.persist(ctx)
			a.closeErr = a.snapshot.Close()
		}
	})
	return a.closeErr
}

func parseLogLevel(s string) log.Lvl {
	switch strings.ToLower(s) {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}

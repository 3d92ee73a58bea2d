package coursehub

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// SiteConfig holds all configuration for a coursehub site.
type SiteConfig struct {
	URL    string `env:"SITE_URL"`    // Canonical URL (default "http://localhost:3000")
	Author string `env:"SITE_AUTHOR"` // Author name for JSON-LD

	Addr       string `env:"ADDR"`          // Listen address (default ":3000")
	StaticDir  string `env:"STATIC_DIR"`    // User-owned static assets (default "public")
	SnapshotDB string `env:"SNAPSHOT_PATH"` // Optional SQLite snapshot of the stores
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	AdminUsername     string `env:"ADMIN_USERNAME"`       // default "admin"
	AdminPassword     string `env:"ADMIN_PASSWORD"`       // default "password123"
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`  // bcrypt; wins over AdminPassword
	SessionSecret     string `env:"ADMIN_SESSION_SECRET"` // Required: session encryption secret
	CookieSecure      bool   `env:"COOKIE_SECURE"`        // Set true for HTTPS

	ReadLatency  time.Duration `env:"LATENCY_READ" envDefault:"200ms"`
	ListLatency  time.Duration `env:"LATENCY_LIST" envDefault:"300ms"`
	WriteLatency time.Duration `env:"LATENCY_WRITE" envDefault:"400ms"`

	IndexTTL time.Duration `env:"INDEX_TTL"` // Published article index TTL (default 5min)
}

// LoadConfig reads SiteConfig from the environment.
func LoadConfig() (SiteConfig, error) {
	var cfg SiteConfig
	if err := env.Parse(&cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("coursehub: parse env: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

func (c *SiteConfig) setDefaults() {
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimSuffix(c.URL, "/")
	if c.AdminUsername == "" {
		c.AdminUsername = "admin"
	}
	if c.AdminPassword == "" {
		c.AdminPassword = "password123"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.IndexTTL == 0 {
		c.IndexTTL = 5 * time.Minute
	}
}

// Latency returns the simulated store latency configured for this site.
func (c SiteConfig) Latency() Latency {
	return Latency{Read: c.ReadLatency, List: c.ListLatency, Write: c.WriteLatency}
}

// Verifier returns the credential check configured for the admin area.
func (c SiteConfig) Verifier() CredentialVerifier {
	if c.AdminPasswordHash != "" {
		return BcryptCredentials{Username: c.AdminUsername, Hash: []byte(c.AdminPasswordHash)}
	}
	return FixedCredentials{Username: c.AdminUsername, Password: c.AdminPassword}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.Config.StaticDir = dir
	}
}

// WithVerifier replaces the configured credential check, e.g. with an
// external identity provider.
func WithVerifier(v CredentialVerifier) Option {
	return func(a *App) {
		a.verifier = v
	}
}

// WithLatency overrides the simulated store latency.
func WithLatency(l Latency) Option {
	return func(a *App) {
		a.latency = &l
	}
}

// WithSeed replaces the embedded seed datasets.
func WithSeed(s Seed) Option {
	return func(a *App) {
		a.seed = &s
	}
}

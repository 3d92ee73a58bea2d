package coursehub_test

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/eringen/coursehub"
	"github.com/eringen/coursehub/views"
)

type testClient struct {
	t      *testing.T
	srv    *httptest.Server
	client *http.Client
}

func testConfig(t *testing.T) coursehub.SiteConfig {
	return coursehub.SiteConfig{
		URL:           "https://courses.example.com",
		SessionSecret: "test-secret-test-secret",
		StaticDir:     t.TempDir(),
	}
}

func newTestClient(t *testing.T, opts ...coursehub.Option) *testClient {
	t.Helper()
	tc, _ := newTestApp(t, testConfig(t), opts...)
	return tc
}

// newTestApp serves a fresh App built from cfg. The app is closed on cleanup.
func newTestApp(t *testing.T, cfg coursehub.SiteConfig, opts ...coursehub.Option) (*testClient, *coursehub.App) {
	t.Helper()
	opts = append([]coursehub.Option{coursehub.WithLatency(coursehub.Latency{})}, opts...)
	app := coursehub.New(cfg, views.New(cfg), opts...)
	if err := app.Init(); err != nil {
		t.Fatalf("Init() = %v", err)
	}
	srv := httptest.NewServer(app.Echo)
	t.Cleanup(func() {
		srv.Close()
		app.Close()
	})
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &testClient{
		t:   t,
		srv: srv,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}, app
}

func (tc *testClient) get(path string) (*http.Response, string) {
	tc.t.Helper()
	resp, err := tc.client.Get(tc.srv.URL + path)
	if err != nil {
		tc.t.Fatalf("GET %s: %v", path, err)
	}
	return resp, readBody(tc.t, resp)
}

// postForm submits form with the CSRF token issued by an earlier GET.
func (tc *testClient) postForm(path string, form url.Values) (*http.Response, string) {
	tc.t.Helper()
	form.Set("_csrf", tc.csrfToken())
	resp, err := tc.client.PostForm(tc.srv.URL+path, form)
	if err != nil {
		tc.t.Fatalf("POST %s: %v", path, err)
	}
	return resp, readBody(tc.t, resp)
}

func (tc *testClient) csrfToken() string {
	u, _ := url.Parse(tc.srv.URL)
	for _, c := range tc.client.Jar.Cookies(u) {
		if c.Name == "_csrf" {
			return c.Value
		}
	}
	tc.t.Fatal("no _csrf cookie; issue a GET first")
	return ""
}

func (tc *testClient) login() {
	tc.t.Helper()
	tc.loginAs("admin", "password123")
}

func (tc *testClient) loginAs(username, password string) {
	tc.t.Helper()
	tc.get("/admin/login/")
	resp, _ := tc.postForm("/admin/login/", url.Values{"username": {username}, "password": {password}})
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/admin/dashboard/" {
		tc.t.Fatalf("login: status %d location %q", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func TestHomeListsPublishedArticles(t *testing.T) {
	tc := newTestClient(t)
	resp, body := tc.get("/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Getting Started with Watercolor Illustration") {
		t.Error("expected published seed article")
	}
	if strings.Contains(body, "Five Tips for Learning Online Photography") {
		t.Error("draft article must not be listed")
	}
}

func TestArticleBySlug(t *testing.T) {
	tc := newTestClient(t)
	resp, body := tc.get("/article/getting-started-with-watercolor-illustration/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, `"@type":"BlogPosting"`) {
		t.Error("expected article JSON-LD")
	}

	resp, _ = tc.get("/article/no-such-article/")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown slug status = %d, want 404", resp.StatusCode)
	}
	resp, _ = tc.get("/article/five-tips-for-learning-online-photography/")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("draft slug status = %d, want 404", resp.StatusCode)
	}
}

func TestStaticPages(t *testing.T) {
	tc := newTestClient(t)
	resp, body := tc.get("/about/")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "About Us") {
		t.Errorf("about: status %d", resp.StatusCode)
	}
	resp, body = tc.get("/privacy/")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "Privacy Policy") {
		t.Errorf("privacy should be synthesized with its default title, status %d", resp.StatusCode)
	}
	resp, _ = tc.get("/about")
	if resp.StatusCode != http.StatusMovedPermanently {
		t.Errorf("missing trailing slash status = %d, want 301", resp.StatusCode)
	}
}

func TestAffiliateRedirect(t *testing.T) {
	tc := newTestClient(t)
	resp, _ := tc.get("/go/")
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status = %d, want 302", resp.StatusCode)
	}
	if got := resp.Header.Get("Location"); got != "https://www.domestika.org/" {
		t.Errorf("Location = %q", got)
	}
}

func TestFeedAndSitemap(t *testing.T) {
	tc := newTestClient(t)
	resp, body := tc.get("/feed.xml")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "<rss version=\"2.0\">") {
		t.Fatalf("feed: status %d body %q", resp.StatusCode, body)
	}
	if !strings.Contains(body, "https://courses.example.com/article/getting-started-with-watercolor-illustration/") {
		t.Error("feed should link published articles")
	}

	resp, body = tc.get("/sitemap.xml")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("sitemap: status %d", resp.StatusCode)
	}
	if !strings.Contains(body, "<loc>https://courses.example.com/about/</loc>") {
		t.Error("sitemap should list static pages")
	}
	if strings.Contains(body, "five-tips") {
		t.Error("sitemap must not list drafts")
	}
}

func TestAdminRequiresLogin(t *testing.T) {
	tc := newTestClient(t)
	for _, path := range []string{"/admin/dashboard/", "/admin/articles/", "/admin/pages/", "/admin/settings/", "/admin/images/"} {
		resp, _ := tc.get(path)
		if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/admin/login/" {
			t.Errorf("%s: status %d location %q", path, resp.StatusCode, resp.Header.Get("Location"))
		}
	}
	resp, _ := tc.get("/admin/")
	if resp.Header.Get("Location") != "/admin/login/" {
		t.Errorf("/admin/ should send guests to login, got %q", resp.Header.Get("Location"))
	}
}

func TestLoginAndLogout(t *testing.T) {
	tc := newTestClient(t)
	tc.login()

	resp, body := tc.get("/admin/dashboard/")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "Dashboard") {
		t.Fatalf("dashboard: status %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", got)
	}

	resp, _ = tc.postForm("/admin/logout/", url.Values{})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("logout status = %d", resp.StatusCode)
	}
	resp, _ = tc.get("/admin/dashboard/")
	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("dashboard after logout status = %d, want redirect", resp.StatusCode)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	tc := newTestClient(t)
	tc.get("/admin/login/")
	resp, body := tc.postForm("/admin/login/", url.Values{"username": {"admin"}, "password": {"nope"}})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	if !strings.Contains(body, "Invalid credentials") {
		t.Error("expected error message")
	}
	resp, _ = tc.get("/admin/dashboard/")
	if resp.StatusCode != http.StatusSeeOther {
		t.Error("failed login must not authenticate")
	}
}

func TestLoginRateLimit(t *testing.T) {
	tc := newTestClient(t)
	tc.get("/admin/login/")
	for i := 0; i < 5; i++ {
		tc.postForm("/admin/login/", url.Values{"username": {"admin"}, "password": {"nope"}})
	}
	resp, _ := tc.postForm("/admin/login/", url.Values{"username": {"admin"}, "password": {"password123"}})
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", resp.StatusCode)
	}
}

func TestLoginRequiresCSRFToken(t *testing.T) {
	tc := newTestClient(t)
	tc.get("/admin/login/")
	resp, err := tc.client.PostForm(tc.srv.URL+"/admin/login/", url.Values{"username": {"admin"}, "password": {"password123"}})
	if err != nil {
		t.Fatal(err)
	}
	readBody(t, resp)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}
}

func TestCreatePublishedArticle(t *testing.T) {
	tc := newTestClient(t)
	tc.login()

	resp, body := tc.postForm("/admin/articles/", url.Values{
		"title":   {"Gouache for Beginners"},
		"excerpt": {"Opaque and forgiving."},
		"content": {"## Kit\n\nOne **brush**."},
		"format":  {"markdown"},
		"status":  {"published"},
	})
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "Article created successfully!") {
		t.Fatalf("create: status %d", resp.StatusCode)
	}

	resp, body = tc.get("/article/gouache-for-beginners/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("article status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "<strong>brush</strong>") || !strings.Contains(body, `<h2 id="kit">Kit</h2>`) {
		t.Error("expected markdown to be converted")
	}
}

func TestCreateArticleRequiresTitle(t *testing.T) {
	tc := newTestClient(t)
	tc.login()
	resp, body := tc.postForm("/admin/articles/", url.Values{"title": {"  "}, "status": {"draft"}})
	if resp.StatusCode != http.StatusBadRequest || !strings.Contains(body, "Title is required.") {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestUpdateAndDeleteArticle(t *testing.T) {
	tc := newTestClient(t)
	tc.login()

	resp, _ := tc.postForm("/admin/articles/3/", url.Values{
		"title":   {"Five Tips for Learning Online Photography"},
		"content": {"<p>Now live</p><script>alert(1)</script>"},
		"status":  {"published"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d", resp.StatusCode)
	}
	resp, body := tc.get("/article/five-tips-for-learning-online-photography/")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "<p>Now live</p>") {
		t.Fatalf("published article status = %d", resp.StatusCode)
	}
	if strings.Contains(body, "alert(1)") {
		t.Error("script must not survive ingestion")
	}

	resp, _ = tc.postForm("/admin/articles/3/delete/", url.Values{})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	resp, _ = tc.get("/admin/articles/3/")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("deleted article edit status = %d, want 404", resp.StatusCode)
	}
	resp, _ = tc.postForm("/admin/articles/99/", url.Values{"title": {"x"}})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown article update status = %d, want 404", resp.StatusCode)
	}
}

func TestSavePageAndSettings(t *testing.T) {
	tc := newTestClient(t)
	tc.login()

	resp, _ := tc.postForm("/admin/pages/privacy/", url.Values{"content": {"<p>We keep nothing.</p>"}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("page save status = %d", resp.StatusCode)
	}
	_, body := tc.get("/privacy/")
	if !strings.Contains(body, "We keep nothing.") || !strings.Contains(body, "Privacy Policy") {
		t.Error("expected saved privacy page with default title")
	}

	resp, _ = tc.postForm("/admin/settings/", url.Values{"affiliateLink": {"javascript:alert(1)"}})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unsafe affiliate link status = %d, want 400", resp.StatusCode)
	}
	resp, _ = tc.postForm("/admin/settings/", url.Values{
		"affiliateLink":       {"https://example.com/courses"},
		"affiliateButtonText": {"Browse"},
		"siteName":            {"Art Reviews"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("settings status = %d", resp.StatusCode)
	}
	resp, _ = tc.get("/go/")
	if got := resp.Header.Get("Location"); got != "https://example.com/courses" {
		t.Errorf("Location = %q after settings change", got)
	}
}

func TestLiteralConfigUsesDefaultCredentials(t *testing.T) {
	tc := newTestClient(t)
	tc.get("/admin/login/")

	resp, _ := tc.postForm("/admin/login/", url.Values{"username": {""}, "password": {""}})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("blank pair status = %d, want 401", resp.StatusCode)
	}
	resp, _ = tc.get("/admin/dashboard/")
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("blank pair must not authenticate, dashboard status = %d", resp.StatusCode)
	}

	tc.login()
	resp, _ = tc.get("/admin/dashboard/")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("dashboard status = %d after admin login", resp.StatusCode)
	}
}

func TestPageEditorRequiresCanonicalSlug(t *testing.T) {
	tc := newTestClient(t)
	tc.login()

	resp, _ := tc.get("/admin/pages/Team_Info/")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("editor status = %d, want 404", resp.StatusCode)
	}
	resp, _ = tc.postForm("/admin/pages/Team_Info/", url.Values{"content": {"<p>hello team</p>"}})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("save status = %d, want 404", resp.StatusCode)
	}

	resp, _ = tc.postForm("/admin/pages/team-info/", url.Values{"content": {"<p>hello team</p>"}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("save status = %d", resp.StatusCode)
	}
	_, body := tc.get("/admin/pages/team-info/")
	if !strings.Contains(body, "hello team") {
		t.Error("reopened editor should show the saved content")
	}
	_, body = tc.get("/admin/pages/")
	if strings.Contains(body, "Team_Info") {
		t.Error("page list must not contain a non-canonical slug")
	}
	if !strings.Contains(body, "/admin/pages/team-info/") {
		t.Error("page list should contain team-info")
	}
}

func TestSnapshotSurvivesRestart(t *testing.T) {
	cfg := testConfig(t)
	cfg.SnapshotDB = filepath.Join(t.TempDir(), "coursehub.db")

	tc, app := newTestApp(t, cfg)
	tc.login()
	resp, _ := tc.postForm("/admin/articles/1/", url.Values{
		"title":   {"Watercolor, Revisited"},
		"content": {"<p>Second look</p>"},
		"status":  {"published"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d", resp.StatusCode)
	}
	resp, _ = tc.postForm("/admin/settings/", url.Values{"siteName": {"Restored Hub"}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("settings status = %d", resp.StatusCode)
	}
	if err := app.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}

	_, restarted := newTestApp(t, cfg)
	ctx := context.Background()
	got, err := restarted.Articles.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get(1) after restart: %v", err)
	}
	if got.Title != "Watercolor, Revisited" || got.Content != "<p>Second look</p>" {
		t.Errorf("restored article = %q / %q", got.Title, got.Content)
	}
	if name := restarted.Settings.Get(ctx).SiteName; name != "Restored Hub" {
		t.Errorf("restored site name = %q", name)
	}
	pages, err := restarted.Pages.All(ctx)
	if err != nil || len(pages) == 0 {
		t.Errorf("restored pages = %d, %v", len(pages), err)
	}
}

type stubVerifier struct {
	username, password string
}

func (s stubVerifier) Verify(_ context.Context, username, password string) (bool, error) {
	return username == s.username && password == s.password, nil
}

func TestEmptySeedWithCustomVerifier(t *testing.T) {
	tc := newTestClient(t,
		coursehub.WithVerifier(stubVerifier{username: "editor", password: "letmein"}),
		coursehub.WithSeed(coursehub.Seed{Settings: coursehub.Settings{SiteName: "Empty Hub"}}),
	)

	tc.get("/admin/login/")
	resp, _ := tc.postForm("/admin/login/", url.Values{"username": {"admin"}, "password": {"password123"}})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("configured pair should be replaced by the verifier, status = %d", resp.StatusCode)
	}
	tc.loginAs("editor", "letmein")

	_, body := tc.get("/")
	if !strings.Contains(body, "No articles yet.") {
		t.Error("empty seed should render an empty article list")
	}

	resp, _ = tc.postForm("/admin/articles/", url.Values{"title": {"First"}, "status": {"draft"}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	resp, body = tc.get("/admin/articles/1/")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `value="First"`) {
		t.Fatalf("first article should get id 1, status %d", resp.StatusCode)
	}

	resp, _ = tc.postForm("/admin/articles/1/delete/", url.Values{})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	tc.postForm("/admin/articles/", url.Values{"title": {"Second"}, "status": {"draft"}})
	_, body = tc.get("/admin/articles/1/")
	if !strings.Contains(body, `value="Second"`) {
		t.Error("creating into an emptied store should reuse id 1")
	}
}

package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cabpool/internal/db"
	"github.com/cabpool/internal/handler"
	"github.com/cabpool/internal/metrics"
	"github.com/cabpool/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var routerDBSeq atomic.Int64

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testServer struct {
	engine *gin.Engine
	db     *gorm.DB
}

func newTestServer(t *testing.T, uploadDir string) *testServer {
	t.Helper()
	dsn := fmt.Sprintf("file:router-test-%d?mode=memory&cache=shared", routerDBSeq.Add(1))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	m := metrics.New()
	api := handler.NewAPI(gdb, handler.Options{
		UploadDir:      uploadDir,
		UploadURL:      "/static/uploads",
		UploadMaxBytes: 1 << 20,
		Metrics:        m,
	})
	engine := SetupRouter(api, Options{
		SessionSecret: "test-secret",
		UploadDir:     uploadDir,
		UploadURL:     "/static/uploads",
		Metrics:       m,
	})
	return &testServer{engine: engine, db: gdb}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.engine.ServeHTTP(rr, req)
	return rr
}

func (s *testServer) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	return s.do(req)
}

func (s *testServer) login(t *testing.T) []*http.Cookie {
	t.Helper()
	_, err := db.EnsureUser(s.db, "admin", "s3cret-pass")
	require.NoError(t, err)

	form := url.Values{"username": {"admin"}, "password": {"s3cret-pass"}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := s.do(req)
	require.Equal(t, http.StatusFound, rr.Code)
	require.Equal(t, "/admin/dashboard", rr.Header().Get("Location"))

	cookies := rr.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func TestSetupRouterServesUploadsAlias(t *testing.T) {
	uploadDir := t.TempDir()
	content := []byte("hello uploads")
	require.NoError(t, os.WriteFile(filepath.Join(uploadDir, "example.txt"), content, 0o644))

	s := newTestServer(t, uploadDir)
	for _, path := range []string{"/static/uploads/example.txt", "/uploads/example.txt"} {
		rr := s.get(path)
		assert.Equal(t, http.StatusOK, rr.Code, path)
		assert.Equal(t, string(content), rr.Body.String(), path)
		assert.Contains(t, rr.Header().Get("Content-Security-Policy"), "sandbox", path)
	}
}

func TestSetupRouterSandboxesUploadedSVG(t *testing.T) {
	uploadDir := t.TempDir()
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg"><script>alert(document.cookie)</script></svg>`)
	require.NoError(t, os.WriteFile(filepath.Join(uploadDir, "logo.svg"), svg, 0o644))

	s := newTestServer(t, uploadDir)
	rr := s.get("/static/uploads/logo.svg")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Security-Policy"), "sandbox")
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))

	// 站内静态资源不受影响
	assert.Empty(t, s.get("/assets/img/logo.svg").Header().Get("Content-Security-Policy"))
}

func TestSetupRouterServesEmbeddedAssets(t *testing.T) {
	s := newTestServer(t, t.TempDir())

	for _, path := range []string{"/assets/css/site.css", "/assets/js/admin.js", "/assets/img/logo.svg"} {
		assert.Equal(t, http.StatusOK, s.get(path).Code, path)
	}
}

func TestPublicPagesRenderWithDefaults(t *testing.T) {
	s := newTestServer(t, t.TempDir())

	pages := []string{
		"/",
		"/about",
		"/safety",
		"/how-it-works?distance=20&riders=2&trips=5",
		"/blog",
		"/team",
		"/faq?q=safety",
		"/contact?sent=1",
	}
	for _, path := range pages {
		rr := s.get(path)
		require.Equal(t, http.StatusOK, rr.Code, path)
		body := rr.Body.String()
		assert.Contains(t, body, "CabPool", path)
		assert.Contains(t, body, `href="/assets/css/site.css"`, path)
		assert.NotEmpty(t, rr.Header().Get("X-Request-ID"), path)
	}
}

func TestBlogPagesShowPublishedPostsOnly(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	blogs := service.NewBlogService(s.db)
	_, err := blogs.Create(service.BlogInput{Title: "Pooling to work", Content: "Share **rides** daily.", Published: true})
	require.NoError(t, err)
	_, err = blogs.Create(service.BlogInput{Title: "Secret draft", Content: "Not yet."})
	require.NoError(t, err)

	list := s.get("/blog")
	require.Equal(t, http.StatusOK, list.Code)
	assert.Contains(t, list.Body.String(), "Pooling to work")
	assert.NotContains(t, list.Body.String(), "Secret draft")

	detail := s.get("/blog/pooling-to-work")
	require.Equal(t, http.StatusOK, detail.Code)
	assert.Contains(t, detail.Body.String(), "<strong>rides</strong>")

	assert.Equal(t, http.StatusNotFound, s.get("/blog/secret-draft").Code)
}

func TestNotFoundRendersHTMLOrJSON(t *testing.T) {
	s := newTestServer(t, t.TempDir())

	page := s.get("/no-such-page")
	assert.Equal(t, http.StatusNotFound, page.Code)
	assert.Contains(t, page.Body.String(), "Page not found")

	api := s.get("/api/no-such-endpoint")
	assert.Equal(t, http.StatusNotFound, api.Code)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(api.Body.Bytes(), &payload))
	assert.Equal(t, "Not found", payload["error"])
}

func TestAdminRequiresSession(t *testing.T) {
	s := newTestServer(t, t.TempDir())

	rr := s.get("/admin/dashboard")
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/admin/login", rr.Header().Get("Location"))

	assert.Equal(t, http.StatusOK, s.get("/admin/login").Code)

	mutations := []struct{ method, path string }{
		{http.MethodPost, "/api/blogs"},
		{http.MethodPut, "/api/faqs/1"},
		{http.MethodPut, "/api/navigation"},
		{http.MethodDelete, "/api/team/1"},
		{http.MethodPost, "/api/instagram"},
		{http.MethodPut, "/api/admin/settings"},
		{http.MethodPost, "/api/upload"},
		{http.MethodGet, "/api/contact-messages"},
	}
	for _, m := range mutations {
		rr := s.do(httptest.NewRequest(m.method, m.path, strings.NewReader("{}")))
		assert.Equal(t, http.StatusUnauthorized, rr.Code, m.method+" "+m.path)
	}
}

func TestAdminPagesRenderAfterLogin(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	cookies := s.login(t)

	blog, err := service.NewBlogService(s.db).Create(service.BlogInput{Title: "Edit me", Content: "body"})
	require.NoError(t, err)
	_, err = service.SeedDefaults(s.db)
	require.NoError(t, err)

	pages := []string{
		"/admin/dashboard",
		"/admin/blogs",
		"/admin/blogs/new",
		fmt.Sprintf("/admin/blogs/%d/edit", blog.ID),
		"/admin/faqs",
		"/admin/navigation",
		"/admin/team",
		"/admin/instagram",
		"/admin/settings",
		"/admin/media",
		"/admin/messages",
	}
	for _, path := range pages {
		rr := s.get(path, cookies...)
		require.Equal(t, http.StatusOK, rr.Code, path)
		assert.Contains(t, rr.Body.String(), "/admin/logout", path)
	}

	rr := s.get("/admin/login", cookies...)
	assert.Equal(t, http.StatusFound, rr.Code)
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	s := newTestServer(t, t.TempDir())

	health := s.get("/healthz")
	require.Equal(t, http.StatusOK, health.Code)
	assert.Contains(t, health.Body.String(), `"status":"ok"`)

	s.get("/about")
	rr := s.get("/metrics")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `cabpool_http_requests_total{method="GET",route="/about",status="200"} 1`)
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Date(2025, 12, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		input    time.Time
		expected string
	}{
		{name: "zero", input: time.Time{}, expected: ""},
		{name: "seconds", input: now.Add(-30 * time.Second), expected: "just now"},
		{name: "one minute", input: now.Add(-time.Minute), expected: "1 minute ago"},
		{name: "minutes", input: now.Add(-5 * time.Minute), expected: "5 minutes ago"},
		{name: "hours", input: now.Add(-2 * time.Hour), expected: "2 hours ago"},
		{name: "days", input: now.Add(-72 * time.Hour), expected: "3 days ago"},
		{name: "months", input: now.Add(-60 * 24 * time.Hour), expected: "2 months ago"},
		{name: "years", input: now.Add(-3 * 365 * 24 * time.Hour), expected: "3 years ago"},
		{name: "future", input: now.Add(2 * time.Minute), expected: "just now"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatRelativeTime(now, tt.input))
		})
	}
}

func TestTemplateHelpers(t *testing.T) {
	assert.Equal(t, "AM", initials("arjun mehta"))
	assert.Equal(t, "SI", initials("Sneha Iyer Rao"))
	assert.Equal(t, "★★★☆☆", stars(3))
	assert.Equal(t, "★★★★★", stars(9))
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "2 KB", formatBytes(2048))
	assert.Equal(t, "1.5 MB", formatBytes(3<<19))

	m, err := dict("name", "visible", "checked", true)
	require.NoError(t, err)
	assert.Equal(t, true, m["checked"])
	_, err = dict("odd")
	assert.Error(t, err)

	published := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	format := templateFuncs(time.Now)["formatDate"].(func(interface{}) string)
	assert.Equal(t, "4 Mar 2025", format(&published))
	assert.Equal(t, "", format((*time.Time)(nil)))
}

func TestSingleItemAPIRoutesAreRegistered(t *testing.T) {
	s := newTestServer(t, t.TempDir())

	for path, message := range map[string]string{
		"/api/navigation/9999": "Navigation item not found",
		"/api/instagram/9999":  "Reel not found",
		"/api/team/9999":       "Team member not found",
	} {
		rr := s.get(path)
		assert.Equal(t, http.StatusNotFound, rr.Code, path)
		assert.Contains(t, rr.Body.String(), message, path)
	}
}

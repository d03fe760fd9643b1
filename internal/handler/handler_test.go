package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/cabpool/internal/db"
	"github.com/cabpool/internal/metrics"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var handlerDBSeq atomic.Int64

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := RegisterValidators(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(m.Run())
}

type stubHTMLRender struct {
	name string
	data gin.H
}

type stubHTMLInstance struct{}

func (r *stubHTMLRender) Instance(name string, data interface{}) render.Render {
	r.name = name
	r.data, _ = data.(gin.H)
	return stubHTMLInstance{}
}

func (stubHTMLInstance) Render(http.ResponseWriter) error {
	return nil
}

func (stubHTMLInstance) WriteContentType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}

type testEnv struct {
	api     *API
	db      *gorm.DB
	engine  *gin.Engine
	html    *stubHTMLRender
	metrics *metrics.Metrics
	cookies []*http.Cookie
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:handler-test-%d?mode=memory&cache=shared", handlerDBSeq.Add(1))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	m := metrics.New()
	api := NewAPI(gdb, Options{
		UploadDir:      t.TempDir(),
		UploadURL:      "/static/uploads",
		UploadMaxBytes: 1 << 20,
		Metrics:        m,
	})

	html := &stubHTMLRender{}
	engine := gin.New()
	engine.HTMLRender = html
	engine.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret"))))
	engine.GET("/test/login", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set(sessionUserIDKey, uint(1))
		session.Set(sessionUsernameKey, "tester")
		require.NoError(t, session.Save())
		c.Status(http.StatusNoContent)
	})
	registerTestRoutes(engine, api)

	env := &testEnv{api: api, db: gdb, engine: engine, html: html, metrics: m}
	rr := env.do(httptest.NewRequest(http.MethodGet, "/test/login", nil))
	env.cookies = rr.Result().Cookies()
	require.NotEmpty(t, env.cookies)
	return env
}

func registerTestRoutes(r *gin.Engine, a *API) {
	r.GET("/", a.ShowHome)
	r.GET("/about", a.ShowAbout)
	r.GET("/how-it-works", a.ShowHowItWorks)
	r.GET("/blog", a.ShowBlogList)
	r.GET("/blog/:slug", a.ShowBlogDetail)
	r.GET("/faq", a.ShowFAQ)
	r.GET("/contact", a.ShowContact)
	r.GET("/healthz", a.HealthCheck)
	r.POST("/admin/login", a.Login)
	r.GET("/admin/logout", a.Logout)

	admin := r.Group("/admin", AuthRequired())
	admin.GET("/dashboard", a.ShowDashboard)
	admin.GET("/blogs/:id/edit", a.ShowBlogEdit)
	admin.GET("/settings", a.ShowSettingsAdmin)

	api := r.Group("/api")
	api.GET("/blogs", a.GetBlogs)
	api.GET("/blogs/:id", a.GetBlog)
	api.GET("/faqs", a.GetFAQs)
	api.GET("/faqs/:id", a.GetFAQ)
	api.GET("/navigation", a.GetNavigation)
	api.GET("/navigation/:id", a.GetNavigationItem)
	api.GET("/team", a.GetTeam)
	api.GET("/instagram", a.GetReels)
	api.GET("/instagram/:id", a.GetReel)
	api.GET("/settings", a.GetSiteSettings)
	api.GET("/calculator", a.CalculateSavings)
	api.POST("/contact", a.SubmitContact)

	auth := api.Group("", APIAuthRequired())
	auth.POST("/blogs", a.CreateBlog)
	auth.POST("/blogs/preview", a.PreviewMarkdown)
	auth.PUT("/blogs/:id", a.UpdateBlog)
	auth.DELETE("/blogs/:id", a.DeleteBlog)
	auth.POST("/faqs", a.CreateFAQ)
	auth.PUT("/faqs/reorder", a.ReorderFAQs)
	auth.PUT("/faqs/:id", a.UpdateFAQ)
	auth.DELETE("/faqs/:id", a.DeleteFAQ)
	auth.POST("/navigation", a.CreateNavigation)
	auth.PUT("/navigation", a.SaveNavigation)
	auth.DELETE("/navigation/:id", a.DeleteNavigation)
	auth.POST("/team", a.CreateTeamMember)
	auth.PUT("/team/:id", a.UpdateTeamMember)
	auth.POST("/instagram", a.CreateReel)
	auth.PUT("/admin/settings", a.UpdateSiteSettings)
	auth.POST("/admin/settings/reset", a.ResetSiteSettings)
	auth.POST("/upload", a.UploadMedia)
	auth.GET("/media", a.GetMedia)
	auth.DELETE("/media/:id", a.DeleteMedia)
	auth.GET("/contact-messages", a.GetContactMessages)
	auth.PUT("/contact-messages/:id", a.UpdateContactMessage)
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	e.engine.ServeHTTP(rr, req)
	return rr
}

// request sends body as JSON; admin attaches the logged-in session cookie.
func (e *testEnv) request(t *testing.T, method, path string, body interface{}, admin bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if admin {
		for _, c := range e.cookies {
			req.AddCookie(c)
		}
	}
	return e.do(req)
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload), rr.Body.String())
	return payload
}

package handler

import (
	"time"

	"github.com/cabpool/internal/cache"
	"github.com/cabpool/internal/metrics"
	"github.com/cabpool/internal/service"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db         *gorm.DB
	blogs      *service.BlogService
	faqs       *service.FAQService
	navigation *service.NavigationService
	team       *service.TeamService
	reels      *service.InstagramService
	media      *service.MediaService
	contact    *service.ContactService
	users      *service.UserService
	settings   *service.SiteSettingsService
	content    *service.ContentLoader
	metrics    *metrics.Metrics
	now        func() time.Time
}

// Options configures NewAPI.
type Options struct {
	UploadDir      string
	UploadURL      string
	UploadMaxBytes int64
	Cache          cache.Store
	CacheTTL       time.Duration
	Metrics        *metrics.Metrics
}

const siteSettingsContextKey = "__site_settings"

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, opts Options) *API {
	store := opts.Cache
	if store == nil {
		store = cache.NopStore{}
	}

	a := &API{
		db:         gdb,
		blogs:      service.NewBlogService(gdb),
		faqs:       service.NewFAQService(gdb),
		navigation: service.NewNavigationService(gdb),
		team:       service.NewTeamService(gdb),
		reels:      service.NewInstagramService(gdb),
		media:      service.NewMediaService(gdb, opts.UploadDir, opts.UploadURL, opts.UploadMaxBytes),
		contact:    service.NewContactService(gdb),
		users:      service.NewUserService(gdb),
		settings:   service.NewSiteSettingsService(gdb, store, opts.CacheTTL),
		metrics:    opts.Metrics,
		now:        time.Now,
	}
	a.content = service.NewContentLoader(service.ContentSources{
		Settings:   a.settings,
		Navigation: a.navigation,
		FAQs:       a.faqs,
		Team:       a.team,
		Reels:      a.reels,
		Blogs:      a.blogs,
	}, store, opts.CacheTTL)
	return a
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}

// siteSettings loads the settings once per request.
func (a *API) siteSettings(c *gin.Context) service.SiteSettings {
	if cached, exists := c.Get(siteSettingsContextKey); exists {
		if settings, ok := cached.(service.SiteSettings); ok {
			return settings
		}
	}
	settings := a.content.Settings(c.Request.Context())
	c.Set(siteSettingsContextKey, settings)
	return settings
}

// renderHTML 渲染页面并注入站点设置、导航与登录状态。
func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}

	ctx := c.Request.Context()
	if _, exists := payload["site"]; !exists {
		payload["site"] = a.siteSettings(c)
	}
	if _, exists := payload["headerNav"]; !exists {
		payload["headerNav"] = a.content.Navigation(ctx, "header")
	}
	if _, exists := payload["mobileNav"]; !exists {
		payload["mobileNav"] = a.content.Navigation(ctx, "mobile")
	}
	if _, exists := payload["footerSections"]; !exists {
		payload["footerSections"] = a.content.FooterSections(ctx)
	}
	if _, exists := payload["currentPath"]; !exists {
		payload["currentPath"] = c.Request.URL.Path
	}
	if _, exists := payload["isAdmin"]; !exists {
		payload["isAdmin"] = isAdmin(c)
	}
	if _, exists := payload["year"]; !exists {
		payload["year"] = a.now().Year()
	}

	c.HTML(status, template, payload)
}

// renderAdmin renders an admin page; admin pages skip the public menus.
func (a *API) renderAdmin(c *gin.Context, status int, template string, data gin.H) {
	payload := gin.H{
		"site":        a.siteSettings(c),
		"username":    sessionUsername(c),
		"currentPath": c.Request.URL.Path,
	}
	for key, value := range data {
		payload[key] = value
	}
	c.HTML(status, template, payload)
}

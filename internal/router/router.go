package router

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/cabpool/internal/handler"
	"github.com/cabpool/internal/metrics"
	"github.com/cabpool/internal/middleware"
	"github.com/cabpool/web"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const sessionName = "cabpool_session"

// Options configures SetupRouter.
type Options struct {
	SessionSecret string
	UploadDir     string
	UploadURL     string
	// Secure marks the session cookie https-only.
	Secure  bool
	Metrics *metrics.Metrics
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, opts Options) *gin.Engine {
	if err := handler.RegisterValidators(); err != nil {
		panic(fmt.Sprintf("register validators: %v", err))
	}

	r := gin.New()
	r.Use(middleware.Recovery(), middleware.RequestID(), middleware.AccessLog())
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware())
	}

	// 配置会话中间件
	secret := opts.SessionSecret
	if secret == "" {
		secret = "cabpool-dev-secret"
	}
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	// 加载模板并添加自定义函数
	r.SetHTMLTemplate(template.Must(parseTemplates(web.Templates(), templateFuncs(time.Now))))

	// 静态文件服务
	r.StaticFS("/assets", http.FS(web.Static()))
	uploadURL := "/" + strings.Trim(opts.UploadURL, "/")
	if uploadURL == "/" {
		uploadURL = "/static/uploads"
	}
	if opts.UploadDir != "" {
		// 上传文件来自后台用户，按不可信内容返回
		r.Group(uploadURL, middleware.UntrustedContent()).Static("/", opts.UploadDir)
		if uploadURL != "/uploads" {
			r.Group("/uploads", middleware.UntrustedContent()).Static("/", opts.UploadDir)
		}
	}

	r.GET("/healthz", api.HealthCheck)
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	// 前台页面
	r.GET("/", api.ShowHome)
	r.GET("/about", api.ShowAbout)
	r.GET("/safety", api.ShowSafety)
	r.GET("/how-it-works", api.ShowHowItWorks)
	r.GET("/blog", api.ShowBlogList)
	r.GET("/blog/:slug", api.ShowBlogDetail)
	r.GET("/team", api.ShowTeam)
	r.GET("/faq", api.ShowFAQ)
	r.GET("/contact", api.ShowContact)

	// 后台管理路由
	admin := r.Group("/admin")
	{
		admin.GET("/login", api.ShowLoginPage)
		admin.POST("/login", api.Login)
		admin.GET("/logout", api.Logout)

		auth := admin.Group("")
		auth.Use(handler.AuthRequired())
		{
			auth.GET("", redirectTo("/admin/dashboard"))
			auth.GET("/dashboard", api.ShowDashboard)
			auth.GET("/blogs", api.ShowBlogAdmin)
			auth.GET("/blogs/new", api.ShowBlogEdit)
			auth.GET("/blogs/:id/edit", api.ShowBlogEdit)
			auth.GET("/faqs", api.ShowFAQAdmin)
			auth.GET("/navigation", api.ShowNavigationAdmin)
			auth.GET("/team", api.ShowTeamAdmin)
			auth.GET("/instagram", api.ShowReelAdmin)
			auth.GET("/settings", api.ShowSettingsAdmin)
			auth.GET("/media", api.ShowMediaAdmin)
			auth.GET("/messages", api.ShowMessagesAdmin)
		}
	}

	// API路由：读取公开，写入需要登录
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/blogs", api.GetBlogs)
		apiGroup.GET("/blogs/:id", api.GetBlog)
		apiGroup.GET("/faqs", api.GetFAQs)
		apiGroup.GET("/faqs/:id", api.GetFAQ)
		apiGroup.GET("/navigation", api.GetNavigation)
		apiGroup.GET("/navigation/:id", api.GetNavigationItem)
		apiGroup.GET("/team", api.GetTeam)
		apiGroup.GET("/team/:id", api.GetTeamMember)
		apiGroup.GET("/instagram", api.GetReels)
		apiGroup.GET("/instagram/:id", api.GetReel)
		apiGroup.GET("/settings", api.GetSiteSettings)
		apiGroup.GET("/calculator", api.CalculateSavings)
		apiGroup.POST("/contact", api.SubmitContact)

		auth := apiGroup.Group("")
		auth.Use(handler.APIAuthRequired())
		{
			auth.POST("/blogs", api.CreateBlog)
			auth.POST("/blogs/preview", api.PreviewMarkdown)
			auth.PUT("/blogs/:id", api.UpdateBlog)
			auth.DELETE("/blogs/:id", api.DeleteBlog)

			auth.POST("/faqs", api.CreateFAQ)
			auth.PUT("/faqs/reorder", api.ReorderFAQs)
			auth.PUT("/faqs/:id", api.UpdateFAQ)
			auth.DELETE("/faqs/:id", api.DeleteFAQ)

			auth.POST("/navigation", api.CreateNavigation)
			auth.PUT("/navigation", api.SaveNavigation)
			auth.PUT("/navigation/reorder", api.ReorderNavigation)
			auth.PUT("/navigation/:id", api.UpdateNavigation)
			auth.DELETE("/navigation/:id", api.DeleteNavigation)

			auth.POST("/team", api.CreateTeamMember)
			auth.PUT("/team/reorder", api.ReorderTeam)
			auth.PUT("/team/:id", api.UpdateTeamMember)
			auth.DELETE("/team/:id", api.DeleteTeamMember)

			auth.POST("/instagram", api.CreateReel)
			auth.PUT("/instagram/reorder", api.ReorderReels)
			auth.PUT("/instagram/:id", api.UpdateReel)
			auth.DELETE("/instagram/:id", api.DeleteReel)

			auth.GET("/admin/settings", api.GetSiteSettings)
			auth.PUT("/admin/settings", api.UpdateSiteSettings)
			auth.POST("/admin/settings/reset", api.ResetSiteSettings)

			auth.POST("/upload", api.UploadMedia)
			auth.GET("/media", api.GetMedia)
			auth.DELETE("/media/:id", api.DeleteMedia)

			auth.GET("/contact-messages", api.GetContactMessages)
			auth.PUT("/contact-messages/:id", api.UpdateContactMessage)
			auth.DELETE("/contact-messages/:id", api.DeleteContactMessage)
		}
	}

	r.NoRoute(api.NotFound)
	return r
}

func redirectTo(location string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Redirect(http.StatusFound, location)
	}
}

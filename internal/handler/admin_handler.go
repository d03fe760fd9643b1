package handler

import (
	"errors"
	"net/http"

	"github.com/cabpool/internal/db"
	"github.com/cabpool/internal/logger"
	"github.com/cabpool/internal/service"
	"github.com/cabpool/internal/view"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type dashboardCounts struct {
	Blogs      int64
	Published  int64
	FAQs       int64
	Navigation int64
	Team       int64
	Reels      int64
	Media      int64
	Unhandled  int64
}

// ShowDashboard 渲染后台主面板
func (a *API) ShowDashboard(c *gin.Context) {
	counts, err := a.dashboardCounts()
	if err != nil {
		logger.Warn(c.Request.Context(), "load dashboard counts failed", zap.Error(err))
	}
	a.renderAdmin(c, http.StatusOK, "admin_dashboard.html", gin.H{
		"title":       "Dashboard",
		"counts":      counts,
		"recentBlogs": a.content.RecentBlogs(c.Request.Context(), 5),
	})
}

func (a *API) dashboardCounts() (dashboardCounts, error) {
	var counts dashboardCounts
	targets := []struct {
		model interface{}
		where string
		dst   *int64
	}{
		{&db.Blog{}, "", &counts.Blogs},
		{&db.Blog{}, "published = true", &counts.Published},
		{&db.FAQ{}, "", &counts.FAQs},
		{&db.NavigationItem{}, "", &counts.Navigation},
		{&db.TeamMember{}, "", &counts.Team},
		{&db.InstagramReel{}, "", &counts.Reels},
		{&db.MediaAsset{}, "", &counts.Media},
		{&db.ContactMessage{}, "handled = false", &counts.Unhandled},
	}
	for _, target := range targets {
		query := a.db.Model(target.model)
		if target.where != "" {
			query = query.Where(target.where)
		}
		if err := query.Count(target.dst).Error; err != nil {
			return counts, err
		}
	}
	return counts, nil
}

// ShowBlogAdmin 渲染博客管理列表
func (a *API) ShowBlogAdmin(c *gin.Context) {
	result, err := a.blogs.List(service.BlogFilter{
		Search:  c.Query("search"),
		Page:    parsePositiveInt(c.Query("page"), 1),
		PerPage: 20,
	})
	if err != nil {
		logger.Error(c.Request.Context(), "admin list blogs failed", zap.Error(err))
	}
	a.renderAdmin(c, http.StatusOK, "admin_blogs.html", gin.H{
		"title":  "Blogs",
		"result": result,
		"search": c.Query("search"),
	})
}

// ShowBlogEdit 渲染新建或编辑博客页面
func (a *API) ShowBlogEdit(c *gin.Context) {
	data := gin.H{"title": "New blog", "blog": &db.Blog{}}
	if c.Param("id") != "" {
		id, err := parseUintParam(c, "id")
		if err != nil {
			c.Redirect(http.StatusFound, "/admin/blogs")
			return
		}
		blog, err := a.blogs.Get(id)
		if err != nil {
			if !errors.Is(err, service.ErrBlogNotFound) {
				logger.Error(c.Request.Context(), "load blog for edit failed", zap.Error(err))
			}
			c.Redirect(http.StatusFound, "/admin/blogs")
			return
		}
		data["title"] = "Edit blog"
		data["blog"] = blog
	}
	a.renderAdmin(c, http.StatusOK, "admin_blog_edit.html", data)
}

// ShowFAQAdmin 渲染 FAQ 管理页
func (a *API) ShowFAQAdmin(c *gin.Context) {
	items, err := a.faqs.List(service.FAQFilter{Search: c.Query("search")})
	if err != nil {
		logger.Error(c.Request.Context(), "admin list faqs failed", zap.Error(err))
	}
	a.renderAdmin(c, http.StatusOK, "admin_faqs.html", gin.H{
		"title":  "FAQs",
		"groups": groupFAQs(items),
		"search": c.Query("search"),
	})
}

// ShowNavigationAdmin 渲染导航管理页
func (a *API) ShowNavigationAdmin(c *gin.Context) {
	items, err := a.navigation.List(service.NavigationFilter{})
	if err != nil {
		logger.Error(c.Request.Context(), "admin list navigation failed", zap.Error(err))
	}
	byLocation := map[string][]db.NavigationItem{}
	for _, item := range items {
		byLocation[item.Location] = append(byLocation[item.Location], item)
	}
	a.renderAdmin(c, http.StatusOK, "admin_navigation.html", gin.H{
		"title":      "Navigation",
		"locations":  service.NavigationLocations,
		"byLocation": byLocation,
		"icons":      view.IconOptions(),
	})
}

// ShowTeamAdmin 渲染团队管理页
func (a *API) ShowTeamAdmin(c *gin.Context) {
	members, err := a.team.List(service.TeamFilter{Search: c.Query("search")})
	if err != nil {
		logger.Error(c.Request.Context(), "admin list team failed", zap.Error(err))
	}
	a.renderAdmin(c, http.StatusOK, "admin_team.html", gin.H{
		"title":   "Team",
		"members": members,
		"search":  c.Query("search"),
	})
}

// ShowReelAdmin 渲染 Instagram 管理页
func (a *API) ShowReelAdmin(c *gin.Context) {
	reels, err := a.reels.List(service.ReelFilter{Search: c.Query("search")})
	if err != nil {
		logger.Error(c.Request.Context(), "admin list reels failed", zap.Error(err))
	}
	a.renderAdmin(c, http.StatusOK, "admin_instagram.html", gin.H{
		"title":  "Instagram",
		"reels":  reels,
		"search": c.Query("search"),
	})
}

// ShowSettingsAdmin 渲染站点设置页
func (a *API) ShowSettingsAdmin(c *gin.Context) {
	a.renderAdmin(c, http.StatusOK, "admin_settings.html", gin.H{
		"title":    "Site settings",
		"settings": a.siteSettings(c),
		"icons":    view.IconOptions(),
	})
}

// ShowMediaAdmin 渲染媒体库
func (a *API) ShowMediaAdmin(c *gin.Context) {
	result, err := a.media.List(c.Query("search"), parsePositiveInt(c.Query("page"), 1), 24)
	if err != nil {
		logger.Error(c.Request.Context(), "admin list media failed", zap.Error(err))
	}
	a.renderAdmin(c, http.StatusOK, "admin_media.html", gin.H{
		"title":    "Media",
		"result":   result,
		"maxBytes": a.media.MaxBytes(),
		"search":   c.Query("search"),
	})
}

// ShowMessagesAdmin 渲染联系消息
func (a *API) ShowMessagesAdmin(c *gin.Context) {
	result, err := a.contact.List(c.Query("open") == "1", parsePositiveInt(c.Query("page"), 1), 20)
	if err != nil {
		logger.Error(c.Request.Context(), "admin list messages failed", zap.Error(err))
	}
	a.renderAdmin(c, http.StatusOK, "admin_messages.html", gin.H{
		"title":    "Messages",
		"result":   result,
		"openOnly": c.Query("open") == "1",
	})
}

package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/cabpool/internal/db"
	"github.com/cabpool/internal/logger"
	"github.com/cabpool/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type blogRequest struct {
	Title     string `json:"title" binding:"required,max=200"`
	Slug      string `json:"slug" binding:"omitempty,max=200,slug"`
	Content   string `json:"content" binding:"required"`
	Excerpt   string `json:"excerpt" binding:"max=500"`
	Image     string `json:"image" binding:"max=500"`
	Author    string `json:"author" binding:"max=120"`
	Published bool   `json:"published"`
}

func (r blogRequest) toInput() service.BlogInput {
	return service.BlogInput{
		Title:     r.Title,
		Slug:      r.Slug,
		Content:   r.Content,
		Excerpt:   r.Excerpt,
		Image:     r.Image,
		Author:    r.Author,
		Published: r.Published,
	}
}

type markdownPreviewRequest struct {
	Content string `json:"content"`
}

// GetBlogs 返回博客列表。未登录时仅返回已发布的文章。
func (a *API) GetBlogs(c *gin.Context) {
	filter := service.BlogFilter{
		Search:        c.Query("search"),
		PublishedOnly: !isAdmin(c),
		Page:          parsePositiveInt(c.Query("page"), 1),
		PerPage:       parsePositiveInt(c.Query("perPage"), 10),
	}
	if published, err := strconv.ParseBool(c.Query("published")); err == nil && published {
		filter.PublishedOnly = true
	}

	result, err := a.blogs.List(filter)
	if err != nil {
		logger.Error(c.Request.Context(), "list blogs failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load blogs")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"blogs":      result.Items,
		"total":      result.Total,
		"page":       result.Page,
		"perPage":    result.PerPage,
		"totalPages": result.TotalPages,
	})
}

// GetBlog 按 id 或 slug 获取单篇博客。
func (a *API) GetBlog(c *gin.Context) {
	blog, err := a.lookupBlog(c, c.Param("id"))
	if err != nil {
		a.respondBlogError(c, err, "Failed to load blog")
		return
	}
	c.JSON(http.StatusOK, gin.H{"blog": blog})
}

func (a *API) lookupBlog(c *gin.Context, key string) (*db.Blog, error) {
	key = strings.TrimSpace(key)
	if id, err := strconv.ParseUint(key, 10, 32); err == nil && id > 0 {
		blog, err := a.blogs.Get(uint(id))
		if err != nil {
			return nil, err
		}
		if !blog.Published && !isAdmin(c) {
			return nil, service.ErrBlogNotFound
		}
		return blog, nil
	}
	if !isAdmin(c) {
		return a.blogs.GetPublishedBySlug(key)
	}
	return a.blogs.GetBySlug(key)
}

// CreateBlog 创建博客
func (a *API) CreateBlog(c *gin.Context) {
	var req blogRequest
	if !bindJSON(c, &req, "Please fill in the blog title and content") {
		return
	}

	blog, err := a.blogs.Create(req.toInput())
	if err != nil {
		a.respondBlogError(c, err, "Failed to create blog")
		return
	}

	logger.Info(c.Request.Context(), "blog created", zap.Uint("id", blog.ID), zap.String("slug", blog.Slug))
	c.JSON(http.StatusCreated, gin.H{"message": "Blog created", "blog": blog})
}

// UpdateBlog 更新博客
func (a *API) UpdateBlog(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid blog id")
		return
	}

	var req blogRequest
	if !bindJSON(c, &req, "Please fill in the blog title and content") {
		return
	}

	blog, err := a.blogs.Update(id, req.toInput())
	if err != nil {
		a.respondBlogError(c, err, "Failed to update blog")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Blog updated", "blog": blog})
}

// DeleteBlog 删除博客
func (a *API) DeleteBlog(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid blog id")
		return
	}

	if err := a.blogs.Delete(id); err != nil {
		a.respondBlogError(c, err, "Failed to delete blog")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Blog deleted"})
}

// PreviewMarkdown 渲染编辑器预览。
func (a *API) PreviewMarkdown(c *gin.Context) {
	var req markdownPreviewRequest
	if !bindJSON(c, &req, "Invalid preview request") {
		return
	}
	html, err := service.RenderMarkdown(req.Content)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Failed to render markdown")
		return
	}
	c.JSON(http.StatusOK, gin.H{"html": string(html)})
}

func (a *API) respondBlogError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrBlogNotFound):
		respondError(c, http.StatusNotFound, "Blog not found")
	case errors.Is(err, service.ErrBlogTitleRequired):
		respondError(c, http.StatusBadRequest, "Title is required")
	case errors.Is(err, service.ErrBlogContentRequired):
		respondError(c, http.StatusBadRequest, "Content is required")
	case errors.Is(err, service.ErrSlugTaken):
		respondError(c, http.StatusConflict, "Slug is already in use")
	case errors.Is(err, service.ErrSlugInvalid):
		respondError(c, http.StatusBadRequest, "Slug is invalid")
	default:
		logger.Error(c.Request.Context(), fallback, zap.Error(err))
		respondError(c, http.StatusInternalServerError, fallback)
	}
}

package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/cabpool/internal/db"
	"github.com/cabpool/internal/logger"
	"github.com/cabpool/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	homeRecentBlogs = 3
	blogPageSize    = 9
)

// defaultCalculatorInput seeds the sliders on first render.
var defaultCalculatorInput = service.SavingsInput{DistanceKm: 15, Riders: 3, TripsPerWeek: 10}

type faqGroup struct {
	Category string
	Items    []db.FAQ
}

// ShowHome renders the landing page.
func (a *API) ShowHome(c *gin.Context) {
	ctx := c.Request.Context()
	estimate, _ := service.CalculateSavings(defaultCalculatorInput)

	reels := a.content.Reels(ctx)
	embeds := make([]string, 0, len(reels))
	for _, reel := range reels {
		embeds = append(embeds, service.EmbedURL(reel.ReelID))
	}

	a.renderHTML(c, http.StatusOK, "home.html", gin.H{
		"title":           "",
		"recentBlogs":     a.content.RecentBlogs(ctx, homeRecentBlogs),
		"reels":           reels,
		"reelEmbeds":      embeds,
		"faqs":            a.content.FAQs(ctx, service.DefaultFAQCategory),
		"calculator":      defaultCalculatorInput,
		"estimate":        estimate,
		"maxDistance":     service.MaxDistanceKm,
		"maxRiders":       service.MaxRiders,
		"maxTripsPerWeek": service.MaxTripsPerWeek,
	})
}

// ShowAbout renders the company story with the team.
func (a *API) ShowAbout(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "about.html", gin.H{
		"title": "About us",
		"team":  a.content.Team(c.Request.Context()),
	})
}

// ShowSafety renders the safety page with safety FAQs.
func (a *API) ShowSafety(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "safety.html", gin.H{
		"title": "Safety",
		"faqs":  a.content.FAQs(c.Request.Context(), "safety"),
	})
}

// ShowHowItWorks renders the steps and the savings calculator.
func (a *API) ShowHowItWorks(c *gin.Context) {
	input := defaultCalculatorInput
	if err := c.ShouldBindQuery(&input); err != nil || input.Validate() != nil {
		input = defaultCalculatorInput
	}
	estimate, _ := service.CalculateSavings(input)

	a.renderHTML(c, http.StatusOK, "how_it_works.html", gin.H{
		"title":           "How it works",
		"calculator":      input,
		"estimate":        estimate,
		"maxDistance":     service.MaxDistanceKm,
		"maxRiders":       service.MaxRiders,
		"maxTripsPerWeek": service.MaxTripsPerWeek,
	})
}

// ShowBlogList renders published blogs with search and pagination.
func (a *API) ShowBlogList(c *gin.Context) {
	search := strings.TrimSpace(c.Query("search"))
	result, err := a.blogs.List(service.BlogFilter{
		Search:        search,
		PublishedOnly: true,
		Page:          parsePositiveInt(c.Query("page"), 1),
		PerPage:       blogPageSize,
	})
	if err != nil {
		logger.Warn(c.Request.Context(), "load blog list failed", zap.Error(err))
	}

	a.renderHTML(c, http.StatusOK, "blog_list.html", gin.H{
		"title":      "Blog",
		"blogs":      result.Items,
		"page":       result.Page,
		"totalPages": result.TotalPages,
		"hasPrev":    result.Page > 1,
		"hasNext":    result.Page < result.TotalPages,
		"search":     search,
	})
}

// ShowBlogDetail renders one published blog.
func (a *API) ShowBlogDetail(c *gin.Context) {
	blog, err := a.blogs.GetPublishedBySlug(c.Param("slug"))
	if err != nil {
		if !errors.Is(err, service.ErrBlogNotFound) {
			logger.Error(c.Request.Context(), "load blog failed", zap.Error(err))
		}
		a.NotFound(c)
		return
	}

	content, err := a.content.BlogHTML(c.Request.Context(), blog)
	if err != nil {
		logger.Error(c.Request.Context(), "render blog failed", zap.String("slug", blog.Slug), zap.Error(err))
		a.renderHTML(c, http.StatusInternalServerError, "error.html", gin.H{
			"title":   blog.Title,
			"message": "This article could not be displayed right now.",
		})
		return
	}

	related := make([]db.Blog, 0, homeRecentBlogs)
	for _, other := range a.content.RecentBlogs(c.Request.Context(), homeRecentBlogs+1) {
		if other.ID != blog.ID && len(related) < homeRecentBlogs {
			related = append(related, other)
		}
	}

	a.renderHTML(c, http.StatusOK, "blog_detail.html", gin.H{
		"title":       blog.Title,
		"description": blog.Excerpt,
		"blog":        blog,
		"content":     content,
		"related":     related,
	})
}

// ShowTeam renders the team grid.
func (a *API) ShowTeam(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "team.html", gin.H{
		"title": "Our team",
		"team":  a.content.Team(c.Request.Context()),
	})
}

// ShowFAQ renders every visible FAQ grouped by category, optionally filtered by ?q=.
func (a *API) ShowFAQ(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	items := service.FilterByQuery(a.content.FAQs(c.Request.Context(), ""), query, func(f db.FAQ) []string {
		return []string{f.Question, f.Answer}
	})

	a.renderHTML(c, http.StatusOK, "faq.html", gin.H{
		"title":  "Frequently asked questions",
		"groups": groupFAQs(items),
		"query":  query,
	})
}

// ShowContact renders the contact form and the result of a form submission.
func (a *API) ShowContact(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "contact.html", gin.H{
		"title": "Contact us",
		"sent":  c.Query("sent") == "1",
		"error": c.Query("error"),
	})
}

// NotFound renders the 404 page for unknown paths; API paths get JSON.
func (a *API) NotFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		respondError(c, http.StatusNotFound, "Not found")
		return
	}
	a.renderHTML(c, http.StatusNotFound, "404.html", gin.H{"title": "Page not found"})
}

func groupFAQs(items []db.FAQ) []faqGroup {
	var groups []faqGroup
	index := map[string]int{}
	for _, item := range items {
		pos, ok := index[item.Category]
		if !ok {
			pos = len(groups)
			index[item.Category] = pos
			groups = append(groups, faqGroup{Category: item.Category})
		}
		groups[pos].Items = append(groups[pos].Items, item)
	}
	return groups
}

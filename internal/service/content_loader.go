package service

import (
	"context"
	"html/template"
	"strconv"
	"time"

	"github.com/cabpool/internal/cache"
	"github.com/cabpool/internal/db"
	"github.com/cabpool/internal/logger"
	"go.uber.org/zap"
)

const blogHTMLNamespace = "blog:html"

// ContentSources are the services a ContentLoader reads from.
type ContentSources struct {
	Settings   *SiteSettingsService
	Navigation *NavigationService
	FAQs       *FAQService
	Team       *TeamService
	Reels      *InstagramService
	Blogs      *BlogService
}

// ContentLoader 为公开页面提供内容，数据库出错时回退到内置默认值。
// Navigation, FAQ and team fall back when no rows are stored at all, so a fresh install renders a complete site.
// Once rows exist, hiding every one of them leaves the section empty.
type ContentLoader struct {
	src   ContentSources
	cache cache.Store
	ttl   time.Duration
}

// NewContentLoader builds a loader; a nil store disables the rendered html cache.
func NewContentLoader(src ContentSources, store cache.Store, ttl time.Duration) *ContentLoader {
	if store == nil {
		store = cache.NopStore{}
	}
	return &ContentLoader{src: src, cache: store, ttl: ttl}
}

// Settings returns the site settings or the defaults.
func (l *ContentLoader) Settings(ctx context.Context) SiteSettings {
	if l.src.Settings == nil {
		return DefaultSettings()
	}
	settings, err := l.src.Settings.Get(ctx)
	if err != nil {
		logger.Warn(ctx, "load site settings failed, using defaults", zap.Error(err))
		return DefaultSettings()
	}
	return settings
}

// Navigation returns the visible items of one menu.
func (l *ContentLoader) Navigation(ctx context.Context, location string) []db.NavigationItem {
	if l.src.Navigation == nil {
		return DefaultNavigation(location)
	}
	items, err := l.src.Navigation.List(NavigationFilter{Location: location})
	if err != nil {
		logger.Warn(ctx, "load navigation failed, using defaults", zap.String("location", location), zap.Error(err))
		return DefaultNavigation(location)
	}
	if len(items) == 0 {
		return DefaultNavigation(location)
	}
	return keepVisible(items, func(n db.NavigationItem) bool { return n.Visible })
}

// FooterSections groups the footer menu by section heading.
func (l *ContentLoader) FooterSections(ctx context.Context) []NavigationSection {
	return GroupBySection(l.Navigation(ctx, db.NavLocationFooter))
}

// FAQs returns visible FAQs, optionally limited to one category.
func (l *ContentLoader) FAQs(ctx context.Context, category string) []db.FAQ {
	if l.src.FAQs == nil {
		return DefaultFAQs(category)
	}
	items, err := l.src.FAQs.List(FAQFilter{Category: category})
	if err != nil {
		logger.Warn(ctx, "load faqs failed, using defaults", zap.String("category", category), zap.Error(err))
		return DefaultFAQs(category)
	}
	if len(items) == 0 {
		return DefaultFAQs(category)
	}
	return keepVisible(items, func(f db.FAQ) bool { return f.Visible })
}

// Team returns active team members.
func (l *ContentLoader) Team(ctx context.Context) []db.TeamMember {
	if l.src.Team == nil {
		return DefaultTeam()
	}
	members, err := l.src.Team.List(TeamFilter{})
	if err != nil {
		logger.Warn(ctx, "load team failed, using defaults", zap.Error(err))
		return DefaultTeam()
	}
	if len(members) == 0 {
		return DefaultTeam()
	}
	return keepVisible(members, func(m db.TeamMember) bool { return m.Active })
}

// Reels returns visible reels; there is no default reel content.
func (l *ContentLoader) Reels(ctx context.Context) []db.InstagramReel {
	if l.src.Reels == nil {
		return nil
	}
	reels, err := l.src.Reels.List(ReelFilter{VisibleOnly: true})
	if err != nil {
		logger.Warn(ctx, "load reels failed", zap.Error(err))
		return nil
	}
	return reels
}

// RecentBlogs returns up to limit published blogs.
func (l *ContentLoader) RecentBlogs(ctx context.Context, limit int) []db.Blog {
	if l.src.Blogs == nil {
		return nil
	}
	blogs, err := l.src.Blogs.Recent(limit)
	if err != nil {
		logger.Warn(ctx, "load recent blogs failed", zap.Error(err))
		return nil
	}
	return blogs
}

// BlogHTML renders the blog body, reusing a cached rendering of identical content.
func (l *ContentLoader) BlogHTML(ctx context.Context, blog *db.Blog) (template.HTML, error) {
	key := cache.ContentKey(blogHTMLNamespace,
		blog.Slug,
		strconv.FormatInt(blog.UpdatedAt.UnixNano(), 10),
		blog.Content,
	)

	raw, ok, err := l.cache.Get(ctx, key)
	if err != nil {
		logger.Warn(ctx, "read blog html cache failed", zap.String("slug", blog.Slug), zap.Error(err))
	}
	if ok {
		return template.HTML(raw), nil
	}

	html, err := RenderMarkdown(blog.Content)
	if err != nil {
		return "", err
	}
	if err := l.cache.Set(ctx, key, []byte(html), l.ttl); err != nil {
		logger.Warn(ctx, "write blog html cache failed", zap.String("slug", blog.Slug), zap.Error(err))
	}
	return html, nil
}

func keepVisible[T any](items []T, visible func(T) bool) []T {
	kept := make([]T, 0, len(items))
	for _, item := range items {
		if visible(item) {
			kept = append(kept, item)
		}
	}
	return kept
}

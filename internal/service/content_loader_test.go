package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/cabpool/internal/cache"
	"github.com/cabpool/internal/db"
	"github.com/cabpool/internal/logger"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

func newLoader(gdb *gorm.DB, store cache.Store) *ContentLoader {
	return NewContentLoader(ContentSources{
		Settings:   NewSiteSettingsService(gdb, store, time.Minute),
		Navigation: NewNavigationService(gdb),
		FAQs:       NewFAQService(gdb),
		Team:       NewTeamService(gdb),
		Reels:      NewInstagramService(gdb),
		Blogs:      NewBlogService(gdb),
	}, store, time.Minute)
}

func TestContentLoaderFallsBackWhenDatabaseFails(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(nil) })

	gdb := setupServiceTestDB(t)
	loader := newLoader(gdb, nil)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	ctx := context.Background()
	assert.Equal(t, DefaultSettings(), loader.Settings(ctx))
	assert.Equal(t, DefaultNavigation(db.NavLocationHeader), loader.Navigation(ctx, db.NavLocationHeader))
	assert.Equal(t, DefaultFAQs(""), loader.FAQs(ctx, ""))
	assert.Equal(t, DefaultTeam(), loader.Team(ctx))
	assert.Empty(t, loader.Reels(ctx))
	assert.Empty(t, loader.RecentBlogs(ctx, 3))

	assert.GreaterOrEqual(t, logs.Len(), 6)
}

func TestContentLoaderPrefersStoredContent(t *testing.T) {
	gdb := setupServiceTestDB(t)
	loader := newLoader(gdb, nil)
	ctx := context.Background()

	_, err := NewNavigationService(gdb).Create(NavigationInput{Label: "Rides", Href: "/rides", Visible: true})
	require.NoError(t, err)
	_, err = NewNavigationService(gdb).Create(NavigationInput{Label: "Hidden", Href: "/hidden"})
	require.NoError(t, err)
	_, err = NewTeamService(gdb).Create(TeamMemberInput{Name: "Only Member", Active: true})
	require.NoError(t, err)

	nav := loader.Navigation(ctx, db.NavLocationHeader)
	require.Len(t, nav, 1)
	assert.Equal(t, "Rides", nav[0].Label)

	team := loader.Team(ctx)
	require.Len(t, team, 1)
	assert.Equal(t, "Only Member", team[0].Name)

	// empty tables render the bundled content
	assert.Equal(t, DefaultFAQs("payments"), loader.FAQs(ctx, "payments"))
	assert.NotEmpty(t, loader.FooterSections(ctx))
}

func TestContentLoaderCachesBlogHTML(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	store := cache.NewRedisStore(client, "")

	loader := newLoader(setupServiceTestDB(t), store)
	blog := &db.Blog{Slug: "hello", Content: "# Hello\n\n<script>alert(1)</script>"}
	blog.UpdatedAt = time.Unix(1700000000, 0)

	html, err := loader.BlogHTML(context.Background(), blog)
	require.NoError(t, err)
	assert.Contains(t, string(html), "<h1")
	assert.NotContains(t, string(html), "<script")

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.True(t, strings.HasPrefix(keys[0], "blog:html:"))

	// a cached entry is served without re-rendering
	require.NoError(t, store.Set(context.Background(), keys[0], []byte("<p>cached</p>"), time.Minute))
	html, err = loader.BlogHTML(context.Background(), blog)
	require.NoError(t, err)
	assert.Equal(t, "<p>cached</p>", string(html))

	blog.Content = "changed"
	html, err = loader.BlogHTML(context.Background(), blog)
	require.NoError(t, err)
	assert.Contains(t, string(html), "changed")
}

func TestContentLoaderHiddenRowsDoNotRestoreDefaults(t *testing.T) {
	gdb := setupServiceTestDB(t)
	loader := newLoader(gdb, nil)
	ctx := context.Background()

	_, err := NewNavigationService(gdb).Create(NavigationInput{Label: "Hidden", Href: "/hidden", Location: db.NavLocationFooter})
	require.NoError(t, err)
	_, err = NewFAQService(gdb).Create(FAQInput{Question: "Hidden?", Answer: "Yes.", Category: "payments"})
	require.NoError(t, err)
	_, err = NewTeamService(gdb).Create(TeamMemberInput{Name: "On leave"})
	require.NoError(t, err)

	assert.Empty(t, loader.Navigation(ctx, db.NavLocationFooter))
	assert.Empty(t, loader.FooterSections(ctx))
	assert.Empty(t, loader.FAQs(ctx, "payments"))
	assert.Empty(t, loader.Team(ctx))

	// other menus and categories still have no rows of their own
	assert.Equal(t, DefaultNavigation(db.NavLocationHeader), loader.Navigation(ctx, db.NavLocationHeader))
	assert.Equal(t, DefaultFAQs("safety"), loader.FAQs(ctx, "safety"))
}

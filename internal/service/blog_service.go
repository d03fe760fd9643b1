package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cabpool/internal/db"
	"gorm.io/gorm"
)

var (
	ErrBlogNotFound        = errors.New("blog not found")
	ErrBlogTitleRequired   = errors.New("blog title is required")
	ErrBlogContentRequired = errors.New("blog content is required")
	ErrSlugTaken           = errors.New("slug is already in use")
)

// BlogService wraps blog related database operations.
type BlogService struct {
	db  *gorm.DB
	now func() time.Time
}

// BlogFilter describes filters for listing blogs.
type BlogFilter struct {
	Search        string
	PublishedOnly bool
	Page          int
	PerPage       int
}

// BlogInput represents fields accepted when creating or updating a blog.
// An empty Slug is derived from Title.
type BlogInput struct {
	Title     string
	Slug      string
	Content   string
	Excerpt   string
	Image     string
	Author    string
	Published bool
}

// NewBlogService creates a BlogService instance.
func NewBlogService(gdb *gorm.DB) *BlogService {
	return &BlogService{db: gdb, now: time.Now}
}

// List returns blogs newest first, filtered and paginated.
func (s *BlogService) List(filter BlogFilter) (ListResult[db.Blog], error) {
	result := ListResult[db.Blog]{
		Page:    normalizePage(filter.Page),
		PerPage: normalizePerPage(filter.PerPage, 10),
	}

	query := s.db.Model(&db.Blog{})
	if filter.PublishedOnly {
		query = query.Where("published = ?", true)
	}
	newestFirst := func(q *gorm.DB) *gorm.DB { return q.Order("created_at desc").Order("id desc") }

	// 搜索在内存中按 Unicode 折叠匹配，LIKE 会把 % 和 _ 当通配符
	if search := strings.TrimSpace(filter.Search); search != "" {
		var blogs []db.Blog
		if err := newestFirst(query).Find(&blogs).Error; err != nil {
			return result, fmt.Errorf("list blogs: %w", err)
		}
		pageOf(&result, FilterByQuery(blogs, search, func(b db.Blog) []string {
			return []string{b.Title, b.Excerpt, b.Content}
		}))
		return result, nil
	}

	if err := query.Count(&result.Total).Error; err != nil {
		return result, fmt.Errorf("count blogs: %w", err)
	}

	result.TotalPages = calculateTotalPages(result.Total, result.PerPage)
	offset := (result.Page - 1) * result.PerPage

	if err := newestFirst(query).Limit(result.PerPage).
		Offset(offset).
		Find(&result.Items).Error; err != nil {
		return result, fmt.Errorf("list blogs: %w", err)
	}

	return result, nil
}

// Recent returns up to limit published blogs.
func (s *BlogService) Recent(limit int) ([]db.Blog, error) {
	result, err := s.List(BlogFilter{PublishedOnly: true, PerPage: limit})
	if err != nil {
		return nil, err
	}
	return result.Items, nil
}

// Get fetches a blog by id.
func (s *BlogService) Get(id uint) (*db.Blog, error) {
	var blog db.Blog
	if err := s.db.First(&blog, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	return &blog, nil
}

// GetBySlug fetches a blog by slug regardless of its published state.
func (s *BlogService) GetBySlug(slug string) (*db.Blog, error) {
	return s.findBySlug(slug, false)
}

// GetPublishedBySlug fetches a published blog for the public detail page.
func (s *BlogService) GetPublishedBySlug(slug string) (*db.Blog, error) {
	return s.findBySlug(slug, true)
}

func (s *BlogService) findBySlug(slug string, publishedOnly bool) (*db.Blog, error) {
	query := s.db.Where("slug = ?", strings.TrimSpace(slug))
	if publishedOnly {
		query = query.Where("published = ?", true)
	}
	var blog db.Blog
	if err := query.First(&blog).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	return &blog, nil
}

// Create validates and inserts a blog.
func (s *BlogService) Create(input BlogInput) (*db.Blog, error) {
	if err := validateBlogInput(input); err != nil {
		return nil, err
	}

	var blog db.Blog
	err := s.db.Transaction(func(tx *gorm.DB) error {
		slug, err := s.resolveSlug(tx, input, 0)
		if err != nil {
			return err
		}
		s.apply(&blog, input, slug)
		return tx.Create(&blog).Error
	})
	if err != nil {
		return nil, err
	}
	return &blog, nil
}

// Update validates and saves changes to an existing blog.
func (s *BlogService) Update(id uint, input BlogInput) (*db.Blog, error) {
	if err := validateBlogInput(input); err != nil {
		return nil, err
	}

	var blog db.Blog
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&blog, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBlogNotFound
			}
			return err
		}

		if strings.TrimSpace(input.Slug) == "" {
			// keep published URLs stable when the title changes
			input.Slug = blog.Slug
		}
		slug, err := s.resolveSlug(tx, input, blog.ID)
		if err != nil {
			return err
		}
		s.apply(&blog, input, slug)
		return tx.Save(&blog).Error
	})
	if err != nil {
		return nil, err
	}
	return &blog, nil
}

// Delete removes a blog by id.
func (s *BlogService) Delete(id uint) error {
	result := s.db.Delete(&db.Blog{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBlogNotFound
	}
	return nil
}

func (s *BlogService) resolveSlug(tx *gorm.DB, input BlogInput, excludeID uint) (string, error) {
	if explicit := strings.TrimSpace(input.Slug); explicit != "" {
		slug := GenerateSlug(explicit)
		if slug == "" {
			return "", ErrSlugInvalid
		}
		taken, err := slugTaken(tx, &db.Blog{}, slug, excludeID)
		if err != nil {
			return "", err
		}
		if taken {
			return "", ErrSlugTaken
		}
		return slug, nil
	}
	return uniqueSlug(tx, &db.Blog{}, GenerateSlug(input.Title), excludeID)
}

func (s *BlogService) apply(blog *db.Blog, input BlogInput, slug string) {
	content := strings.TrimSpace(input.Content)
	excerpt := strings.TrimSpace(input.Excerpt)
	if excerpt == "" {
		excerpt = summarizeContent(content)
	}

	blog.Title = strings.TrimSpace(input.Title)
	blog.Slug = slug
	blog.Content = content
	blog.Excerpt = excerpt
	blog.Image = strings.TrimSpace(input.Image)
	blog.Author = strings.TrimSpace(input.Author)
	blog.ReadingTime = calculateReadingTime(content)

	switch {
	case input.Published && blog.PublishedAt == nil:
		now := s.now()
		blog.PublishedAt = &now
	case !input.Published:
		blog.PublishedAt = nil
	}
	blog.Published = input.Published
}

func validateBlogInput(input BlogInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return ErrBlogTitleRequired
	}
	if strings.TrimSpace(input.Content) == "" {
		return ErrBlogContentRequired
	}
	return nil
}

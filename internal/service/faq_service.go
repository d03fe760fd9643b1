package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cabpool/internal/db"
	"gorm.io/gorm"
)

var (
	ErrFAQNotFound         = errors.New("faq not found")
	ErrFAQQuestionRequired = errors.New("faq question is required")
	ErrFAQAnswerRequired   = errors.New("faq answer is required")
)

// DefaultFAQCategory is used when no category is given.
const DefaultFAQCategory = "general"

// FAQService handles FAQ CRUD.
type FAQService struct {
	db *gorm.DB
}

// FAQFilter narrows FAQ listings. Search matches question, answer and category.
type FAQFilter struct {
	Category    string
	Search      string
	VisibleOnly bool
}

// FAQInput represents fields accepted when creating or updating a FAQ.
type FAQInput struct {
	Question string
	Answer   string
	Category string
	Order    int
	Visible  bool
}

// NewFAQService creates a FAQService instance.
func NewFAQService(gdb *gorm.DB) *FAQService {
	return &FAQService{db: gdb}
}

// List returns FAQs in display order.
func (s *FAQService) List(filter FAQFilter) ([]db.FAQ, error) {
	query := s.db.Model(&db.FAQ{})
	if strings.TrimSpace(filter.Category) != "" {
		query = query.Where("category = ?", normalizeCategory(filter.Category))
	}
	if filter.VisibleOnly {
		query = query.Where("visible = ?", true)
	}

	var items []db.FAQ
	if err := query.Order(displayOrder).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list faqs: %w", err)
	}

	return FilterByQuery(items, filter.Search, func(f db.FAQ) []string {
		return []string{f.Question, f.Answer, f.Category}
	}), nil
}

// Categories returns the distinct categories in use.
func (s *FAQService) Categories(visibleOnly bool) ([]string, error) {
	query := s.db.Model(&db.FAQ{})
	if visibleOnly {
		query = query.Where("visible = ?", true)
	}
	var categories []string
	if err := query.Distinct().Order("category asc").Pluck("category", &categories).Error; err != nil {
		return nil, fmt.Errorf("list faq categories: %w", err)
	}
	return categories, nil
}

// Get fetches a FAQ by id.
func (s *FAQService) Get(id uint) (*db.FAQ, error) {
	var item db.FAQ
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFAQNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Create inserts a FAQ; a zero Order appends it to the end of its category.
func (s *FAQService) Create(input FAQInput) (*db.FAQ, error) {
	if err := validateFAQInput(input); err != nil {
		return nil, err
	}

	item := db.FAQ{}
	applyFAQInput(&item, input)

	if item.SortOrder == 0 {
		order, err := nextSortOrder(s.db, &db.FAQ{}, func(q *gorm.DB) *gorm.DB {
			return q.Where("category = ?", item.Category)
		})
		if err != nil {
			return nil, err
		}
		item.SortOrder = order
	}

	if err := s.db.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Update modifies an existing FAQ.
func (s *FAQService) Update(id uint, input FAQInput) (*db.FAQ, error) {
	if err := validateFAQInput(input); err != nil {
		return nil, err
	}

	item, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if input.Order == 0 {
		input.Order = item.SortOrder
	}
	applyFAQInput(item, input)
	if err := s.db.Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes a FAQ.
func (s *FAQService) Delete(id uint) error {
	result := s.db.Delete(&db.FAQ{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFAQNotFound
	}
	return nil
}

// Reorder sets the display order to the position of each id.
func (s *FAQService) Reorder(ids []uint) error {
	return reorder(s.db, &db.FAQ{}, ids, ErrFAQNotFound)
}

func applyFAQInput(item *db.FAQ, input FAQInput) {
	item.Question = strings.TrimSpace(input.Question)
	item.Answer = strings.TrimSpace(input.Answer)
	item.Category = normalizeCategory(input.Category)
	item.SortOrder = input.Order
	item.Visible = input.Visible
}

func validateFAQInput(input FAQInput) error {
	if strings.TrimSpace(input.Question) == "" {
		return ErrFAQQuestionRequired
	}
	if strings.TrimSpace(input.Answer) == "" {
		return ErrFAQAnswerRequired
	}
	return nil
}

func normalizeCategory(category string) string {
	trimmed := strings.ToLower(strings.TrimSpace(category))
	if trimmed == "" {
		return DefaultFAQCategory
	}
	return trimmed
}

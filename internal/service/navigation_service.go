package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cabpool/internal/db"
	"gorm.io/gorm"
)

var (
	ErrNavigationNotFound        = errors.New("navigation item not found")
	ErrNavigationLabelRequired   = errors.New("navigation label is required")
	ErrNavigationHrefInvalid     = errors.New("navigation href is invalid")
	ErrNavigationLocationInvalid = errors.New("navigation location is invalid")
)

// NavigationLocations lists the menus a link can be placed in.
var NavigationLocations = []string{db.NavLocationHeader, db.NavLocationFooter, db.NavLocationMobile}

// NavigationService manages the header, footer and mobile menus.
type NavigationService struct {
	db *gorm.DB
}

// NavigationFilter narrows navigation listings.
type NavigationFilter struct {
	Location    string
	Search      string
	VisibleOnly bool
}

// NavigationInput represents fields accepted for one navigation item.
// ID is only read by SaveAll, where a zero ID creates a new item.
type NavigationInput struct {
	ID           uint
	Label        string
	Href         string
	Icon         string
	Order        int
	Visible      bool
	Location     string
	Section      string
	OpenInNewTab bool
}

// NavigationSection groups footer links under a column heading.
type NavigationSection struct {
	Title string
	Items []db.NavigationItem
}

// NewNavigationService creates a NavigationService instance.
func NewNavigationService(gdb *gorm.DB) *NavigationService {
	return &NavigationService{db: gdb}
}

// List returns navigation items ordered by location then display order.
func (s *NavigationService) List(filter NavigationFilter) ([]db.NavigationItem, error) {
	query := s.db.Model(&db.NavigationItem{})
	if location := strings.TrimSpace(filter.Location); location != "" {
		query = query.Where("location = ?", strings.ToLower(location))
	}
	if filter.VisibleOnly {
		query = query.Where("visible = ?", true)
	}

	var items []db.NavigationItem
	if err := query.Order("location asc").Order(displayOrder).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list navigation: %w", err)
	}

	return FilterByQuery(items, filter.Search, func(n db.NavigationItem) []string {
		return []string{n.Label, n.Href, n.Section}
	}), nil
}

// Get fetches a navigation item by id.
func (s *NavigationService) Get(id uint) (*db.NavigationItem, error) {
	var item db.NavigationItem
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNavigationNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Create inserts one navigation item at the end of its menu unless Order is set.
func (s *NavigationService) Create(input NavigationInput) (*db.NavigationItem, error) {
	var item db.NavigationItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		created, err := createNavigation(tx, input)
		if err != nil {
			return err
		}
		item = *created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Update modifies one navigation item.
func (s *NavigationService) Update(id uint, input NavigationInput) (*db.NavigationItem, error) {
	var item db.NavigationItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		updated, err := updateNavigation(tx, id, input)
		if err != nil {
			return err
		}
		item = *updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// SaveAll creates or updates every item in one transaction.
// Either all items are persisted or none are.
func (s *NavigationService) SaveAll(inputs []NavigationInput) ([]db.NavigationItem, error) {
	saved := make([]db.NavigationItem, 0, len(inputs))
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for i, input := range inputs {
			var (
				item *db.NavigationItem
				err  error
			)
			if input.ID == 0 {
				item, err = createNavigation(tx, input)
			} else {
				item, err = updateNavigation(tx, input.ID, input)
			}
			if err != nil {
				return fmt.Errorf("item %d: %w", i+1, err)
			}
			saved = append(saved, *item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// Delete removes a navigation item.
func (s *NavigationService) Delete(id uint) error {
	result := s.db.Delete(&db.NavigationItem{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNavigationNotFound
	}
	return nil
}

// Reorder sets the display order to the position of each id.
func (s *NavigationService) Reorder(ids []uint) error {
	return reorder(s.db, &db.NavigationItem{}, ids, ErrNavigationNotFound)
}

// GroupBySection groups items by Section, keeping first-seen section order.
// Items without a section are grouped under an empty title.
func GroupBySection(items []db.NavigationItem) []NavigationSection {
	var sections []NavigationSection
	index := map[string]int{}
	for _, item := range items {
		title := strings.TrimSpace(item.Section)
		pos, ok := index[title]
		if !ok {
			pos = len(sections)
			index[title] = pos
			sections = append(sections, NavigationSection{Title: title})
		}
		sections[pos].Items = append(sections[pos].Items, item)
	}
	return sections
}

func createNavigation(tx *gorm.DB, input NavigationInput) (*db.NavigationItem, error) {
	normalized, err := normalizeNavigationInput(input)
	if err != nil {
		return nil, err
	}

	item := db.NavigationItem{}
	applyNavigationInput(&item, normalized)
	if item.SortOrder == 0 {
		order, err := nextSortOrder(tx, &db.NavigationItem{}, func(q *gorm.DB) *gorm.DB {
			return q.Where("location = ?", item.Location)
		})
		if err != nil {
			return nil, err
		}
		item.SortOrder = order
	}

	if err := tx.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func updateNavigation(tx *gorm.DB, id uint, input NavigationInput) (*db.NavigationItem, error) {
	normalized, err := normalizeNavigationInput(input)
	if err != nil {
		return nil, err
	}

	var item db.NavigationItem
	if err := tx.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNavigationNotFound
		}
		return nil, err
	}

	if normalized.Order == 0 {
		normalized.Order = item.SortOrder
	}
	applyNavigationInput(&item, normalized)
	if err := tx.Save(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func applyNavigationInput(item *db.NavigationItem, input NavigationInput) {
	item.Label = input.Label
	item.Href = input.Href
	item.Icon = input.Icon
	item.SortOrder = input.Order
	item.Visible = input.Visible
	item.Location = input.Location
	item.Section = input.Section
	item.OpenInNewTab = input.OpenInNewTab
}

func normalizeNavigationInput(input NavigationInput) (NavigationInput, error) {
	input.Label = strings.TrimSpace(input.Label)
	input.Href = strings.TrimSpace(input.Href)
	input.Icon = strings.TrimSpace(input.Icon)
	input.Section = strings.TrimSpace(input.Section)
	input.Location = strings.ToLower(strings.TrimSpace(input.Location))
	if input.Location == "" {
		input.Location = db.NavLocationHeader
	}

	if input.Label == "" {
		return input, ErrNavigationLabelRequired
	}
	if !IsValidHref(input.Href) {
		return input, ErrNavigationHrefInvalid
	}
	if !IsNavigationLocation(input.Location) {
		return input, ErrNavigationLocationInvalid
	}
	return input, nil
}

// IsNavigationLocation reports whether location names a known menu.
func IsNavigationLocation(location string) bool {
	for _, candidate := range NavigationLocations {
		if location == candidate {
			return true
		}
	}
	return false
}

// IsValidHref accepts site-relative paths, in-page anchors and http(s), mailto and tel links.
func IsValidHref(href string) bool {
	if href == "" || strings.HasPrefix(href, "//") || strings.ContainsAny(href, " \t\n") {
		return false
	}
	lower := strings.ToLower(href)
	for _, prefix := range []string{"/", "#", "http://", "https://", "mailto:", "tel:"} {
		if strings.HasPrefix(lower, prefix) {
			return len(lower) > len(prefix) || prefix == "/" || prefix == "#"
		}
	}
	return false
}

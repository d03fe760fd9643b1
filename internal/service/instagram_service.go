package service

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/cabpool/internal/db"
	"gorm.io/gorm"
)

var (
	ErrReelNotFound  = errors.New("instagram reel not found")
	ErrReelIDInvalid = errors.New("instagram reel id is invalid")
	ErrReelIDTaken   = errors.New("instagram reel already exists")
)

var reelIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{5,64}$`)

// InstagramService manages the reels shown on the home page.
type InstagramService struct {
	db *gorm.DB
}

// ReelFilter narrows reel listings.
type ReelFilter struct {
	Search      string
	VisibleOnly bool
}

// ReelInput represents fields accepted for a reel. ReelID may be a full reel URL.
type ReelInput struct {
	ReelID      string
	Title       string
	Description string
	Order       int
	Visible     bool
}

// NewInstagramService creates an InstagramService instance.
func NewInstagramService(gdb *gorm.DB) *InstagramService {
	return &InstagramService{db: gdb}
}

// ParseReelID accepts a bare reel id or an instagram.com /reel/, /reels/ or /p/ URL.
func ParseReelID(input string) (string, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return "", ErrReelIDInvalid
	}

	if strings.Contains(raw, "instagram.com") || strings.Contains(raw, "://") {
		if !strings.Contains(raw, "://") {
			raw = "https://" + raw
		}
		u, err := url.Parse(raw)
		if err != nil {
			return "", ErrReelIDInvalid
		}
		host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
		if host != "instagram.com" {
			return "", ErrReelIDInvalid
		}
		segments := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(segments) < 2 {
			return "", ErrReelIDInvalid
		}
		switch segments[0] {
		case "reel", "reels", "p", "tv":
			raw = segments[1]
		default:
			return "", ErrReelIDInvalid
		}
	}

	if !reelIDPattern.MatchString(raw) {
		return "", ErrReelIDInvalid
	}
	return raw, nil
}

// EmbedURL returns the iframe URL for a reel id.
func EmbedURL(reelID string) string {
	return "https://www.instagram.com/reel/" + url.PathEscape(reelID) + "/embed"
}

// List returns reels in display order.
func (s *InstagramService) List(filter ReelFilter) ([]db.InstagramReel, error) {
	query := s.db.Model(&db.InstagramReel{})
	if filter.VisibleOnly {
		query = query.Where("visible = ?", true)
	}

	var reels []db.InstagramReel
	if err := query.Order(displayOrder).Find(&reels).Error; err != nil {
		return nil, fmt.Errorf("list reels: %w", err)
	}

	return FilterByQuery(reels, filter.Search, func(r db.InstagramReel) []string {
		return []string{r.ReelID, r.Title, r.Description}
	}), nil
}

// Get fetches a reel by id.
func (s *InstagramService) Get(id uint) (*db.InstagramReel, error) {
	var reel db.InstagramReel
	if err := s.db.First(&reel, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReelNotFound
		}
		return nil, err
	}
	return &reel, nil
}

// Create inserts a reel; duplicate reel ids are rejected.
func (s *InstagramService) Create(input ReelInput) (*db.InstagramReel, error) {
	reelID, err := ParseReelID(input.ReelID)
	if err != nil {
		return nil, err
	}

	var reel db.InstagramReel
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureReelIDFree(tx, reelID, 0); err != nil {
			return err
		}
		applyReelInput(&reel, reelID, input)
		if reel.SortOrder == 0 {
			order, err := nextSortOrder(tx, &db.InstagramReel{}, nil)
			if err != nil {
				return err
			}
			reel.SortOrder = order
		}
		return tx.Create(&reel).Error
	})
	if err != nil {
		return nil, err
	}
	return &reel, nil
}

// Update modifies an existing reel.
func (s *InstagramService) Update(id uint, input ReelInput) (*db.InstagramReel, error) {
	reelID, err := ParseReelID(input.ReelID)
	if err != nil {
		return nil, err
	}

	var reel db.InstagramReel
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&reel, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReelNotFound
			}
			return err
		}
		if err := ensureReelIDFree(tx, reelID, id); err != nil {
			return err
		}
		if input.Order == 0 {
			input.Order = reel.SortOrder
		}
		applyReelInput(&reel, reelID, input)
		return tx.Save(&reel).Error
	})
	if err != nil {
		return nil, err
	}
	return &reel, nil
}

// Delete removes a reel.
func (s *InstagramService) Delete(id uint) error {
	result := s.db.Delete(&db.InstagramReel{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReelNotFound
	}
	return nil
}

// Reorder sets the display order to the position of each id.
func (s *InstagramService) Reorder(ids []uint) error {
	return reorder(s.db, &db.InstagramReel{}, ids, ErrReelNotFound)
}

func ensureReelIDFree(tx *gorm.DB, reelID string, excludeID uint) error {
	query := tx.Model(&db.InstagramReel{}).Where("reel_id = ?", reelID)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrReelIDTaken
	}
	return nil
}

func applyReelInput(reel *db.InstagramReel, reelID string, input ReelInput) {
	reel.ReelID = reelID
	reel.Title = strings.TrimSpace(input.Title)
	reel.Description = strings.TrimSpace(input.Description)
	reel.SortOrder = input.Order
	reel.Visible = input.Visible
}

package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9_\s-]+`)
	slugWhitespace   = regexp.MustCompile(`\s+`)
	slugDashes       = regexp.MustCompile(`-{2,}`)
	slugPattern      = regexp.MustCompile(`^[a-z0-9_]+(?:-[a-z0-9_]+)*$`)
)

// ErrSlugInvalid 表示显式传入的 slug 不符合 URL 安全格式。
var ErrSlugInvalid = errors.New("slug is invalid")

// GenerateSlug lowercases title, strips non-word characters and joins words with hyphens.
// The result only contains [a-z0-9_-] and GenerateSlug(GenerateSlug(s)) == GenerateSlug(s).
func GenerateSlug(title string) string {
	slug := strings.ToLower(title)
	slug = slugInvalidChars.ReplaceAllString(slug, "")
	slug = strings.TrimSpace(slug)
	slug = slugWhitespace.ReplaceAllString(slug, "-")
	slug = slugDashes.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// IsValidSlug reports whether slug is already in canonical form.
func IsValidSlug(slug string) bool {
	return slugPattern.MatchString(slug)
}

// uniqueSlug appends -2, -3, ... to base until no row of model uses it.
// excludeID skips the record being updated.
func uniqueSlug(tx *gorm.DB, model interface{}, base string, excludeID uint) (string, error) {
	if base == "" {
		base = "post"
	}

	candidate := base
	for i := 2; ; i++ {
		taken, err := slugTaken(tx, model, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

func slugTaken(tx *gorm.DB, model interface{}, slug string, excludeID uint) (bool, error) {
	query := tx.Model(model).Where("slug = ?", slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check slug %q: %w", slug, err)
	}
	return count > 0, nil
}

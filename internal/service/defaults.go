package service

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/cabpool/internal/db"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// DefaultContent 是内置的默认站点内容，用于数据库不可用时的回退和初始数据。
type DefaultContent struct {
	Settings   SiteSettings     `yaml:"settings"`
	Navigation []navigationSeed `yaml:"navigation"`
	FAQs       []faqSeed        `yaml:"faqs"`
	Team       []teamSeed       `yaml:"team"`
}

type navigationSeed struct {
	Label    string `yaml:"label"`
	Href     string `yaml:"href"`
	Icon     string `yaml:"icon"`
	Location string `yaml:"location"`
	Section  string `yaml:"section"`
	Order    int    `yaml:"order"`
}

type faqSeed struct {
	Category string `yaml:"category"`
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

type teamSeed struct {
	Name     string `yaml:"name"`
	Role     string `yaml:"role"`
	Bio      string `yaml:"bio"`
	Image    string `yaml:"image"`
	LinkedIn string `yaml:"linkedin"`
	Twitter  string `yaml:"twitter"`
}

var loadDefaults = sync.OnceValues(func() (DefaultContent, error) {
	return parseDefaults(defaultsYAML)
})

func parseDefaults(raw []byte) (DefaultContent, error) {
	var content DefaultContent
	if err := yaml.Unmarshal(raw, &content); err != nil {
		return DefaultContent{}, fmt.Errorf("parse default content: %w", err)
	}
	return content, nil
}

// Defaults returns the embedded default content. The file ships with the
// binary, so a parse failure is a build defect and panics.
func Defaults() DefaultContent {
	content, err := loadDefaults()
	if err != nil {
		panic(err)
	}
	return content
}

// DefaultSettings returns a fresh copy of the default site settings.
func DefaultSettings() SiteSettings {
	return cloneSettings(Defaults().Settings)
}

// DefaultNavigation 返回某个位置的默认导航项。
func DefaultNavigation(location string) []db.NavigationItem {
	var items []db.NavigationItem
	for i, seed := range Defaults().Navigation {
		if location != "" && seed.Location != location {
			continue
		}
		items = append(items, db.NavigationItem{
			Model:     db.Model{ID: uint(i + 1)},
			Label:     seed.Label,
			Href:      seed.Href,
			Icon:      seed.Icon,
			SortOrder: seed.Order,
			Visible:   true,
			Location:  seed.Location,
			Section:   seed.Section,
		})
	}
	return items
}

// DefaultFAQs 返回默认 FAQ，category 为空时返回全部。
func DefaultFAQs(category string) []db.FAQ {
	var items []db.FAQ
	for i, seed := range Defaults().FAQs {
		cat := normalizeCategory(seed.Category)
		if category != "" && cat != normalizeCategory(category) {
			continue
		}
		items = append(items, db.FAQ{
			Model:     db.Model{ID: uint(i + 1)},
			Question:  seed.Question,
			Answer:    seed.Answer,
			Category:  cat,
			SortOrder: i + 1,
			Visible:   true,
		})
	}
	return items
}

// DefaultTeam 返回默认团队成员。
func DefaultTeam() []db.TeamMember {
	members := make([]db.TeamMember, 0, len(Defaults().Team))
	for i, seed := range Defaults().Team {
		members = append(members, db.TeamMember{
			Model:     db.Model{ID: uint(i + 1)},
			Name:      seed.Name,
			Role:      seed.Role,
			Bio:       seed.Bio,
			Image:     seed.Image,
			LinkedIn:  seed.LinkedIn,
			Twitter:   seed.Twitter,
			SortOrder: i + 1,
			Active:    true,
		})
	}
	return members
}

// SeedResult counts the rows written by SeedDefaults.
type SeedResult struct {
	Navigation int
	FAQs       int
	Team       int
	Settings   bool
}

// SeedDefaults writes the default content into empty tables. Tables that
// already hold rows are left alone so the command can be re-run safely.
func SeedDefaults(gdb *gorm.DB) (SeedResult, error) {
	var result SeedResult
	content := Defaults()

	err := gdb.Transaction(func(tx *gorm.DB) error {
		empty, err := tableEmpty(tx, &db.NavigationItem{})
		if err != nil {
			return err
		}
		if empty {
			for _, seed := range content.Navigation {
				if _, err := createNavigation(tx, NavigationInput{
					Label:    seed.Label,
					Href:     seed.Href,
					Icon:     seed.Icon,
					Order:    seed.Order,
					Visible:  true,
					Location: seed.Location,
					Section:  seed.Section,
				}); err != nil {
					return fmt.Errorf("seed navigation %q: %w", seed.Label, err)
				}
				result.Navigation++
			}
		}

		if empty, err = tableEmpty(tx, &db.FAQ{}); err != nil {
			return err
		}
		if empty {
			for i, seed := range content.FAQs {
				item := db.FAQ{}
				applyFAQInput(&item, FAQInput{
					Question: seed.Question,
					Answer:   seed.Answer,
					Category: seed.Category,
					Visible:  true,
				})
				item.SortOrder = i + 1
				if err := tx.Create(&item).Error; err != nil {
					return fmt.Errorf("seed faq: %w", err)
				}
				result.FAQs++
			}
		}

		if empty, err = tableEmpty(tx, &db.TeamMember{}); err != nil {
			return err
		}
		if empty {
			for i, seed := range content.Team {
				member := db.TeamMember{}
				applyTeamMemberInput(&member, TeamMemberInput{
					Name:     seed.Name,
					Role:     seed.Role,
					Bio:      seed.Bio,
					Image:    seed.Image,
					LinkedIn: seed.LinkedIn,
					Twitter:  seed.Twitter,
					Active:   true,
				})
				member.SortOrder = i + 1
				if err := tx.Create(&member).Error; err != nil {
					return fmt.Errorf("seed team member %q: %w", seed.Name, err)
				}
				result.Team++
			}
		}

		if empty, err = tableEmpty(tx, &db.SystemSetting{}); err != nil {
			return err
		}
		if empty {
			if err := writeSettings(tx, settingsInputFrom(content.Settings)); err != nil {
				return err
			}
			result.Settings = true
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}
	return result, nil
}

func tableEmpty(tx *gorm.DB, model interface{}) (bool, error) {
	var count int64
	if err := tx.Model(model).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count %T: %w", model, err)
	}
	return count == 0, nil
}

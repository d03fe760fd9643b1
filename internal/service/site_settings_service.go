package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/cabpool/internal/cache"
	"github.com/cabpool/internal/db"
	"github.com/cabpool/internal/logger"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const siteSettingsCacheKey = "site:settings"

// ErrSettingsInvalid wraps validation failures of a settings section.
var ErrSettingsInvalid = errors.New("invalid site settings")

var settingsValidate = newSettingsValidator()

// newSettingsValidator reports json field names so errors read "theme.primary".
func newSettingsValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// SettingsFieldError names one rejected settings field.
type SettingsFieldError struct {
	Section string
	Field   string
	Rule    string
}

// SettingsValidationError lists every rejected field of an update.
type SettingsValidationError struct {
	Fields []SettingsFieldError
}

func (e *SettingsValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s.%s (%s)", f.Section, f.Field, f.Rule))
	}
	return "invalid site settings: " + strings.Join(parts, ", ")
}

func (e *SettingsValidationError) Unwrap() error {
	return ErrSettingsInvalid
}

// settingsSection binds a storage key to its slot in SiteSettings and SiteSettingsInput.
type settingsSection struct {
	key    string
	name   string
	target func(*SiteSettings) interface{}
	input  func(SiteSettingsInput) (interface{}, bool)
}

var settingsSections = []settingsSection{
	{db.SettingKeySite, "site",
		func(s *SiteSettings) interface{} { return &s.Site },
		func(in SiteSettingsInput) (interface{}, bool) { return in.Site, in.Site != nil }},
	{db.SettingKeyContact, "contact",
		func(s *SiteSettings) interface{} { return &s.Contact },
		func(in SiteSettingsInput) (interface{}, bool) { return in.Contact, in.Contact != nil }},
	{db.SettingKeySocial, "social",
		func(s *SiteSettings) interface{} { return &s.Social },
		func(in SiteSettingsInput) (interface{}, bool) { return in.Social, in.Social != nil }},
	{db.SettingKeyHero, "hero",
		func(s *SiteSettings) interface{} { return &s.Hero },
		func(in SiteSettingsInput) (interface{}, bool) { return in.Hero, in.Hero != nil }},
	{db.SettingKeyStats, "stats",
		func(s *SiteSettings) interface{} { return &s.Stats },
		func(in SiteSettingsInput) (interface{}, bool) { return in.Stats, in.Stats != nil }},
	{db.SettingKeyFeatures, "features",
		func(s *SiteSettings) interface{} { return &s.Features },
		func(in SiteSettingsInput) (interface{}, bool) { return in.Features, in.Features != nil }},
	{db.SettingKeySteps, "steps",
		func(s *SiteSettings) interface{} { return &s.Steps },
		func(in SiteSettingsInput) (interface{}, bool) { return in.Steps, in.Steps != nil }},
	{db.SettingKeyTestimonials, "testimonials",
		func(s *SiteSettings) interface{} { return &s.Testimonials },
		func(in SiteSettingsInput) (interface{}, bool) { return in.Testimonials, in.Testimonials != nil }},
	{db.SettingKeyAbout, "about",
		func(s *SiteSettings) interface{} { return &s.About },
		func(in SiteSettingsInput) (interface{}, bool) { return in.About, in.About != nil }},
	{db.SettingKeyAppLinks, "appLinks",
		func(s *SiteSettings) interface{} { return &s.AppLinks },
		func(in SiteSettingsInput) (interface{}, bool) { return in.AppLinks, in.AppLinks != nil }},
	{db.SettingKeyTheme, "theme",
		func(s *SiteSettings) interface{} { return &s.Theme },
		func(in SiteSettingsInput) (interface{}, bool) { return in.Theme, in.Theme != nil }},
	{db.SettingKeyImages, "images",
		func(s *SiteSettings) interface{} { return &s.Images },
		func(in SiteSettingsInput) (interface{}, bool) { return in.Images, in.Images != nil }},
}

func settingKeys() []string {
	keys := make([]string, 0, len(settingsSections))
	for _, section := range settingsSections {
		keys = append(keys, section.key)
	}
	return keys
}

// SiteSettingsService 读取并更新站点设置聚合。
type SiteSettingsService struct {
	db    *gorm.DB
	cache cache.Store
	ttl   time.Duration
}

// NewSiteSettingsService 构造 SiteSettingsService，store 为空时不缓存。
func NewSiteSettingsService(gdb *gorm.DB, store cache.Store, ttl time.Duration) *SiteSettingsService {
	if store == nil {
		store = cache.NopStore{}
	}
	return &SiteSettingsService{db: gdb, cache: store, ttl: ttl}
}

// Get returns stored sections overlaid on the defaults.
func (s *SiteSettingsService) Get(ctx context.Context) (SiteSettings, error) {
	var cached SiteSettings
	hit, err := cache.GetJSON(ctx, s.cache, siteSettingsCacheKey, &cached)
	if err != nil {
		logger.Warn(ctx, "read settings cache failed", zap.Error(err))
	}
	if hit {
		return cached, nil
	}

	settings, err := loadSettings(s.db.WithContext(ctx))
	if err != nil {
		return DefaultSettings(), err
	}

	if err := cache.SetJSON(ctx, s.cache, siteSettingsCacheKey, settings, s.ttl); err != nil {
		logger.Warn(ctx, "write settings cache failed", zap.Error(err))
	}
	return settings, nil
}

// Update validates and stores the sections present in input, then returns the merged result.
func (s *SiteSettingsService) Update(ctx context.Context, input SiteSettingsInput) (SiteSettings, error) {
	if err := ValidateSettingsInput(input); err != nil {
		return SiteSettings{}, err
	}

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return writeSettings(tx, input)
	}); err != nil {
		return SiteSettings{}, fmt.Errorf("update site settings: %w", err)
	}

	s.Invalidate(ctx)
	return s.Get(ctx)
}

// Reset removes every stored section so the defaults apply again.
func (s *SiteSettingsService) Reset(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Unscoped().Where("key IN ?", settingKeys()).Delete(&db.SystemSetting{}).Error; err != nil {
		return fmt.Errorf("reset site settings: %w", err)
	}
	s.Invalidate(ctx)
	return nil
}

// Invalidate drops the cached aggregate.
func (s *SiteSettingsService) Invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, siteSettingsCacheKey); err != nil {
		logger.Warn(ctx, "invalidate settings cache failed", zap.Error(err))
	}
}

// ValidateSettingsInput checks each present section and collects every failing field.
func ValidateSettingsInput(input SiteSettingsInput) error {
	var fields []SettingsFieldError
	for _, section := range settingsSections {
		value, ok := section.input(input)
		if !ok {
			continue
		}

		var err error
		switch v := value.(type) {
		case *[]StatItem:
			err = settingsValidate.Var(*v, "dive")
		case *[]FeatureItem:
			err = settingsValidate.Var(*v, "dive")
		case *[]StepItem:
			err = settingsValidate.Var(*v, "dive")
		case *[]Testimonial:
			err = settingsValidate.Var(*v, "dive")
		default:
			err = settingsValidate.Struct(v)
		}
		if err == nil {
			continue
		}

		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			fields = append(fields, SettingsFieldError{
				Section: section.name,
				Field:   settingsFieldName(fe),
				Rule:    fe.Tag(),
			})
		}
	}
	if len(fields) > 0 {
		return &SettingsValidationError{Fields: fields}
	}
	return nil
}

func settingsFieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if strings.HasPrefix(ns, "[") {
		return ns
	}
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	if ns != "" {
		return ns
	}
	return fe.Field()
}

func loadSettings(gdb *gorm.DB) (SiteSettings, error) {
	result := DefaultSettings()

	var records []db.SystemSetting
	if err := gdb.Where("key IN ?", settingKeys()).Find(&records).Error; err != nil {
		return result, fmt.Errorf("load site settings: %w", err)
	}

	byKey := make(map[string]string, len(records))
	for _, record := range records {
		byKey[record.Key] = record.Value
	}
	for _, section := range settingsSections {
		raw := strings.TrimSpace(byKey[section.key])
		if raw == "" {
			continue
		}
		// stored fields overlay the defaults; absent fields keep their default value
		if err := json.Unmarshal([]byte(raw), section.target(&result)); err != nil {
			return DefaultSettings(), fmt.Errorf("decode setting %s: %w", section.key, err)
		}
	}
	return result, nil
}

func writeSettings(tx *gorm.DB, input SiteSettingsInput) error {
	for _, section := range settingsSections {
		value, ok := section.input(input)
		if !ok {
			continue
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encode setting %s: %w", section.key, err)
		}
		if err := upsertSetting(tx, section.key, string(encoded)); err != nil {
			return err
		}
	}
	return nil
}

func upsertSetting(tx *gorm.DB, key, value string) error {
	setting := db.SystemSetting{Key: key, Value: value}
	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      value,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&setting).Error; err != nil {
		return fmt.Errorf("upsert setting %s: %w", key, err)
	}
	return nil
}

func settingsInputFrom(settings SiteSettings) SiteSettingsInput {
	return SiteSettingsInput{
		Site:         &settings.Site,
		Contact:      &settings.Contact,
		Social:       &settings.Social,
		Hero:         &settings.Hero,
		Stats:        &settings.Stats,
		Features:     &settings.Features,
		Steps:        &settings.Steps,
		Testimonials: &settings.Testimonials,
		About:        &settings.About,
		AppLinks:     &settings.AppLinks,
		Theme:        &settings.Theme,
		Images:       &settings.Images,
	}
}

func cloneSettings(in SiteSettings) SiteSettings {
	out := in
	out.Stats = append([]StatItem(nil), in.Stats...)
	out.Features = append([]FeatureItem(nil), in.Features...)
	out.Steps = append([]StepItem(nil), in.Steps...)
	out.Testimonials = append([]Testimonial(nil), in.Testimonials...)
	return out
}

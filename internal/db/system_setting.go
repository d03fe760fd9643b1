package db

import "gorm.io/gorm"

// SystemSetting 存储后台可配置的系统级键值对。
// SiteSettings 的每个分区以 JSON 文档形式保存在 Value 中。
type SystemSetting struct {
	gorm.Model
	Key   string `gorm:"size:100;uniqueIndex;not null"`
	Value string `gorm:"type:text"`
}

// TableName 自定义表名以保持命名一致。
func (SystemSetting) TableName() string {
	return "system_settings"
}

const (
	SettingKeySite         = "site"
	SettingKeyContact      = "contact"
	SettingKeySocial       = "social"
	SettingKeyHero         = "hero"
	SettingKeyStats        = "stats"
	SettingKeyFeatures     = "features"
	SettingKeySteps        = "steps"
	SettingKeyTestimonials = "testimonials"
	SettingKeyAbout        = "about"
	SettingKeyAppLinks     = "app_links"
	SettingKeyTheme        = "theme"
	SettingKeyImages       = "images"
)

package db

// FAQ 常见问题条目，按 SortOrder 升序展示。
type FAQ struct {
	Model
	Question  string `gorm:"size:300;not null" json:"question"`
	Answer    string `gorm:"type:text;not null" json:"answer"`
	Category  string `gorm:"size:60;index" json:"category"`
	SortOrder int    `gorm:"default:0" json:"order"`
	Visible   bool   `json:"visible"`
}

// TableName keeps the plural form stable across gorm naming strategies.
func (FAQ) TableName() string {
	return "faqs"
}

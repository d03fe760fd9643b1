package db

// TeamMember 团队成员资料。
type TeamMember struct {
	Model
	Name       string `gorm:"size:120;not null" json:"name"`
	Role       string `gorm:"size:120" json:"role"`
	Bio        string `gorm:"type:text" json:"bio"`
	Image      string `json:"image"`
	HoverImage string `json:"hoverImage"`
	LinkedIn   string `json:"linkedin"`
	Twitter    string `json:"twitter"`
	Instagram  string `json:"instagram"`
	Email      string `gorm:"size:200" json:"email"`
	SortOrder  int    `gorm:"default:0" json:"order"`
	Active     bool   `gorm:"index" json:"active"`
}

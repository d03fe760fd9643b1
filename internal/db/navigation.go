package db

const (
	NavLocationHeader = "header"
	NavLocationFooter = "footer"
	NavLocationMobile = "mobile"
)

// NavigationItem is a single link rendered in one of the site menus.
type NavigationItem struct {
	Model
	Label        string `gorm:"size:80;not null" json:"label"`
	Href         string `gorm:"size:300;not null" json:"href"`
	Icon         string `gorm:"size:60" json:"icon"`
	SortOrder    int    `gorm:"default:0" json:"order"`
	Visible      bool   `json:"visible"`
	Location     string `gorm:"size:20;index;not null" json:"location"`
	Section      string `gorm:"size:60" json:"section"`
	OpenInNewTab bool   `json:"openInNewTab"`
}

package db

// InstagramReel references a reel embedded on the home page.
type InstagramReel struct {
	Model
	ReelID      string `gorm:"size:64;uniqueIndex;not null" json:"reelId"`
	Title       string `gorm:"size:200" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	SortOrder   int    `gorm:"default:0" json:"order"`
	Visible     bool   `json:"visible"`
}

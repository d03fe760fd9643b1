package db

import "time"

// Blog is a marketing blog article written in markdown.
type Blog struct {
	Model
	Title       string     `gorm:"size:200;not null" json:"title"`
	Slug        string     `gorm:"size:220;uniqueIndex;not null" json:"slug"`
	Content     string     `gorm:"type:text" json:"content"`
	Excerpt     string     `gorm:"size:500" json:"excerpt"`
	Image       string     `json:"image"`
	Author      string     `gorm:"size:120" json:"author"`
	Published   bool       `gorm:"index" json:"published"`
	PublishedAt *time.Time `json:"publishedAt"`
	ReadingTime int        `json:"readingTime"`
}

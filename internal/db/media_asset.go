package db

// MediaAsset 记录后台上传的文件。
type MediaAsset struct {
	Model
	FileName     string `gorm:"size:200;uniqueIndex;not null" json:"fileName"`
	OriginalName string `gorm:"size:255" json:"originalName"`
	URL          string `gorm:"size:400;not null" json:"url"`
	ContentType  string `gorm:"size:100" json:"contentType"`
	Size         int64  `json:"size"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
}

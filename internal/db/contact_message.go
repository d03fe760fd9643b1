package db

// ContactMessage is a submission from the public contact form.
type ContactMessage struct {
	Model
	Name    string `gorm:"size:120;not null" json:"name"`
	Email   string `gorm:"size:200;not null" json:"email"`
	Phone   string `gorm:"size:40" json:"phone"`
	Subject string `gorm:"size:200" json:"subject"`
	Message string `gorm:"type:text;not null" json:"message"`
	Handled bool   `gorm:"index" json:"handled"`
}

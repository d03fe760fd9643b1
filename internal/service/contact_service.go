package service

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/cabpool/internal/db"
	"gorm.io/gorm"
)

var (
	ErrContactNotFound        = errors.New("contact message not found")
	ErrContactNameRequired    = errors.New("contact name is required")
	ErrContactEmailInvalid    = errors.New("contact email is invalid")
	ErrContactMessageRequired = errors.New("contact message is required")
	ErrContactMessageTooLong  = errors.New("contact message is too long")
)

const maxContactMessageRunes = 5000

// ContactService stores messages from the public contact form.
type ContactService struct {
	db *gorm.DB
}

// ContactInput is a public contact form submission.
type ContactInput struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

// NewContactService creates a ContactService instance.
func NewContactService(gdb *gorm.DB) *ContactService {
	return &ContactService{db: gdb}
}

// Submit validates and stores a message.
func (s *ContactService) Submit(input ContactInput) (*db.ContactMessage, error) {
	msg := db.ContactMessage{
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.TrimSpace(input.Email),
		Phone:   strings.TrimSpace(input.Phone),
		Subject: strings.TrimSpace(input.Subject),
		Message: strings.TrimSpace(input.Message),
	}

	switch {
	case msg.Name == "":
		return nil, ErrContactNameRequired
	case msg.Message == "":
		return nil, ErrContactMessageRequired
	case utf8.RuneCountInString(msg.Message) > maxContactMessageRunes:
		return nil, ErrContactMessageTooLong
	}
	if _, err := mail.ParseAddress(msg.Email); err != nil {
		return nil, ErrContactEmailInvalid
	}

	if err := s.db.Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("store contact message: %w", err)
	}
	return &msg, nil
}

// List returns messages newest first; unhandledOnly hides processed ones.
func (s *ContactService) List(unhandledOnly bool, page, perPage int) (ListResult[db.ContactMessage], error) {
	result := ListResult[db.ContactMessage]{
		Page:    normalizePage(page),
		PerPage: normalizePerPage(perPage, 20),
	}

	query := s.db.Model(&db.ContactMessage{})
	if unhandledOnly {
		query = query.Where("handled = ?", false)
	}
	if err := query.Count(&result.Total).Error; err != nil {
		return result, fmt.Errorf("count contact messages: %w", err)
	}

	result.TotalPages = calculateTotalPages(result.Total, result.PerPage)
	offset := (result.Page - 1) * result.PerPage
	if err := query.Order("created_at desc").Order("id desc").
		Limit(result.PerPage).Offset(offset).
		Find(&result.Items).Error; err != nil {
		return result, fmt.Errorf("list contact messages: %w", err)
	}
	return result, nil
}

// CountUnhandled returns the number of messages waiting for a reply.
func (s *ContactService) CountUnhandled() (int64, error) {
	var count int64
	err := s.db.Model(&db.ContactMessage{}).Where("handled = ?", false).Count(&count).Error
	return count, err
}

// MarkHandled flags a message as processed or reopens it.
func (s *ContactService) MarkHandled(id uint, handled bool) error {
	result := s.db.Model(&db.ContactMessage{}).Where("id = ?", id).Update("handled", handled)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrContactNotFound
	}
	return nil
}

// Delete removes a message.
func (s *ContactService) Delete(id uint) error {
	result := s.db.Delete(&db.ContactMessage{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrContactNotFound
	}
	return nil
}

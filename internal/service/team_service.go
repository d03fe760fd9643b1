package service

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/cabpool/internal/db"
	"gorm.io/gorm"
)

var (
	ErrTeamMemberNotFound     = errors.New("team member not found")
	ErrTeamMemberNameRequired = errors.New("team member name is required")
	ErrTeamMemberEmailInvalid = errors.New("team member email is invalid")
)

// TeamService handles team member CRUD.
type TeamService struct {
	db *gorm.DB
}

// TeamFilter narrows team listings.
type TeamFilter struct {
	Search     string
	ActiveOnly bool
}

// TeamMemberInput represents fields accepted when creating or updating a member.
type TeamMemberInput struct {
	Name       string
	Role       string
	Bio        string
	Image      string
	HoverImage string
	LinkedIn   string
	Twitter    string
	Instagram  string
	Email      string
	Order      int
	Active     bool
}

// NewTeamService creates a TeamService instance.
func NewTeamService(gdb *gorm.DB) *TeamService {
	return &TeamService{db: gdb}
}

// List returns team members in display order.
func (s *TeamService) List(filter TeamFilter) ([]db.TeamMember, error) {
	query := s.db.Model(&db.TeamMember{})
	if filter.ActiveOnly {
		query = query.Where("active = ?", true)
	}

	var members []db.TeamMember
	if err := query.Order(displayOrder).Find(&members).Error; err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}

	return FilterByQuery(members, filter.Search, func(m db.TeamMember) []string {
		return []string{m.Name, m.Role, m.Bio}
	}), nil
}

// Get fetches a member by id.
func (s *TeamService) Get(id uint) (*db.TeamMember, error) {
	var member db.TeamMember
	if err := s.db.First(&member, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

// Create inserts a member at the end of the list unless Order is set.
func (s *TeamService) Create(input TeamMemberInput) (*db.TeamMember, error) {
	if err := validateTeamMemberInput(input); err != nil {
		return nil, err
	}

	member := db.TeamMember{}
	applyTeamMemberInput(&member, input)
	if member.SortOrder == 0 {
		order, err := nextSortOrder(s.db, &db.TeamMember{}, nil)
		if err != nil {
			return nil, err
		}
		member.SortOrder = order
	}

	if err := s.db.Create(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// Update modifies an existing member.
func (s *TeamService) Update(id uint, input TeamMemberInput) (*db.TeamMember, error) {
	if err := validateTeamMemberInput(input); err != nil {
		return nil, err
	}

	member, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if input.Order == 0 {
		input.Order = member.SortOrder
	}
	applyTeamMemberInput(member, input)
	if err := s.db.Save(member).Error; err != nil {
		return nil, err
	}
	return member, nil
}

// Delete removes a member.
func (s *TeamService) Delete(id uint) error {
	result := s.db.Delete(&db.TeamMember{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTeamMemberNotFound
	}
	return nil
}

// Reorder sets the display order to the position of each id.
func (s *TeamService) Reorder(ids []uint) error {
	return reorder(s.db, &db.TeamMember{}, ids, ErrTeamMemberNotFound)
}

func applyTeamMemberInput(member *db.TeamMember, input TeamMemberInput) {
	member.Name = strings.TrimSpace(input.Name)
	member.Role = strings.TrimSpace(input.Role)
	member.Bio = strings.TrimSpace(input.Bio)
	member.Image = strings.TrimSpace(input.Image)
	member.HoverImage = strings.TrimSpace(input.HoverImage)
	member.LinkedIn = strings.TrimSpace(input.LinkedIn)
	member.Twitter = strings.TrimSpace(input.Twitter)
	member.Instagram = strings.TrimSpace(input.Instagram)
	member.Email = strings.TrimSpace(input.Email)
	member.SortOrder = input.Order
	member.Active = input.Active
}

func validateTeamMemberInput(input TeamMemberInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrTeamMemberNameRequired
	}
	if email := strings.TrimSpace(input.Email); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return ErrTeamMemberEmailInvalid
		}
	}
	return nil
}

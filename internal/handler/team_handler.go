package handler

import (
	"errors"
	"net/http"

	"github.com/cabpool/internal/logger"
	"github.com/cabpool/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type teamMemberRequest struct {
	Name       string `json:"name" binding:"required,max=120"`
	Role       string `json:"role" binding:"max=120"`
	Bio        string `json:"bio" binding:"max=2000"`
	Image      string `json:"image" binding:"max=500"`
	HoverImage string `json:"hoverImage" binding:"max=500"`
	LinkedIn   string `json:"linkedin" binding:"omitempty,url"`
	Twitter    string `json:"twitter" binding:"omitempty,url"`
	Instagram  string `json:"instagram" binding:"omitempty,url"`
	Email      string `json:"email" binding:"omitempty,email"`
	Order      int    `json:"order" binding:"min=0"`
	Active     *bool  `json:"active"`
}

func (r teamMemberRequest) toInput() service.TeamMemberInput {
	return service.TeamMemberInput{
		Name:       r.Name,
		Role:       r.Role,
		Bio:        r.Bio,
		Image:      r.Image,
		HoverImage: r.HoverImage,
		LinkedIn:   r.LinkedIn,
		Twitter:    r.Twitter,
		Instagram:  r.Instagram,
		Email:      r.Email,
		Order:      r.Order,
		Active:     boolOr(r.Active, true),
	}
}

// GetTeam 返回团队成员，未登录时只含在职成员。
func (a *API) GetTeam(c *gin.Context) {
	members, err := a.team.List(service.TeamFilter{
		Search:     c.Query("search"),
		ActiveOnly: !isAdmin(c),
	})
	if err != nil {
		logger.Error(c.Request.Context(), "list team failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load team")
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

// GetTeamMember 获取单个成员
func (a *API) GetTeamMember(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid team member id")
		return
	}
	member, err := a.team.Get(id)
	if err == nil && !member.Active && !isAdmin(c) {
		err = service.ErrTeamMemberNotFound
	}
	if err != nil {
		a.respondTeamError(c, err, "Failed to load team member")
		return
	}
	c.JSON(http.StatusOK, gin.H{"member": member})
}

// CreateTeamMember 新增成员
func (a *API) CreateTeamMember(c *gin.Context) {
	var req teamMemberRequest
	if !bindJSON(c, &req, "Please check the team member details") {
		return
	}
	member, err := a.team.Create(req.toInput())
	if err != nil {
		a.respondTeamError(c, err, "Failed to create team member")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Team member created", "member": member})
}

// UpdateTeamMember 更新成员
func (a *API) UpdateTeamMember(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid team member id")
		return
	}
	var req teamMemberRequest
	if !bindJSON(c, &req, "Please check the team member details") {
		return
	}
	member, err := a.team.Update(id, req.toInput())
	if err != nil {
		a.respondTeamError(c, err, "Failed to update team member")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Team member updated", "member": member})
}

// DeleteTeamMember 删除成员
func (a *API) DeleteTeamMember(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid team member id")
		return
	}
	if err := a.team.Delete(id); err != nil {
		a.respondTeamError(c, err, "Failed to delete team member")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Team member deleted"})
}

// ReorderTeam 按给定 id 顺序重排
func (a *API) ReorderTeam(c *gin.Context) {
	var req reorderRequest
	if !bindJSON(c, &req, "ids are required") {
		return
	}
	if err := a.team.Reorder(req.IDs); err != nil {
		a.respondTeamError(c, err, "Failed to reorder team")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order saved"})
}

func (a *API) respondTeamError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrTeamMemberNotFound):
		respondError(c, http.StatusNotFound, "Team member not found")
	case errors.Is(err, service.ErrTeamMemberNameRequired):
		respondError(c, http.StatusBadRequest, "Name is required")
	case errors.Is(err, service.ErrTeamMemberEmailInvalid):
		respondError(c, http.StatusBadRequest, "Email is invalid")
	default:
		logger.Error(c.Request.Context(), fallback, zap.Error(err))
		respondError(c, http.StatusInternalServerError, fallback)
	}
}

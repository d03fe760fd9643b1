package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/cabpool/internal/logger"
	"github.com/cabpool/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type navigationRequest struct {
	ID           uint   `json:"id"`
	Label        string `json:"label" binding:"required,max=80"`
	Href         string `json:"href" binding:"required,max=300,href"`
	Icon         string `json:"icon" binding:"max=60"`
	Order        int    `json:"order" binding:"min=0"`
	Visible      *bool  `json:"visible"`
	Location     string `json:"location" binding:"omitempty,navlocation"`
	Section      string `json:"section" binding:"max=60"`
	OpenInNewTab bool   `json:"openInNewTab"`
}

func (r navigationRequest) toInput() service.NavigationInput {
	return service.NavigationInput{
		ID:           r.ID,
		Label:        r.Label,
		Href:         r.Href,
		Icon:         r.Icon,
		Order:        r.Order,
		Visible:      boolOr(r.Visible, true),
		Location:     r.Location,
		Section:      r.Section,
		OpenInNewTab: r.OpenInNewTab,
	}
}

type navigationBulkRequest struct {
	Items []navigationRequest `json:"items" binding:"required,dive"`
}

// GetNavigation 返回导航项，可按 location 过滤；未登录时只含可见项。
func (a *API) GetNavigation(c *gin.Context) {
	location := strings.ToLower(strings.TrimSpace(c.Query("location")))
	if location != "" && !service.IsNavigationLocation(location) {
		respondError(c, http.StatusBadRequest, "Unknown navigation location")
		return
	}

	items, err := a.navigation.List(service.NavigationFilter{
		Location:    location,
		Search:      c.Query("search"),
		VisibleOnly: !isAdmin(c),
	})
	if err != nil {
		logger.Error(c.Request.Context(), "list navigation failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load navigation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "locations": service.NavigationLocations})
}

// GetNavigationItem 返回单个导航项，隐藏项只对管理员可见。
func (a *API) GetNavigationItem(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid navigation id")
		return
	}
	item, err := a.navigation.Get(id)
	if err == nil && !item.Visible && !isAdmin(c) {
		err = service.ErrNavigationNotFound
	}
	if err != nil {
		a.respondNavigationError(c, err, "Failed to load navigation item")
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// CreateNavigation 新增导航项
func (a *API) CreateNavigation(c *gin.Context) {
	var req navigationRequest
	if !bindJSON(c, &req, "Please check the navigation item") {
		return
	}
	item, err := a.navigation.Create(req.toInput())
	if err != nil {
		a.respondNavigationError(c, err, "Failed to create navigation item")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Navigation item created", "item": item})
}

// UpdateNavigation 更新单个导航项
func (a *API) UpdateNavigation(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid navigation id")
		return
	}
	var req navigationRequest
	if !bindJSON(c, &req, "Please check the navigation item") {
		return
	}
	item, err := a.navigation.Update(id, req.toInput())
	if err != nil {
		a.respondNavigationError(c, err, "Failed to update navigation item")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Navigation item updated", "item": item})
}

// SaveNavigation 在一个事务中保存全部导航项，任一失败则全部回滚。
func (a *API) SaveNavigation(c *gin.Context) {
	var req navigationBulkRequest
	if !bindJSON(c, &req, "Please check the navigation items") {
		return
	}
	inputs := make([]service.NavigationInput, 0, len(req.Items))
	for _, item := range req.Items {
		inputs = append(inputs, item.toInput())
	}
	items, err := a.navigation.SaveAll(inputs)
	if err != nil {
		a.respondNavigationError(c, err, "Failed to save navigation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Navigation saved", "items": items})
}

// ReorderNavigation 按给定 id 顺序重排
func (a *API) ReorderNavigation(c *gin.Context) {
	var req reorderRequest
	if !bindJSON(c, &req, "ids are required") {
		return
	}
	if err := a.navigation.Reorder(req.IDs); err != nil {
		a.respondNavigationError(c, err, "Failed to reorder navigation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order saved"})
}

// DeleteNavigation 删除导航项
func (a *API) DeleteNavigation(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid navigation id")
		return
	}
	if err := a.navigation.Delete(id); err != nil {
		a.respondNavigationError(c, err, "Failed to delete navigation item")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Navigation item deleted"})
}

func (a *API) respondNavigationError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrNavigationNotFound):
		respondError(c, http.StatusNotFound, "Navigation item not found")
	case errors.Is(err, service.ErrNavigationLabelRequired):
		respondError(c, http.StatusBadRequest, "Label is required")
	case errors.Is(err, service.ErrNavigationHrefInvalid):
		respondError(c, http.StatusBadRequest, "Link is invalid")
	case errors.Is(err, service.ErrNavigationLocationInvalid):
		respondError(c, http.StatusBadRequest, "Unknown navigation location")
	default:
		logger.Error(c.Request.Context(), fallback, zap.Error(err))
		respondError(c, http.StatusInternalServerError, fallback)
	}
}

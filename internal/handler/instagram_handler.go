package handler

import (
	"errors"
	"net/http"

	"github.com/cabpool/internal/db"
	"github.com/cabpool/internal/logger"
	"github.com/cabpool/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type reelRequest struct {
	ReelID      string `json:"reelId" binding:"required,max=300"`
	Title       string `json:"title" binding:"max=200"`
	Description string `json:"description" binding:"max=2000"`
	Order       int    `json:"order" binding:"min=0"`
	Visible     *bool  `json:"visible"`
}

func (r reelRequest) toInput() service.ReelInput {
	return service.ReelInput{
		ReelID:      r.ReelID,
		Title:       r.Title,
		Description: r.Description,
		Order:       r.Order,
		Visible:     boolOr(r.Visible, true),
	}
}

type reelPayload struct {
	db.InstagramReel
	EmbedURL string `json:"embedUrl"`
}

func reelResponse(reel db.InstagramReel) reelPayload {
	return reelPayload{InstagramReel: reel, EmbedURL: service.EmbedURL(reel.ReelID)}
}

// GetReels 返回 Instagram reels，未登录时只含可见项。
func (a *API) GetReels(c *gin.Context) {
	reels, err := a.reels.List(service.ReelFilter{
		Search:      c.Query("search"),
		VisibleOnly: !isAdmin(c),
	})
	if err != nil {
		logger.Error(c.Request.Context(), "list reels failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load reels")
		return
	}
	payload := make([]reelPayload, 0, len(reels))
	for _, reel := range reels {
		payload = append(payload, reelResponse(reel))
	}
	c.JSON(http.StatusOK, gin.H{"reels": payload})
}

// GetReel 返回单个 reel
func (a *API) GetReel(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid reel id")
		return
	}
	reel, err := a.reels.Get(id)
	if err == nil && !reel.Visible && !isAdmin(c) {
		err = service.ErrReelNotFound
	}
	if err != nil {
		a.respondReelError(c, err, "Failed to load reel")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reel": reelResponse(*reel)})
}

// CreateReel 新增 reel，reelId 可以是完整链接。
func (a *API) CreateReel(c *gin.Context) {
	var req reelRequest
	if !bindJSON(c, &req, "Reel id or link is required") {
		return
	}
	reel, err := a.reels.Create(req.toInput())
	if err != nil {
		a.respondReelError(c, err, "Failed to create reel")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Reel added", "reel": reelResponse(*reel)})
}

// UpdateReel 更新 reel
func (a *API) UpdateReel(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid reel id")
		return
	}
	var req reelRequest
	if !bindJSON(c, &req, "Reel id or link is required") {
		return
	}
	reel, err := a.reels.Update(id, req.toInput())
	if err != nil {
		a.respondReelError(c, err, "Failed to update reel")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reel updated", "reel": reelResponse(*reel)})
}

// DeleteReel 删除 reel
func (a *API) DeleteReel(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid reel id")
		return
	}
	if err := a.reels.Delete(id); err != nil {
		a.respondReelError(c, err, "Failed to delete reel")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reel deleted"})
}

// ReorderReels 按给定 id 顺序重排
func (a *API) ReorderReels(c *gin.Context) {
	var req reorderRequest
	if !bindJSON(c, &req, "ids are required") {
		return
	}
	if err := a.reels.Reorder(req.IDs); err != nil {
		a.respondReelError(c, err, "Failed to reorder reels")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order saved"})
}

func (a *API) respondReelError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrReelNotFound):
		respondError(c, http.StatusNotFound, "Reel not found")
	case errors.Is(err, service.ErrReelIDInvalid):
		respondError(c, http.StatusBadRequest, "Not a valid Instagram reel id or link")
	case errors.Is(err, service.ErrReelIDTaken):
		respondError(c, http.StatusConflict, "This reel has already been added")
	default:
		logger.Error(c.Request.Context(), fallback, zap.Error(err))
		respondError(c, http.StatusInternalServerError, fallback)
	}
}

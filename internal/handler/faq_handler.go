package handler

import (
	"errors"
	"net/http"

	"github.com/cabpool/internal/logger"
	"github.com/cabpool/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type faqRequest struct {
	Question string `json:"question" binding:"required,max=300"`
	Answer   string `json:"answer" binding:"required"`
	Category string `json:"category" binding:"max=60"`
	Order    int    `json:"order" binding:"min=0"`
	Visible  *bool  `json:"visible"`
}

func (r faqRequest) toInput() service.FAQInput {
	return service.FAQInput{
		Question: r.Question,
		Answer:   r.Answer,
		Category: r.Category,
		Order:    r.Order,
		Visible:  boolOr(r.Visible, true),
	}
}

type reorderRequest struct {
	IDs []uint `json:"ids" binding:"required,min=1,dive,min=1"`
}

// GetFAQs 返回 FAQ 列表，未登录时只含可见条目。
func (a *API) GetFAQs(c *gin.Context) {
	items, err := a.faqs.List(service.FAQFilter{
		Category:    c.Query("category"),
		Search:      c.Query("search"),
		VisibleOnly: !isAdmin(c),
	})
	if err != nil {
		logger.Error(c.Request.Context(), "list faqs failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load FAQs")
		return
	}
	categories, err := a.faqs.Categories(!isAdmin(c))
	if err != nil {
		logger.Error(c.Request.Context(), "list faq categories failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load FAQs")
		return
	}
	c.JSON(http.StatusOK, gin.H{"faqs": items, "categories": categories})
}

// GetFAQ 获取单条 FAQ
func (a *API) GetFAQ(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid FAQ id")
		return
	}
	item, err := a.faqs.Get(id)
	if err == nil && !item.Visible && !isAdmin(c) {
		err = service.ErrFAQNotFound
	}
	if err != nil {
		a.respondFAQError(c, err, "Failed to load FAQ")
		return
	}
	c.JSON(http.StatusOK, gin.H{"faq": item})
}

// CreateFAQ 创建 FAQ
func (a *API) CreateFAQ(c *gin.Context) {
	var req faqRequest
	if !bindJSON(c, &req, "Question and answer are required") {
		return
	}
	item, err := a.faqs.Create(req.toInput())
	if err != nil {
		a.respondFAQError(c, err, "Failed to create FAQ")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "FAQ created", "faq": item})
}

// UpdateFAQ 更新 FAQ
func (a *API) UpdateFAQ(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid FAQ id")
		return
	}
	var req faqRequest
	if !bindJSON(c, &req, "Question and answer are required") {
		return
	}
	item, err := a.faqs.Update(id, req.toInput())
	if err != nil {
		a.respondFAQError(c, err, "Failed to update FAQ")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "FAQ updated", "faq": item})
}

// DeleteFAQ 删除 FAQ
func (a *API) DeleteFAQ(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid FAQ id")
		return
	}
	if err := a.faqs.Delete(id); err != nil {
		a.respondFAQError(c, err, "Failed to delete FAQ")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "FAQ deleted"})
}

// ReorderFAQs 按给定 id 顺序重排
func (a *API) ReorderFAQs(c *gin.Context) {
	var req reorderRequest
	if !bindJSON(c, &req, "ids are required") {
		return
	}
	if err := a.faqs.Reorder(req.IDs); err != nil {
		a.respondFAQError(c, err, "Failed to reorder FAQs")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order saved"})
}

func (a *API) respondFAQError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrFAQNotFound):
		respondError(c, http.StatusNotFound, "FAQ not found")
	case errors.Is(err, service.ErrFAQQuestionRequired):
		respondError(c, http.StatusBadRequest, "Question is required")
	case errors.Is(err, service.ErrFAQAnswerRequired):
		respondError(c, http.StatusBadRequest, "Answer is required")
	default:
		logger.Error(c.Request.Context(), fallback, zap.Error(err))
		respondError(c, http.StatusInternalServerError, fallback)
	}
}

package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/cabpool/internal/logger"
	"github.com/cabpool/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

type contactRequest struct {
	Name    string `json:"name" form:"name" binding:"required,max=120"`
	Email   string `json:"email" form:"email" binding:"required,email"`
	Phone   string `json:"phone" form:"phone" binding:"max=30"`
	Subject string `json:"subject" form:"subject" binding:"max=200"`
	Message string `json:"message" form:"message" binding:"required,max=5000"`
}

type contactHandledRequest struct {
	Handled bool `json:"handled"`
}

// SubmitContact 接收公开联系表单。JSON 请求返回 JSON，普通表单提交后跳回联系页。
func (a *API) SubmitContact(c *gin.Context) {
	isForm := c.ContentType() == binding.MIMEPOSTForm || c.ContentType() == binding.MIMEMultipartPOSTForm

	var req contactRequest
	if isForm {
		if err := c.ShouldBind(&req); err != nil {
			c.Redirect(http.StatusSeeOther, "/contact?error=invalid")
			return
		}
	} else if !bindJSON(c, &req, "Please fill in your name, email and message") {
		return
	}

	msg, err := a.contact.Submit(service.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		invalid := errors.Is(err, service.ErrContactNameRequired) ||
			errors.Is(err, service.ErrContactEmailInvalid) ||
			errors.Is(err, service.ErrContactMessageRequired) ||
			errors.Is(err, service.ErrContactMessageTooLong)
		if !invalid {
			logger.Error(c.Request.Context(), "store contact message failed", zap.Error(err))
		}
		switch {
		case isForm && invalid:
			c.Redirect(http.StatusSeeOther, "/contact?error=invalid")
		case isForm:
			c.Redirect(http.StatusSeeOther, "/contact?error=server")
		case invalid:
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "Could not send your message, please try again")
		}
		return
	}

	logger.Info(c.Request.Context(), "contact message received", zap.Uint("id", msg.ID))
	if isForm {
		c.Redirect(http.StatusSeeOther, "/contact?sent=1")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Thanks! We will get back to you shortly."})
}

// GetContactMessages 返回联系消息列表
func (a *API) GetContactMessages(c *gin.Context) {
	unhandled, _ := strconv.ParseBool(c.Query("unhandled"))
	result, err := a.contact.List(unhandled, parsePositiveInt(c.Query("page"), 1), parsePositiveInt(c.Query("perPage"), 20))
	if err != nil {
		logger.Error(c.Request.Context(), "list contact messages failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load messages")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"messages":   result.Items,
		"total":      result.Total,
		"page":       result.Page,
		"perPage":    result.PerPage,
		"totalPages": result.TotalPages,
	})
}

// UpdateContactMessage 标记消息是否已处理
func (a *API) UpdateContactMessage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid message id")
		return
	}
	var req contactHandledRequest
	if !bindJSON(c, &req, "Invalid request") {
		return
	}
	if err := a.contact.MarkHandled(id, req.Handled); err != nil {
		a.respondContactError(c, err, "Failed to update message")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Message updated", "handled": req.Handled})
}

// DeleteContactMessage 删除消息
func (a *API) DeleteContactMessage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid message id")
		return
	}
	if err := a.contact.Delete(id); err != nil {
		a.respondContactError(c, err, "Failed to delete message")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Message deleted"})
}

func (a *API) respondContactError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, service.ErrContactNotFound) {
		respondError(c, http.StatusNotFound, "Message not found")
		return
	}
	logger.Error(c.Request.Context(), fallback, zap.Error(err))
	respondError(c, http.StatusInternalServerError, fallback)
}

package handler

import (
	"errors"
	"net/http"

	"github.com/cabpool/internal/logger"
	"github.com/cabpool/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UploadMedia 处理 multipart 上传，字段名为 file（兼容编辑器使用的 image）。
func (a *API) UploadMedia(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, a.media.MaxBytes()+1<<20)

	header, err := c.FormFile("file")
	if err != nil {
		header, err = c.FormFile("image")
	}
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			a.metrics.ObserveUpload("too_large")
			respondError(c, http.StatusRequestEntityTooLarge, "File is too large")
			return
		}
		a.metrics.ObserveUpload("missing")
		respondError(c, http.StatusBadRequest, "No file was uploaded")
		return
	}

	asset, err := a.media.Store(c.Request.Context(), header)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMediaTooLarge):
			a.metrics.ObserveUpload("too_large")
			respondError(c, http.StatusRequestEntityTooLarge, "File is too large")
		case errors.Is(err, service.ErrMediaUnsupported):
			a.metrics.ObserveUpload("unsupported")
			respondError(c, http.StatusUnsupportedMediaType, "Only JPEG, PNG, GIF, WebP, SVG and MP4 files are allowed")
		case errors.Is(err, service.ErrMediaCorrupt):
			a.metrics.ObserveUpload("corrupt")
			respondError(c, http.StatusBadRequest, "The image could not be read")
		case errors.Is(err, service.ErrMediaMissing):
			a.metrics.ObserveUpload("missing")
			respondError(c, http.StatusBadRequest, "No file was uploaded")
		default:
			a.metrics.ObserveUpload("error")
			logger.Error(c.Request.Context(), "store upload failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "Failed to save the file")
		}
		return
	}

	a.metrics.ObserveUpload("ok")
	logger.Info(c.Request.Context(), "media uploaded",
		zap.String("file", asset.FileName),
		zap.String("content_type", asset.ContentType),
		zap.Int64("size", asset.Size),
	)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Upload complete",
		"url":     asset.URL,
		"media":   asset,
	})
}

// GetMedia 返回媒体库列表
func (a *API) GetMedia(c *gin.Context) {
	result, err := a.media.List(c.Query("search"), parsePositiveInt(c.Query("page"), 1), parsePositiveInt(c.Query("perPage"), 24))
	if err != nil {
		logger.Error(c.Request.Context(), "list media failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load media")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"media":      result.Items,
		"total":      result.Total,
		"page":       result.Page,
		"perPage":    result.PerPage,
		"totalPages": result.TotalPages,
	})
}

// DeleteMedia 删除媒体文件及记录
func (a *API) DeleteMedia(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid media id")
		return
	}
	if err := a.media.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrMediaNotFound) {
			respondError(c, http.StatusNotFound, "Media not found")
			return
		}
		logger.Error(c.Request.Context(), "delete media failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to delete media")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Media deleted"})
}

package handler

import (
	"errors"
	"net/http"

	"github.com/cabpool/internal/logger"
	"github.com/cabpool/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthCheck 提供负载均衡与监控系统使用的健康检查端点。
func (a *API) HealthCheck(c *gin.Context) {
	sqlDB, err := a.db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "database handle unavailable",
		})
		return
	}

	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "error",
			"message": "database unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"database": "up",
	})
}

// GetSiteSettings 返回合并默认值后的站点设置。
func (a *API) GetSiteSettings(c *gin.Context) {
	settings, err := a.settings.Get(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "load site settings failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateSiteSettings 保存请求中出现的分区，未出现的分区保持不变。
func (a *API) UpdateSiteSettings(c *gin.Context) {
	var input service.SiteSettingsInput
	if !bindJSON(c, &input, "Invalid settings payload") {
		return
	}

	settings, err := a.settings.Update(c.Request.Context(), input)
	if err != nil {
		var verr *service.SettingsValidationError
		if errors.As(err, &verr) {
			fields := make(map[string]string, len(verr.Fields))
			for _, f := range verr.Fields {
				fields[f.Section+"."+f.Field] = f.Rule
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "Some settings are invalid", "fields": fields})
			return
		}
		logger.Error(c.Request.Context(), "save site settings failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to save settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Settings saved", "settings": settings})
}

// ResetSiteSettings 清除已保存的设置，恢复默认值。
func (a *API) ResetSiteSettings(c *gin.Context) {
	if err := a.settings.Reset(c.Request.Context()); err != nil {
		logger.Error(c.Request.Context(), "reset site settings failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to reset settings")
		return
	}
	settings, err := a.settings.Get(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Settings reset to defaults", "settings": settings})
}

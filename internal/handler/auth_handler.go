package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/cabpool/internal/logger"
	"github.com/cabpool/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	sessionUserIDKey   = "user_id"
	sessionUsernameKey = "username"
)

type loginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// ShowLoginPage 渲染登录页面
func (a *API) ShowLoginPage(c *gin.Context) {
	if isAdmin(c) {
		c.Redirect(http.StatusFound, "/admin/dashboard")
		return
	}
	a.renderAdmin(c, http.StatusOK, "admin_login.html", gin.H{"title": "Admin login"})
}

// Login 校验账号密码并写入会话。表单提交跳转后台，JSON 请求返回 JSON。
func (a *API) Login(c *gin.Context) {
	wantsJSON := strings.HasPrefix(c.ContentType(), "application/json")

	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		a.loginFailed(c, wantsJSON, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, err := a.users.Authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			logger.Warn(c.Request.Context(), "admin login rejected", zap.String("username", req.Username))
			a.loginFailed(c, wantsJSON, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		logger.Error(c.Request.Context(), "admin login failed", zap.Error(err))
		a.loginFailed(c, wantsJSON, http.StatusInternalServerError, "Login failed, please try again")
		return
	}

	session := sessions.Default(c)
	session.Clear()
	session.Set(sessionUserIDKey, user.ID)
	session.Set(sessionUsernameKey, user.Username)
	if err := session.Save(); err != nil {
		logger.Error(c.Request.Context(), "save session failed", zap.Error(err))
		a.loginFailed(c, wantsJSON, http.StatusInternalServerError, "Could not save the session")
		return
	}

	if wantsJSON {
		c.JSON(http.StatusOK, gin.H{"message": "Logged in", "username": user.Username})
		return
	}
	c.Redirect(http.StatusFound, "/admin/dashboard")
}

func (a *API) loginFailed(c *gin.Context, wantsJSON bool, status int, message string) {
	if wantsJSON {
		respondError(c, status, message)
		return
	}
	a.renderAdmin(c, status, "admin_login.html", gin.H{"title": "Admin login", "error": message})
}

// Logout 清除会话
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		logger.Warn(c.Request.Context(), "clear session failed", zap.Error(err))
	}
	c.Redirect(http.StatusFound, "/admin/login")
}

// AuthRequired 保护后台页面，未登录时跳转到登录页。
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isAdmin(c) {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// APIAuthRequired 保护写接口，未登录时返回 401 JSON。
func APIAuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isAdmin(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		c.Next()
	}
}

func isAdmin(c *gin.Context) bool {
	return sessions.Default(c).Get(sessionUserIDKey) != nil
}

func sessionUsername(c *gin.Context) string {
	name, _ := sessions.Default(c).Get(sessionUsernameKey).(string)
	return name
}

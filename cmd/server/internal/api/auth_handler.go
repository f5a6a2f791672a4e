package api

import (
	"github.com/gin-gonic/gin"

	"github.com/zhaoqin88/roadgen/cmd/server/internal/apperr"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/audit"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/middleware"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/users"
	"github.com/zhaoqin88/roadgen/pkg/logger"
)

// AuthHandler 登录、注册与密码修改
type AuthHandler struct {
	users *users.Manager
	audit audit.AuditLogger
}

// NewAuthHandler 创建 AuthHandler 实例
func NewAuthHandler(manager *users.Manager, auditLogger audit.AuditLogger) *AuthHandler {
	return &AuthHandler{users: manager, audit: auditLogger}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// HandleLogin 用户登录
// POST /api/v1/auth/login
func (h *AuthHandler) HandleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation(apperr.CodeInvalidRequest, "username and password are required"))
		return
	}
	u, err := h.users.Authenticate(req.Username, req.Password)
	if err != nil {
		logger.L().Warn("login failed", "username", req.Username)
		respondError(c, apperr.Unauthorized("invalid credentials"))
		return
	}
	token, err := h.users.GenerateToken(u.Username)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{
		"token": token,
		"user":  gin.H{"id": u.ID, "username": u.Username, "scopes": u.Scopes},
	})
}

type signupRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// HandleSignup 注册新用户,授予默认权限
// POST /api/v1/auth/signup
func (h *AuthHandler) HandleSignup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation(apperr.CodeInvalidRequest, "username and password are required"))
		return
	}
	u, err := h.users.CreateUser(req.Username, req.Password, users.DefaultScopes)
	if err != nil {
		respondError(c, apperr.Validation(apperr.CodeInvalidRequest, err.Error()))
		return
	}
	if err := h.audit.LogActionSimple(u.Username, audit.ActionCreateUser, u.ID, "self signup"); err != nil {
		logger.L().Warn("audit write failed", "error", err)
	}
	token, err := h.users.GenerateToken(u.Username)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, gin.H{
		"token": token,
		"user":  gin.H{"id": u.ID, "username": u.Username, "scopes": u.Scopes},
	})
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// HandleChangePassword 修改当前用户密码
// POST /api/v1/auth/change-password
func (h *AuthHandler) HandleChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation(apperr.CodeInvalidRequest, "old and new passwords are required"))
		return
	}
	username := middleware.CurrentUsername(c)
	if err := h.users.ChangePassword(username, req.OldPassword, req.NewPassword); err != nil {
		respondError(c, apperr.Validation(apperr.CodeInvalidRequest, err.Error()))
		return
	}
	if err := h.audit.LogActionSimple(username, audit.ActionChangePassword, username, ""); err != nil {
		logger.L().Warn("audit write failed", "error", err)
	}
	respondOK(c, gin.H{"changed": true})
}

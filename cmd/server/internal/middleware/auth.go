package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zhaoqin88/roadgen/cmd/server/internal/users"
	"github.com/zhaoqin88/roadgen/pkg/logger"
)

// 上下文键,处理器从这里取当前用户。
const (
	ContextUserID   = "user_id"
	ContextUsername = "user"
	ContextScopes   = "scopes"
)

// Auth 校验 Bearer 令牌并把用户信息写入上下文。
func Auth(manager *users.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if len(auth) < 8 || !strings.HasPrefix(auth, "Bearer ") {
			preview := auth
			if len(preview) > 20 {
				preview = preview[:20] + "..."
			}
			logger.L().Warn("missing bearer token",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"auth_preview", preview,
			)
			abortUnauthorized(c, "missing bearer token")
			return
		}
		claims, err := manager.ParseToken(auth[7:])
		if err != nil {
			logger.L().Warn("invalid token",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			abortUnauthorized(c, "invalid token")
			return
		}
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextScopes, claims.Scopes)
		c.Next()
	}
}

// RequireScope 要求当前用户具有指定权限。必须挂在 Auth 之后。
func RequireScope(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		scopes, _ := c.Get(ContextScopes)
		list, _ := scopes.([]string)
		if !users.HasScope(list, scope) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   gin.H{"code": "FORBIDDEN", "message": "missing required scope " + scope},
			})
			return
		}
		c.Next()
	}
}

// CurrentUserID 返回上下文中的用户 id,未认证时为空串。
func CurrentUserID(c *gin.Context) string {
	v, _ := c.Get(ContextUserID)
	id, _ := v.(string)
	return id
}

// CurrentUsername 返回上下文中的用户名。
func CurrentUsername(c *gin.Context) string {
	v, _ := c.Get(ContextUsername)
	name, _ := v.(string)
	return name
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   gin.H{"code": "UNAUTHORIZED", "message": msg},
	})
}

package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zhaoqin88/roadgen/cmd/server/internal/apperr"
)

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

// 超时场景的提示语,前端直接展示给用户。
const timeoutMessage = "The AI service took too long to respond. Please try again."

// respondError 把内部错误映射为统一的响应包与 HTTP 状态码。
// 超时单独给 504 和更具体的提示语,长耗时的生成/分析调用
// 超时远比硬失败常见。
func respondError(c *gin.Context, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "An unexpected error occurred.",
				"details": err.Error(),
			},
		})
		return
	}

	status := http.StatusInternalServerError
	message := ae.Message
	switch ae.Kind {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindUnauthorized:
		status = http.StatusUnauthorized
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindMalformed:
		status = http.StatusUnprocessableEntity
	case apperr.KindUpstream:
		if ae.Timeout {
			status = http.StatusGatewayTimeout
			message = timeoutMessage
		} else {
			status = http.StatusBadGateway
		}
	case apperr.KindStore:
		status = http.StatusInternalServerError
	}

	body := gin.H{"code": ae.Code, "message": message}
	if ae.Cause != nil {
		body["details"] = ae.Cause.Error()
	}
	c.JSON(status, gin.H{"success": false, "error": body})
}

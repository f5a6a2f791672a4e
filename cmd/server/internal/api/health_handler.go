package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zhaoqin88/roadgen/cmd/server/internal/store"
)

// HealthHandler 健康检查
type HealthHandler struct {
	store   store.RoadmapStore
	ai      AIProvider
	started time.Time
	version string
}

// NewHealthHandler 创建 HealthHandler 实例
func NewHealthHandler(st store.RoadmapStore, ai AIProvider, version string) *HealthHandler {
	return &HealthHandler{store: st, ai: ai, started: time.Now(), version: version}
}

// HandleHealth 存活检查,附带依赖状态
// GET /health
func (h *HealthHandler) HandleHealth(c *gin.Context) {
	storeStatus := "up"
	if err := h.store.Ping(c.Request.Context()); err != nil {
		storeStatus = "down"
	}

	status := "healthy"
	code := http.StatusOK
	if storeStatus == "down" {
		// 存储不可用时降级运行,仍返回 200 让探针区分存活和就绪
		status = "degraded"
	}

	c.JSON(code, gin.H{
		"status":  status,
		"version": h.version,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
		"dependencies": gin.H{
			"store": storeStatus,
			"ai":    h.ai.Name(),
		},
	})
}

// HandleReadiness 就绪检查,存储不可用时返回 503
// GET /readiness
func (h *HealthHandler) HandleReadiness(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ready": false, "reason": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ready": true})
}

package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zhaoqin88/roadgen/cmd/server/internal/audit"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/middleware"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/resume"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/session"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/store"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/users"
)

// RouterConfig 组装路由所需的全部依赖
type RouterConfig struct {
	Store          store.RoadmapStore
	AI             AIProvider
	Sessions       *session.Manager
	Users          *users.Manager
	Audit          audit.AuditLogger
	Extractor      *resume.Extractor
	AllowedOrigins []string
	Version        string
}

// NewRouter 注册全部路由并返回 gin 引擎
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	health := NewHealthHandler(cfg.Store, cfg.AI, cfg.Version)
	r.GET("/health", health.HandleHealth)
	r.GET("/readiness", health.HandleReadiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := NewAuthHandler(cfg.Users, cfg.Audit)
	resumeHandler := NewResumeHandler(cfg.Extractor, cfg.AI, cfg.Sessions, cfg.Audit)
	aiHandler := NewAIHandler(cfg.AI, cfg.Sessions, cfg.Audit)
	roadmapHandler := NewRoadmapHandler(cfg.Store, cfg.Sessions, cfg.Audit)
	flowHandler := NewFlowHandler(cfg.Sessions)

	v1 := r.Group("/api/v1")

	v1.POST("/auth/login", authHandler.HandleLogin)
	v1.POST("/auth/signup", authHandler.HandleSignup)

	authed := v1.Group("")
	authed.Use(middleware.Auth(cfg.Users))

	authed.POST("/auth/change-password", authHandler.HandleChangePassword)

	aiGroup := authed.Group("", middleware.RequireScope(users.ScopeAIUse))
	aiGroup.POST("/resume/upload", resumeHandler.HandleUpload)
	aiGroup.POST("/resume/analyze", resumeHandler.HandleAnalyze)
	aiGroup.POST("/domains/recommend", aiHandler.HandleRecommendDomains)
	aiGroup.POST("/tools/select", aiHandler.HandleSelectTools)
	aiGroup.POST("/roadmaps/generate", aiHandler.HandleGenerateRoadmap)
	aiGroup.POST("/chat", aiHandler.HandleChat)

	readGroup := authed.Group("", middleware.RequireScope(users.ScopeRoadmapRead))
	readGroup.GET("/roadmaps", roadmapHandler.HandleList)
	readGroup.GET("/roadmaps/:id", roadmapHandler.HandleGet)

	writeGroup := authed.Group("", middleware.RequireScope(users.ScopeRoadmapWrite))
	writeGroup.POST("/roadmaps", roadmapHandler.HandleSave)
	writeGroup.DELETE("/roadmaps/:id", roadmapHandler.HandleDelete)
	writeGroup.PATCH("/roadmaps/:id/status", roadmapHandler.HandleUpdateStatus)
	writeGroup.POST("/roadmaps/:id/checklist/toggle", roadmapHandler.HandleToggleChecklistItem)
	writeGroup.POST("/roadmaps/:id/tools/toggle", roadmapHandler.HandleToggleToolCompletion)

	authed.GET("/flow", flowHandler.HandleGetState)
	authed.POST("/flow/events", flowHandler.HandleEvent)

	return r
}

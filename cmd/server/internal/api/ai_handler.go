package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zhaoqin88/roadgen/cmd/server/internal/apperr"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/audit"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/flow"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/middleware"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/models"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/resources"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/session"
	"github.com/zhaoqin88/roadgen/pkg/logger"
)

// AIProvider 抽象 AI 服务,便于 handler 测试时注入假实现
type AIProvider interface {
	AnalyzeResume(ctx context.Context, resumeText string) (*models.Profile, error)
	RecommendDomains(ctx context.Context, profile *models.Profile) ([]models.DomainRecommendation, []models.Tool, error)
	GenerateRoadmap(ctx context.Context, profile *models.Profile, tools []string, prefs models.LearningPreferences) (*models.Roadmap, error)
	Chat(ctx context.Context, profile *models.Profile, roadmapSummary, message string, history []models.ChatMessage) (string, error)
	Name() string
}

// 每个工具附带的推荐资源数量
const resourcesPerTool = 3

// AIHandler 领域推荐、路线图生成与对话
type AIHandler struct {
	ai       AIProvider
	sessions *session.Manager
	audit    audit.AuditLogger
}

// NewAIHandler 创建 AIHandler 实例
func NewAIHandler(ai AIProvider, sessions *session.Manager, auditLogger audit.AuditLogger) *AIHandler {
	return &AIHandler{ai: ai, sessions: sessions, audit: auditLogger}
}

// HandleRecommendDomains 基于技能画像推荐职业方向和工具
// POST /api/v1/domains/recommend
func (h *AIHandler) HandleRecommendDomains(c *gin.Context) {
	sess, ok := h.sessions.Get(c.GetHeader("X-Session-ID"))
	if !ok || sess.Profile == nil {
		respondError(c, apperr.Validation(apperr.CodeInvalidRequest, "analyze a resume first"))
		return
	}

	recs, tools, err := h.ai.RecommendDomains(c.Request.Context(), sess.Profile)
	if err != nil {
		respondError(c, err)
		return
	}

	sess.Tools = tools
	h.sessions.Save(sess)

	respondOK(c, gin.H{
		"recommendations": recs,
		"tools":           tools,
	})
}

type selectToolsRequest struct {
	Tools []string `json:"tools" binding:"required"`
}

// HandleSelectTools 记录用户选择的工具并推进流程
// POST /api/v1/tools/select
func (h *AIHandler) HandleSelectTools(c *gin.Context) {
	var req selectToolsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation(apperr.CodeInvalidRequest, "tools list is required"))
		return
	}

	sess, ok := h.sessions.Get(c.GetHeader("X-Session-ID"))
	if !ok {
		respondError(c, apperr.Validation(apperr.CodeInvalidRequest, "unknown session"))
		return
	}

	next, err := flow.Apply(sess.Flow, flow.ToolsChosen{Tools: req.Tools})
	if err != nil {
		respondError(c, err)
		return
	}
	sess.Flow = next
	h.sessions.Save(sess)

	respondOK(c, gin.H{"step": sess.Flow.Step, "selected_tools": sess.Flow.SelectedTools})
}

type generateRequest struct {
	Preferences models.LearningPreferences `json:"preferences"`
}

// HandleGenerateRoadmap 生成路线图预览并补充免费学习资源
// POST /api/v1/roadmaps/generate
func (h *AIHandler) HandleGenerateRoadmap(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation(apperr.CodeInvalidRequest, "invalid request body"))
		return
	}

	sess, ok := h.sessions.Get(c.GetHeader("X-Session-ID"))
	if !ok || sess.Profile == nil {
		respondError(c, apperr.Validation(apperr.CodeInvalidRequest, "analyze a resume first"))
		return
	}

	next, err := flow.Apply(sess.Flow, flow.PreferencesSet{Preferences: req.Preferences})
	if err != nil {
		respondError(c, err)
		return
	}
	sess.Flow = next

	preview, err := h.ai.GenerateRoadmap(c.Request.Context(), sess.Profile, sess.Flow.SelectedTools, req.Preferences)
	if err != nil {
		if next, ferr := flow.Apply(sess.Flow, flow.GenerationFailed{Message: err.Error()}); ferr == nil {
			sess.Flow = next
		}
		h.sessions.Save(sess)
		respondError(c, err)
		return
	}

	// 目录里的免费资源优先,AI 给出的补在后面
	preview.Resources = resources.Merge(preview.Resources, sess.Flow.SelectedTools, resourcesPerTool)

	sess.Preview = preview
	if next, ferr := flow.Apply(sess.Flow, flow.GenerationSucceeded{}); ferr == nil {
		sess.Flow = next
	}
	h.sessions.Save(sess)

	if err := h.audit.LogActionSimple(middleware.CurrentUsername(c), audit.ActionGenerateRoadmap, sess.ID, preview.Title); err != nil {
		logger.L().Warn("audit write failed", "error", err)
	}
	logger.L().Info("roadmap preview generated",
		"session_id", sess.ID,
		"tools", len(sess.Flow.SelectedTools),
		"phases", len(preview.Phases),
	)

	respondOK(c, gin.H{
		"roadmap": preview,
		"step":    sess.Flow.Step,
	})
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

// HandleChat 基于当前画像和路线图上下文的对话
// POST /api/v1/chat
func (h *AIHandler) HandleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation(apperr.CodeInvalidRequest, "message is required"))
		return
	}

	sess, ok := h.sessions.Get(c.GetHeader("X-Session-ID"))
	if !ok {
		respondError(c, apperr.Validation(apperr.CodeInvalidRequest, "unknown session"))
		return
	}

	reply, err := h.ai.Chat(c.Request.Context(), sess.Profile, roadmapSummary(sess.Preview), req.Message, sess.PromptHistory())
	if err != nil {
		respondError(c, err)
		return
	}

	sess.AppendExchange(req.Message, reply)
	h.sessions.Save(sess)

	respondOK(c, gin.H{"reply": reply})
}

// roadmapSummary 把路线图压成几行文本塞进提示词
func roadmapSummary(r *models.Roadmap) string {
	if r == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d weeks, %d%% complete)\n", r.Title, r.TotalWeeks, r.Progress)
	for _, p := range r.Phases {
		fmt.Fprintf(&b, "Phase %d: %s (%d weeks, tools: %s)\n",
			p.PhaseNumber, p.Title, p.DurationWeeks, strings.Join(p.ToolsCovered, ", "))
	}
	return b.String()
}

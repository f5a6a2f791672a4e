package api

import (
	"github.com/gin-gonic/gin"

	"github.com/zhaoqin88/roadgen/cmd/server/internal/apperr"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/audit"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/flow"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/middleware"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/models"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/normalize"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/progress"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/session"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/store"
	"github.com/zhaoqin88/roadgen/pkg/logger"
)

// RoadmapHandler 路线图的持久化与进度管理
type RoadmapHandler struct {
	store    store.RoadmapStore
	sessions *session.Manager
	audit    audit.AuditLogger
}

// NewRoadmapHandler 创建 RoadmapHandler 实例
func NewRoadmapHandler(st store.RoadmapStore, sessions *session.Manager, auditLogger audit.AuditLogger) *RoadmapHandler {
	return &RoadmapHandler{store: st, sessions: sessions, audit: auditLogger}
}

// ownedRoadmap 取回路线图并校验归属,不属于当前用户时按不存在处理
func (h *RoadmapHandler) ownedRoadmap(c *gin.Context, id string) (*models.Roadmap, bool) {
	r, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if r.OwnerID != middleware.CurrentUserID(c) {
		respondError(c, apperr.NotFound("roadmap not found"))
		return nil, false
	}
	return r, true
}

type saveRequest struct {
	Roadmap *models.Roadmap `json:"roadmap"`
}

// HandleSave 保存路线图,请求体为空时落盘会话里的预览
// POST /api/v1/roadmaps
func (h *RoadmapHandler) HandleSave(c *gin.Context) {
	var req saveRequest
	_ = c.ShouldBindJSON(&req)

	r := req.Roadmap
	if r == nil {
		sess, ok := h.sessions.Get(c.GetHeader("X-Session-ID"))
		if !ok || sess.Preview == nil {
			respondError(c, apperr.Validation(apperr.CodeInvalidRequest, "no roadmap to save"))
			return
		}
		r = sess.Preview
	}

	// 客户端提交的路线图可能缺条目 id,落盘前先补全,
	// 否则每次读取都会合成新 id,已下发的 id 全部失效
	r = normalize.Roadmap(r)
	r.Progress = progress.Compute(r)

	id, err := h.store.Create(c.Request.Context(), middleware.CurrentUserID(c), r)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.audit.LogActionSimple(middleware.CurrentUsername(c), audit.ActionSaveRoadmap, id, r.Title); err != nil {
		logger.L().Warn("audit write failed", "error", err)
	}

	saved, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, saved)
}

// HandleList 列出当前用户的路线图,按创建时间倒序
// GET /api/v1/roadmaps
func (h *RoadmapHandler) HandleList(c *gin.Context) {
	list, err := h.store.ListByOwner(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"roadmaps": list, "count": len(list)})
}

// HandleGet 返回单个路线图
// GET /api/v1/roadmaps/:id
func (h *RoadmapHandler) HandleGet(c *gin.Context) {
	r, ok := h.ownedRoadmap(c, c.Param("id"))
	if !ok {
		return
	}
	respondOK(c, r)
}

// HandleDelete 删除路线图
// DELETE /api/v1/roadmaps/:id
func (h *RoadmapHandler) HandleDelete(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.ownedRoadmap(c, id); !ok {
		return
	}
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	if err := h.audit.LogActionSimple(middleware.CurrentUsername(c), audit.ActionDeleteRoadmap, id, ""); err != nil {
		logger.L().Warn("audit write failed", "error", err)
	}
	respondOK(c, gin.H{"deleted": id})
}

type statusRequest struct {
	Status models.RoadmapStatus `json:"status" binding:"required"`
}

// HandleUpdateStatus 更新路线图状态 (active / archived / completed)
// PATCH /api/v1/roadmaps/:id/status
func (h *RoadmapHandler) HandleUpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Status.Valid() {
		respondError(c, apperr.Validation(apperr.CodeInvalidRequest, "status must be active, archived or completed"))
		return
	}

	id := c.Param("id")
	if _, ok := h.ownedRoadmap(c, id); !ok {
		return
	}
	if err := h.store.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		respondError(c, err)
		return
	}
	if err := h.audit.LogActionSimple(middleware.CurrentUsername(c), audit.ActionUpdateStatus, id, string(req.Status)); err != nil {
		logger.L().Warn("audit write failed", "error", err)
	}
	respondOK(c, gin.H{"id": id, "status": req.Status})
}

type toggleItemRequest struct {
	PhaseID string `json:"phase_id" binding:"required"`
	ItemID  string `json:"item_id" binding:"required"`
	Kind    string `json:"kind"`
}

// HandleToggleChecklistItem 翻转清单项完成状态并持久化新进度
// POST /api/v1/roadmaps/:id/checklist/toggle
func (h *RoadmapHandler) HandleToggleChecklistItem(c *gin.Context) {
	var req toggleItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation(apperr.CodeInvalidRequest, "phase_id and item_id are required"))
		return
	}
	kind := progress.KindObjective
	if req.Kind == "milestone" {
		kind = progress.KindMilestone
	}

	r, ok := h.ownedRoadmap(c, c.Param("id"))
	if !ok {
		return
	}

	updated := progress.ToggleChecklistItem(r, req.PhaseID, req.ItemID, kind)

	err := h.store.Update(c.Request.Context(), r.ID, map[string]any{
		"phases":   updated.Phases,
		"progress": updated.Progress,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.audit.LogActionSimple(middleware.CurrentUsername(c), audit.ActionToggleItem, r.ID, req.ItemID); err != nil {
		logger.L().Warn("audit write failed", "error", err)
	}
	respondOK(c, updated)
}

type toggleToolRequest struct {
	Tool string `json:"tool" binding:"required"`
}

// HandleToggleToolCompletion 翻转工具完成状态并持久化新进度
// POST /api/v1/roadmaps/:id/tools/toggle
func (h *RoadmapHandler) HandleToggleToolCompletion(c *gin.Context) {
	var req toggleToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation(apperr.CodeInvalidRequest, "tool is required"))
		return
	}

	r, ok := h.ownedRoadmap(c, c.Param("id"))
	if !ok {
		return
	}

	updated := progress.ToggleToolCompletion(r, req.Tool)

	err := h.store.Update(c.Request.Context(), r.ID, map[string]any{
		"completed_tools": updated.CompletedTools,
		"current_tool":    updated.CurrentTool,
		"progress":        updated.Progress,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.audit.LogActionSimple(middleware.CurrentUsername(c), audit.ActionToggleTool, r.ID, req.Tool); err != nil {
		logger.L().Warn("audit write failed", "error", err)
	}
	respondOK(c, updated)
}

// FlowHandler 引导流程状态
type FlowHandler struct {
	sessions *session.Manager
}

// NewFlowHandler 创建 FlowHandler 实例
func NewFlowHandler(sessions *session.Manager) *FlowHandler {
	return &FlowHandler{sessions: sessions}
}

// HandleGetState 返回当前会话的流程状态
// GET /api/v1/flow
func (h *FlowHandler) HandleGetState(c *gin.Context) {
	sess := h.sessions.GetOrCreate(c.GetHeader("X-Session-ID"))
	respondOK(c, gin.H{"session_id": sess.ID, "flow": sess.Flow})
}

type flowEventRequest struct {
	Event     string `json:"event" binding:"required"`
	RoadmapID string `json:"roadmap_id"`
}

// HandleEvent 应用一个导航事件 (back / start_over / open_list / open_detail / close_detail)
// POST /api/v1/flow/events
func (h *FlowHandler) HandleEvent(c *gin.Context) {
	var req flowEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation(apperr.CodeInvalidRequest, "event is required"))
		return
	}

	sess := h.sessions.GetOrCreate(c.GetHeader("X-Session-ID"))

	var ev flow.Event
	switch req.Event {
	case "back":
		ev = flow.Back{}
	case "start_over":
		ev = flow.StartOver{}
	case "open_list":
		ev = flow.OpenList{}
	case "open_detail":
		if req.RoadmapID == "" {
			respondError(c, apperr.Validation(apperr.CodeInvalidRequest, "roadmap_id is required for open_detail"))
			return
		}
		ev = flow.OpenDetail{RoadmapID: req.RoadmapID}
	case "close_detail":
		ev = flow.CloseDetail{}
	default:
		respondError(c, apperr.Validation(apperr.CodeInvalidRequest, "unknown event: "+req.Event))
		return
	}

	next, err := flow.Apply(sess.Flow, ev)
	if err != nil {
		respondError(c, err)
		return
	}
	sess.Flow = next
	h.sessions.Save(sess)

	respondOK(c, gin.H{"session_id": sess.ID, "flow": sess.Flow})
}

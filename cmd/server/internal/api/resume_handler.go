package api

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/zhaoqin88/roadgen/cmd/server/internal/apperr"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/audit"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/flow"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/middleware"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/resume"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/session"
	"github.com/zhaoqin88/roadgen/pkg/logger"
)

// ResumeHandler 简历上传与分析
type ResumeHandler struct {
	extractor *resume.Extractor
	ai        AIProvider
	sessions  *session.Manager
	audit     audit.AuditLogger
}

// NewResumeHandler 创建 ResumeHandler 实例
func NewResumeHandler(extractor *resume.Extractor, ai AIProvider, sessions *session.Manager, auditLogger audit.AuditLogger) *ResumeHandler {
	return &ResumeHandler{extractor: extractor, ai: ai, sessions: sessions, audit: auditLogger}
}

// HandleUpload 上传简历,抽取文本并存入会话
// POST /api/v1/resume/upload  (multipart: file)
func (h *ResumeHandler) HandleUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, apperr.Validation(apperr.CodeMissingFile, "no file provided"))
		return
	}
	if err := h.extractor.Validate(fileHeader.Filename, fileHeader.Size); err != nil {
		respondError(c, err)
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		respondError(c, apperr.Validation(apperr.CodeMissingFile, "uploaded file unreadable"))
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		respondError(c, apperr.Validation(apperr.CodeMissingFile, "uploaded file unreadable"))
		return
	}

	text, err := h.extractor.Extract(fileHeader.Filename, data)
	if err != nil {
		respondError(c, err)
		return
	}

	sess := h.sessions.GetOrCreate(c.GetHeader("X-Session-ID"))
	sess.ResumeText = text
	h.sessions.Save(sess)

	if err := h.audit.LogActionSimple(middleware.CurrentUsername(c), audit.ActionUploadResume, sess.ID, fileHeader.Filename); err != nil {
		logger.L().Warn("audit write failed", "error", err)
	}
	logger.L().Info("resume uploaded",
		"session_id", sess.ID,
		"filename", fileHeader.Filename,
		"word_count", resume.WordCount(text),
	)

	respondOK(c, gin.H{
		"session_id": sess.ID,
		"word_count": resume.WordCount(text),
		"filename":   fileHeader.Filename,
	})
}

// HandleAnalyze 对会话中的简历文本做 AI 技能画像分析
// POST /api/v1/resume/analyze
func (h *ResumeHandler) HandleAnalyze(c *gin.Context) {
	sess, ok := h.sessions.Get(c.GetHeader("X-Session-ID"))
	if !ok || sess.ResumeText == "" {
		respondError(c, apperr.Validation(apperr.CodeMissingFile, "upload a resume first"))
		return
	}

	profile, err := h.ai.AnalyzeResume(c.Request.Context(), sess.ResumeText)
	if err != nil {
		respondError(c, err)
		return
	}

	sess.Profile = profile
	if next, err := flow.Apply(sess.Flow, flow.ProfileReceived{Profile: profile}); err == nil {
		sess.Flow = next
	}
	h.sessions.Save(sess)

	respondOK(c, gin.H{
		"session_id": sess.ID,
		"profile":    profile,
		"step":       sess.Flow.Step,
	})
}

// Package session 保存单次向导会话的易失状态:解析出的简历文本、
// 技能画像、对话历史、步骤状态。内容带 TTL,过期自动淘汰,
// 服务重启即丢失 —— 只有显式保存的路线图才进持久层。
package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/zhaoqin88/roadgen/cmd/server/internal/flow"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/models"
)

const (
	// 对话历史保留 20 轮,送入提示词的只取最近 5 轮。
	maxHistoryMessages    = 40
	promptHistoryMessages = 10
)

// Session 是一次向导会话的全部易失状态。
type Session struct {
	ID         string
	ResumeText string
	Profile    *models.Profile
	Tools      []models.Tool
	Preview    *models.Roadmap
	History    []models.ChatMessage
	Flow       flow.State
	CreatedAt  time.Time
}

// Manager 管理会话,LRU 淘汰 + TTL 过期。
type Manager struct {
	sessions *expirable.LRU[string, *Session]
}

// NewManager 创建会话管理器。
func NewManager(maxSessions int, ttl time.Duration) *Manager {
	if maxSessions <= 0 {
		maxSessions = 1024
	}
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &Manager{
		sessions: expirable.NewLRU[string, *Session](maxSessions, nil, ttl),
	}
}

// Create 新建会话并返回。
func (m *Manager) Create() *Session {
	s := &Session{
		ID:        uuid.NewString(),
		Flow:      flow.NewState(),
		CreatedAt: time.Now().UTC(),
	}
	m.sessions.Add(s.ID, s)
	return s
}

// Get 返回指定会话,不存在或已过期时返回 false。
func (m *Manager) Get(id string) (*Session, bool) {
	return m.sessions.Get(id)
}

// GetOrCreate 取回已有会话,id 为空或失效时新建。
func (m *Manager) GetOrCreate(id string) *Session {
	if id != "" {
		if s, ok := m.sessions.Get(id); ok {
			return s
		}
	}
	return m.Create()
}

// Save 写回会话状态。
func (m *Manager) Save(s *Session) {
	m.sessions.Add(s.ID, s)
}

// Delete 丢弃会话。
func (m *Manager) Delete(id string) {
	m.sessions.Remove(id)
}

// AppendExchange 记录一轮对话并裁剪历史长度。
func (s *Session) AppendExchange(userMsg, assistantMsg string) {
	s.History = append(s.History,
		models.ChatMessage{Role: "user", Content: userMsg},
		models.ChatMessage{Role: "assistant", Content: assistantMsg},
	)
	if len(s.History) > maxHistoryMessages {
		s.History = s.History[len(s.History)-maxHistoryMessages:]
	}
}

// PromptHistory 返回送入提示词的最近几轮对话。
func (s *Session) PromptHistory() []models.ChatMessage {
	if len(s.History) <= promptHistoryMessages {
		return s.History
	}
	return s.History[len(s.History)-promptHistoryMessages:]
}

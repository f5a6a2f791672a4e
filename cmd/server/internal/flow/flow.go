// Package flow 实现生成向导的步骤状态机。状态是不可变记录,
// 每次转移都是纯函数 (State, Event) -> (State, error),便于在
// 没有渲染环境的情况下做单元测试。
package flow

import (
	"fmt"

	"github.com/zhaoqin88/roadgen/cmd/server/internal/apperr"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/models"
)

// Step 表示向导所处的步骤。
type Step int

const (
	StepUpload         Step = 1
	StepSelectTools    Step = 2
	StepSetPreferences Step = 3
	StepViewRoadmap    Step = 4
)

// View 表示顶层视图,与步骤状态相互独立。
type View string

const (
	ViewGenerator View = "generator"
	ViewList      View = "list"
	ViewDetail    View = "detail"
)

// 工具选择数量的允许区间。
const (
	MinSelectedTools = 2
	MaxSelectedTools = 8
)

// State 是向导的完整状态快照。
type State struct {
	Step          Step                        `json:"step"`
	View          View                        `json:"view"`
	DetailID      string                      `json:"detail_id,omitempty"`
	Profile       *models.Profile             `json:"profile,omitempty"`
	SelectedTools []string                    `json:"selected_tools,omitempty"`
	Preferences   *models.LearningPreferences `json:"preferences,omitempty"`
	Generated     bool                        `json:"generated"`
	ErrorMessage  string                      `json:"error_message,omitempty"`
}

// NewState 返回初始状态:第一步、生成器视图。
func NewState() State {
	return State{Step: StepUpload, View: ViewGenerator}
}

// Event 是驱动状态机的输入。
type Event interface{ eventName() string }

// ProfileReceived 简历解析完成,携带技能画像。
type ProfileReceived struct{ Profile *models.Profile }

// ToolsChosen 用户确认了工具选择。
type ToolsChosen struct{ Tools []string }

// PreferencesSet 用户提交了学习偏好。
type PreferencesSet struct{ Preferences models.LearningPreferences }

// GenerationSucceeded 路线图生成成功。
type GenerationSucceeded struct{}

// GenerationFailed 生成失败,携带展示给用户的错误信息。
type GenerationFailed struct{ Message string }

// Back 回退一步。
type Back struct{}

// StartOver 无条件重置回第一步,丢弃未保存的数据。
type StartOver struct{}

// OpenList 切换到路线图列表视图。
type OpenList struct{}

// OpenDetail 打开某个已保存路线图的详情。
type OpenDetail struct{ RoadmapID string }

// CloseDetail 从详情返回列表。
type CloseDetail struct{}

func (ProfileReceived) eventName() string     { return "profile_received" }
func (ToolsChosen) eventName() string         { return "tools_chosen" }
func (PreferencesSet) eventName() string      { return "preferences_set" }
func (GenerationSucceeded) eventName() string { return "generation_succeeded" }
func (GenerationFailed) eventName() string    { return "generation_failed" }
func (Back) eventName() string                { return "back" }
func (StartOver) eventName() string           { return "start_over" }
func (OpenList) eventName() string            { return "open_list" }
func (OpenDetail) eventName() string          { return "open_detail" }
func (CloseDetail) eventName() string         { return "close_detail" }

// Apply 执行一次状态转移。守卫条件不满足时返回校验错误,
// 状态保持不变;视图切换不影响步骤状态。
func Apply(s State, ev Event) (State, error) {
	switch e := ev.(type) {
	case ProfileReceived:
		if e.Profile == nil {
			return s, apperr.Validation(apperr.CodeInvalidRequest, "profile is required to continue")
		}
		s.Profile = e.Profile
		s.Step = StepSelectTools
		s.ErrorMessage = ""
		return s, nil

	case ToolsChosen:
		if s.Profile == nil {
			return s, apperr.Validation(apperr.CodeInvalidRequest, "upload a resume before selecting tools")
		}
		if len(e.Tools) < MinSelectedTools || len(e.Tools) > MaxSelectedTools {
			return s, apperr.Validation(apperr.CodeToolCountRange,
				fmt.Sprintf("select between %d and %d tools, got %d", MinSelectedTools, MaxSelectedTools, len(e.Tools)))
		}
		s.SelectedTools = append([]string(nil), e.Tools...)
		s.Step = StepSetPreferences
		s.ErrorMessage = ""
		return s, nil

	case PreferencesSet:
		if s.Step != StepSetPreferences {
			return s, apperr.Validation(apperr.CodeInvalidRequest, "choose tools before setting preferences")
		}
		prefs := e.Preferences
		s.Preferences = &prefs
		return s, nil

	case GenerationSucceeded:
		if s.Step != StepSetPreferences || s.Preferences == nil {
			return s, apperr.Validation(apperr.CodeInvalidRequest, "generation requires submitted preferences")
		}
		s.Generated = true
		s.Step = StepViewRoadmap
		s.ErrorMessage = ""
		return s, nil

	case GenerationFailed:
		s.ErrorMessage = e.Message
		return s, nil

	case Back:
		if s.Step > StepUpload {
			s.Step--
		}
		if s.Step < StepViewRoadmap {
			s.Generated = false
		}
		s.ErrorMessage = ""
		return s, nil

	case StartOver:
		// 无条件重置,保留当前视图。
		next := NewState()
		next.View = s.View
		next.DetailID = s.DetailID
		return next, nil

	case OpenList:
		s.View = ViewList
		s.DetailID = ""
		return s, nil

	case OpenDetail:
		if e.RoadmapID == "" {
			return s, apperr.Validation(apperr.CodeInvalidRequest, "roadmap id is required")
		}
		s.View = ViewDetail
		s.DetailID = e.RoadmapID
		return s, nil

	case CloseDetail:
		s.View = ViewList
		s.DetailID = ""
		return s, nil
	}
	return s, apperr.Validation(apperr.CodeInvalidRequest, fmt.Sprintf("unknown event %T", ev))
}

package models

import "time"

// RoadmapStatus 表示学习路线图的整体状态。
type RoadmapStatus string

const (
	RoadmapStatusActive    RoadmapStatus = "active"
	RoadmapStatusCompleted RoadmapStatus = "completed"
	RoadmapStatusArchived  RoadmapStatus = "archived"
)

// Valid 判断状态是否为已知取值。
func (s RoadmapStatus) Valid() bool {
	switch s {
	case RoadmapStatusActive, RoadmapStatusCompleted, RoadmapStatusArchived:
		return true
	}
	return false
}

// ChecklistItem 表示阶段内可勾选的学习目标或里程碑条目。
type ChecklistItem struct {
	ID        string `json:"id" bson:"id"`
	Text      string `json:"text" bson:"text"`
	Completed bool   `json:"completed" bson:"completed"`
}

// Phase 表示路线图中的一个学习阶段。
type Phase struct {
	ID                 string          `json:"id" bson:"id"`
	PhaseNumber        int             `json:"phase_number" bson:"phase_number"`
	Title              string          `json:"title" bson:"title"`
	DurationWeeks      int             `json:"duration_weeks" bson:"duration_weeks"`
	ToolsCovered       []string        `json:"tools_covered" bson:"tools_covered"`
	LearningObjectives []ChecklistItem `json:"learning_objectives" bson:"learning_objectives"`
	Milestones         []ChecklistItem `json:"milestones" bson:"milestones"`
	// 纯 UI 展开标记,响应里带上但不写入 Mongo,
	// 读取时由归一化层给首个阶段置默认值
	Expanded bool `json:"expanded" bson:"-"`
}

// Tool 表示可纳入路线图的一个工具或技术。
type Tool struct {
	Name               string `json:"name" bson:"name"`
	Category           string `json:"category,omitempty" bson:"category,omitempty"`
	Difficulty         string `json:"difficulty,omitempty" bson:"difficulty,omitempty"`
	EstimatedTimeWeeks int    `json:"estimated_time_weeks,omitempty" bson:"estimated_time_weeks,omitempty"`
	Description        string `json:"description,omitempty" bson:"description,omitempty"`
	Reason             string `json:"reason,omitempty" bson:"reason,omitempty"`
}

// LearningPreferences 表示用户设置的学习节奏偏好。
type LearningPreferences struct {
	HoursPerWeek  int    `json:"hours_per_week" bson:"hours_per_week"`
	LearningStyle string `json:"learning_style,omitempty" bson:"learning_style,omitempty"`
	TargetWeeks   int    `json:"target_weeks,omitempty" bson:"target_weeks,omitempty"`
	Deadline      string `json:"deadline,omitempty" bson:"deadline,omitempty"`
}

// Resource 表示某一工具下推荐的学习资源。
type Resource struct {
	Title         string `json:"title" bson:"title"`
	Type          string `json:"type,omitempty" bson:"type,omitempty"`
	Platform      string `json:"platform,omitempty" bson:"platform,omitempty"`
	URL           string `json:"url,omitempty" bson:"url,omitempty"`
	Difficulty    string `json:"difficulty,omitempty" bson:"difficulty,omitempty"`
	EstimatedTime string `json:"estimated_time,omitempty" bson:"estimated_time,omitempty"`
	IsFree        bool   `json:"is_free,omitempty" bson:"is_free,omitempty"`
}

// Roadmap 表示一份完整的学习路线图文档。
// ID 由存储层生成,CreatedAt/UpdatedAt 由存储层在写入时填充。
type Roadmap struct {
	ID             string                `json:"id" bson:"_id,omitempty"`
	OwnerID        string                `json:"owner_id" bson:"owner_id"`
	Title          string                `json:"title,omitempty" bson:"title,omitempty"`
	Domain         string                `json:"domain,omitempty" bson:"domain,omitempty"`
	Status         RoadmapStatus         `json:"status" bson:"status"`
	Progress       int                   `json:"progress" bson:"progress"`
	Phases         []Phase               `json:"phases" bson:"phases"`
	SelectedTools  []Tool                `json:"selected_tools,omitempty" bson:"selected_tools,omitempty"`
	CompletedTools []string              `json:"completed_tools" bson:"completed_tools"`
	CurrentTool    string                `json:"current_tool,omitempty" bson:"current_tool,omitempty"`
	Preferences    LearningPreferences   `json:"preferences" bson:"preferences"`
	TotalWeeks     int                   `json:"total_weeks" bson:"total_weeks"`
	Resources      map[string][]Resource `json:"resources,omitempty" bson:"resources,omitempty"`
	CareerInsights string                `json:"career_insights,omitempty" bson:"career_insights,omitempty"`
	CreatedAt      time.Time             `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at" bson:"updated_at"`
}

// Clone 深拷贝一份路线图,切片、内嵌条目与资源表全部复制,
// nil 切片保持 nil。
func (r *Roadmap) Clone() *Roadmap {
	if r == nil {
		return nil
	}
	out := *r
	if r.Phases != nil {
		out.Phases = make([]Phase, len(r.Phases))
	}
	for i, p := range r.Phases {
		np := p
		np.ToolsCovered = append([]string(nil), p.ToolsCovered...)
		np.LearningObjectives = append([]ChecklistItem(nil), p.LearningObjectives...)
		np.Milestones = append([]ChecklistItem(nil), p.Milestones...)
		out.Phases[i] = np
	}
	out.SelectedTools = append([]Tool(nil), r.SelectedTools...)
	out.CompletedTools = append([]string(nil), r.CompletedTools...)
	if r.Resources != nil {
		out.Resources = make(map[string][]Resource, len(r.Resources))
		for k, v := range r.Resources {
			out.Resources[k] = append([]Resource(nil), v...)
		}
	}
	return &out
}

// TotalChecklistItems 返回路线图内全部可勾选条目的数量。
func (r *Roadmap) TotalChecklistItems() int {
	n := 0
	for _, p := range r.Phases {
		n += len(p.LearningObjectives) + len(p.Milestones)
	}
	return n
}

// CompletedChecklistItems 返回已完成条目的数量。
func (r *Roadmap) CompletedChecklistItems() int {
	n := 0
	for _, p := range r.Phases {
		for _, it := range p.LearningObjectives {
			if it.Completed {
				n++
			}
		}
		for _, it := range p.Milestones {
			if it.Completed {
				n++
			}
		}
	}
	return n
}

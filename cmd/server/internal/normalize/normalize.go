// Package normalize 将历史上出现过的各种路线图数据形态归一为规范的
// models.Roadmap。字段名的 snake_case/camelCase 差异、裸字符串形式的
// 清单条目、缺失的数值字段都在这里一次性解决,下游代码不再嗅探字段形态。
package normalize

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/zhaoqin88/roadgen/cmd/server/internal/apperr"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/models"
)

// 缺失数值字段的默认值。
const (
	DefaultDurationWeeks = 4
	DefaultHoursPerWeek  = 6
	DefaultTotalWeeks    = 10
)

// Document 将任意形态的原始文档归一为规范 Roadmap。
// 输入必须是 JSON/BSON 解码后的对象(map);null 或非对象输入
// 返回 MalformedRoadmap 错误,缺失或畸形的可选字段则静默取默认值。
func Document(raw any) (*models.Roadmap, error) {
	doc, ok := asMap(raw)
	if !ok {
		return nil, apperr.Malformed(fmt.Sprintf("roadmap document must be an object, got %T", raw))
	}

	r := &models.Roadmap{
		ID:             stringField(doc, "id", "_id"),
		OwnerID:        stringField(doc, "owner_id", "ownerId", "user_id", "userId"),
		Title:          stringField(doc, "title", "roadmap_title", "roadmapTitle"),
		Domain:         stringField(doc, "domain", "career_domain", "careerDomain"),
		CurrentTool:    stringField(doc, "current_tool", "currentTool"),
		CareerInsights: stringField(doc, "career_insights", "careerInsights"),
		Progress:       intField(doc, 0, "progress"),
	}

	if s := stringField(doc, "status"); s != "" {
		r.Status = models.RoadmapStatus(s)
	} else {
		r.Status = models.RoadmapStatusActive
	}

	r.Phases = normalizePhases(doc)
	r.SelectedTools = normalizeTools(listField(doc, "selected_tools", "selectedTools", "tools"))
	r.CompletedTools = stringListField(doc, "completed_tools", "completedTools")
	r.Resources = normalizeResourceMap(doc)

	r.Preferences = models.LearningPreferences{
		HoursPerWeek:  intField(doc, DefaultHoursPerWeek, "hours_per_week", "hoursPerWeek"),
		LearningStyle: stringField(doc, "learning_style", "learningStyle"),
		Deadline:      stringField(doc, "deadline", "target_date", "targetDate"),
	}
	if prefs, ok := asMap(doc["preferences"]); ok {
		r.Preferences.HoursPerWeek = intField(prefs, r.Preferences.HoursPerWeek, "hours_per_week", "hoursPerWeek")
		if s := stringField(prefs, "learning_style", "learningStyle"); s != "" {
			r.Preferences.LearningStyle = s
		}
		if s := stringField(prefs, "deadline", "target_date", "targetDate"); s != "" {
			r.Preferences.Deadline = s
		}
		r.Preferences.TargetWeeks = intField(prefs, 0, "target_weeks", "targetWeeks")
	}

	r.TotalWeeks = intField(doc, 0,
		"total_weeks", "totalWeeks", "total_duration_weeks", "totalDurationWeeks",
		"estimated_weeks", "estimatedWeeks")
	if r.TotalWeeks <= 0 {
		r.TotalWeeks = DefaultTotalWeeks
	}

	if ts, ok := timeField(doc, "created_at", "createdAt"); ok {
		r.CreatedAt = ts
	}
	if ts, ok := timeField(doc, "updated_at", "updatedAt"); ok {
		r.UpdatedAt = ts
	}

	return r, nil
}

// Roadmap 对已经解码为规范结构的路线图做最小限度的补全:
// 缺失的条目 id、空状态、零值数值字段。对 Document 的输出再调用一次
// 不会产生任何变化。
func Roadmap(r *models.Roadmap) *models.Roadmap {
	if r == nil {
		return nil
	}
	out := *r
	out.Phases = make([]models.Phase, len(r.Phases))
	for i, p := range r.Phases {
		np := p
		if np.ID == "" {
			np.ID = uuid.NewString()
		}
		if np.PhaseNumber == 0 {
			np.PhaseNumber = i + 1
		}
		if np.Title == "" {
			np.Title = fmt.Sprintf("Phase %d", i+1)
		}
		if np.DurationWeeks <= 0 {
			np.DurationWeeks = DefaultDurationWeeks
		}
		np.LearningObjectives = fillItemIDs(p.LearningObjectives)
		np.Milestones = fillItemIDs(p.Milestones)
		out.Phases[i] = np
	}
	if out.Status == "" {
		out.Status = models.RoadmapStatusActive
	}
	if out.Preferences.HoursPerWeek <= 0 {
		out.Preferences.HoursPerWeek = DefaultHoursPerWeek
	}
	if out.TotalWeeks <= 0 {
		out.TotalWeeks = DefaultTotalWeeks
	}
	return &out
}

func fillItemIDs(items []models.ChecklistItem) []models.ChecklistItem {
	out := make([]models.ChecklistItem, len(items))
	for i, it := range items {
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		out[i] = it
	}
	return out
}

// normalizePhases 提取并归一阶段列表。phases 缺失或为空而存在扁平的
// 工具/资源列表时,按每个条目合成一个阶段,仅第一个阶段默认展开。
func normalizePhases(doc map[string]any) []models.Phase {
	rawPhases := listField(doc, "phases", "learning_phases", "learningPhases")
	if len(rawPhases) > 0 {
		phases := make([]models.Phase, 0, len(rawPhases))
		for i, rp := range rawPhases {
			pm, ok := asMap(rp)
			if !ok {
				continue
			}
			phases = append(phases, normalizePhase(pm, i))
		}
		if len(phases) > 0 {
			return phases
		}
	}

	flat := listField(doc, "learning_resources", "learningResources", "selected_tools", "selectedTools", "tools")
	if len(flat) == 0 {
		return nil
	}
	phases := make([]models.Phase, 0, len(flat))
	for i, entry := range flat {
		phases = append(phases, synthesizePhase(entry, i))
	}
	return phases
}

func normalizePhase(pm map[string]any, index int) models.Phase {
	p := models.Phase{
		ID:            stringField(pm, "id", "phase_id", "phaseId"),
		PhaseNumber:   intField(pm, index+1, "phase_number", "phaseNumber"),
		Title:         stringField(pm, "title", "phase_title", "phaseTitle", "name"),
		DurationWeeks: intField(pm, 0, "duration_weeks", "durationWeeks", "estimated_time", "estimatedTime", "duration"),
		ToolsCovered:  stringListField(pm, "tools_covered", "toolsCovered", "tools"),
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Title == "" {
		p.Title = fmt.Sprintf("Phase %d", index+1)
	}
	if p.DurationWeeks <= 0 {
		p.DurationWeeks = DefaultDurationWeeks
	}
	p.LearningObjectives = normalizeChecklist(listField(pm, "learning_objectives", "learningObjectives", "objectives"))
	p.Milestones = normalizeChecklist(listField(pm, "milestones"))
	if v, ok := pm["expanded"].(bool); ok {
		p.Expanded = v
	} else {
		p.Expanded = index == 0
	}
	return p
}

// synthesizePhase 将扁平列表中的单个工具条目合成为一个阶段。
func synthesizePhase(entry any, index int) models.Phase {
	p := models.Phase{
		ID:            uuid.NewString(),
		PhaseNumber:   index + 1,
		DurationWeeks: DefaultDurationWeeks,
		Expanded:      index == 0,
	}
	em, ok := asMap(entry)
	if !ok {
		if s, ok := entry.(string); ok && s != "" {
			p.Title = s
			p.ToolsCovered = []string{s}
		} else {
			p.Title = fmt.Sprintf("Phase %d", index+1)
		}
		return p
	}

	name := stringField(em, "tool_name", "toolName", "name")
	if name != "" {
		p.Title = name
	} else {
		p.Title = fmt.Sprintf("Phase %d", index+1)
	}
	p.PhaseNumber = intField(em, index+1, "phase_number", "phaseNumber")
	p.DurationWeeks = intField(em, DefaultDurationWeeks, "duration_weeks", "durationWeeks", "estimated_time_weeks", "estimatedTimeWeeks")
	if covered := stringListField(em, "tools_covered", "toolsCovered"); len(covered) > 0 {
		p.ToolsCovered = covered
	} else if name != "" {
		p.ToolsCovered = []string{name}
	}
	p.LearningObjectives = normalizeChecklist(listField(em, "learning_objectives", "learningObjectives", "objectives"))
	p.Milestones = normalizeChecklist(listField(em, "milestones"))
	return p
}

// normalizeChecklist 把裸字符串包装为 ChecklistItem,结构化条目原样
// 保留(已有 completed 与 id 不动,缺失的 id 补上)。
func normalizeChecklist(raw []any) []models.ChecklistItem {
	if len(raw) == 0 {
		return nil
	}
	items := make([]models.ChecklistItem, 0, len(raw))
	for _, entry := range raw {
		switch v := entry.(type) {
		case string:
			items = append(items, models.ChecklistItem{ID: uuid.NewString(), Text: v})
		default:
			em, ok := asMap(entry)
			if !ok {
				continue
			}
			it := models.ChecklistItem{
				ID:   stringField(em, "id", "item_id", "itemId"),
				Text: stringField(em, "text", "title", "description"),
			}
			if b, ok := em["completed"].(bool); ok {
				it.Completed = b
			}
			if it.ID == "" {
				it.ID = uuid.NewString()
			}
			items = append(items, it)
		}
	}
	return items
}

func normalizeTools(raw []any) []models.Tool {
	if len(raw) == 0 {
		return nil
	}
	tools := make([]models.Tool, 0, len(raw))
	for _, entry := range raw {
		switch v := entry.(type) {
		case string:
			if v != "" {
				tools = append(tools, models.Tool{Name: v})
			}
		default:
			em, ok := asMap(entry)
			if !ok {
				continue
			}
			t := models.Tool{
				Name:               stringField(em, "name", "tool_name", "toolName"),
				Category:           stringField(em, "category"),
				Difficulty:         stringField(em, "difficulty"),
				Description:        stringField(em, "description"),
				Reason:             stringField(em, "reason", "why"),
				EstimatedTimeWeeks: intField(em, 0, "estimated_time_weeks", "estimatedTimeWeeks", "estimated_time", "estimatedTime", "duration"),
			}
			if t.Name != "" {
				tools = append(tools, t)
			}
		}
	}
	return tools
}

func normalizeResourceMap(doc map[string]any) map[string][]models.Resource {
	rm, ok := asMap(firstPresent(doc, "resources", "resource_map", "resourceMap"))
	if !ok {
		return nil
	}
	out := make(map[string][]models.Resource, len(rm))
	for tool, raw := range rm {
		entries, ok := asList(raw)
		if !ok {
			continue
		}
		var list []models.Resource
		for _, entry := range entries {
			em, ok := asMap(entry)
			if !ok {
				continue
			}
			res := models.Resource{
				Title:         stringField(em, "title", "name"),
				Type:          stringField(em, "type"),
				Platform:      stringField(em, "platform"),
				URL:           stringField(em, "url", "link"),
				Difficulty:    stringField(em, "difficulty"),
				EstimatedTime: stringField(em, "estimated_time", "estimatedTime", "duration"),
			}
			if b, ok := em["is_free"].(bool); ok {
				res.IsFree = b
			} else if b, ok := em["isFree"].(bool); ok {
				res.IsFree = b
			}
			if res.Title != "" {
				list = append(list, res)
			}
		}
		if len(list) > 0 {
			out[tool] = list
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

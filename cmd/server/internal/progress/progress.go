// Package progress 计算路线图完成度并处理清单勾选。所有函数都是
// 纯函数:输入路线图不被原地修改,持久化由调用方负责。
package progress

import (
	"math"

	"github.com/zhaoqin88/roadgen/cmd/server/internal/models"
)

// ItemKind 区分勾选目标属于学习目标还是里程碑。
type ItemKind string

const (
	KindObjective ItemKind = "objective"
	KindMilestone ItemKind = "milestone"
)

// Compute 返回 0..100 的整数完成度:round(100*completed/total),
// 总数为 0 时返回 0。展示与落库使用同一个函数,避免两处实现漂移。
// 阶段型路线图按清单条目计数;无阶段的扁平工具型路线图按
// completed_tools 对 selected_tools 的覆盖计数。
func Compute(r *models.Roadmap) int {
	if r == nil {
		return 0
	}
	total := r.TotalChecklistItems()
	completed := r.CompletedChecklistItems()
	if total == 0 && len(r.SelectedTools) > 0 {
		total = len(r.SelectedTools)
		done := make(map[string]bool, len(r.CompletedTools))
		for _, name := range r.CompletedTools {
			done[name] = true
		}
		for _, t := range r.SelectedTools {
			if done[t.Name] {
				completed++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// ToggleChecklistItem 翻转 (phaseID, itemID) 对应条目的完成状态,
// 返回新的路线图值并重算进度。找不到对应条目时原样返回输入的
// 深拷贝(不是错误):本地与远端状态漂移不应导致崩溃。
func ToggleChecklistItem(r *models.Roadmap, phaseID, itemID string, kind ItemKind) *models.Roadmap {
	out := clone(r)
	if out == nil {
		return nil
	}
	for pi := range out.Phases {
		if out.Phases[pi].ID != phaseID {
			continue
		}
		items := out.Phases[pi].LearningObjectives
		if kind == KindMilestone {
			items = out.Phases[pi].Milestones
		}
		for ii := range items {
			if items[ii].ID == itemID {
				items[ii].Completed = !items[ii].Completed
				out.Progress = Compute(out)
				return out
			}
		}
	}
	return out
}

// ToggleToolCompletion 在扁平工具型路线图上增删 completed_tools 中的
// 工具,并把 current_tool 指向按原始选择顺序第一个未完成的工具;
// 全部完成时 current_tool 置空。
func ToggleToolCompletion(r *models.Roadmap, toolName string) *models.Roadmap {
	out := clone(r)
	if out == nil {
		return nil
	}
	idx := -1
	for i, name := range out.CompletedTools {
		if name == toolName {
			idx = i
			break
		}
	}
	if idx >= 0 {
		out.CompletedTools = append(out.CompletedTools[:idx], out.CompletedTools[idx+1:]...)
	} else {
		out.CompletedTools = append(out.CompletedTools, toolName)
	}

	done := make(map[string]bool, len(out.CompletedTools))
	for _, name := range out.CompletedTools {
		done[name] = true
	}
	out.CurrentTool = ""
	for _, t := range out.SelectedTools {
		if !done[t.Name] {
			out.CurrentTool = t.Name
			break
		}
	}
	out.Progress = Compute(out)
	return out
}

// clone 深拷贝一份路线图,切片与内嵌条目全部复制。
func clone(r *models.Roadmap) *models.Roadmap {
	return r.Clone()
}

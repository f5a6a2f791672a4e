package normalize

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/zhaoqin88/roadgen/cmd/server/internal/apperr"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/models"
)

func TestDocumentRejectsNonObject(t *testing.T) {
	for _, input := range []any{nil, "roadmap", 42, []any{"a", "b"}} {
		_, err := Document(input)
		if err == nil {
			t.Fatalf("Document(%v) should fail", input)
		}
		if !apperr.IsKind(err, apperr.KindMalformed) {
			t.Fatalf("Document(%v) error kind = %v, want malformed", input, err)
		}
	}
}

func TestDocumentWrapsBareStrings(t *testing.T) {
	doc := map[string]any{
		"phases": []any{
			map[string]any{
				"title":               "Foundations",
				"learning_objectives": []any{"Learn Git basics", "Set up CI"},
				"milestones": []any{
					"First commit",
					map[string]any{"id": "m-1", "text": "Pipeline green", "completed": true},
				},
			},
		},
	}

	r, err := Document(doc)
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if len(r.Phases) != 1 {
		t.Fatalf("phases = %d, want 1", len(r.Phases))
	}
	p := r.Phases[0]
	if len(p.LearningObjectives) != 2 || len(p.Milestones) != 2 {
		t.Fatalf("objectives=%d milestones=%d, want 2/2", len(p.LearningObjectives), len(p.Milestones))
	}
	for _, it := range p.LearningObjectives {
		if it.ID == "" {
			t.Error("wrapped objective missing synthesized id")
		}
		if it.Completed {
			t.Error("wrapped objective should default to incomplete")
		}
	}
	if p.Milestones[0].Text != "First commit" || p.Milestones[0].ID == "" {
		t.Errorf("bare milestone not wrapped: %+v", p.Milestones[0])
	}
	// 结构化条目原样保留
	if p.Milestones[1].ID != "m-1" || !p.Milestones[1].Completed {
		t.Errorf("structured milestone altered: %+v", p.Milestones[1])
	}
	if p.LearningObjectives[0].ID == p.LearningObjectives[1].ID {
		t.Error("synthesized ids must be unique")
	}
}

func TestDocumentSynthesizesPhasesFromFlatList(t *testing.T) {
	doc := map[string]any{
		"phases": []any{},
		"learningResources": []any{
			map[string]any{"toolName": "Git", "duration_weeks": 2},
			map[string]any{"tool_name": "Docker"},
		},
	}

	r, err := Document(doc)
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if len(r.Phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(r.Phases))
	}
	first := r.Phases[0]
	if first.Title != "Git" || first.DurationWeeks != 2 || !first.Expanded {
		t.Errorf("first phase = %+v, want title=Git duration=2 expanded", first)
	}
	if !reflect.DeepEqual(first.ToolsCovered, []string{"Git"}) {
		t.Errorf("tools_covered = %v, want [Git]", first.ToolsCovered)
	}
	second := r.Phases[1]
	if second.Title != "Docker" || second.DurationWeeks != DefaultDurationWeeks || second.Expanded {
		t.Errorf("second phase = %+v, want title=Docker duration=%d collapsed", second, DefaultDurationWeeks)
	}
	if second.PhaseNumber != 2 {
		t.Errorf("phase_number = %d, want 2", second.PhaseNumber)
	}
}

func TestDocumentFieldNameReconciliation(t *testing.T) {
	doc := map[string]any{
		"careerInsights": "Focus on platform engineering",
		"estimatedWeeks": 16,
		"currentTool":    "Docker",
		"phases": []any{
			map[string]any{
				"phaseNumber":   float64(3),
				"title":         "Ops",
				"durationWeeks": "6 weeks",
				"toolsCovered":  []any{"Kubernetes"},
			},
		},
	}

	r, err := Document(doc)
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if r.CareerInsights != "Focus on platform engineering" {
		t.Errorf("career insights = %q", r.CareerInsights)
	}
	if r.TotalWeeks != 16 {
		t.Errorf("total weeks = %d, want 16", r.TotalWeeks)
	}
	if r.CurrentTool != "Docker" {
		t.Errorf("current tool = %q", r.CurrentTool)
	}
	p := r.Phases[0]
	if p.PhaseNumber != 3 || p.DurationWeeks != 6 {
		t.Errorf("phase = %+v, want number=3 duration=6", p)
	}
}

func TestDocumentDefaults(t *testing.T) {
	r, err := Document(map[string]any{
		"phases": []any{map[string]any{"title": "Basics"}},
	})
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if r.Phases[0].DurationWeeks != DefaultDurationWeeks {
		t.Errorf("duration = %d, want %d", r.Phases[0].DurationWeeks, DefaultDurationWeeks)
	}
	if r.Preferences.HoursPerWeek != DefaultHoursPerWeek {
		t.Errorf("hours per week = %d, want %d", r.Preferences.HoursPerWeek, DefaultHoursPerWeek)
	}
	if r.TotalWeeks != DefaultTotalWeeks {
		t.Errorf("total weeks = %d, want %d", r.TotalWeeks, DefaultTotalWeeks)
	}
	if r.Status != models.RoadmapStatusActive {
		t.Errorf("status = %q, want active", r.Status)
	}
}

// 归一化必须幂等:对输出再跑一遍不得重复包装字符串或改写已有 id。
func TestDocumentIdempotent(t *testing.T) {
	doc := map[string]any{
		"owner_id": "u-1",
		"phases": []any{
			map[string]any{
				"title":               "Foundations",
				"learning_objectives": []any{"Learn Git", map[string]any{"id": "o-2", "text": "Branching", "completed": true}},
				"milestones":          []any{"First PR"},
			},
		},
		"learning_resources": []any{map[string]any{"toolName": "Git"}},
	}

	once, err := Document(doc)
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	raw, err := json.Marshal(once)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var roundTrip map[string]any
	if err := json.Unmarshal(raw, &roundTrip); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	twice, err := Document(roundTrip)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("normalization not idempotent:\nfirst:  %+v\nsecond: %+v", once, twice)
	}
}

func TestRoadmapFillsMissingIDs(t *testing.T) {
	in := &models.Roadmap{
		Phases: []models.Phase{{
			Title:              "Basics",
			LearningObjectives: []models.ChecklistItem{{Text: "Read docs"}},
		}},
	}
	out := Roadmap(in)
	if out.Phases[0].ID == "" || out.Phases[0].LearningObjectives[0].ID == "" {
		t.Error("missing ids not filled")
	}
	if out.Phases[0].PhaseNumber != 1 || out.Phases[0].DurationWeeks != DefaultDurationWeeks {
		t.Errorf("phase defaults not applied: %+v", out.Phases[0])
	}
	// 输入不被原地修改
	if in.Phases[0].LearningObjectives[0].ID != "" {
		t.Error("input roadmap mutated in place")
	}
}

func TestRoadmapIdempotent(t *testing.T) {
	in := &models.Roadmap{Phases: []models.Phase{{Title: "Basics", LearningObjectives: []models.ChecklistItem{{Text: "Read docs"}}}}}
	once := Roadmap(in)
	twice := Roadmap(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Roadmap not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

package store

import (
	"context"
	"testing"
	"time"

	"github.com/zhaoqin88/roadgen/cmd/server/internal/apperr"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/models"
)

func sampleRoadmap(title string) *models.Roadmap {
	return &models.Roadmap{
		Title:  title,
		Status: models.RoadmapStatusActive,
		Phases: []models.Phase{{
			ID:                 "p-1",
			PhaseNumber:        1,
			Title:              "Foundations",
			DurationWeeks:      4,
			LearningObjectives: []models.ChecklistItem{{ID: "o-1", Text: "Learn Git"}},
		}},
	}
}

func TestMemoryStoreCreateAndGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	id, err := s.Create(ctx, "u-1", sampleRoadmap("DevOps"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id == "" {
		t.Fatal("Create returned empty id")
	}

	got, err := s.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ID != id || got.OwnerID != "u-1" || got.Title != "DevOps" {
		t.Errorf("got = %+v", got)
	}
	if got.Status != models.RoadmapStatusActive {
		t.Errorf("status = %q, want active", got.Status)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("server timestamps not assigned")
	}
	if len(got.Phases) != 1 || got.Phases[0].LearningObjectives[0].Text != "Learn Git" {
		t.Errorf("phases not round-tripped: %+v", got.Phases)
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.GetByID(context.Background(), "no-such-id")
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("err = %v, want not found", err)
	}
}

// 列表结果必须按 created_at 倒序,即使后端没有服务端排序能力。
func TestMemoryStoreListByOwnerSorted(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var ids []string
	for _, title := range []string{"first", "second", "third"} {
		id, err := s.Create(ctx, "u-1", sampleRoadmap(title))
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		ids = append(ids, id)
		time.Sleep(2 * time.Millisecond)
	}
	if _, err := s.Create(ctx, "u-2", sampleRoadmap("other owner")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	out, err := s.ListByOwner(ctx, "u-1")
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("len = %d, want 3", len(out))
	}
	for i := 0; i < len(out)-1; i++ {
		if out[i].CreatedAt.Before(out[i+1].CreatedAt) {
			t.Errorf("result not sorted descending at index %d", i)
		}
	}
	if out[0].Title != "third" || out[2].Title != "first" {
		t.Errorf("order = [%s %s %s], want [third second first]", out[0].Title, out[1].Title, out[2].Title)
	}
	_ = ids
}

func TestMemoryStoreUpdateMergesFields(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	id, err := s.Create(ctx, "u-1", sampleRoadmap("DevOps"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	before, _ := s.GetByID(ctx, id)

	if err := s.Update(ctx, id, map[string]any{"progress": 50}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := s.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Progress != 50 {
		t.Errorf("progress = %d, want 50", got.Progress)
	}
	// 未包含的字段保持不变
	if got.Title != "DevOps" || len(got.Phases) != 1 {
		t.Errorf("unrelated fields overwritten: %+v", got)
	}
	if !got.UpdatedAt.After(before.UpdatedAt) && !got.UpdatedAt.Equal(before.UpdatedAt) {
		t.Error("updated_at not refreshed")
	}

	if err := s.Update(ctx, "no-such-id", map[string]any{"progress": 1}); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("update missing: err = %v, want not found", err)
	}
}

func TestMemoryStoreUpdateStatus(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	id, _ := s.Create(ctx, "u-1", sampleRoadmap("DevOps"))
	if err := s.UpdateStatus(ctx, id, models.RoadmapStatusCompleted); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	got, _ := s.GetByID(ctx, id)
	if got.Status != models.RoadmapStatusCompleted {
		t.Errorf("status = %q, want completed", got.Status)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	id, _ := s.Create(ctx, "u-1", sampleRoadmap("DevOps"))
	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.GetByID(ctx, id); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("get after delete: err = %v, want not found", err)
	}
	if err := s.Delete(ctx, id); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("double delete: err = %v, want not found", err)
	}
}

// 存储里躺着历史形态的文档(裸字符串清单、camelCase 字段)时,
// 读取路径必须归一化出规范结构。
func TestMemoryStoreNormalizesLegacyDocs(t *testing.T) {
	s := NewMemoryStore()
	s.mu.Lock()
	s.docs["legacy-1"] = map[string]any{
		"_id":      "legacy-1",
		"owner_id": "u-1",
		"phases": []any{map[string]any{
			"title":               "Old shape",
			"learningObjectives":  []any{"Bare string objective"},
			"durationWeeks":       3,
		}},
		"created_at": time.Now().UTC(),
	}
	s.mu.Unlock()

	got, err := s.GetByID(context.Background(), "legacy-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	p := got.Phases[0]
	if p.DurationWeeks != 3 {
		t.Errorf("duration = %d, want 3", p.DurationWeeks)
	}
	if len(p.LearningObjectives) != 1 || p.LearningObjectives[0].ID == "" {
		t.Errorf("legacy objective not wrapped: %+v", p.LearningObjectives)
	}
}

func TestSortByCreatedAtDesc(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	list := []*models.Roadmap{
		{ID: "a", CreatedAt: base},
		{ID: "c", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "b", CreatedAt: base.Add(time.Hour)},
	}
	SortByCreatedAtDesc(list)
	if list[0].ID != "c" || list[1].ID != "b" || list[2].ID != "a" {
		t.Errorf("order = [%s %s %s], want [c b a]", list[0].ID, list[1].ID, list[2].ID)
	}
}

package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zhaoqin88/roadgen/cmd/server/internal/apperr"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/models"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/normalize"
)

// MemoryStore 是进程内的文档存储,开发环境与测试用。
// 文档以宽松的 map 形态保存,读取路径和 Mongo 后端一样
// 经过归一化,保证两种后端行为一致。
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]map[string]any
}

// NewMemoryStore 创建空的内存存储。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]map[string]any)}
}

// Create 实现 RoadmapStore。
func (s *MemoryStore) Create(_ context.Context, ownerID string, r *models.Roadmap) (string, error) {
	doc, err := roadmapToDoc(r)
	if err != nil {
		return "", apperr.Store("encode roadmap", err)
	}
	id := uuid.NewString()
	now := time.Now().UTC()
	doc["_id"] = id
	doc["owner_id"] = ownerID
	doc["status"] = string(models.RoadmapStatusActive)
	doc["created_at"] = now
	doc["updated_at"] = now

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[id] = doc
	return id, nil
}

// GetByID 实现 RoadmapStore。
func (s *MemoryStore) GetByID(_ context.Context, id string) (*models.Roadmap, error) {
	s.mu.RLock()
	doc, ok := s.docs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, apperr.NotFound("roadmap " + id + " not found")
	}
	return normalize.Document(doc)
}

// ListByOwner 实现 RoadmapStore。内存后端没有服务端排序,
// 一律取回后在客户端按 created_at 倒序排列。
func (s *MemoryStore) ListByOwner(_ context.Context, ownerID string) ([]*models.Roadmap, error) {
	s.mu.RLock()
	var out []*models.Roadmap
	for _, doc := range s.docs {
		if owner, _ := doc["owner_id"].(string); owner != ownerID {
			continue
		}
		r, err := normalize.Document(doc)
		if err != nil {
			s.mu.RUnlock()
			return nil, err
		}
		out = append(out, r)
	}
	s.mu.RUnlock()

	SortByCreatedAtDesc(out)
	return out, nil
}

// Update 实现 RoadmapStore,浅合并给定字段并刷新 updated_at。
func (s *MemoryStore) Update(_ context.Context, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return apperr.NotFound("roadmap " + id + " not found")
	}
	for k, v := range fields {
		// 文档一律保持宽松 map 形态,结构体值先转成 json 等价形式,
		// Mongo 后端由驱动按 bson 标签做同样的事
		plain, err := toPlain(v)
		if err != nil {
			return apperr.Store("encode field "+k, err)
		}
		doc[k] = plain
	}
	doc["updated_at"] = time.Now().UTC()
	return nil
}

func toPlain(v any) (any, error) {
	switch v.(type) {
	case nil, string, bool, int, int64, float64, time.Time:
		return v, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus 实现 RoadmapStore。
func (s *MemoryStore) UpdateStatus(ctx context.Context, id string, status models.RoadmapStatus) error {
	return s.Update(ctx, id, map[string]any{"status": string(status)})
}

// Delete 实现 RoadmapStore。
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return apperr.NotFound("roadmap " + id + " not found")
	}
	delete(s.docs, id)
	return nil
}

// Ping 实现 RoadmapStore,内存后端永远可用。
func (s *MemoryStore) Ping(context.Context) error { return nil }

// Close 实现 RoadmapStore。
func (s *MemoryStore) Close(context.Context) error { return nil }

// SortByCreatedAtDesc 在客户端按 created_at 倒序排列。
// 服务端排序不可用时两种后端共用这条退化路径。
func SortByCreatedAtDesc(roadmaps []*models.Roadmap) {
	sort.SliceStable(roadmaps, func(i, j int) bool {
		return roadmaps[i].CreatedAt.After(roadmaps[j].CreatedAt)
	})
}

// roadmapToDoc 把规范结构转成宽松的 map 形态,键与 json 标签一致。
func roadmapToDoc(r *models.Roadmap) (map[string]any, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	delete(doc, "id")
	return doc, nil
}

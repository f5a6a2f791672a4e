package store

import (
	"context"

	"github.com/zhaoqin88/roadgen/cmd/server/internal/models"
	"github.com/zhaoqin88/roadgen/pkg/metrics"
)

// Instrumented 包装任意 RoadmapStore,按操作记录成功/失败计数。
type Instrumented struct {
	inner RoadmapStore
}

// WithMetrics 返回带指标记录的存储包装。
func WithMetrics(inner RoadmapStore) *Instrumented {
	return &Instrumented{inner: inner}
}

func record(op string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordStoreOperation(op, status)
}

func (s *Instrumented) Create(ctx context.Context, ownerID string, r *models.Roadmap) (string, error) {
	id, err := s.inner.Create(ctx, ownerID, r)
	record("create", err)
	return id, err
}

func (s *Instrumented) GetByID(ctx context.Context, id string) (*models.Roadmap, error) {
	r, err := s.inner.GetByID(ctx, id)
	record("get_by_id", err)
	return r, err
}

func (s *Instrumented) ListByOwner(ctx context.Context, ownerID string) ([]*models.Roadmap, error) {
	out, err := s.inner.ListByOwner(ctx, ownerID)
	record("list_by_owner", err)
	return out, err
}

func (s *Instrumented) Update(ctx context.Context, id string, fields map[string]any) error {
	err := s.inner.Update(ctx, id, fields)
	record("update", err)
	return err
}

func (s *Instrumented) UpdateStatus(ctx context.Context, id string, status models.RoadmapStatus) error {
	err := s.inner.UpdateStatus(ctx, id, status)
	record("update_status", err)
	return err
}

func (s *Instrumented) Delete(ctx context.Context, id string) error {
	err := s.inner.Delete(ctx, id)
	record("delete", err)
	return err
}

func (s *Instrumented) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

func (s *Instrumented) Close(ctx context.Context) error {
	return s.inner.Close(ctx)
}

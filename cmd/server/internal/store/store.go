// Package store 提供路线图文档的持久化适配层:统一的 RoadmapStore
// 接口之下有 MongoDB 与内存两种后端,后者用于开发环境和测试。
// 适配层只做存取,不含业务逻辑。
package store

import (
	"context"

	"github.com/zhaoqin88/roadgen/cmd/server/internal/models"
)

// RoadmapStore 是路线图文档的存取接口。
//
// 所有写操作由存储层负责刷新 updated_at;Create 额外负责生成 id、
// 写入 created_at 并把状态置为 active。读到的文档可能是历史形态,
// 实现必须在返回前完成归一化。
type RoadmapStore interface {
	// Create 保存一份新路线图,返回生成的 id。
	Create(ctx context.Context, ownerID string, r *models.Roadmap) (string, error)

	// GetByID 取回单个文档;不存在时返回 NotFound 类错误。
	GetByID(ctx context.Context, id string) (*models.Roadmap, error)

	// ListByOwner 返回某个用户的全部路线图,按 created_at 倒序。
	// 服务端排序不可用时退化为取回后在客户端排序,不因缺失
	// 二级索引而让整个调用失败。
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Roadmap, error)

	// Update 合并给定字段,未包含的字段保持不变。
	Update(ctx context.Context, id string, fields map[string]any) error

	// UpdateStatus 是 Update 的便捷封装。
	UpdateStatus(ctx context.Context, id string, status models.RoadmapStatus) error

	// Delete 删除单个文档。
	Delete(ctx context.Context, id string) error

	// Ping 检查后端连通性,供健康检查使用。
	Ping(ctx context.Context) error

	// Close 释放底层连接。
	Close(ctx context.Context) error
}

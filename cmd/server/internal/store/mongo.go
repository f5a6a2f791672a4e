package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zhaoqin88/roadgen/cmd/server/internal/apperr"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/models"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/normalize"
	"github.com/zhaoqin88/roadgen/pkg/logger"
)

const defaultCollection = "roadmaps"

// MongoStore 是 MongoDB 后端的文档存储。
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore 连接 MongoDB 并返回存储实例。连接阶段带超时并
// 先行 Ping,启动期即暴露配置错误。collection 为空时用 roadmaps。
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	if collection == "" {
		collection = defaultCollection
	}
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, apperr.Store("connect to mongodb", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, apperr.Store("ping mongodb", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

// Create 实现 RoadmapStore。id 由服务端生成,不依赖 ObjectID,
// 方便两种后端共用字符串主键。
func (s *MongoStore) Create(ctx context.Context, ownerID string, r *models.Roadmap) (string, error) {
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

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return "", apperr.Store("insert roadmap", err)
	}
	return id, nil
}

// GetByID 实现 RoadmapStore。文档以宽松的 bson.M 解码后归一化,
// 历史形态的文档同样能读出来。
func (s *MongoStore) GetByID(ctx context.Context, id string) (*models.Roadmap, error) {
	var doc bson.M
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("roadmap " + id + " not found")
	}
	if err != nil {
		return nil, apperr.Store("fetch roadmap", err)
	}
	return normalize.Document(doc)
}

// ListByOwner 实现 RoadmapStore。优先让服务端按 created_at 倒序;
// 排序查询失败(典型原因是二级索引缺失、内存排序超限)时退化为
// 无排序取回并在客户端排序,绝不因此让整个调用失败。
func (s *MongoStore) ListByOwner(ctx context.Context, ownerID string) ([]*models.Roadmap, error) {
	filter := bson.M{"owner_id": ownerID}

	out, err := s.findRoadmaps(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err == nil {
		return out, nil
	}
	if apperr.IsKind(err, apperr.KindMalformed) {
		return nil, err
	}
	logger.L().Warn("server-side sort unavailable, sorting client-side",
		"owner_id", ownerID, "error", err)

	out, err = s.findRoadmaps(ctx, filter, options.Find())
	if err != nil {
		return nil, err
	}
	SortByCreatedAtDesc(out)
	return out, nil
}

func (s *MongoStore) findRoadmaps(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.Roadmap, error) {
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.Store("list roadmaps", err)
	}
	defer cur.Close(ctx)

	var out []*models.Roadmap
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, apperr.Store("decode roadmap", err)
		}
		r, err := normalize.Document(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := cur.Err(); err != nil {
		return nil, apperr.Store("iterate roadmaps", err)
	}
	return out, nil
}

// Update 实现 RoadmapStore,$set 合并给定字段并刷新 updated_at。
func (s *MongoStore) Update(ctx context.Context, id string, fields map[string]any) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return apperr.Store("update roadmap", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("roadmap " + id + " not found")
	}
	return nil
}

// UpdateStatus 实现 RoadmapStore。
func (s *MongoStore) UpdateStatus(ctx context.Context, id string, status models.RoadmapStatus) error {
	return s.Update(ctx, id, map[string]any{"status": string(status)})
}

// Delete 实现 RoadmapStore。
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Store("delete roadmap", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("roadmap " + id + " not found")
	}
	return nil
}

// Ping 实现 RoadmapStore。
func (s *MongoStore) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := s.client.Ping(pingCtx, nil); err != nil {
		return apperr.Store("ping mongodb", err)
	}
	return nil
}

// Close 实现 RoadmapStore。
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

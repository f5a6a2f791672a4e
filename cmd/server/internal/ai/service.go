package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/zhaoqin88/roadgen/cmd/server/internal/apperr"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/models"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/normalize"
	"github.com/zhaoqin88/roadgen/pkg/logger"
	"github.com/zhaoqin88/roadgen/pkg/metrics"
)

// Completer 抽象聊天补全调用,测试里用假实现替换真实客户端。
type Completer interface {
	Chat(ctx context.Context, messages []models.ChatMessage, opts ChatOptions) (string, error)
	Name() string
}

// Service 在客户端之上提供面向业务的四个操作:简历分析、方向推荐、
// 路线图生成、对话。相同输入的结果短期缓存,并发的相同请求只打一次
// 上游。
type Service struct {
	client Completer
	cache  *expirable.LRU[string, any]
	group  singleflight.Group
}

// NewService 创建 AI 服务。cacheEntries/ttl 不合法时取保守默认值。
func NewService(client Completer, cacheEntries int, ttl time.Duration) *Service {
	if cacheEntries <= 0 {
		cacheEntries = 256
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{
		client: client,
		cache:  expirable.NewLRU[string, any](cacheEntries, nil, ttl),
	}
}

// Name 返回上游标识,健康检查用。
func (s *Service) Name() string { return s.client.Name() }

// AnalyzeResume 从简历文本提取技能画像。缺失字段按空值补齐,
// 不因此让整个分析失败。
func (s *Service) AnalyzeResume(ctx context.Context, resumeText string) (*models.Profile, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, apperr.Validation(apperr.CodeEmptyDocument, "resume text is empty")
	}
	key := cacheKey("analyze_resume", resumeText)
	result, err := s.cached(ctx, "analyze_resume", key, func(ctx context.Context) (any, error) {
		reply, err := s.client.Chat(ctx, []models.ChatMessage{
			{Role: "user", Content: buildAnalyzePrompt(resumeText)},
		}, ChatOptions{Temperature: 0.3, JSONMode: true})
		if err != nil {
			return nil, err
		}
		doc, err := ExtractJSON(reply)
		if err != nil {
			return nil, err
		}
		return profileFromDoc(doc), nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.Profile), nil
}

// RecommendDomains 基于画像推荐职业方向及每个方向的候选工具。
func (s *Service) RecommendDomains(ctx context.Context, profile *models.Profile) ([]models.DomainRecommendation, []models.Tool, error) {
	if profile == nil {
		return nil, nil, apperr.Validation(apperr.CodeInvalidRequest, "profile is required")
	}
	raw, _ := json.Marshal(profile)
	key := cacheKey("recommend_domains", string(raw))
	result, err := s.cached(ctx, "recommend_domains", key, func(ctx context.Context) (any, error) {
		reply, err := s.client.Chat(ctx, []models.ChatMessage{
			{Role: "user", Content: buildRecommendPrompt(profile)},
		}, ChatOptions{Temperature: 0.5, JSONMode: true})
		if err != nil {
			return nil, err
		}
		doc, err := ExtractJSON(reply)
		if err != nil {
			return nil, err
		}
		recs, tools := recommendationsFromDoc(doc)
		return recResult{Recommendations: recs, Tools: tools}, nil
	})
	if err != nil {
		return nil, nil, err
	}
	rr := result.(recResult)
	return rr.Recommendations, rr.Tools, nil
}

type recResult struct {
	Recommendations []models.DomainRecommendation
	Tools           []models.Tool
}

// GenerateRoadmap 生成路线图预览。预览不落库,保存由调用方决定;
// 上游返回的任意形态在这里就地归一化。
func (s *Service) GenerateRoadmap(ctx context.Context, profile *models.Profile, tools []string, prefs models.LearningPreferences) (*models.Roadmap, error) {
	if profile == nil {
		return nil, apperr.Validation(apperr.CodeInvalidRequest, "profile is required")
	}
	if len(tools) < 2 || len(tools) > 8 {
		return nil, apperr.Validation(apperr.CodeToolCountRange, "select between 2 and 8 tools")
	}
	if prefs.HoursPerWeek <= 0 {
		prefs.HoursPerWeek = normalize.DefaultHoursPerWeek
	}

	rawProfile, _ := json.Marshal(profile)
	rawPrefs, _ := json.Marshal(prefs)
	key := cacheKey("generate_roadmap", string(rawProfile), strings.Join(tools, ","), string(rawPrefs))
	result, err := s.cached(ctx, "generate_roadmap", key, func(ctx context.Context) (any, error) {
		reply, err := s.client.Chat(ctx, []models.ChatMessage{
			{Role: "user", Content: buildGeneratePrompt(profile, tools, prefs)},
		}, ChatOptions{Temperature: 0.7, JSONMode: true})
		if err != nil {
			return nil, err
		}
		doc, err := ExtractJSON(reply)
		if err != nil {
			return nil, err
		}
		roadmap, err := normalize.Document(doc)
		if err != nil {
			return nil, err
		}
		roadmap.SelectedTools = toolList(tools)
		roadmap.Preferences = prefs
		return roadmap, nil
	})
	if err != nil {
		return nil, err
	}
	// 缓存里的实例是共享的,调用方会就地改 Resources/Progress,
	// 必须发拷贝出去
	return result.(*models.Roadmap).Clone(), nil
}

// Chat 回答关于路线图的自由提问,返回纯文本。
func (s *Service) Chat(ctx context.Context, profile *models.Profile, roadmapSummary, message string, history []models.ChatMessage) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", apperr.Validation(apperr.CodeInvalidRequest, "message is empty")
	}
	rawHistory, _ := json.Marshal(history)
	key := cacheKey("chat", message, roadmapSummary, string(rawHistory))
	result, err := s.cached(ctx, "chat", key, func(ctx context.Context) (any, error) {
		reply, err := s.client.Chat(ctx, []models.ChatMessage{
			{Role: "user", Content: buildChatPrompt(profile, roadmapSummary, history, message)},
		}, ChatOptions{Temperature: 0.7})
		if err != nil {
			return nil, err
		}
		return stripFences(reply), nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// cached 先查缓存,未命中时经 singleflight 去重后调用 fn,
// 成功结果写回缓存。每次调用都记录指标。
func (s *Service) cached(ctx context.Context, operation, key string, fn func(context.Context) (any, error)) (any, error) {
	if v, ok := s.cache.Get(key); ok {
		metrics.RecordCacheEvent(operation, "hit")
		metrics.RecordAIRequest(operation, "cached")
		return v, nil
	}
	metrics.RecordCacheEvent(operation, "miss")

	start := time.Now()
	v, err, _ := s.group.Do(key, func() (any, error) {
		return fn(ctx)
	})
	metrics.RecordAIDuration(operation, time.Since(start).Seconds())
	if err != nil {
		metrics.RecordAIRequest(operation, "error")
		logger.L().Error("ai operation failed", "operation", operation, "error", err)
		return nil, err
	}
	metrics.RecordAIRequest(operation, "success")
	s.cache.Add(key, v)
	logger.L().Info("ai operation completed",
		"operation", operation, "duration_ms", time.Since(start).Milliseconds())
	return v, nil
}

func cacheKey(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// stripFences 去掉模型偶尔包在回答外面的 markdown 代码栅栏。
func stripFences(reply string) string {
	if !strings.Contains(reply, "```") {
		return strings.TrimSpace(reply)
	}
	var keep []string
	for _, line := range strings.Split(reply, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		keep = append(keep, line)
	}
	return strings.TrimSpace(strings.Join(keep, "\n"))
}

func toolList(names []string) []models.Tool {
	out := make([]models.Tool, 0, len(names))
	for _, n := range names {
		out = append(out, models.Tool{Name: n})
	}
	return out
}

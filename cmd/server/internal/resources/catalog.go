// Package resources 维护一份人工核验过的免费学习资源目录。
// AI 生成的资源链接经常失效,这份目录按工具合并进路线图,
// 保证每个工具至少有几条可用的资源。
package resources

import (
	"strings"

	"github.com/zhaoqin88/roadgen/cmd/server/internal/models"
)

// Entry 是目录里的一条资源,Topics 供主题匹配。
type Entry struct {
	models.Resource
	Topics []string
}

// techToCategory 把工具名映射到目录分类,键不区分大小写。
var techToCategory = map[string]string{
	"html":             "html_css",
	"css":              "html_css",
	"javascript":       "javascript",
	"typescript":       "typescript",
	"react":            "react",
	"node.js":          "nodejs",
	"nodejs":           "nodejs",
	"express":          "nodejs",
	"express.js":       "nodejs",
	"python":           "python",
	"tensorflow":       "ai_ml",
	"pytorch":          "ai_ml",
	"scikit-learn":     "ai_ml",
	"machine learning": "ai_ml",
	"deep learning":    "ai_ml",
	"aws":              "cloud_devops",
	"docker":           "cloud_devops",
	"kubernetes":       "cloud_devops",
	"git":              "cloud_devops",
	"terraform":        "cloud_devops",
	"postgresql":       "databases",
	"mongodb":          "databases",
	"sql":              "databases",
	"graphql":          "graphql",
	"pandas":           "data_science",
	"numpy":            "data_science",
	"data science":     "data_science",
	"go":               "golang",
	"golang":           "golang",
	"rust":             "rust",
}

// ForTool 返回某个工具的核验资源,最多 count 条;未知工具返回空。
func ForTool(tool string, count int) []models.Resource {
	category, ok := techToCategory[strings.ToLower(strings.TrimSpace(tool))]
	if !ok {
		return nil
	}
	entries := catalog[category]
	if count > 0 && len(entries) > count {
		entries = entries[:count]
	}
	out := make([]models.Resource, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Resource)
	}
	return out
}

// ForTools 按工具逐个查找并按 URL 去重,返回 工具名 -> 资源 列表。
func ForTools(tools []string, countPerTool int) map[string][]models.Resource {
	out := make(map[string][]models.Resource)
	seen := make(map[string]bool)
	for _, tool := range tools {
		for _, r := range ForTool(tool, countPerTool) {
			if seen[r.URL] {
				continue
			}
			seen[r.URL] = true
			out[tool] = append(out[tool], r)
		}
	}
	return out
}

// ForTopics 返回主题匹配的资源,最多 count 条。
func ForTopics(topics []string, count int) []models.Resource {
	want := make(map[string]bool, len(topics))
	for _, t := range topics {
		want[strings.ToLower(t)] = true
	}
	var out []models.Resource
	for _, entries := range catalog {
		for _, e := range entries {
			for _, topic := range e.Topics {
				if want[strings.ToLower(topic)] {
					out = append(out, e.Resource)
					break
				}
			}
			if count > 0 && len(out) >= count {
				return out
			}
		}
	}
	return out
}

// Merge 把核验资源并入路线图已有的资源表,核验条目排在前面,
// 按 URL 去重。
func Merge(existing map[string][]models.Resource, tools []string, countPerTool int) map[string][]models.Resource {
	verified := ForTools(tools, countPerTool)
	if len(verified) == 0 {
		return existing
	}
	out := make(map[string][]models.Resource, len(verified)+len(existing))
	for tool, list := range verified {
		out[tool] = append([]models.Resource(nil), list...)
	}
	for tool, list := range existing {
		seen := make(map[string]bool)
		for _, r := range out[tool] {
			seen[r.URL] = true
		}
		for _, r := range list {
			if r.URL != "" && seen[r.URL] {
				continue
			}
			out[tool] = append(out[tool], r)
		}
	}
	return out
}

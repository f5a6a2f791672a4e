package resources

import (
	"strings"
	"testing"

	"github.com/zhaoqin88/roadgen/cmd/server/internal/models"
)

func TestForToolCaseInsensitive(t *testing.T) {
	for _, name := range []string{"Docker", "docker", " DOCKER "} {
		got := ForTool(name, 0)
		if len(got) == 0 {
			t.Errorf("ForTool(%q) returned nothing", name)
		}
	}
	if got := ForTool("COBOL", 0); got != nil {
		t.Errorf("unknown tool should return nil, got %v", got)
	}
}

func TestForToolCount(t *testing.T) {
	all := ForTool("Docker", 0)
	if len(all) < 2 {
		t.Fatalf("expected multiple cloud_devops resources, got %d", len(all))
	}
	limited := ForTool("Docker", 1)
	if len(limited) != 1 {
		t.Errorf("count=1 returned %d entries", len(limited))
	}
}

// Docker 与 Kubernetes 共享 cloud_devops 分类,合并结果必须按 URL 去重。
func TestForToolsDeduplicates(t *testing.T) {
	out := ForTools([]string{"Docker", "Kubernetes"}, 0)
	seen := make(map[string]bool)
	for tool, list := range out {
		for _, r := range list {
			if seen[r.URL] {
				t.Errorf("duplicate URL %s under %s", r.URL, tool)
			}
			seen[r.URL] = true
		}
	}
	if len(out["Docker"]) == 0 {
		t.Error("Docker got no resources")
	}
}

func TestForTopics(t *testing.T) {
	out := ForTopics([]string{"flexbox"}, 3)
	if len(out) == 0 {
		t.Fatal("no resources matched topic flexbox")
	}
	for _, r := range out {
		if !strings.Contains(strings.ToLower(r.URL), "css") && !strings.Contains(strings.ToLower(r.Title), "css") {
			t.Errorf("unexpected match: %+v", r)
		}
	}
}

func TestMergeVerifiedFirst(t *testing.T) {
	existing := map[string][]models.Resource{
		"Docker": {
			{Title: "Some AI-suggested course", URL: "https://example.com/docker"},
			{Title: "Duplicate of verified", URL: "https://docs.docker.com/get-started/"},
		},
	}
	merged := Merge(existing, []string{"Docker"}, 2)
	list := merged["Docker"]
	if len(list) == 0 {
		t.Fatal("merge produced nothing")
	}
	if list[0].Platform != "docs.docker.com" {
		t.Errorf("verified entry not first: %+v", list[0])
	}
	urls := make(map[string]int)
	for _, r := range list {
		urls[r.URL]++
	}
	if urls["https://docs.docker.com/get-started/"] != 1 {
		t.Error("verified URL duplicated after merge")
	}
	if urls["https://example.com/docker"] != 1 {
		t.Error("existing non-duplicate entry lost")
	}
}

// 目录里的条目必须字段齐全,免得接口吐出半空资源。
func TestCatalogEntriesComplete(t *testing.T) {
	for category, entries := range catalog {
		for _, e := range entries {
			if e.Title == "" || e.URL == "" || e.Platform == "" || e.Type == "" {
				t.Errorf("incomplete entry in %s: %+v", category, e)
			}
			if !strings.HasPrefix(e.URL, "https://") {
				t.Errorf("non-https URL in %s: %s", category, e.URL)
			}
			if !e.IsFree {
				t.Errorf("catalog is free-resources only, %s has paid entry %s", category, e.Title)
			}
		}
	}
}

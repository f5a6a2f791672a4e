package ai

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zhaoqin88/roadgen/cmd/server/internal/apperr"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/models"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/normalize"
)

// fakeCompleter 按脚本返回回复,并统计调用次数。
type fakeCompleter struct {
	mu      sync.Mutex
	calls   int32
	reply   string
	err     error
	delay   time.Duration
	lastMsg string
}

func (f *fakeCompleter) Chat(ctx context.Context, messages []models.ChatMessage, _ ChatOptions) (string, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	f.lastMsg = messages[len(messages)-1].Content
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeCompleter) Name() string { return "fake" }

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name  string
		reply string
		key   string
	}{
		{"plain object", `{"skills":["Go"]}`, "skills"},
		{"json fence", "Here you go:\n```json\n{\"skills\":[\"Go\"]}\n```", "skills"},
		{"bare fence", "```\n{\"skills\":[\"Go\"]}\n```", "skills"},
		{"prose around object", "Sure! {\"skills\":[\"Go\"]} Hope that helps.", "skills"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := ExtractJSON(tc.reply)
			if err != nil {
				t.Fatalf("ExtractJSON: %v", err)
			}
			if _, ok := doc[tc.key]; !ok {
				t.Errorf("missing key %q in %v", tc.key, doc)
			}
		})
	}

	if _, err := ExtractJSON("no json here at all"); !apperr.IsKind(err, apperr.KindUpstream) {
		t.Errorf("non-JSON reply: err = %v, want upstream", err)
	}
}

func TestAnalyzeResumeParsesProfile(t *testing.T) {
	fake := &fakeCompleter{reply: `{
		"skills": ["Python", "SQL"],
		"years_of_experience": 4.5,
		"current_role": "Data Analyst",
		"experience_level": "Mid-Level",
		"domains": ["Data"],
		"recent_tech": ["dbt"],
		"top_skills": ["SQL"]
	}`}
	svc := NewService(fake, 8, time.Minute)

	p, err := svc.AnalyzeResume(context.Background(), "resume text")
	if err != nil {
		t.Fatalf("AnalyzeResume: %v", err)
	}
	if p.CurrentRole != "Data Analyst" || p.YearsExperience != 4.5 {
		t.Errorf("profile = %+v", p)
	}
	if len(p.Skills) != 2 {
		t.Errorf("skills = %v", p.Skills)
	}
}

func TestAnalyzeResumeEmptyInput(t *testing.T) {
	svc := NewService(&fakeCompleter{}, 8, time.Minute)
	_, err := svc.AnalyzeResume(context.Background(), "   ")
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("err = %v, want validation", err)
	}
}

// 模型漏掉字段时画像按空值补齐,不报错。
func TestAnalyzeResumeMissingFieldsDefaulted(t *testing.T) {
	fake := &fakeCompleter{reply: `{"skills": ["Go"]}`}
	svc := NewService(fake, 8, time.Minute)

	p, err := svc.AnalyzeResume(context.Background(), "resume")
	if err != nil {
		t.Fatalf("AnalyzeResume: %v", err)
	}
	if p.CurrentRole != "" || p.YearsExperience != 0 || p.Domains != nil {
		t.Errorf("missing fields not defaulted: %+v", p)
	}
}

func TestAnalyzeResumeCaches(t *testing.T) {
	fake := &fakeCompleter{reply: `{"skills": ["Go"]}`}
	svc := NewService(fake, 8, time.Minute)

	for i := 0; i < 3; i++ {
		if _, err := svc.AnalyzeResume(context.Background(), "same resume"); err != nil {
			t.Fatalf("AnalyzeResume: %v", err)
		}
	}
	if n := atomic.LoadInt32(&fake.calls); n != 1 {
		t.Errorf("upstream calls = %d, want 1 (cache)", n)
	}

	// 不同输入不命中缓存
	if _, err := svc.AnalyzeResume(context.Background(), "different resume"); err != nil {
		t.Fatalf("AnalyzeResume: %v", err)
	}
	if n := atomic.LoadInt32(&fake.calls); n != 2 {
		t.Errorf("upstream calls = %d, want 2", n)
	}
}

// 并发相同请求只允许一次上游调用。
func TestAnalyzeResumeSingleflight(t *testing.T) {
	fake := &fakeCompleter{reply: `{"skills": ["Go"]}`, delay: 50 * time.Millisecond}
	svc := NewService(fake, 8, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.AnalyzeResume(context.Background(), "concurrent resume")
		}()
	}
	wg.Wait()
	if n := atomic.LoadInt32(&fake.calls); n != 1 {
		t.Errorf("upstream calls = %d, want 1 (singleflight)", n)
	}
}

func TestRecommendDomains(t *testing.T) {
	fake := &fakeCompleter{reply: `{
		"recommendations": [
			{
				"domain": "DevOps",
				"reason": "natural progression",
				"difficulty": "Moderate",
				"key_tools": [
					{"name": "Docker", "description": "containers", "learning_time_weeks": 3},
					{"name": "Kubernetes", "description": "orchestration", "learning_time_weeks": 6}
				]
			}
		]
	}`}
	svc := NewService(fake, 8, time.Minute)

	recs, tools, err := svc.RecommendDomains(context.Background(), &models.Profile{Skills: []string{"Linux"}})
	if err != nil {
		t.Fatalf("RecommendDomains: %v", err)
	}
	if len(recs) != 1 || recs[0].Domain != "DevOps" {
		t.Errorf("recs = %+v", recs)
	}
	if len(tools) != 2 || tools[0].Name != "Docker" || tools[0].EstimatedTimeWeeks != 3 {
		t.Errorf("tools = %+v", tools)
	}
	if tools[1].Category != "DevOps" {
		t.Errorf("tool category = %q, want DevOps", tools[1].Category)
	}
}

func TestGenerateRoadmapNormalizesPreview(t *testing.T) {
	fake := &fakeCompleter{reply: "```json\n" + `{
		"total_duration_weeks": 12,
		"phases": [
			{
				"phase_number": 1,
				"title": "Containers",
				"duration_weeks": 5,
				"tools_covered": ["Docker"],
				"learning_objectives": ["Understand images", "Write Dockerfiles"],
				"milestones": ["Run first container"]
			}
		],
		"career_insights": "strong combination"
	}` + "\n```"}
	svc := NewService(fake, 8, time.Minute)

	r, err := svc.GenerateRoadmap(context.Background(),
		&models.Profile{Skills: []string{"Linux"}},
		[]string{"Docker", "Kubernetes"},
		models.LearningPreferences{HoursPerWeek: 10})
	if err != nil {
		t.Fatalf("GenerateRoadmap: %v", err)
	}
	if r.TotalWeeks != 12 || r.CareerInsights != "strong combination" {
		t.Errorf("roadmap = %+v", r)
	}
	p := r.Phases[0]
	if len(p.LearningObjectives) != 2 || p.LearningObjectives[0].ID == "" {
		t.Errorf("objectives not wrapped: %+v", p.LearningObjectives)
	}
	if !p.Expanded {
		t.Error("first phase should start expanded")
	}
	if len(r.SelectedTools) != 2 {
		t.Errorf("selected tools = %+v", r.SelectedTools)
	}
	if r.Preferences.HoursPerWeek != 10 {
		t.Errorf("preferences = %+v", r.Preferences)
	}
}

func TestGenerateRoadmapCacheHitDoesNotAlias(t *testing.T) {
	fake := &fakeCompleter{reply: `{
		"phases": [
			{
				"phase_number": 1,
				"title": "Containers",
				"tools_covered": ["Docker"],
				"learning_objectives": ["Understand images"]
			}
		]
	}`}
	svc := NewService(fake, 8, time.Minute)
	profile := &models.Profile{Skills: []string{"Linux"}}
	prefs := models.LearningPreferences{HoursPerWeek: 10}

	first, err := svc.GenerateRoadmap(context.Background(), profile, []string{"Docker", "Kubernetes"}, prefs)
	if err != nil {
		t.Fatalf("GenerateRoadmap: %v", err)
	}
	second, err := svc.GenerateRoadmap(context.Background(), profile, []string{"Docker", "Kubernetes"}, prefs)
	if err != nil {
		t.Fatalf("GenerateRoadmap (cached): %v", err)
	}
	if got := atomic.LoadInt32(&fake.calls); got != 1 {
		t.Fatalf("upstream calls = %d, want 1", got)
	}
	if first == second {
		t.Fatal("cache hit returned the same instance")
	}

	// 调用方就地改一份,不能影响后续命中结果
	first.Progress = 77
	first.Resources = map[string][]models.Resource{"Docker": {{Title: "mutated"}}}
	first.Phases[0].LearningObjectives[0].Completed = true

	third, err := svc.GenerateRoadmap(context.Background(), profile, []string{"Docker", "Kubernetes"}, prefs)
	if err != nil {
		t.Fatalf("GenerateRoadmap (cached again): %v", err)
	}
	if third.Progress != 0 || third.Resources != nil {
		t.Errorf("caller mutation leaked into cache: progress=%d resources=%v", third.Progress, third.Resources)
	}
	if third.Phases[0].LearningObjectives[0].Completed {
		t.Error("checklist mutation leaked into cache")
	}
}

func TestGenerateRoadmapToolCountGuard(t *testing.T) {
	svc := NewService(&fakeCompleter{}, 8, time.Minute)
	profile := &models.Profile{Skills: []string{"Go"}}

	for _, tools := range [][]string{{"one"}, make([]string, 9)} {
		_, err := svc.GenerateRoadmap(context.Background(), profile, tools, models.LearningPreferences{})
		if !apperr.IsKind(err, apperr.KindValidation) {
			t.Errorf("tools=%d err = %v, want validation", len(tools), err)
		}
	}
}

func TestGenerateRoadmapDefaultsHours(t *testing.T) {
	fake := &fakeCompleter{reply: `{"phases":[{"title":"P"}]}`}
	svc := NewService(fake, 8, time.Minute)

	r, err := svc.GenerateRoadmap(context.Background(),
		&models.Profile{}, []string{"Git", "Docker"}, models.LearningPreferences{})
	if err != nil {
		t.Fatalf("GenerateRoadmap: %v", err)
	}
	if r.Preferences.HoursPerWeek != normalize.DefaultHoursPerWeek {
		t.Errorf("hours = %d, want %d", r.Preferences.HoursPerWeek, normalize.DefaultHoursPerWeek)
	}
}

func TestChatStripsFences(t *testing.T) {
	fake := &fakeCompleter{reply: "```\nStay consistent and build projects.\n```"}
	svc := NewService(fake, 8, time.Minute)

	reply, err := svc.Chat(context.Background(), nil, "12-week DevOps plan", "any advice?", nil)
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply != "Stay consistent and build projects." {
		t.Errorf("reply = %q", reply)
	}
}

func TestChatUpstreamErrorPropagates(t *testing.T) {
	fake := &fakeCompleter{err: apperr.UpstreamTimeout("timed out", nil)}
	svc := NewService(fake, 8, time.Minute)

	_, err := svc.Chat(context.Background(), nil, "", "hello?", nil)
	if !apperr.IsTimeout(err) {
		t.Errorf("err = %v, want timeout", err)
	}
}

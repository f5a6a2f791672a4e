package ai

import "github.com/zhaoqin88/roadgen/cmd/server/internal/models"

// profileFromDoc 把模型返回的画像 JSON 转为结构。缺失字段按空值
// 补齐,模型漏字段不应让整个分析失败。
func profileFromDoc(doc map[string]any) *models.Profile {
	p := &models.Profile{
		Skills:          stringList(doc["skills"]),
		TopSkills:       stringList(doc["top_skills"]),
		Domains:         stringList(doc["domains"]),
		RecentTech:      stringList(doc["recent_tech"]),
		CurrentRole:     stringValue(doc["current_role"]),
		ExperienceLevel: stringValue(doc["experience_level"]),
		Summary:         stringValue(doc["summary"]),
	}
	if f, ok := floatValue(doc["years_of_experience"]); ok {
		p.YearsExperience = f
	}
	return p
}

// recommendationsFromDoc 解析方向推荐,并汇总所有方向下的候选工具。
func recommendationsFromDoc(doc map[string]any) ([]models.DomainRecommendation, []models.Tool) {
	rawRecs, _ := doc["recommendations"].([]any)
	recs := make([]models.DomainRecommendation, 0, len(rawRecs))
	var tools []models.Tool
	seen := make(map[string]bool)

	for _, raw := range rawRecs {
		rm, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		rec := models.DomainRecommendation{
			Domain: stringValue(rm["domain"]),
			Reason: stringValue(rm["reason"]),
		}
		if f, ok := floatValue(rm["match_score"]); ok {
			rec.MatchScore = int(f)
		}
		rawTools, _ := rm["key_tools"].([]any)
		for _, rt := range rawTools {
			tm, ok := rt.(map[string]any)
			if !ok {
				continue
			}
			t := models.Tool{
				Name:        stringValue(tm["name"]),
				Description: stringValue(tm["description"]),
				Category:    rec.Domain,
				Difficulty:  stringValue(rm["difficulty"]),
			}
			if f, ok := floatValue(tm["learning_time_weeks"]); ok {
				t.EstimatedTimeWeeks = int(f)
			}
			if t.Name == "" || seen[t.Name] {
				continue
			}
			seen[t.Name] = true
			rec.KeySkills = append(rec.KeySkills, t.Name)
			tools = append(tools, t)
		}
		if rec.Domain != "" {
			recs = append(recs, rec)
		}
	}
	return recs, tools
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

func floatValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

func stringList(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		if s, ok := e.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

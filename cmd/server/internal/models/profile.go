package models

// Profile 表示从简历中提取出的技能画像。
type Profile struct {
	Skills          []string `json:"skills"`
	TopSkills       []string `json:"top_skills,omitempty"`
	Domains         []string `json:"domains,omitempty"`
	RecentTech      []string `json:"recent_tech,omitempty"`
	CurrentRole     string   `json:"current_role,omitempty"`
	ExperienceLevel string   `json:"experience_level,omitempty"`
	YearsExperience float64  `json:"years_experience,omitempty"`
	Summary         string   `json:"summary,omitempty"`
}

// DomainRecommendation 表示针对某个职业方向的推荐结果。
type DomainRecommendation struct {
	Domain      string   `json:"domain"`
	MatchScore  int      `json:"match_score"`
	Reason      string   `json:"reason,omitempty"`
	KeySkills   []string `json:"key_skills,omitempty"`
	GapSkills   []string `json:"gap_skills,omitempty"`
}

// ChatMessage 表示一次对话中的单条消息。
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

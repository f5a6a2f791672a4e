package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/zhaoqin88/roadgen/cmd/server/internal/models"
)

const analyzeResumePrompt = `Analyze this resume and extract information in JSON format:

Resume Text:
%s

Extract:
1. Technical skills (list all programming languages, frameworks, tools, platforms)
2. Years of experience (total professional experience)
3. Current role/title
4. Experience level (Junior/Mid-Level/Senior/Lead)
5. Domain expertise (e.g., Web Dev, Data Science, Cloud, etc.)
6. Recent technologies used (last 2 years)
7. Strongest skills (top 5)

Return ONLY valid JSON:

{
  "skills": ["skill1", "skill2"],
  "years_of_experience": number,
  "current_role": "string",
  "experience_level": "string",
  "domains": ["domain1", "domain2"],
  "recent_tech": ["tech1", "tech2"],
  "top_skills": ["skill1", "skill2"]
}`

const recommendDomainsPrompt = `Given this professional profile:

Current Skills: %s
Experience Level: %s
Years of Experience: %.1f
Current Domains: %s

Recommend 6-8 technology domains they should consider learning, focusing on:
- High market demand
- Natural skill progression from their current expertise
- Emerging technologies
- Career growth potential

For each domain, provide:
- Name
- Why it's recommended for them specifically
- Difficulty level (Easy/Moderate/Challenging based on their background)
- Market demand (High/Medium)
- Key tools/technologies in this domain (5-8 tools)

Return ONLY valid JSON:

{
  "recommendations": [
    {
      "domain": "string",
      "reason": "string",
      "difficulty": "string",
      "market_demand": "string",
      "key_tools": [
        {
          "name": "string",
          "description": "string",
          "learning_time_weeks": number
        }
      ]
    }
  ]
}`

const generateRoadmapPrompt = `Create a detailed, personalized learning roadmap for this professional:

PROFILE:
- Current Skills: %s
- Experience: %.1f years
- Level: %s

LEARNING GOALS:
- Target Tools: %s
- Available Time: %d hours/week
- Learning Style: %s
- Deadline: %s

Generate a comprehensive roadmap with:

1. LEARNING PHASES (3-4 phases):
   - Phase number and title
   - Duration in weeks
   - Tools covered in this phase
   - Key learning objectives
   - Milestones to achieve

2. CURATED RESOURCES (for each tool):
   - Resource title
   - Type (Course/Video/Article/Documentation/Book)
   - Platform (Coursera/YouTube/Medium/Official Docs)
   - URL (real URLs to actual resources)
   - Difficulty level
   - Estimated time to complete
   - Is it free? (true/false)

3. CAREER INSIGHTS:
   - How these skills fit together
   - Career paths possible
   - Market value of this skill combination

Return ONLY valid JSON with this exact structure:

{
  "total_duration_weeks": number,
  "phases": [
    {
      "phase_number": number,
      "title": "string",
      "duration_weeks": number,
      "tools_covered": ["tool1", "tool2"],
      "learning_objectives": ["obj1", "obj2"],
      "milestones": ["milestone1", "milestone2"]
    }
  ],
  "resources": {
    "tool1": [
      {
        "title": "string",
        "type": "string",
        "platform": "string",
        "url": "string",
        "difficulty": "string",
        "estimated_time": "string",
        "is_free": boolean
      }
    ]
  },
  "career_insights": "string"
}

Be specific, practical, and realistic. Use real resource URLs.`

const chatPrompt = `You are a friendly career mentor helping a professional with their learning journey.

USER PROFILE:
%s

THEIR ROADMAP:
%s

CONVERSATION HISTORY:
%s

USER QUESTION:
%s

Provide a helpful, encouraging, and specific answer. Be conversational and supportive.
If they ask about timeline, difficulty, resources, or strategy, give actionable advice.
Keep response under 200 words.`

func buildAnalyzePrompt(resumeText string) string {
	return fmt.Sprintf(analyzeResumePrompt, resumeText)
}

func buildRecommendPrompt(p *models.Profile) string {
	return fmt.Sprintf(recommendDomainsPrompt,
		joinOr(p.Skills, "none listed"),
		orDefault(p.ExperienceLevel, "Unknown"),
		p.YearsExperience,
		joinOr(p.Domains, "none listed"))
}

func buildGeneratePrompt(p *models.Profile, tools []string, prefs models.LearningPreferences) string {
	return fmt.Sprintf(generateRoadmapPrompt,
		joinOr(p.Skills, "none listed"),
		p.YearsExperience,
		orDefault(p.ExperienceLevel, "Unknown"),
		strings.Join(tools, ", "),
		prefs.HoursPerWeek,
		orDefault(prefs.LearningStyle, "Balanced"),
		orDefault(prefs.Deadline, "Flexible"))
}

func buildChatPrompt(p *models.Profile, roadmapSummary string, history []models.ChatMessage, message string) string {
	profileText := "Not available"
	if p != nil {
		if raw, err := json.MarshalIndent(p, "", "  "); err == nil {
			profileText = string(raw)
		}
	}
	historyText := "No previous conversation"
	if len(history) > 0 {
		var sb strings.Builder
		for _, m := range history {
			sb.WriteString(roleLabel(m.Role))
			sb.WriteString(": ")
			sb.WriteString(m.Content)
			sb.WriteString("\n")
		}
		historyText = strings.TrimRight(sb.String(), "\n")
	}
	return fmt.Sprintf(chatPrompt,
		profileText,
		orDefault(roadmapSummary, "Not available"),
		historyText,
		message)
}

func roleLabel(role string) string {
	switch role {
	case "user":
		return "User"
	case "assistant":
		return "Assistant"
	default:
		return role
	}
}

func joinOr(list []string, fallback string) string {
	if len(list) == 0 {
		return fallback
	}
	return strings.Join(list, ", ")
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

package ai

import (
	"encoding/json"
	"strings"

	"github.com/zhaoqin88/roadgen/cmd/server/internal/apperr"
)

// ExtractJSON pulls a JSON document out of a model reply. Models often wrap
// the payload in ```json fences or add prose around it; strip fences first,
// then fall back to the outermost brace pair.
func ExtractJSON(reply string) (map[string]any, error) {
	candidate := strings.TrimSpace(reply)

	if idx := strings.Index(candidate, "```json"); idx >= 0 {
		candidate = candidate[idx+len("```json"):]
		if end := strings.Index(candidate, "```"); end >= 0 {
			candidate = candidate[:end]
		}
	} else if idx := strings.Index(candidate, "```"); idx >= 0 {
		candidate = candidate[idx+len("```"):]
		if end := strings.Index(candidate, "```"); end >= 0 {
			candidate = candidate[:end]
		}
	}
	candidate = strings.TrimSpace(candidate)

	if !strings.HasPrefix(candidate, "{") {
		start := strings.Index(candidate, "{")
		end := strings.LastIndex(candidate, "}")
		if start < 0 || end <= start {
			return nil, apperr.Upstream("AI reply contained no JSON object", nil)
		}
		candidate = candidate[start : end+1]
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(candidate), &out); err != nil {
		return nil, apperr.Upstream("AI reply was not valid JSON", err)
	}
	return out, nil
}

package guardian

import (
	"encoding/json"
	"strings"
)

// ParseRisks decodes the risk list a persona pass produced. Generated text is not
// trusted: markdown fences are stripped, a {"risks": [...]} wrapper is accepted, and
// anything else that is not a JSON array of objects yields no risks.
func ParseRisks(raw string) []map[string]interface{} {
	text := stripFence(strings.TrimSpace(raw))
	if text == "" {
		return []map[string]interface{}{}
	}

	var items []interface{}
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		var wrapped struct {
			Risks []interface{} `json:"risks"`
		}
		if err := json.Unmarshal([]byte(text), &wrapped); err != nil {
			return []map[string]interface{}{}
		}
		items = wrapped.Risks
	}

	risks := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]interface{}); ok {
			risks = append(risks, m)
		}
	}
	return risks
}

func stripFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	// drop the language tag on the opening fence
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	} else {
		// single-line fence: the body starts at the first bracket
		text = strings.TrimLeft(text, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

package bot

import (
	"encoding/json"
	"regexp"
	"strings"
)

var jsonFenceRe = regexp.MustCompile("(?is)```json\\s*(.*?)```")

// extractFirstJSON pulls the first JSON object out of model output into
// out, tolerating prose around it. Tries a direct parse, then the slice
// between the first '{' and last '}', then a fenced ```json block.
// Reports false when no parse succeeds; the model boundary is untrusted
// and a failed extraction must never fail a turn.
func extractFirstJSON(text string, out any) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}

	if json.Unmarshal([]byte(text), out) == nil {
		return true
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		if json.Unmarshal([]byte(text[start:end+1]), out) == nil {
			return true
		}
	}

	if m := jsonFenceRe.FindStringSubmatch(text); len(m) == 2 {
		if json.Unmarshal([]byte(m[1]), out) == nil {
			return true
		}
	}

	return false
}

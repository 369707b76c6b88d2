package chat

import (
	"encoding/json"
	"regexp"
)

var jsonFenceRe = regexp.MustCompile("```json\\s*([\\s\\S]*?)\\s*```")

// ParseSuggestions extracts the suggestion list from a raw model response.
// It is total: a missing fence, malformed JSON, or a missing key all yield
// an empty list.
func ParseSuggestions(raw string) []string {
	match := jsonFenceRe.FindStringSubmatch(raw)
	if match == nil {
		return nil
	}

	var payload struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(match[1]), &payload); err != nil {
		return nil
	}

	return payload.Suggestions
}

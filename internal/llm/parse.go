package llm

import (
	"encoding/json"
	"strings"
)

// ExtractJSON parses model output into v after removing leading and trailing
// triple-backtick fences (with or without a "json" language tag) and
// surrounding whitespace. It fails closed: no partial recovery is attempted.
func ExtractJSON(raw string, v any) error {
	cleaned := StripFences(raw)
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return &ErrMalformedOutput{Err: err}
	}
	return nil
}

// StripFences removes a leading and trailing Markdown code fence from text
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimPrefix(s, "json")
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
	}

	return strings.TrimSpace(s)
}

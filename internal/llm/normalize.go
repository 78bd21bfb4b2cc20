package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"todo-platform/internal/domain"
)

var (
	fenceOpen  = regexp.MustCompile("^```(?:json)?\\s*")
	fenceClose = regexp.MustCompile("\\s*```\\s*$")
)

// normalize turns the raw model output into a creation record. Field
// normalization is independent per field; only an empty or non-object
// response fails.
func normalize(raw, original string) (*ParsedTodo, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, &ParseError{Reason: "model returned no content"}
	}

	// Models occasionally wrap the object in a markdown fence despite the
	// prompt forbidding it.
	raw = fenceOpen.ReplaceAllString(raw, "")
	raw = fenceClose.ReplaceAllString(raw, "")
	raw = strings.TrimSpace(raw)

	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		log.Warn().Str("raw", snippet(raw)).Err(err).Msg("llm output is not valid JSON")
		return nil, &ParseError{Reason: "model output is not valid JSON", Err: err}
	}
	data, ok := decoded.(map[string]any)
	if !ok {
		return nil, &ParseError{Reason: "model output is not a JSON object"}
	}

	parsed := &ParsedTodo{
		Title:       normalizeTitle(data["title"], original),
		Description: normalizeDescription(data["description"]),
		Status:      domain.StatusPending,
		Priority:    normalizePriority(data["priority"]),
		DueDate:     normalizeDueDate(data["due_date"]),
	}
	return parsed, nil
}

func normalizeTitle(value any, original string) string {
	if s, ok := value.(string); ok {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			return trimmed
		}
	}
	runes := []rune(original)
	if len(runes) > 100 {
		runes = runes[:100]
	}
	if fallback := strings.TrimSpace(string(runes)); fallback != "" {
		return fallback
	}
	return untitledFallback
}

func normalizeDescription(value any) *string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil
		}
		return &trimmed
	case bool:
		if !v {
			return nil
		}
	case float64:
		if v == 0 {
			return nil
		}
	case []any:
		if len(v) == 0 {
			return nil
		}
	case map[string]any:
		if len(v) == 0 {
			return nil
		}
	}
	// Coerce other truthy values to their string form.
	coerced := fmt.Sprintf("%v", value)
	return &coerced
}

func normalizeDueDate(value any) *string {
	s, ok := value.(string)
	if !ok {
		return nil
	}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func normalizePriority(value any) string {
	if s, ok := value.(string); ok {
		if lowered := strings.ToLower(s); domain.ValidPriority(lowered) {
			return lowered
		}
	}
	return domain.PriorityMedium
}

package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"vidquiz/internal/domain"
)

// batchPayload is the structured shape expected inside a generation response.
type batchPayload struct {
	Groups []domain.GeneratedQuestionGroup `json:"questions"`
}

var (
	errNoPayload          = errors.New("no JSON object found in generated text")
	errEmptyGroups        = errors.New("generated payload has no question groups")
	errPlaceholderContent = errors.New("generated payload starts with an empty question")
)

// ExtractQuestionGroups pulls the substring between the first '{' and the
// last '}' out of raw generated text, parses it, and validates it carries at
// least one group whose first question has non-empty text. A validation
// error means the batch generation call should be retried.
func ExtractQuestionGroups(raw string) ([]domain.GeneratedQuestionGroup, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, errNoPayload
	}

	var payload batchPayload
	if err := json.Unmarshal([]byte(raw[start:end+1]), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse generated payload: %w", err)
	}

	if len(payload.Groups) == 0 {
		return nil, errEmptyGroups
	}
	first := payload.Groups[0]
	if len(first.Questions) == 0 || strings.TrimSpace(first.Questions[0].Question) == "" {
		return nil, errPlaceholderContent
	}

	return payload.Groups, nil
}

package domain

import "fmt"

// QuestionStyle selects the prompt treatment for a segment's questions.
type QuestionStyle string

const (
	StyleAnalytical QuestionStyle = "analytical"
	StyleCaseStudy  QuestionStyle = "case_study"
)

// ParseQuestionStyle validates a caller-supplied style string.
func ParseQuestionStyle(s string) (QuestionStyle, error) {
	switch QuestionStyle(s) {
	case StyleAnalytical, StyleCaseStudy:
		return QuestionStyle(s), nil
	default:
		return "", NewValidationError(fmt.Sprintf("unknown question style: %q", s))
	}
}

// SegmentRequest pairs a Segment with how many questions to generate for it
// and in which style. One-to-one with Segment.
type SegmentRequest struct {
	Segment       Segment
	QuestionCount int
	Style         QuestionStyle
}

// Batch is an ordered, non-empty group of SegmentRequests submitted together
// in one generation call. A batch never splits a single segment's request.
type Batch struct {
	Requests []SegmentRequest
}

// TotalQuestions returns the summed desired question count of the batch.
func (b Batch) TotalQuestions() int {
	total := 0
	for _, r := range b.Requests {
		total += r.QuestionCount
	}
	return total
}

// GeneratedQuestion is one raw multiple-choice question parsed out of a
// generation response.
type GeneratedQuestion struct {
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correct_answer_index"`
}

// GeneratedQuestionGroup is the raw per-segment output parsed from one
// generation call. Groups align positionally with the batch's requests.
type GeneratedQuestionGroup struct {
	CaseStudy string              `json:"case_study,omitempty"`
	Questions []GeneratedQuestion `json:"questions"`
}

// Question is the normalized output record. Segment is the 1-based global
// segment index assigned during assembly, independent of batching.
type Question struct {
	Question      string `json:"question"`
	Option1       string `json:"option_1"`
	Option2       string `json:"option_2"`
	Option3       string `json:"option_3"`
	Option4       string `json:"option_4"`
	CorrectAnswer int    `json:"correct_answer"`
	Segment       int    `json:"segment"`
}

package dto

import (
	"fmt"

	"vidquiz/internal/domain"
)

// ProcessVideoRequest is the request body for generating segment questions
// from a video.
type ProcessVideoRequest struct {
	SourceURL      string    `json:"source_url"`
	Timestamps     []float64 `json:"timestamps,omitempty"`
	QuestionCounts []int     `json:"question_counts,omitempty"`
	QuestionStyles []string  `json:"question_styles,omitempty"`
}

// Validate checks the request before it reaches the pipeline.
func (r *ProcessVideoRequest) Validate() error {
	if r.SourceURL == "" {
		return domain.NewValidationError("source_url is required")
	}
	for i, c := range r.QuestionCounts {
		if c < 0 {
			return domain.NewValidationError(fmt.Sprintf("question_counts[%d] must be >= 0", i))
		}
	}
	for _, s := range r.QuestionStyles {
		if _, err := domain.ParseQuestionStyle(s); err != nil {
			return err
		}
	}
	return nil
}

// Styles converts the raw style strings to domain styles. Validate must have
// been called first.
func (r *ProcessVideoRequest) Styles() []domain.QuestionStyle {
	styles := make([]domain.QuestionStyle, 0, len(r.QuestionStyles))
	for _, s := range r.QuestionStyles {
		styles = append(styles, domain.QuestionStyle(s))
	}
	return styles
}

// SegmentResponse represents one timed segment in the API response
type SegmentResponse struct {
	Text      string  `json:"text"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	Title     string  `json:"title,omitempty"`
	SourceURL string  `json:"source_url,omitempty"`
}

// QuestionResponse represents one generated question in the API response
type QuestionResponse struct {
	Question      string `json:"question"`
	Option1       string `json:"option_1"`
	Option2       string `json:"option_2"`
	Option3       string `json:"option_3"`
	Option4       string `json:"option_4"`
	CorrectAnswer int    `json:"correct_answer"`
	Segment       int    `json:"segment"`
}

// ProcessVideoResponse is the full pipeline result for one video
type ProcessVideoResponse struct {
	Segments      []SegmentResponse  `json:"segments"`
	Questions     []QuestionResponse `json:"questions"`
	FailedBatches int                `json:"failed_batches"`
}

// FromPipelineResult maps a domain result into the response shape.
func FromPipelineResult(result *domain.PipelineResult) *ProcessVideoResponse {
	resp := &ProcessVideoResponse{
		Segments:      make([]SegmentResponse, 0, len(result.Segments)),
		Questions:     make([]QuestionResponse, 0, len(result.Questions)),
		FailedBatches: result.FailedBatches,
	}
	for _, seg := range result.Segments {
		resp.Segments = append(resp.Segments, SegmentResponse{
			Text:      seg.Text,
			StartTime: seg.StartTime,
			EndTime:   seg.EndTime,
			Title:     seg.Title,
			SourceURL: seg.SourceURL,
		})
	}
	for _, q := range result.Questions {
		resp.Questions = append(resp.Questions, QuestionResponse{
			Question:      q.Question,
			Option1:       q.Option1,
			Option2:       q.Option2,
			Option3:       q.Option3,
			Option4:       q.Option4,
			CorrectAnswer: q.CorrectAnswer,
			Segment:       q.Segment,
		})
	}
	return resp
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}

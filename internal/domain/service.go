package domain

import "context"

// ProcessRequest is the pipeline entry point input: a content identifier plus
// optional per-segment boundaries, question counts, and styles. Counts and
// styles align positionally with the segments produced for the source;
// missing entries fall back to pipeline defaults.
type ProcessRequest struct {
	SourceURL      string
	Timestamps     []float64
	QuestionCounts []int
	Styles         []QuestionStyle
}

// PipelineResult is the full outcome of one pipeline run. Segments and
// Questions are in source chronological order; Question.Segment values are
// 1-based, monotonic, and gapless across the run. FailedBatches counts
// batches that were skipped as irrecoverable (their segments carry no
// questions but still appear in Segments).
type PipelineResult struct {
	Segments      []Segment  `json:"segments"`
	Questions     []Question `json:"questions"`
	FailedBatches int        `json:"failed_batches"`
}

// VideoPipeline turns one video into timed segments plus generated
// multiple-choice questions.
type VideoPipeline interface {
	Process(ctx context.Context, req ProcessRequest) (*PipelineResult, error)
}

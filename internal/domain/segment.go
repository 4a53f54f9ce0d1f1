package domain

// CaptionEntry is one timed entry from a caption/transcript source.
type CaptionEntry struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// End returns the time at which the entry stops being displayed.
func (e CaptionEntry) End() float64 {
	return e.Start + e.Duration
}

// Transcript is the full caption stream for one video, plus the title the
// source reports for it. An empty Entries slice means captions are
// unavailable and the audio fallback should be used.
type Transcript struct {
	Title   string         `json:"title"`
	Entries []CaptionEntry `json:"entries"`
}

// Segment is a contiguous time-bounded slice of a video's transcript.
// Immutable once created; ordered by StartTime. Title and SourceURL are
// shared run metadata stamped on by the pipeline for caller convenience.
type Segment struct {
	Text      string  `json:"text"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	Title     string  `json:"title,omitempty"`
	SourceURL string  `json:"source_url,omitempty"`
}

// AudioClip is a decoded mono audio stream used by the fallback path when no
// captions exist.
type AudioClip struct {
	Samples    []float64 `json:"samples"`
	SampleRate int       `json:"sample_rate"`
}

// Duration returns the clip length in seconds (sample count over rate).
func (c *AudioClip) Duration() float64 {
	if c == nil || c.SampleRate <= 0 {
		return 0
	}
	return float64(len(c.Samples)) / float64(c.SampleRate)
}

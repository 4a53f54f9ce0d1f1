package service

import (
	"sort"
	"strings"

	"vidquiz/internal/domain"
)

// defaultBoundaryCount is the number of equal-width segments used when the
// caller provides no boundary timestamps.
const defaultBoundaryCount = 4

// Segmenter turns a timed caption stream plus boundary timestamps into
// ordered time-bounded segments.
type Segmenter struct{}

// NewSegmenter creates a new Segmenter.
func NewSegmenter() *Segmenter {
	return &Segmenter{}
}

// resolveBoundaries sorts the given boundaries ascending and appends
// maxEnd+1 as a sentinel so the final entries are always captured. With no
// boundaries given it computes defaultBoundaryCount equal-width boundaries
// over [0, maxEnd).
func resolveBoundaries(boundaries []float64, maxEnd float64) []float64 {
	resolved := make([]float64, 0, len(boundaries)+1)
	if len(boundaries) == 0 {
		width := maxEnd / defaultBoundaryCount
		for i := 0; i < defaultBoundaryCount; i++ {
			resolved = append(resolved, width*float64(i))
		}
	} else {
		resolved = append(resolved, boundaries...)
		sort.Float64s(resolved)
	}
	return append(resolved, maxEnd+1)
}

// Segment walks the entries in order, accumulating text into the current
// segment while the entry starts before the next boundary; when an entry
// reaches or passes the next boundary the current segment is closed with its
// [boundary_i, boundary_i+1) range and the walk advances one boundary before
// appending the entry. The final open segment is always flushed. An empty
// stream yields an empty list, not an error.
func (s *Segmenter) Segment(entries []domain.CaptionEntry, boundaries []float64) []domain.Segment {
	if len(entries) == 0 {
		return nil
	}

	maxEnd := 0.0
	for _, e := range entries {
		if end := e.End(); end > maxEnd {
			maxEnd = end
		}
	}

	bounds := resolveBoundaries(boundaries, maxEnd)

	var segments []domain.Segment
	var parts []string
	idx := 0
	for _, e := range entries {
		// idx+2 stays in range so there is always an end boundary for the
		// segment being opened; once the last interval is current, every
		// remaining entry attaches to it.
		if idx+2 < len(bounds) && e.Start >= bounds[idx+1] {
			segments = append(segments, domain.Segment{
				Text:      strings.TrimSpace(strings.Join(parts, " ")),
				StartTime: bounds[idx],
				EndTime:   bounds[idx+1],
			})
			parts = parts[:0]
			idx++
		}
		parts = append(parts, e.Text)
	}

	segments = append(segments, domain.Segment{
		Text:      strings.TrimSpace(strings.Join(parts, " ")),
		StartTime: bounds[idx],
		EndTime:   bounds[idx+1],
	})

	return segments
}

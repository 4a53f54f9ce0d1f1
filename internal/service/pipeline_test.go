package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"vidquiz/internal/config"
	"vidquiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSourceURL = "https://videos.example/v/99"

func testConfig() *config.Config {
	return &config.Config{
		Pipeline: config.PipelineConfig{
			MaxBatchQuota:        25,
			DefaultQuestionCount: 2,
			CallMaxAttempts:      3,
			CallBackoffStep:      time.Nanosecond,
			BatchMaxAttempts:     5,
			BatchBackoffStep:     time.Nanosecond,
		},
	}
}

// newTestPipeline wires a pipeline whose sleeps are instant.
func newTestPipeline(t *testing.T, gen domain.TextGenerator, captionSource domain.CaptionSource, audio domain.AudioSource, stt domain.SpeechToText, index domain.ContentIndex) domain.VideoPipeline {
	t.Helper()
	cfg := testConfig()
	genClient := NewGenerationClient(gen, RetryPolicy{
		MaxAttempts: cfg.Pipeline.CallMaxAttempts,
		Backoff:     LinearBackoff(cfg.Pipeline.CallBackoffStep),
	}, nil, zap.NewNop())
	return NewVideoPipeline(captionSource, audio, stt, index, genClient, cfg, zap.NewNop())
}

// groupPayload builds a valid generation response with n groups of the given
// question counts.
func groupPayload(counts ...int) string {
	groups := make([]domain.GeneratedQuestionGroup, 0, len(counts))
	for g, n := range counts {
		questions := make([]domain.GeneratedQuestion, 0, n)
		for q := 0; q < n; q++ {
			questions = append(questions, domain.GeneratedQuestion{
				Question:           "generated question",
				Options:            []string{"a", "b", "c", "d"},
				CorrectAnswerIndex: (g + q) % 4,
			})
		}
		groups = append(groups, domain.GeneratedQuestionGroup{Questions: questions})
	}
	payload, _ := json.Marshal(map[string]any{"questions": groups})
	return string(payload)
}

func fortySecondTranscript() *domain.Transcript {
	var entries []domain.CaptionEntry
	for i := 0; i < 10; i++ {
		entries = append(entries, domain.CaptionEntry{
			Text:     "caption",
			Start:    float64(i) * 4,
			Duration: 4,
		})
	}
	return &domain.Transcript{Title: "Test Lecture", Entries: entries}
}

func TestProcessEndToEndWithPadding(t *testing.T) {
	// The documented scenario: 10 captions over 0-40s, default boundaries,
	// counts [3,3,3,3], quota 25. One batch. The capability returns only 2
	// questions for segment 3, so its third record is an empty placeholder.
	gen := new(MockTextGenerator)
	gen.On("Generate", mock.Anything, mock.AnythingOfType("string")).
		Return(groupPayload(3, 3, 2, 3), nil).Once()

	captionSource := new(MockCaptionSource)
	captionSource.On("Fetch", mock.Anything, testSourceURL).Return(fortySecondTranscript(), nil).Once()

	index := new(MockContentIndex)
	index.On("IndexTranscript", mock.Anything, testSourceURL, "Test Lecture", mock.AnythingOfType("string")).Return(nil).Once()

	pipeline := newTestPipeline(t, gen, captionSource, nil, nil, index)
	result, err := pipeline.Process(context.Background(), domain.ProcessRequest{
		SourceURL:      testSourceURL,
		QuestionCounts: []int{3, 3, 3, 3},
	})

	require.NoError(t, err)
	require.Len(t, result.Segments, 4)
	require.Len(t, result.Questions, 12)
	assert.Zero(t, result.FailedBatches)

	// Exactly one generation call: one batch under the quota.
	gen.AssertNumberOfCalls(t, "Generate", 1)

	perSegment := map[int][]domain.Question{}
	for _, q := range result.Questions {
		perSegment[q.Segment] = append(perSegment[q.Segment], q)
	}
	for seg := 1; seg <= 4; seg++ {
		assert.Len(t, perSegment[seg], 3, "segment %d should hold exactly 3 questions", seg)
	}
	for _, seg := range []int{1, 2, 4} {
		for _, q := range perSegment[seg] {
			assert.NotEmpty(t, q.Question)
		}
	}
	assert.Equal(t, "", perSegment[3][2].Question)
	assert.NotEmpty(t, perSegment[3][0].Question)

	// Shared metadata stamped on every segment.
	for _, seg := range result.Segments {
		assert.Equal(t, "Test Lecture", seg.Title)
		assert.Equal(t, testSourceURL, seg.SourceURL)
	}

	index.AssertExpectations(t)
	captionSource.AssertExpectations(t)
}

func TestProcessIndexMonotonicAcrossFailedBatch(t *testing.T) {
	// Two batches; the first returns garbage on every attempt and is skipped.
	// Segment numbering must stay aligned with segment position.
	gen := new(MockTextGenerator)
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool { return strings.Contains(p, "first half") })).
		Return("no json here", nil).Times(5)
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool { return strings.Contains(p, "second half") })).
		Return(groupPayload(2, 2), nil).Once()

	captionSource := new(MockCaptionSource)
	captionSource.On("Fetch", mock.Anything, testSourceURL).Return(&domain.Transcript{
		Title: "T",
		Entries: []domain.CaptionEntry{
			{Text: "first half", Start: 0, Duration: 10},
			{Text: "first half", Start: 10, Duration: 10},
			{Text: "second half", Start: 20, Duration: 10},
			{Text: "second half", Start: 30, Duration: 10},
		},
	}, nil).Once()

	pipeline := newTestPipeline(t, gen, captionSource, nil, nil, nil)
	result, err := pipeline.Process(context.Background(), domain.ProcessRequest{
		SourceURL:      testSourceURL,
		QuestionCounts: []int{13, 12, 13, 12}, // forces two batches at quota 25
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.FailedBatches)
	require.Len(t, result.Segments, 4)

	// Batch 1 (segments 1-2) emitted nothing; batch 2 still numbers its
	// segments 3 and 4.
	segmentsSeen := map[int]bool{}
	for _, q := range result.Questions {
		segmentsSeen[q.Segment] = true
	}
	assert.Equal(t, map[int]bool{3: true, 4: true}, segmentsSeen)
	require.Len(t, result.Questions, 25)
}

func TestProcessValidationRetryThenSuccess(t *testing.T) {
	gen := new(MockTextGenerator)
	gen.On("Generate", mock.Anything, mock.AnythingOfType("string")).Return("{ broken", nil).Twice()
	gen.On("Generate", mock.Anything, mock.AnythingOfType("string")).Return(groupPayload(2), nil).Once()

	captionSource := new(MockCaptionSource)
	captionSource.On("Fetch", mock.Anything, testSourceURL).Return(&domain.Transcript{
		Entries: []domain.CaptionEntry{{Text: "only segment", Start: 0, Duration: 10}},
	}, nil).Once()

	pipeline := newTestPipeline(t, gen, captionSource, nil, nil, nil)
	result, err := pipeline.Process(context.Background(), domain.ProcessRequest{SourceURL: testSourceURL})

	require.NoError(t, err)
	assert.Zero(t, result.FailedBatches)
	assert.Len(t, result.Questions, 2)
	gen.AssertNumberOfCalls(t, "Generate", 3)
}

func TestProcessFatalGenerationErrorAbortsRun(t *testing.T) {
	gen := new(MockTextGenerator)
	gen.On("Generate", mock.Anything, mock.AnythingOfType("string")).
		Return("", domain.NewValidationError("bad request")).Once()

	captionSource := new(MockCaptionSource)
	captionSource.On("Fetch", mock.Anything, testSourceURL).Return(fortySecondTranscript(), nil).Once()

	pipeline := newTestPipeline(t, gen, captionSource, nil, nil, nil)
	_, err := pipeline.Process(context.Background(), domain.ProcessRequest{SourceURL: testSourceURL})

	require.Error(t, err)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrGenerationFailed, domainErr.Code)
	gen.AssertNumberOfCalls(t, "Generate", 1)
}

func TestProcessAudioFallback(t *testing.T) {
	captionSource := new(MockCaptionSource)
	captionSource.On("Fetch", mock.Anything, testSourceURL).Return(&domain.Transcript{}, nil).Once()

	// 40 seconds of audio at 10 samples/sec; default boundaries slice it in 4.
	clip := &domain.AudioClip{Samples: make([]float64, 400), SampleRate: 10}
	audio := new(MockAudioSource)
	audio.On("Decode", mock.Anything, testSourceURL).Return(clip, nil).Once()

	stt := new(MockSpeechToText)
	stt.On("Transcribe", mock.Anything, mock.AnythingOfType("*domain.AudioClip")).Return("spoken text", nil).Times(4)

	gen := new(MockTextGenerator)
	gen.On("Generate", mock.Anything, mock.AnythingOfType("string")).
		Return(groupPayload(2, 2, 2, 2), nil).Once()

	pipeline := newTestPipeline(t, gen, captionSource, audio, stt, nil)
	result, err := pipeline.Process(context.Background(), domain.ProcessRequest{SourceURL: testSourceURL})

	require.NoError(t, err)
	require.Len(t, result.Segments, 4)
	assert.Equal(t, "spoken text", result.Segments[0].Text)
	assert.Equal(t, 0.0, result.Segments[0].StartTime)
	assert.Equal(t, 10.0, result.Segments[0].EndTime)
	assert.Len(t, result.Questions, 8)
	audio.AssertExpectations(t)
	stt.AssertExpectations(t)
}

func TestProcessEmptySourceYieldsEmptyResult(t *testing.T) {
	captionSource := new(MockCaptionSource)
	captionSource.On("Fetch", mock.Anything, testSourceURL).Return(&domain.Transcript{}, nil).Once()

	audio := new(MockAudioSource)
	audio.On("Decode", mock.Anything, testSourceURL).Return(&domain.AudioClip{}, nil).Once()

	gen := new(MockTextGenerator)
	stt := new(MockSpeechToText)

	pipeline := newTestPipeline(t, gen, captionSource, audio, stt, nil)
	result, err := pipeline.Process(context.Background(), domain.ProcessRequest{SourceURL: testSourceURL})

	require.NoError(t, err)
	assert.Empty(t, result.Segments)
	assert.Empty(t, result.Questions)
	gen.AssertNumberOfCalls(t, "Generate", 0)
}

func TestProcessIndexFailureDoesNotAffectGeneration(t *testing.T) {
	gen := new(MockTextGenerator)
	gen.On("Generate", mock.Anything, mock.AnythingOfType("string")).
		Return(groupPayload(2, 2, 2, 2), nil).Once()

	captionSource := new(MockCaptionSource)
	captionSource.On("Fetch", mock.Anything, testSourceURL).Return(fortySecondTranscript(), nil).Once()

	index := new(MockContentIndex)
	index.On("IndexTranscript", mock.Anything, testSourceURL, "Test Lecture", mock.AnythingOfType("string")).
		Return(assert.AnError).Once()

	pipeline := newTestPipeline(t, gen, captionSource, nil, nil, index)
	result, err := pipeline.Process(context.Background(), domain.ProcessRequest{SourceURL: testSourceURL})

	require.NoError(t, err)
	assert.Len(t, result.Questions, 8)
	index.AssertExpectations(t)
}

func TestProcessCaseStudyStyleFlowsThrough(t *testing.T) {
	payload, _ := json.Marshal(map[string]any{
		"questions": []domain.GeneratedQuestionGroup{
			{CaseStudy: "A startup ships on Friday.", Questions: []domain.GeneratedQuestion{
				{Question: "What happens next?", Options: []string{"a", "b", "c", "d"}, CorrectAnswerIndex: 3},
			}},
		},
	})

	gen := new(MockTextGenerator)
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "style=case_study")
	})).Return(string(payload), nil).Once()

	captionSource := new(MockCaptionSource)
	captionSource.On("Fetch", mock.Anything, testSourceURL).Return(&domain.Transcript{
		Entries: []domain.CaptionEntry{{Text: "deploy pipeline talk", Start: 0, Duration: 10}},
	}, nil).Once()

	pipeline := newTestPipeline(t, gen, captionSource, nil, nil, nil)
	result, err := pipeline.Process(context.Background(), domain.ProcessRequest{
		SourceURL:      testSourceURL,
		QuestionCounts: []int{1},
		Styles:         []domain.QuestionStyle{domain.StyleCaseStudy},
	})

	require.NoError(t, err)
	require.Len(t, result.Questions, 1)
	assert.Equal(t, "Case study:\nA startup ships on Friday.\nQuestion:\nWhat happens next?", result.Questions[0].Question)
	assert.Equal(t, 3, result.Questions[0].CorrectAnswer)
}

func TestProcessRequiresSourceURL(t *testing.T) {
	pipeline := newTestPipeline(t, new(MockTextGenerator), new(MockCaptionSource), nil, nil, nil)
	_, err := pipeline.Process(context.Background(), domain.ProcessRequest{})

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrInvalidInput, domainErr.Code)
}

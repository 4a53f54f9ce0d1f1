package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"vidquiz/internal/config"
	"vidquiz/internal/domain"
	"vidquiz/internal/util"

	"go.uber.org/zap"
)

// errBatchIrrecoverable marks a batch whose generated output failed
// structural validation on every attempt. Internal to the pipeline; never
// surfaced to the caller.
var errBatchIrrecoverable = errors.New("batch output failed validation on every attempt")

// DefaultBatchRetryPolicy: 5 attempts with linear 10s × attempt backoff,
// per batch.
func DefaultBatchRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 5, Backoff: LinearBackoff(10 * time.Second)}
}

// pipelineService implements the domain.VideoPipeline interface.
type pipelineService struct {
	captions     domain.CaptionSource
	audio        domain.AudioSource
	stt          domain.SpeechToText
	index        domain.ContentIndex
	genClient    *GenerationClient
	segmenter    *Segmenter
	batcher      *Batcher
	assembler    *Assembler
	batchPolicy  RetryPolicy
	sleep        Sleeper
	defaultCount int
	logger       *zap.Logger
}

// NewVideoPipeline creates a new pipeline service. audio, stt and index may
// be nil: without audio+stt the caption fallback is unavailable, and without
// index the transcript push is skipped.
func NewVideoPipeline(
	captions domain.CaptionSource,
	audio domain.AudioSource,
	stt domain.SpeechToText,
	index domain.ContentIndex,
	genClient *GenerationClient,
	cfg *config.Config,
	logger *zap.Logger,
) domain.VideoPipeline {
	batchPolicy := DefaultBatchRetryPolicy()
	defaultCount := 2
	maxQuota := DefaultMaxBatchQuota
	if cfg != nil {
		if cfg.Pipeline.BatchMaxAttempts > 0 {
			batchPolicy.MaxAttempts = cfg.Pipeline.BatchMaxAttempts
		}
		if cfg.Pipeline.BatchBackoffStep > 0 {
			batchPolicy.Backoff = LinearBackoff(cfg.Pipeline.BatchBackoffStep)
		}
		if cfg.Pipeline.DefaultQuestionCount > 0 {
			defaultCount = cfg.Pipeline.DefaultQuestionCount
		}
		if cfg.Pipeline.MaxBatchQuota > 0 {
			maxQuota = cfg.Pipeline.MaxBatchQuota
		}
	}

	return &pipelineService{
		captions:     captions,
		audio:        audio,
		stt:          stt,
		index:        index,
		genClient:    genClient,
		segmenter:    NewSegmenter(),
		batcher:      NewBatcher(maxQuota),
		assembler:    NewAssembler(),
		batchPolicy:  batchPolicy,
		sleep:        SleepWithContext,
		defaultCount: defaultCount,
		logger:       logger,
	}
}

// Process runs the full pipeline for one video: segment, index, batch, then
// generate/validate/assemble each batch sequentially. Batches are strictly
// ordered because global segment numbering depends on it.
func (s *pipelineService) Process(ctx context.Context, req domain.ProcessRequest) (*domain.PipelineResult, error) {
	if req.SourceURL == "" {
		return nil, domain.NewInvalidInputError("source URL is required")
	}

	runID := util.NewULID()
	log := s.logger.With(zap.String("run_id", runID), zap.String("source_url", req.SourceURL))
	log.Info("Starting video question pipeline")

	segments, title, err := s.segmentSource(ctx, req, log)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		log.Info("Source produced no segments")
		return &domain.PipelineResult{}, nil
	}
	if title == "" {
		title = req.SourceURL
	}
	for i := range segments {
		segments[i].Title = title
		segments[i].SourceURL = req.SourceURL
	}

	s.pushToIndex(ctx, req.SourceURL, title, segments, log)

	requests := s.buildRequests(segments, req.QuestionCounts, req.Styles)
	batches := s.batcher.Pack(requests)
	log.Info("Packed segment requests into batches",
		zap.Int("segments", len(segments)),
		zap.Int("batches", len(batches)))

	var questions []domain.Question
	nextIndex := 1
	failed := 0
	for i, batch := range batches {
		groups, err := s.generateValidated(ctx, batch, log.With(zap.Int("batch", i+1)))
		if err != nil {
			if errors.Is(err, errBatchIrrecoverable) {
				// Skip the batch but keep global numbering aligned with
				// segment position.
				log.Warn("Skipping irrecoverable batch",
					zap.Int("batch", i+1),
					zap.Int("segments_skipped", len(batch.Requests)))
				nextIndex += len(batch.Requests)
				failed++
				continue
			}
			return nil, err
		}

		batchQuestions, updated := s.assembler.AssembleBatch(batch, groups, nextIndex)
		questions = append(questions, batchQuestions...)
		nextIndex = updated
	}

	log.Info("Pipeline run complete",
		zap.Int("segments", len(segments)),
		zap.Int("questions", len(questions)),
		zap.Int("failed_batches", failed))

	return &domain.PipelineResult{
		Segments:      segments,
		Questions:     questions,
		FailedBatches: failed,
	}, nil
}

// segmentSource produces the ordered segment list, falling back to the audio
// path when captions are unavailable.
func (s *pipelineService) segmentSource(ctx context.Context, req domain.ProcessRequest, log *zap.Logger) ([]domain.Segment, string, error) {
	var transcript *domain.Transcript
	if s.captions != nil {
		var err error
		transcript, err = s.captions.Fetch(ctx, req.SourceURL)
		if err != nil {
			// Caption unavailability is a fallback trigger, not a failure.
			log.Warn("Caption fetch failed, falling back to audio", zap.Error(err))
			transcript = nil
		}
	}

	if transcript != nil && len(transcript.Entries) > 0 {
		return s.segmenter.Segment(transcript.Entries, req.Timestamps), transcript.Title, nil
	}

	log.Info("No captions available, using audio fallback")
	segments, err := s.segmentFromAudio(ctx, req)
	return segments, "", err
}

// segmentFromAudio decodes the source's audio, derives its duration from the
// sample count, applies the same boundary algorithm, and transcribes each
// slice separately.
func (s *pipelineService) segmentFromAudio(ctx context.Context, req domain.ProcessRequest) ([]domain.Segment, error) {
	if s.audio == nil || s.stt == nil {
		return nil, domain.NewSourceError("no captions and no audio fallback configured", nil)
	}

	clip, err := s.audio.Decode(ctx, req.SourceURL)
	if err != nil {
		return nil, domain.NewSourceError("failed to decode source audio", err)
	}
	if clip == nil || len(clip.Samples) == 0 || clip.SampleRate <= 0 {
		return nil, nil
	}

	bounds := resolveBoundaries(req.Timestamps, clip.Duration())
	var segments []domain.Segment
	for i := 0; i+1 < len(bounds); i++ {
		lo := int(bounds[i] * float64(clip.SampleRate))
		hi := int(bounds[i+1] * float64(clip.SampleRate))
		if lo >= len(clip.Samples) {
			break
		}
		if hi > len(clip.Samples) {
			hi = len(clip.Samples)
		}

		text, err := s.stt.Transcribe(ctx, &domain.AudioClip{
			Samples:    clip.Samples[lo:hi],
			SampleRate: clip.SampleRate,
		})
		if err != nil {
			return nil, domain.NewSourceError("speech-to-text failed for audio segment", err)
		}

		segments = append(segments, domain.Segment{
			Text:      text,
			StartTime: bounds[i],
			EndTime:   bounds[i+1],
		})
	}
	return segments, nil
}

// pushToIndex sends the concatenated transcript to the content index.
// Fire-and-forget: failures are logged and never affect generation.
func (s *pipelineService) pushToIndex(ctx context.Context, sourceURL, title string, segments []domain.Segment, log *zap.Logger) {
	if s.index == nil {
		return
	}
	texts := make([]string, 0, len(segments))
	for _, seg := range segments {
		texts = append(texts, seg.Text)
	}
	if err := s.index.IndexTranscript(ctx, sourceURL, title, strings.Join(texts, " ")); err != nil {
		log.Warn("Failed to push transcript to content index", zap.Error(err))
	}
}

// buildRequests pairs each segment with its desired count and style. Counts
// and styles align positionally; missing entries use the default count and
// the analytical style.
func (s *pipelineService) buildRequests(segments []domain.Segment, counts []int, styles []domain.QuestionStyle) []domain.SegmentRequest {
	requests := make([]domain.SegmentRequest, 0, len(segments))
	for i, seg := range segments {
		count := s.defaultCount
		if i < len(counts) && counts[i] >= 0 {
			count = counts[i]
		}
		style := domain.StyleAnalytical
		if i < len(styles) && styles[i] != "" {
			style = styles[i]
		}
		requests = append(requests, domain.SegmentRequest{
			Segment:       seg,
			QuestionCount: count,
			Style:         style,
		})
	}
	return requests
}

// generateValidated runs the batch-level retry loop: invoke the generation
// client, validate the payload, and back off linearly between attempts.
// Generation client errors (fatal or quota-exhausted) propagate and abort
// the run; validation exhaustion yields errBatchIrrecoverable.
func (s *pipelineService) generateValidated(ctx context.Context, batch domain.Batch, log *zap.Logger) ([]domain.GeneratedQuestionGroup, error) {
	for attempt := 1; attempt <= s.batchPolicy.MaxAttempts; attempt++ {
		raw, err := s.genClient.GenerateBatch(ctx, batch)
		if err != nil {
			return nil, err
		}

		groups, verr := ExtractQuestionGroups(raw)
		if verr == nil {
			return groups, nil
		}

		log.Warn("Generated payload failed validation",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", s.batchPolicy.MaxAttempts),
			zap.Error(verr))

		if attempt < s.batchPolicy.MaxAttempts {
			if err := s.sleep(ctx, s.batchPolicy.Backoff(attempt)); err != nil {
				return nil, err
			}
		}
	}
	return nil, errBatchIrrecoverable
}

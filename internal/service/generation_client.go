package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vidquiz/internal/domain"

	"go.uber.org/zap"
)

// DefaultCallRetryPolicy: 3 attempts with 10s/20s/30s backoff on quota
// signals, per call.
func DefaultCallRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Backoff: LinearBackoff(10 * time.Second)}
}

// GenerationClient wraps the text-generation capability with bounded retry
// on quota exhaustion. Any non-quota failure propagates immediately;
// exhausting every attempt on quota signals is fatal for the whole run.
type GenerationClient struct {
	generator domain.TextGenerator
	policy    RetryPolicy
	sleep     Sleeper
	logger    *zap.Logger
}

// NewGenerationClient creates a new GenerationClient. A zero policy falls
// back to DefaultCallRetryPolicy; a nil sleeper to SleepWithContext.
func NewGenerationClient(generator domain.TextGenerator, policy RetryPolicy, sleep Sleeper, logger *zap.Logger) *GenerationClient {
	if policy.MaxAttempts <= 0 {
		policy = DefaultCallRetryPolicy()
	}
	if policy.Backoff == nil {
		policy.Backoff = LinearBackoff(10 * time.Second)
	}
	if sleep == nil {
		sleep = SleepWithContext
	}
	return &GenerationClient{
		generator: generator,
		policy:    policy,
		sleep:     sleep,
		logger:    logger,
	}
}

// GenerateBatch builds one prompt covering every segment in the batch,
// invokes the capability, and returns its raw text.
func (c *GenerationClient) GenerateBatch(ctx context.Context, batch domain.Batch) (string, error) {
	prompt := BuildBatchPrompt(batch)

	for attempt := 1; attempt <= c.policy.MaxAttempts; attempt++ {
		raw, err := c.generator.Generate(ctx, prompt)
		if err == nil {
			return raw, nil
		}
		if !errors.Is(err, domain.ErrQuotaExceeded) {
			return "", domain.NewGenerationError(err)
		}

		c.logger.Warn("Generation quota exhausted, backing off",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", c.policy.MaxAttempts),
			zap.Error(err))

		if attempt < c.policy.MaxAttempts {
			if err := c.sleep(ctx, c.policy.Backoff(attempt)); err != nil {
				return "", err
			}
		}
	}

	return "", domain.NewQuotaExhaustedError(c.policy.MaxAttempts)
}

// BuildBatchPrompt asks for every segment's questions in one call. The
// response contract mirrors what the validator expects: a single JSON object
// whose "questions" list holds one group per segment, in order.
func BuildBatchPrompt(batch domain.Batch) string {
	var sb strings.Builder

	sb.WriteString("You are an expert course designer creating multiple-choice questions from lecture transcript segments.\n")
	fmt.Fprintf(&sb, "There are %d segments below. For each segment, generate exactly the requested number of questions from its transcript text.\n\n", len(batch.Requests))
	sb.WriteString("Rules:\n")
	sb.WriteString("1. Each question has exactly 4 options and exactly one correct answer.\n")
	sb.WriteString("2. \"correct_answer_index\" is the 0-based index of the correct option.\n")
	sb.WriteString("3. For segments marked style=case_study, first write a short case study grounded in the segment, put it in \"case_study\", and make every question about that case.\n")
	sb.WriteString("4. For segments marked style=analytical, omit \"case_study\" and ask questions testing understanding of the segment.\n\n")

	for i, req := range batch.Requests {
		fmt.Fprintf(&sb, "Segment %d (style=%s, questions=%d):\n%s\n\n", i+1, req.Style, req.QuestionCount, req.Segment.Text)
	}

	sb.WriteString("Respond with ONLY a JSON object in this exact shape, with one group per segment in segment order:\n")
	sb.WriteString(`{
  "questions": [
    {
      "case_study": "only for case_study segments",
      "questions": [
        {"question": "...", "options": ["a", "b", "c", "d"], "correct_answer_index": 0}
      ]
    }
  ]
}`)

	return sb.String()
}

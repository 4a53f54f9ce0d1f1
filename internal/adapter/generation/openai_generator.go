package generation

import (
	"context"
	"fmt"

	"vidquiz/internal/domain"

	"github.com/tmc/langchaingo/llms"
	openaiLLM "github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// OpenAIGenerator implements domain.TextGenerator against the hosted,
// quota-limited OpenAI backend via LangchainGo.
type OpenAIGenerator struct {
	llm       *openaiLLM.LLM
	modelName string
	logger    *zap.Logger
}

// NewOpenAIGenerator creates a new OpenAIGenerator.
func NewOpenAIGenerator(apiKey, modelName string, logger *zap.Logger) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key cannot be empty")
	}
	if modelName == "" {
		modelName = "gpt-4o-mini"
	}

	llm, err := openaiLLM.New(
		openaiLLM.WithToken(apiKey),
		openaiLLM.WithModel(modelName),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo OpenAI LLM client: %w", err)
	}

	logger.Info("Initialized OpenAI text generator", zap.String("model", modelName))
	return &OpenAIGenerator{
		llm:       llm,
		modelName: modelName,
		logger:    logger,
	}, nil
}

// Generate sends one prompt and returns the raw completion text. Quota and
// rate-limit responses are mapped to domain.ErrQuotaExceeded so the retry
// layer can distinguish them from fatal failures.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt)
	if err != nil {
		if isQuotaError(err) {
			g.logger.Warn("OpenAI reported quota exhaustion", zap.Error(err))
			return "", fmt.Errorf("%w: %v", domain.ErrQuotaExceeded, err)
		}
		return "", fmt.Errorf("openai generation failed: %w", err)
	}
	return out, nil
}

var _ domain.TextGenerator = (*OpenAIGenerator)(nil)

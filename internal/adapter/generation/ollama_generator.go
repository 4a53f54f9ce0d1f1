package generation

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"vidquiz/internal/domain"

	"github.com/tmc/langchaingo/llms"
	ollamaLLM "github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"
)

// OllamaGenerator implements domain.TextGenerator against a self-hosted
// Ollama server via LangchainGo. Self-hosted inference has no billing quota,
// but a loaded server can still answer 429, so the same quota mapping
// applies.
type OllamaGenerator struct {
	llm       *ollamaLLM.LLM
	modelName string
	logger    *zap.Logger
}

// NewOllamaGenerator creates a new OllamaGenerator.
func NewOllamaGenerator(serverURL, modelName string, logger *zap.Logger) (*OllamaGenerator, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("ollama server URL cannot be empty")
	}
	if modelName == "" {
		return nil, fmt.Errorf("ollama model name cannot be empty")
	}

	httpClient := &http.Client{Timeout: 10 * time.Minute}
	llm, err := ollamaLLM.New(
		ollamaLLM.WithServerURL(serverURL),
		ollamaLLM.WithModel(modelName),
		ollamaLLM.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo Ollama LLM client: %w", err)
	}

	logger.Info("Initialized Ollama text generator",
		zap.String("server_url", serverURL),
		zap.String("model", modelName))
	return &OllamaGenerator{
		llm:       llm,
		modelName: modelName,
		logger:    logger,
	}, nil
}

// Generate sends one prompt and returns the raw completion text.
func (g *OllamaGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt)
	if err != nil {
		if isQuotaError(err) {
			g.logger.Warn("Ollama reported overload", zap.Error(err))
			return "", fmt.Errorf("%w: %v", domain.ErrQuotaExceeded, err)
		}
		return "", fmt.Errorf("ollama generation failed: %w", err)
	}
	return out, nil
}

var _ domain.TextGenerator = (*OllamaGenerator)(nil)

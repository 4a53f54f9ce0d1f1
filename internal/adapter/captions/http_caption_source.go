package captions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"vidquiz/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// HTTPCaptionSource implements domain.CaptionSource against a caption
// retrieval service speaking JSON. The service is a black box to the
// pipeline: it either returns ordered timed entries or reports the video has
// no captions.
type HTTPCaptionSource struct {
	baseURL string
	client  *http.Client
	sfGroup singleflight.Group
	logger  *zap.Logger
}

type captionResponse struct {
	Title   string                `json:"title"`
	Entries []domain.CaptionEntry `json:"entries"`
}

// NewHTTPCaptionSource creates a new HTTPCaptionSource.
func NewHTTPCaptionSource(baseURL string, timeout time.Duration, logger *zap.Logger) (*HTTPCaptionSource, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("caption service base URL cannot be empty")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPCaptionSource{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

// Fetch retrieves the caption stream for a source URL. Concurrent fetches of
// the same source are collapsed into one upstream request. A 404 from the
// service means the video has no captions and yields an empty transcript,
// not an error.
func (s *HTTPCaptionSource) Fetch(ctx context.Context, sourceURL string) (*domain.Transcript, error) {
	res, err, _ := s.sfGroup.Do(sourceURL, func() (interface{}, error) {
		return s.fetch(ctx, sourceURL)
	})
	if err != nil {
		return nil, err
	}

	transcript, ok := res.(*domain.Transcript)
	if !ok {
		return nil, fmt.Errorf("unexpected type from singleflight.Do for captions: %T", res)
	}
	return transcript, nil
}

func (s *HTTPCaptionSource) fetch(ctx context.Context, sourceURL string) (*domain.Transcript, error) {
	endpoint := fmt.Sprintf("%s/captions?source=%s", s.baseURL, url.QueryEscape(sourceURL))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build caption request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("caption service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		s.logger.Info("No captions available for source", zap.String("source_url", sourceURL))
		return &domain.Transcript{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("caption service returned status %d", resp.StatusCode)
	}

	var payload captionResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode caption response: %w", err)
	}

	return &domain.Transcript{Title: payload.Title, Entries: payload.Entries}, nil
}

var _ domain.CaptionSource = (*HTTPCaptionSource)(nil)

package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"vidquiz/internal/domain"

	"go.uber.org/zap"
)

// Client talks to a whisper-style speech server over JSON. It implements
// both fallback-path ports: decoding a source's audio track into raw samples
// and transcribing one clip of those samples.
type Client struct {
	serverURL string
	client    *http.Client
	logger    *zap.Logger
}

type decodeResponse struct {
	SampleRate int       `json:"sample_rate"`
	Samples    []float64 `json:"samples"`
}

type transcribeRequest struct {
	SampleRate int       `json:"sample_rate"`
	Samples    []float64 `json:"samples"`
}

type transcribeResponse struct {
	Text string `json:"text"`
}

// NewClient creates a new speech Client.
func NewClient(serverURL string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("speech server URL cannot be empty")
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Client{
		serverURL: serverURL,
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
	}, nil
}

// Decode asks the speech server to extract and decode the audio track of a
// source URL into mono samples.
func (c *Client) Decode(ctx context.Context, sourceURL string) (*domain.AudioClip, error) {
	endpoint := fmt.Sprintf("%s/decode?source=%s", c.serverURL, url.QueryEscape(sourceURL))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build decode request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech server decode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("speech server decode returned status %d", resp.StatusCode)
	}

	var payload decodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode audio response: %w", err)
	}

	c.logger.Debug("Decoded audio track",
		zap.String("source_url", sourceURL),
		zap.Int("sample_rate", payload.SampleRate),
		zap.Int("samples", len(payload.Samples)))

	return &domain.AudioClip{Samples: payload.Samples, SampleRate: payload.SampleRate}, nil
}

// Transcribe sends one decoded clip for speech-to-text.
func (c *Client) Transcribe(ctx context.Context, clip *domain.AudioClip) (string, error) {
	if clip == nil || len(clip.Samples) == 0 {
		return "", nil
	}

	body, err := json.Marshal(transcribeRequest{SampleRate: clip.SampleRate, Samples: clip.Samples})
	if err != nil {
		return "", fmt.Errorf("failed to encode transcribe request: %w", err)
	}

	endpoint := c.serverURL + "/transcribe"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build transcribe request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("speech server transcribe request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("speech server transcribe returned status %d", resp.StatusCode)
	}

	var payload transcribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode transcribe response: %w", err)
	}
	return payload.Text, nil
}

var (
	_ domain.AudioSource  = (*Client)(nil)
	_ domain.SpeechToText = (*Client)(nil)
)

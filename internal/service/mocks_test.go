package service

import (
	"context"

	"vidquiz/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockTextGenerator ---
type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// --- MockCaptionSource ---
type MockCaptionSource struct {
	mock.Mock
}

func (m *MockCaptionSource) Fetch(ctx context.Context, sourceURL string) (*domain.Transcript, error) {
	args := m.Called(ctx, sourceURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transcript), args.Error(1)
}

// --- MockAudioSource ---
type MockAudioSource struct {
	mock.Mock
}

func (m *MockAudioSource) Decode(ctx context.Context, sourceURL string) (*domain.AudioClip, error) {
	args := m.Called(ctx, sourceURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AudioClip), args.Error(1)
}

// --- MockSpeechToText ---
type MockSpeechToText struct {
	mock.Mock
}

func (m *MockSpeechToText) Transcribe(ctx context.Context, clip *domain.AudioClip) (string, error) {
	args := m.Called(ctx, clip)
	return args.String(0), args.Error(1)
}

// --- MockContentIndex ---
type MockContentIndex struct {
	mock.Mock
}

func (m *MockContentIndex) IndexTranscript(ctx context.Context, sourceURL, title, text string) error {
	args := m.Called(ctx, sourceURL, title, text)
	return args.Error(0)
}

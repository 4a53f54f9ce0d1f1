package captions

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFetchReturnsOrderedEntries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/captions", r.URL.Path)
		assert.Equal(t, "https://videos.example/v/1", r.URL.Query().Get("source"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"title": "Operating Systems L3",
			"entries": [
				{"text": "welcome back", "start": 0, "duration": 4.5},
				{"text": "today we cover paging", "start": 4.5, "duration": 6.0}
			]
		}`))
	}))
	defer server.Close()

	source, err := NewHTTPCaptionSource(server.URL, time.Second, zap.NewNop())
	require.NoError(t, err)

	transcript, err := source.Fetch(context.Background(), "https://videos.example/v/1")
	require.NoError(t, err)
	assert.Equal(t, "Operating Systems L3", transcript.Title)
	require.Len(t, transcript.Entries, 2)
	assert.Equal(t, "welcome back", transcript.Entries[0].Text)
	assert.Equal(t, 4.5, transcript.Entries[1].Start)
	assert.Equal(t, 10.5, transcript.Entries[1].End())
}

func TestFetchMissingCaptionsIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	source, err := NewHTTPCaptionSource(server.URL, time.Second, zap.NewNop())
	require.NoError(t, err)

	transcript, err := source.Fetch(context.Background(), "https://videos.example/v/2")
	require.NoError(t, err)
	assert.Empty(t, transcript.Entries)
}

func TestFetchServerErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	source, err := NewHTTPCaptionSource(server.URL, time.Second, zap.NewNop())
	require.NoError(t, err)

	_, err = source.Fetch(context.Background(), "https://videos.example/v/3")
	assert.Error(t, err)
}

func TestNewHTTPCaptionSourceRequiresBaseURL(t *testing.T) {
	_, err := NewHTTPCaptionSource("", time.Second, zap.NewNop())
	assert.Error(t, err)
}

package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCacheKey(t *testing.T) {
	assert.Equal(t, "vidquiz:index:transcript:abc123",
		GenerateCacheKey("index", "transcript", "abc123"))
}

func TestGenerateCacheKeyWithParams(t *testing.T) {
	assert.Equal(t, "vidquiz:index:transcript:abc123:en_v2",
		GenerateCacheKey("index", "transcript", "abc123", "en", "v2"))
}

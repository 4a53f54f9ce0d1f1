package adapter

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"vidquiz/internal/cache"
	"vidquiz/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisContentIndex implements the domain.ContentIndex interface using a
// Redis client. Each transcript is stored as a hash keyed by the hashed
// source URL, for later semantic lookup by the search side.
type RedisContentIndex struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisContentIndex creates a new RedisContentIndex.
// It expects a connected *redis.Client. A zero ttl keeps documents
// indefinitely.
func NewRedisContentIndex(client *redis.Client, ttl time.Duration) domain.ContentIndex {
	return &RedisContentIndex{client: client, ttl: ttl}
}

// IndexTranscript stores the concatenated transcript text and title for a
// source URL.
func (r *RedisContentIndex) IndexTranscript(ctx context.Context, sourceURL, title, text string) error {
	key := cache.GenerateCacheKey("index", "transcript", hashString(sourceURL))

	if err := r.client.HSet(ctx, key,
		"source_url", sourceURL,
		"title", title,
		"text", text,
	).Err(); err != nil {
		return err
	}

	if r.ttl > 0 {
		return r.client.Expire(ctx, key, r.ttl).Err()
	}
	return nil
}

func hashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

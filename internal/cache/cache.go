// Package cache provides response caching for provider and AI calls.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache defines the interface for caching serialized responses.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key builds a cache key from the call's identifying parts (provider
// name, endpoint, query parameters). Parts are joined and hashed so keys
// stay fixed-length regardless of query size.
func Key(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return "aroundme:v1:" + hex.EncodeToString(hash[:])
}

package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching serialized model artifacts.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from a model artifact path.
func Key(path string) string {
	hash := sha256.Sum256([]byte(path))
	return "triage:v1:" + hex.EncodeToString(hash[:])
}

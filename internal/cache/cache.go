package cache

import "time"

// Cache stores serialized values by key. A zero ttl means no expiration.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Del(key string)
	Clear()
}

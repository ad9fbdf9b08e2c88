package cache

import (
	"sync"
	"time"
)

var _ Cache = (*MapCache)(nil)

type mapEntry struct {
	value     []byte
	expiresAt time.Time
}

// MapCache is an unbounded in-memory cache, used in tests and with tiny datasets.
type MapCache struct {
	mutex sync.Mutex
	cache map[string]mapEntry
	now   func() time.Time
}

func NewMapCache() *MapCache {
	return &MapCache{
		cache: make(map[string]mapEntry),
		now:   time.Now,
	}
}

func (mc *MapCache) Get(key string) ([]byte, bool) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	entry, ok := mc.cache[key]
	if !ok {
		return nil, false
	}
	if !entry.expiresAt.IsZero() && !mc.now().Before(entry.expiresAt) {
		delete(mc.cache, key)
		return nil, false
	}
	return append([]byte(nil), entry.value...), true
}

func (mc *MapCache) Set(key string, value []byte, ttl time.Duration) error {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	entry := mapEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = mc.now().Add(ttl)
	}
	mc.cache[key] = entry
	return nil
}

func (mc *MapCache) Del(key string) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	delete(mc.cache, key)
}

func (mc *MapCache) Clear() {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	mc.cache = make(map[string]mapEntry)
}

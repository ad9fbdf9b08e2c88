package cache

import (
	"fmt"
	"time"

	"github.com/coocood/freecache"
)

const megabyte = 1024 * 1024

var _ Cache = (*FreeCache)(nil)

type FreeCache struct {
	mainCache *freecache.Cache
}

// NewFreeCache creates a cache of sizeMB megabytes, freecache's minimum (512KB) applies.
func NewFreeCache(sizeMB int) *FreeCache {
	return &FreeCache{
		mainCache: freecache.NewCache(sizeMB * megabyte),
	}
}

func (fc *FreeCache) Get(key string) ([]byte, bool) {
	value, err := fc.mainCache.Get([]byte(key))
	if err != nil {
		return nil, false
	}
	return value, true
}

func (fc *FreeCache) Set(key string, value []byte, ttl time.Duration) error {
	if err := fc.mainCache.Set([]byte(key), value, int(ttl.Seconds())); err != nil {
		return fmt.Errorf("freecache set %s: %w", key, err)
	}
	return nil
}

func (fc *FreeCache) Del(key string) {
	fc.mainCache.Del([]byte(key))
}

func (fc *FreeCache) Clear() {
	fc.mainCache.Clear()
}

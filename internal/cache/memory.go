package cache

import (
	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

func init() {
	Register(ProviderMemory, newMemoryCache)
}

// memoryCache keeps lookups for the lifetime of a single nrkdl run.
// Get, Contains and Len come straight from the expirable LRU.
type memoryCache struct {
	*lru.LRU[string, []byte]
}

func newMemoryCache(cfg ProviderConfig) (Cache, error) {
	onEvict := lru.EvictCallback[string, []byte](cfg.OnEvict)
	return memoryCache{lru.NewLRU(cfg.Size, onEvict, cfg.TTL)}, nil
}

func (m memoryCache) Set(key string, value []byte) { m.Add(key, value) }

func (m memoryCache) Close() error { return nil }

package cache

// EvictCallback is called when an entry is evicted from the cache.
// The redis provider reports evicted keys with a nil value.
type EvictCallback func(key string, value []byte)

// Logger receives error reports from cache backends that cannot return errors
// through the Cache interface.
type Logger interface {
	Error(msg string, err error)
}

// Cache is a bounded key-value store for lookup responses (program metadata,
// media-ID lookup pages) keyed by request URL.
type Cache interface {
	// Get retrieves a value by key. Returns the value and true if found, or nil and false if not.
	Get(key string) ([]byte, bool)

	// Set stores a value with the given key, replacing any previous value.
	Set(key string, value []byte)

	// Contains checks whether a key exists without refreshing its LRU position.
	Contains(key string) bool

	// Len returns the number of entries currently stored.
	Len() int

	// Close releases any resources held by the cache. No-op for the memory provider.
	Close() error
}

package cache

// instrumentedCache counts hits and misses of inner under a group label.
// Evictions are counted by the OnEvict hook installed in New.
type instrumentedCache struct {
	Cache
	group string
}

func newInstrumentedCache(inner Cache, group string) *instrumentedCache {
	registerEntriesGauge(group, inner.Len)
	return &instrumentedCache{Cache: inner, group: group}
}

func (c *instrumentedCache) Get(key string) ([]byte, bool) {
	value, ok := c.Cache.Get(key)
	counter := MissesTotal
	if ok {
		counter = HitsTotal
	}
	counter.WithLabelValues(c.group).Inc()
	return value, ok
}

// Close drops the entries gauge before closing the wrapped cache
func (c *instrumentedCache) Close() error {
	unregisterEntriesGauge(c.group)
	return c.Cache.Close()
}

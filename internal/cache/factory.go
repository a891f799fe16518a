package cache

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/Belphemur/NrkDownload/internal/config"
)

// Provider names accepted by cache.provider in the configuration.
const (
	ProviderMemory = "memory"
	ProviderRedis  = "redis"
)

const (
	defaultSize = 256
	defaultTTL  = time.Hour
)

// ProviderConfig carries everything a provider needs to build a Cache.
// Redis* fields are ignored by the memory provider.
type ProviderConfig struct {
	Size    int
	TTL     time.Duration
	OnEvict EvictCallback
	Logger  Logger

	// KeyPrefix namespaces keys in shared backends. Defaults to "nrkcache:".
	KeyPrefix string

	RedisAddress  string
	RedisPassword string
	RedisDB       int

	// Group is the "cache" label of the nrkdl_cache_* metrics. Empty disables instrumentation.
	Group string
}

// Provider builds a Cache from a ProviderConfig.
type Provider func(cfg ProviderConfig) (Cache, error)

var registry = struct {
	sync.RWMutex
	providers map[string]Provider
}{providers: map[string]Provider{}}

// Register makes a provider available to New. Registering a name twice panics.
func Register(name string, p Provider) {
	if p == nil {
		panic("cache: Register provider is nil")
	}

	registry.Lock()
	defer registry.Unlock()
	if _, dup := registry.providers[name]; dup {
		panic(fmt.Sprintf("cache: provider %q already registered", name))
	}
	registry.providers[name] = p
}

// RegisteredProviders lists the provider names in alphabetical order.
func RegisteredProviders() []string {
	registry.RLock()
	defer registry.RUnlock()

	names := make([]string, 0, len(registry.providers))
	for name := range registry.providers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// New builds a cache with the named provider. A non-empty cfg.Group wraps the
// result so hits, misses and evictions are counted and the entry count is
// exported at scrape time.
func New(name string, cfg ProviderConfig) (Cache, error) {
	registry.RLock()
	build, ok := registry.providers[name]
	registry.RUnlock()
	if !ok {
		return nil, fmt.Errorf("cache: unknown provider %q (registered: %v)", name, RegisteredProviders())
	}

	group := cfg.Group
	if group == "" {
		return build(cfg)
	}

	onEvict := cfg.OnEvict
	cfg.OnEvict = func(key string, value []byte) {
		EvictionsTotal.WithLabelValues(group).Inc()
		if onEvict != nil {
			onEvict(key, value)
		}
	}

	inner, err := build(cfg)
	if err != nil {
		return nil, err
	}
	return newInstrumentedCache(inner, group), nil
}

type zerologAdapter struct{}

func (zerologAdapter) Error(msg string, err error) {
	logger := config.GetLogger()
	logger.Error().Err(err).Msg(msg)
}

// NewFromConfig builds the lookup cache described by the application configuration.
// It returns a nil Cache and no error when caching is disabled.
func NewFromConfig(cfg *config.Config, group string) (Cache, error) {
	if cfg.Cache.Provider == "" {
		return nil, nil
	}

	ttl := defaultTTL
	if cfg.Cache.TTL != "" {
		parsed, err := time.ParseDuration(cfg.Cache.TTL)
		if err != nil {
			return nil, fmt.Errorf("cache: invalid ttl %q: %w", cfg.Cache.TTL, err)
		}
		ttl = parsed
	}

	size := cfg.Cache.Size
	if size <= 0 {
		size = defaultSize
	}

	return New(cfg.Cache.Provider, ProviderConfig{
		Size:          size,
		TTL:           ttl,
		Logger:        zerologAdapter{},
		RedisAddress:  cfg.Cache.Redis.Address,
		RedisPassword: cfg.Cache.Redis.Password,
		RedisDB:       cfg.Cache.Redis.DB,
		Group:         group,
	})
}

package cache

import (
	"testing"
	"time"

	"github.com/Belphemur/NrkDownload/internal/config"
)

func TestFactory_New_UnknownProvider(t *testing.T) {
	if _, err := New("nonexistent", ProviderConfig{}); err == nil {
		t.Fatal("Expected error for unknown provider")
	}
}

func TestFactory_RegisteredProviders(t *testing.T) {
	names := RegisteredProviders()
	want := []string{"memory", "redis"}
	if len(names) != len(want) {
		t.Fatalf("Expected providers %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Expected sorted providers %v, got %v", want, names)
			break
		}
	}
}

func TestFactory_Register_DuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Expected panic when registering a duplicate provider")
		}
	}()
	Register(ProviderMemory, newMemoryCache)
}

func TestFactory_New_Redis_InvalidAddress(t *testing.T) {
	_, err := New(ProviderRedis, ProviderConfig{
		Size:         10,
		TTL:          time.Hour,
		RedisAddress: "localhost:59999",
	})
	if err == nil {
		t.Fatal("Expected error when connecting to invalid Redis address")
	}
}

func TestNewFromConfig(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		cfg := &config.Config{}
		c, err := NewFromConfig(cfg, "")
		if err != nil {
			t.Fatalf("NewFromConfig: %v", err)
		}
		if c != nil {
			t.Fatal("Expected nil cache when no provider is configured")
		}
	})

	t.Run("memory", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Cache.Provider = "memory"
		cfg.Cache.Size = 2
		cfg.Cache.TTL = "1m"

		c, err := NewFromConfig(cfg, "")
		if err != nil {
			t.Fatalf("NewFromConfig: %v", err)
		}
		defer c.Close()

		c.Set("a", []byte("1"))
		c.Set("b", []byte("2"))
		c.Set("c", []byte("3"))
		if c.Len() != 2 {
			t.Fatalf("Expected configured size 2 to bound the cache, got %d entries", c.Len())
		}
	})

	t.Run("invalid ttl", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Cache.Provider = "memory"
		cfg.Cache.TTL = "forever"

		if _, err := NewFromConfig(cfg, ""); err == nil {
			t.Fatal("Expected error for invalid ttl")
		}
	})
}

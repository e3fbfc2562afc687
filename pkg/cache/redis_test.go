package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/ghuser/auctionhouse/pkg/config"
)

// newTestConfig returns a config pointing to REDIS_URL env var, falling back to localhost.
func newTestConfig(url string) *config.Config {
	return &config.Config{
		RedisURL: url,
	}
}

func TestNewRedisClient_InvalidURL(t *testing.T) {
	_, err := NewRedisClient(newTestConfig("not-a-valid-url"))
	if err == nil {
		t.Fatal("expected error for invalid URL, got nil")
	}
}

func TestRedisOptions(t *testing.T) {
	cfg := &config.Config{RedisURL: "redis://:secret@cache.internal:6380/2", ServiceName: "auctionhouse-api", RedisPoolSize: 25}
	opts, err := redisOptions(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "cache.internal:6380" || opts.DB != 2 || opts.Password != "secret" {
		t.Errorf("URL not applied: addr=%s db=%d", opts.Addr, opts.DB)
	}
	if opts.ClientName != "auctionhouse-api" {
		t.Errorf("expected client name, got %q", opts.ClientName)
	}
	if opts.PoolSize != 25 {
		t.Errorf("expected pool size 25, got %d", opts.PoolSize)
	}
	if opts.ReadTimeout != time.Second {
		t.Errorf("unexpected read timeout %s", opts.ReadTimeout)
	}

	cfg.RedisPoolSize = 0
	opts, _ = redisOptions(cfg)
	if opts.PoolSize != 10 {
		t.Errorf("expected default pool size 10, got %d", opts.PoolSize)
	}
}

func TestNewRedisClient_UnreachableHost(t *testing.T) {
	_, err := NewRedisClient(newTestConfig("redis://localhost:19999"))
	if err == nil {
		t.Fatal("expected error when Redis is unreachable, got nil")
	}
}

// Integration tests: skipped unless REDIS_URL is set.
func TestRedisIntegration(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set; skipping integration tests")
	}

	t.Run("NewRedisClient_Success", func(t *testing.T) {
		rc, err := NewRedisClient(newTestConfig(redisURL))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer rc.Close() //nolint:errcheck
	})

	t.Run("Ping_Success", func(t *testing.T) {
		rc, err := NewRedisClient(newTestConfig(redisURL))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer rc.Close() //nolint:errcheck

		if err := rc.Ping(context.Background()); err != nil {
			t.Fatalf("Ping failed: %v", err)
		}
	})

	t.Run("Close_Idempotent", func(t *testing.T) {
		rc, err := NewRedisClient(newTestConfig(redisURL))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := rc.Close(); err != nil {
			t.Fatalf("first Close failed: %v", err)
		}
	})

	t.Run("Client_NotNil", func(t *testing.T) {
		rc, err := NewRedisClient(newTestConfig(redisURL))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer rc.Close() //nolint:errcheck

		if rc.Client() == nil {
			t.Fatal("expected non-nil underlying client")
		}
	})
}

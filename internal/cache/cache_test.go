package cache

import (
	"context"
	"testing"
	"time"

	"auditgo/internal/config"
)

func TestNilClientIsDisabledCache(t *testing.T) {
	var c *Client
	ctx := context.Background()

	if _, err := c.Get(ctx, "summary:https://example.com"); err != ErrCacheMiss {
		t.Fatalf("expected cache miss, got %v", err)
	}
	if err := c.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("set on disabled cache: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close on disabled cache: %v", err)
	}
}

func TestNewClientDisabledWithoutHost(t *testing.T) {
	c, err := NewClient(&config.Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != nil {
		t.Fatalf("expected nil client when no host configured")
	}
}

func TestNewClientRequiresConfig(t *testing.T) {
	if _, err := NewClient(nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

package redis

import (
	"testing"
	"time"
)

func TestConfigOptions_DefaultsTimeout(t *testing.T) {
	opts := Config{Addr: "cache:6379", Password: "s3cret", DB: 2}.options()

	if opts.Addr != "cache:6379" || opts.Password != "s3cret" || opts.DB != 2 {
		t.Fatalf("connection settings not carried over: %+v", opts)
	}
	if opts.DialTimeout != defaultTimeout || opts.ReadTimeout != defaultTimeout {
		t.Fatalf("expected default timeout %s, got dial=%s read=%s", defaultTimeout, opts.DialTimeout, opts.ReadTimeout)
	}
}

func TestConfigOptions_CustomTimeoutAndPool(t *testing.T) {
	opts := Config{Timeout: 2 * time.Second, PoolSize: 20}.options()

	if opts.DialTimeout != 2*time.Second || opts.WriteTimeout != 2*time.Second {
		t.Fatalf("expected 2s timeouts, got dial=%s write=%s", opts.DialTimeout, opts.WriteTimeout)
	}
	if opts.PoolSize != 20 {
		t.Fatalf("expected pool size 20, got %d", opts.PoolSize)
	}
}

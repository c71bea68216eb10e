package server

import (
	"testing"
	"time"

	"github.com/iwvelando/rehabdesk/pkg/constants"
)

func TestNormalizeDefaults(t *testing.T) {
	var cfg Config
	if err := cfg.Normalize(); err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	if cfg.Address != constants.DefaultServerAddress {
		t.Fatalf("expected default address, got %q", cfg.Address)
	}
	if cfg.BodySizeBytes() != constants.DefaultMaxBodySizeBytes {
		t.Fatalf("expected default body size, got %d", cfg.BodySizeBytes())
	}
	if cfg.ReadHeaderTimeout != constants.DefaultReadHeaderTimeout || cfg.ShutdownTimeout != constants.DefaultShutdownTimeout {
		t.Fatalf("expected default timeouts, got %s/%s", cfg.ReadHeaderTimeout, cfg.ShutdownTimeout)
	}
}

func TestNormalizeOverrides(t *testing.T) {
	cfg := Config{
		Address:         "127.0.0.1:9000",
		MaxBodySize:     "2M",
		ShutdownTimeout: 3 * time.Second,
		AllowedOrigins:  []string{" https://app.example.com ", ""},
	}
	if err := cfg.Normalize(); err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	if cfg.BodySizeBytes() != 2*1024*1024 {
		t.Fatalf("expected body size override, got %d", cfg.BodySizeBytes())
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Fatalf("expected shutdown override, got %s", cfg.ShutdownTimeout)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "https://app.example.com" {
		t.Fatalf("unexpected origins %q", cfg.AllowedOrigins)
	}
}

func TestNormalizeInvalidSize(t *testing.T) {
	cfg := Config{MaxBodySize: "invalid"}
	if err := cfg.Normalize(); err == nil {
		t.Fatal("expected error for invalid size but got nil")
	}
}

func TestSetBodySizeBytes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SetBodySizeBytes(0)
	if cfg.BodySizeBytes() != constants.DefaultMaxBodySizeBytes {
		t.Fatal("a non-positive size must be ignored")
	}
	cfg.SetBodySizeBytes(4096)
	if cfg.BodySizeBytes() != 4096 || cfg.MaxBodySize != "4096" {
		t.Fatalf("unexpected size %d / %q", cfg.BodySizeBytes(), cfg.MaxBodySize)
	}
}

func TestParseSize(t *testing.T) {
	tests := map[string]int64{
		"":          constants.DefaultMaxBodySizeBytes,
		"1024":      1024,
		"512b":      512,
		"256K":      256 * 1024,
		"1m":        1024 * 1024,
		"3MB":       3 * 1024 * 1024,
		"2G":        2 * 1024 * 1024 * 1024,
		"  4096   ": 4096,
	}

	for input, expected := range tests {
		got, err := ParseSize(input)
		if err != nil {
			t.Fatalf("ParseSize(%q) returned error: %v", input, err)
		}
		if got != expected {
			t.Fatalf("ParseSize(%q) = %d, expected %d", input, got, expected)
		}
	}

	for _, bad := range []string{"1TB", "abc"} {
		if _, err := ParseSize(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

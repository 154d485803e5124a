package server

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Address != ":8080" {
		t.Errorf("Address = %q, want :8080", cfg.Address)
	}
	if time.Duration(cfg.ReadTimeout) != 60*time.Second {
		t.Errorf("ReadTimeout = %v, want 60s", cfg.ReadTimeout)
	}
	if cfg.MaxMessageSize != 64*1024 {
		t.Errorf("MaxMessageSize = %d, want 65536", cfg.MaxMessageSize)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig(\"\") error = %v", err)
	}
	if cfg.Address != ":8080" {
		t.Errorf("Address = %q, want default", cfg.Address)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fern.yaml")
	data := `
address: ":9999"
read_timeout: 5s
idle_timeout: 2m
max_sessions: 10
allow_any_origin: true
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Address != ":9999" {
		t.Errorf("Address = %q, want :9999", cfg.Address)
	}
	if time.Duration(cfg.ReadTimeout) != 5*time.Second {
		t.Errorf("ReadTimeout = %v, want 5s", cfg.ReadTimeout)
	}
	if time.Duration(cfg.IdleTimeout) != 2*time.Minute {
		t.Errorf("IdleTimeout = %v, want 2m", cfg.IdleTimeout)
	}
	if cfg.MaxSessions != 10 {
		t.Errorf("MaxSessions = %d, want 10", cfg.MaxSessions)
	}
	if !cfg.AllowAnyOrigin {
		t.Error("AllowAnyOrigin = false, want true")
	}
	// Fields absent from the file keep their defaults.
	if time.Duration(cfg.WriteTimeout) != 10*time.Second {
		t.Errorf("WriteTimeout = %v, want default 10s", cfg.WriteTimeout)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadConfig on a missing file succeeded")
	}
}

func TestLoadConfigBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fern.yaml")
	if err := os.WriteFile(path, []byte("read_timeout: soon\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig accepted an unparseable duration")
	}
}

func TestCheckOrigin(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name   string
		origin string
		host   string
		allow  bool
		want   bool
	}{
		{"no origin header", "", "example.com", false, true},
		{"same origin", "https://example.com", "example.com", false, true},
		{"cross origin", "https://evil.test", "example.com", false, false},
		{"cross origin allowed in dev", "https://evil.test", "example.com", true, true},
		{"unparseable origin", "://", "example.com", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/ws", nil)
			r.Host = tt.host
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			cfg.AllowAnyOrigin = tt.allow
			if got := cfg.CheckOrigin(r); got != tt.want {
				t.Errorf("CheckOrigin() = %v, want %v", got, tt.want)
			}
		})
	}
}

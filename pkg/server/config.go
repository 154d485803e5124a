package server

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like "30s".
// Plain integers are taken as nanoseconds.
type Duration time.Duration

// String returns the standard duration formatting.
func (d Duration) String() string { return time.Duration(d).String() }

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("server: invalid duration %q: %w", s, err)
		}
		*d = Duration(v)
		return nil
	}
	var n int64
	if err := node.Decode(&n); err != nil {
		return fmt.Errorf("server: invalid duration: %w", err)
	}
	*d = Duration(n)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

// Config holds the HTTP and session configuration. Zero values are filled in
// from DefaultConfig before use.
type Config struct {
	// Address to listen on, e.g. ":8080".
	Address string `yaml:"address"`

	// ReadTimeout is the maximum wait for a message from the client.
	ReadTimeout Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum wait when sending a message.
	WriteTimeout Duration `yaml:"write_timeout"`

	// IdleTimeout closes sessions with no client activity.
	IdleTimeout Duration `yaml:"idle_timeout"`

	// HeartbeatInterval is the time between server pings.
	HeartbeatInterval Duration `yaml:"heartbeat_interval"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`

	// MaxMessageSize caps incoming WebSocket messages in bytes.
	MaxMessageSize int64 `yaml:"max_message_size"`

	// MaxSessions caps concurrent sessions. 0 means no limit.
	MaxSessions int `yaml:"max_sessions"`

	// EnableCompression enables WebSocket permessage-deflate.
	EnableCompression bool `yaml:"enable_compression"`

	// AllowAnyOrigin disables the same-origin check on upgrade. Only for
	// development.
	AllowAnyOrigin bool `yaml:"allow_any_origin"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:           ":8080",
		ReadTimeout:       Duration(60 * time.Second),
		WriteTimeout:      Duration(10 * time.Second),
		IdleTimeout:       Duration(5 * time.Minute),
		HeartbeatInterval: Duration(30 * time.Second),
		ShutdownTimeout:   Duration(30 * time.Second),
		MaxMessageSize:    64 * 1024,
		MaxSessions:       0,
		EnableCompression: true,
	}
}

// LoadConfig reads a YAML config file over the defaults. A missing file is
// an error; pass "" to use the defaults unchanged.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("server: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("server: parse config %s: %w", path, err)
	}
	cfg.fillDefaults()
	return cfg, nil
}

// fillDefaults replaces zero values with the defaults. Explicit zeros in the
// file mean "use the default", not "disable".
func (c *Config) fillDefaults() {
	def := DefaultConfig()
	if c.Address == "" {
		c.Address = def.Address
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = def.ReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = def.WriteTimeout
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = def.IdleTimeout
	}
	if c.HeartbeatInterval == 0 {
		c.HeartbeatInterval = def.HeartbeatInterval
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = def.ShutdownTimeout
	}
	if c.MaxMessageSize == 0 {
		c.MaxMessageSize = def.MaxMessageSize
	}
}

// Clone returns a copy of the config.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// CheckOrigin validates the Origin header on WebSocket upgrade. Same-origin
// by default; AllowAnyOrigin turns the check off.
func (c *Config) CheckOrigin(r *http.Request) bool {
	if c.AllowAnyOrigin {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		// No Origin header: same-origin request or a non-browser client.
		return true
	}
	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return r.Host != "" && originURL.Host == r.Host
}

// Package config holds runtime settings for the brewlog client.
package config

import (
	"path/filepath"
	"time"

	"github.com/openbrew/brewlog/internal/connectivity"
	"github.com/openbrew/brewlog/internal/filex"
)

// Config holds runtime settings for the brewlog CLI.
//
// Durations: ProbeTimeout bounds the connectivity probe, Throttle is the
// minimum spacing between probes, SyncInterval is the background sync
// period.
type Config struct {
	APIBaseURL   string
	DataDir      string
	ProbeURL     string
	ProbeTimeout time.Duration
	Throttle     time.Duration
	SyncInterval time.Duration
	SignalPoll   time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8000"
	c.DataDir = filex.DefaultDataDir()
	c.ProbeURL = "http://127.0.0.1:8000/health"
	c.ProbeTimeout = connectivity.DefaultProbeTimeout
	c.Throttle = connectivity.DefaultThrottle
	c.SyncInterval = connectivity.DefaultSyncInterval
	c.SignalPoll = 5 * time.Second
}

// DatabaseFile is the SQLite path inside the data directory.
func (c *Config) DatabaseFile() string {
	return filepath.Join(c.DataDir, "brewlog.db")
}

// TokenFile is where the access token is stored.
func (c *Config) TokenFile() string {
	return filepath.Join(c.DataDir, "token")
}

// Load constructs a Config, applies defaults, then overlays values from
// the JSON file at path if it is non-empty. Later sources take precedence
// over earlier ones; CLI flags are layered on top by the caller.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}

package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/openbrew/brewlog/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies
// on timex.Duration so JSON can specify intervals either as strings like
// "30s" or as integer nanoseconds. Absent fields keep their defaults.
type JsonConfig struct {
	APIBaseURL   *string         `json:"api_base_url"`
	DataDir      *string         `json:"data_dir"`
	ProbeURL     *string         `json:"probe_url"`
	ProbeTimeout *timex.Duration `json:"probe_timeout"`
	Throttle     *timex.Duration `json:"connectivity_throttle"`
	SyncInterval *timex.Duration `json:"sync_interval"`
	SignalPoll   *timex.Duration `json:"signal_poll"`
}

func parseJson(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if jc.APIBaseURL != nil {
		cfg.APIBaseURL = *jc.APIBaseURL
	}
	if jc.DataDir != nil {
		cfg.DataDir = *jc.DataDir
	}
	if jc.ProbeURL != nil {
		cfg.ProbeURL = *jc.ProbeURL
	}
	if jc.ProbeTimeout != nil {
		cfg.ProbeTimeout = jc.ProbeTimeout.Duration
	}
	if jc.Throttle != nil {
		cfg.Throttle = jc.Throttle.Duration
	}
	if jc.SyncInterval != nil {
		cfg.SyncInterval = jc.SyncInterval.Duration
	}
	if jc.SignalPoll != nil {
		cfg.SignalPoll = jc.SignalPoll.Duration
	}
	return nil
}

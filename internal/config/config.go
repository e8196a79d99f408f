// Package config loads the pipeline tuning parameters.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds the recognized pipeline options. Fields are pointers so
// that a partial JSON file only overrides what it names; the Get*
// methods supply defaults for the rest.
type Config struct {
	// Quality rule thresholds
	MinLineCount       *int `json:"min_line_count,omitempty"`
	MinDurationMinutes *int `json:"min_duration_minutes,omitempty"`
	MaxDurationMinutes *int `json:"max_duration_minutes,omitempty"`
	RedundancyWindow   *int `json:"redundancy_window,omitempty"`

	// Overlap resolution
	OpenEnd *bool `json:"open_end,omitempty"`
}

// Load reads a Config from a JSON file. Omitted fields keep their
// defaults, so partial configs are safe.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configured values are usable.
func (c *Config) Validate() error {
	if c.MinLineCount != nil && *c.MinLineCount < 0 {
		return fmt.Errorf("min_line_count must be non-negative, got %d", *c.MinLineCount)
	}
	if c.MinDurationMinutes != nil && *c.MinDurationMinutes < 0 {
		return fmt.Errorf("min_duration_minutes must be non-negative, got %d", *c.MinDurationMinutes)
	}
	if c.MaxDurationMinutes != nil && *c.MaxDurationMinutes <= 0 {
		return fmt.Errorf("max_duration_minutes must be positive, got %d", *c.MaxDurationMinutes)
	}
	if c.RedundancyWindow != nil && *c.RedundancyWindow < 0 {
		return fmt.Errorf("redundancy_window must be non-negative, got %d", *c.RedundancyWindow)
	}
	if c.GetMinDuration() > c.GetMaxDuration() {
		return fmt.Errorf("min_duration_minutes (%v) exceeds max_duration_minutes (%v)",
			c.GetMinDuration(), c.GetMaxDuration())
	}
	return nil
}

// GetMinLineCount returns the minimum scanline count or the default.
func (c *Config) GetMinLineCount() int {
	if c.MinLineCount == nil {
		return 50
	}
	return *c.MinLineCount
}

// GetMinDuration returns the minimum pass duration or the default.
func (c *Config) GetMinDuration() time.Duration {
	if c.MinDurationMinutes == nil {
		return 5 * time.Minute
	}
	return time.Duration(*c.MinDurationMinutes) * time.Minute
}

// GetMaxDuration returns the maximum pass duration or the default.
func (c *Config) GetMaxDuration() time.Duration {
	if c.MaxDurationMinutes == nil {
		return 120 * time.Minute
	}
	return time.Duration(*c.MaxDurationMinutes) * time.Minute
}

// GetRedundancyWindow returns the redundancy look-back window or the
// default.
func (c *Config) GetRedundancyWindow() int {
	if c.RedundancyWindow == nil {
		return 20
	}
	return *c.RedundancyWindow
}

// GetOpenEnd reports whether the last record of a platform's history
// keeps an undefined end bound.
func (c *Config) GetOpenEnd() bool {
	if c.OpenEnd == nil {
		return false
	}
	return *c.OpenEnd
}

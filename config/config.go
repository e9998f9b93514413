// Package config loads hitseries configuration from YAML.
//
// A configuration file describes the storage namespace, value mode,
// timezone, and granularity set:
//
//	base_key: stats
//	timezone: America/New_York
//	float: false
//	granularities:
//	  - name: 1minute
//	    duration: 1m
//	    ttl: 1h
//	  - name: 1day
//	    duration: 24h
//	    ttl: 744h
//
// Durations accept Go duration strings ("90s", "1h30m") or plain integer
// seconds. Validation mirrors the construction-time rules of the series
// package, so a malformed file fails at load rather than at first write.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/hitseries/series"
)

// Config is the complete engine configuration.
type Config struct {
	// BaseKey is the namespace prefix of every storage key. Empty means
	// the series default.
	BaseKey string `yaml:"base_key"`

	// Timezone is an IANA zone name ("America/New_York") used to align
	// day-or-longer buckets to local midnight. Empty means UTC alignment.
	Timezone string `yaml:"timezone"`

	// Float selects floating-point counters instead of integer counters.
	Float bool `yaml:"float"`

	// Granularities replaces the default granularity set when non-empty.
	Granularities []GranularityConfig `yaml:"granularities"`
}

// GranularityConfig describes one granularity entry.
type GranularityConfig struct {
	// Name identifies the granularity and becomes part of the storage key.
	Name string `yaml:"name"`

	// Duration is the bucket width.
	Duration Duration `yaml:"duration"`

	// TTL is the retention window.
	TTL Duration `yaml:"ttl"`
}

// Duration is a time.Duration that unmarshals from a Go duration string
// or a plain integer number of seconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var seconds int64
	if err := node.Decode(&seconds); err == nil {
		*d = Duration(time.Duration(seconds) * time.Second)
		return nil
	}

	var text string
	if err := node.Decode(&text); err != nil {
		return fmt.Errorf("invalid duration: %w", err)
	}

	parsed, err := time.ParseDuration(text)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(parsed)

	return nil
}

// Load reads and parses a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	return Parse(data)
}

// Parse parses configuration from YAML bytes and validates it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration without touching the filesystem or
// network. It reuses series construction so the two validation paths
// cannot drift.
func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}

	opts, err := c.SeriesOptions()
	if err != nil {
		return err
	}

	// Construct against no store; only configuration is checked.
	_, err = series.New[int64](nil, opts...)

	return err
}

// Location resolves the configured timezone, nil for UTC alignment.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return nil, nil
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}

	return loc, nil
}

// SeriesOptions converts the configuration into series construction
// options.
func (c *Config) SeriesOptions() ([]series.Option, error) {
	var opts []series.Option

	if c.BaseKey != "" {
		opts = append(opts, series.WithBaseKey(c.BaseKey))
	}

	loc, err := c.Location()
	if err != nil {
		return nil, err
	}
	if loc != nil {
		opts = append(opts, series.WithLocation(loc))
	}

	if len(c.Granularities) > 0 {
		granularities := make([]series.Granularity, len(c.Granularities))
		for i, g := range c.Granularities {
			granularities[i] = series.Granularity{
				Name:     g.Name,
				Duration: time.Duration(g.Duration),
				TTL:      time.Duration(g.TTL),
			}
		}
		opts = append(opts, series.WithGranularities(granularities...))
	}

	return opts, nil
}

// Package config loads the atlas.yaml project configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the atlas.yaml configuration.
type Config struct {
	// Rendering configuration
	Render *RenderConfig `yaml:"render,omitempty"`

	// Delta ingestion configuration
	Ingest *IngestConfig `yaml:"ingest,omitempty"`

	// Feed server configuration
	Feed *FeedConfig `yaml:"feed,omitempty"`

	// Analytics overlay configuration
	Analytics *AnalyticsConfig `yaml:"analytics,omitempty"`
}

// RenderConfig contains level-of-detail tuning.
type RenderConfig struct {
	// Camera ratio below which full detail is drawn
	HighBelow float64 `yaml:"highBelow,omitempty"`

	// Camera ratio at and above which minimal detail is drawn
	LowAt float64 `yaml:"lowAt,omitempty"`

	// Hysteresis band around the thresholds
	Deadband float64 `yaml:"deadband,omitempty"`

	// Background color as a hex string
	Background string `yaml:"background,omitempty"`
}

// IngestConfig controls delta coalescing.
type IngestConfig struct {
	// Quiet-period window before merged deltas are applied
	Window Duration `yaml:"window,omitempty"`

	// Whether a removal cancels a re-add merged into the same window
	RemovalWins *bool `yaml:"removalWins,omitempty"`
}

// Duration wraps time.Duration so yaml values can use forms like
// "250ms" or "2s".
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("config: bad duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// FeedConfig contains the feed server and file source settings.
type FeedConfig struct {
	// Listen address for the WebSocket hub
	Listen string `yaml:"listen,omitempty"`

	// Path to the snapshot JSON file served and watched
	Snapshot string `yaml:"snapshot,omitempty"`
}

// AnalyticsConfig contains overlay compositing settings.
type AnalyticsConfig struct {
	// Metric highlighted by default: degree | betweenness | closeness | clustering
	Metric string `yaml:"metric,omitempty"`

	// Value above which a node is highlighted
	HighlightThreshold float64 `yaml:"highlightThreshold,omitempty"`

	// Blend factor pulling node fills toward their cluster color
	ClusterBlend float64 `yaml:"clusterBlend,omitempty"`
}

// Load loads configuration from atlas.yaml in dir. A missing file
// yields the defaults.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, "atlas.yaml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	applyDefaults(&config)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Save writes the configuration to atlas.yaml in dir.
func Save(config *Config, dir string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "atlas.yaml"), data, 0644)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	removalWins := true
	return &Config{
		Render: &RenderConfig{
			HighBelow:  0.6,
			LowAt:      1.4,
			Deadband:   0,
			Background: "#0b0e14",
		},
		Ingest: &IngestConfig{
			Window:      Duration(time.Second),
			RemovalWins: &removalWins,
		},
		Feed: &FeedConfig{
			Listen:   "localhost:8090",
			Snapshot: "graph.json",
		},
		Analytics: &AnalyticsConfig{
			Metric:             "betweenness",
			HighlightThreshold: 0.7,
			ClusterBlend:       0.7,
		},
	}
}

// applyDefaults fills missing values from the defaults.
func applyDefaults(config *Config) {
	defaults := DefaultConfig()

	if config.Render == nil {
		config.Render = defaults.Render
	} else {
		if config.Render.HighBelow == 0 {
			config.Render.HighBelow = defaults.Render.HighBelow
		}
		if config.Render.LowAt == 0 {
			config.Render.LowAt = defaults.Render.LowAt
		}
		if config.Render.Background == "" {
			config.Render.Background = defaults.Render.Background
		}
	}

	if config.Ingest == nil {
		config.Ingest = defaults.Ingest
	} else {
		if config.Ingest.Window == 0 {
			config.Ingest.Window = defaults.Ingest.Window
		}
		if config.Ingest.RemovalWins == nil {
			config.Ingest.RemovalWins = defaults.Ingest.RemovalWins
		}
	}

	if config.Feed == nil {
		config.Feed = defaults.Feed
	} else {
		if config.Feed.Listen == "" {
			config.Feed.Listen = defaults.Feed.Listen
		}
		if config.Feed.Snapshot == "" {
			config.Feed.Snapshot = defaults.Feed.Snapshot
		}
	}

	if config.Analytics == nil {
		config.Analytics = defaults.Analytics
	} else {
		if config.Analytics.Metric == "" {
			config.Analytics.Metric = defaults.Analytics.Metric
		}
		if config.Analytics.HighlightThreshold == 0 {
			config.Analytics.HighlightThreshold = defaults.Analytics.HighlightThreshold
		}
		if config.Analytics.ClusterBlend == 0 {
			config.Analytics.ClusterBlend = defaults.Analytics.ClusterBlend
		}
	}
}

// Validate checks the configuration for inconsistent values.
func (c *Config) Validate() error {
	if c.Render.HighBelow >= c.Render.LowAt {
		return fmt.Errorf("config: render.highBelow (%v) must be below render.lowAt (%v)",
			c.Render.HighBelow, c.Render.LowAt)
	}
	if c.Render.Deadband < 0 {
		return fmt.Errorf("config: render.deadband must not be negative")
	}
	if c.Ingest.Window < 0 {
		return fmt.Errorf("config: ingest.window must not be negative")
	}
	switch c.Analytics.Metric {
	case "degree", "betweenness", "closeness", "clustering":
	default:
		return fmt.Errorf("config: unknown analytics.metric %q", c.Analytics.Metric)
	}
	if t := c.Analytics.HighlightThreshold; t <= 0 || t > 1 {
		return fmt.Errorf("config: analytics.highlightThreshold must be in (0, 1]")
	}
	return nil
}

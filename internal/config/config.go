// Package config defines pipeline configuration and its loading layers.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load(ctx) layers a YAML file and environment variables over the defaults.
// - Errors are wrapped with this package's sentinels.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/alurastore/internal/domain/sales"
)

const datasetBaseURL = "https://raw.githubusercontent.com/alura-es-cursos/challenge1-data-science-latam/refs/heads/main/base-de-datos-challenge1-latam/"

// SourceConfig names one store dataset.
type SourceConfig struct {
	// Store is the label attached to every row of the dataset.
	Store string `koanf:"store"`
	// Ref is an http(s) URL or a filesystem path.
	Ref string `koanf:"ref"`
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// OutputDir receives the chart images.
	OutputDir string `koanf:"output_dir"`

	// FetchTimeout bounds each HTTP fetch.
	FetchTimeout time.Duration `koanf:"fetch_timeout"`

	// TopN is the number of categories and products ranked per store.
	TopN int `koanf:"top_n"`

	// ExportPath enables the xlsx workbook export when set.
	ExportPath string `koanf:"export_path"`

	// MetricsPath enables the Prometheus textfile dump when set.
	MetricsPath string `koanf:"metrics_path"`

	// Sources lists the store datasets in load order.
	Sources []SourceConfig `koanf:"sources"`
}

// DefaultSources returns the four Alura challenge datasets.
func DefaultSources() []SourceConfig {
	return []SourceConfig{
		// The first upstream file name really carries a trailing space.
		{Store: "Tienda 1", Ref: datasetBaseURL + "tienda_1%20.csv"},
		{Store: "Tienda 2", Ref: datasetBaseURL + "tienda_2.csv"},
		{Store: "Tienda 3", Ref: datasetBaseURL + "tienda_3.csv"},
		{Store: "Tienda 4", Ref: datasetBaseURL + "tienda_4.csv"},
	}
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		OutputDir:    ".",
		FetchTimeout: 60 * time.Second,
		TopN:         3,
		Sources:      DefaultSources(),
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("%w: output_dir must not be empty", ErrInvalidConfig)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("%w: fetch_timeout must be positive", ErrInvalidConfig)
	}
	if c.TopN < 1 {
		return fmt.Errorf("%w: top_n must be at least 1", ErrInvalidConfig)
	}
	if len(c.Sources) == 0 {
		return fmt.Errorf("%w: at least one source is required", ErrInvalidConfig)
	}
	seen := make(map[string]struct{}, len(c.Sources))
	for i, s := range c.Sources {
		if strings.TrimSpace(s.Store) == "" {
			return fmt.Errorf("%w: sources[%d] has an empty store", ErrInvalidConfig, i)
		}
		if strings.TrimSpace(s.Ref) == "" {
			return fmt.Errorf("%w: sources[%d] (%s) has an empty ref", ErrInvalidConfig, i, s.Store)
		}
		if _, dup := seen[s.Store]; dup {
			return fmt.Errorf("%w: duplicate store %q", ErrInvalidConfig, s.Store)
		}
		seen[s.Store] = struct{}{}
	}
	return nil
}

// SalesSources converts the configured sources for the loader.
func (c *Config) SalesSources() []sales.Source {
	out := make([]sales.Source, len(c.Sources))
	for i, s := range c.Sources {
		out[i] = sales.Source{Store: s.Store, Ref: s.Ref}
	}
	return out
}

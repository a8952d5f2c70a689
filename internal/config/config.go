package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every environment variable name.
const Prefix = "PLUGINSPI"

// DefaultMarker is the file name of a declaration unit.
const DefaultMarker = "plugin-info.hcl"

// Config holds the environment configuration.
//
// Fields carry no envconfig name tags: a tagged name is also looked up
// without the prefix, and an unprefixed PATH is always set.
type Config struct {
	Path      string
	Marker    string `default:"plugin-info.hcl"`
	LogLevel  string `split_words:"true" default:"info"`
	LogFormat string `split_words:"true" default:"text"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Marker:    DefaultMarker,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// SearchPath splits Path into its entries, dropping empty elements.
func (c *Config) SearchPath() []string {
	return SplitSearchPath(c.Path)
}

// SplitSearchPath splits a platform list separated string into search path
// entries, dropping empty elements.
func SplitSearchPath(list string) []string {
	var entries []string
	for _, entry := range filepath.SplitList(list) {
		if strings.TrimSpace(entry) == "" {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

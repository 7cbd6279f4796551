// Package config loads Config from an optional YAML file over a set of
// defaults rooted at a build directory.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the constants and paths shared across build, merge, and
// query. The BM25/RRF fields default to the values of the rank package's
// constants; the rank package scores with its own constants and does not
// read these fields.
type Config struct {
	BuildDir          string `yaml:"buildDir"`
	MaxBufferPostings int    `yaml:"maxBufferPostings"`
	SubsetFile        string `yaml:"subsetFile"`

	BM25K1 float64 `yaml:"bm25K1"`
	BM25B  float64 `yaml:"bm25B"`
	RRFK   float64 `yaml:"rrfK"`

	ServerPort int `yaml:"serverPort"`
	MetricsPort int `yaml:"metricsPort"`
}

// DefaultConfig returns a Config with the documented defaults, rooted at buildDir.
func DefaultConfig(buildDir string) *Config {
	return &Config{
		BuildDir:          buildDir,
		MaxBufferPostings: 10_000_000,
		BM25K1:            1.2,
		BM25B:             0.75,
		RRFK:              60.0,
		ServerPort:        8080,
		MetricsPort:       9090,
	}
}

// Load starts from DefaultConfig(buildDir) and, if path is non-empty,
// overlays fields present in the YAML file at path.
func Load(path, buildDir string) (*Config, error) {
	cfg := DefaultConfig(buildDir)
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

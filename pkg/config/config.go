// Package config loads daemon settings from YAML with environment
// overrides for secrets.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the daemon configuration.
type Config struct {
	// APIKey for The Odds API. The ODDS_API_KEY environment variable
	// overrides the file value so keys stay out of checked-in configs.
	APIKey string `yaml:"api_key"`

	DBPath     string `yaml:"db_path"`
	ListenAddr string `yaml:"listen_addr"`

	PollInterval time.Duration `yaml:"poll_interval"`
	Sports       []string      `yaml:"sports"`

	MinEdge  float64 `yaml:"min_edge"`
	MinBooks int     `yaml:"min_books"`

	// LowQuotaThreshold stops batch fetches when remaining API quota
	// drops this low. 0 disables the stop.
	LowQuotaThreshold float64 `yaml:"low_quota_threshold"`
}

// Default returns the settings used when a field is absent.
func Default() Config {
	return Config{
		DBPath:            "data/sharpline.db",
		ListenAddr:        ":8090",
		PollInterval:      5 * time.Minute,
		Sports:            []string{"NBA", "NFL", "NHL"},
		MinEdge:           0.035,
		MinBooks:          2,
		LowQuotaThreshold: 25,
	}
}

// Load reads the YAML file at path, fills defaults, and applies
// environment overrides. An empty path skips the file and uses
// defaults plus environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	if key := os.Getenv("ODDS_API_KEY"); key != "" {
		cfg.APIKey = key
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.PollInterval < time.Minute {
		return fmt.Errorf("poll_interval %s too aggressive, minimum 1m", c.PollInterval)
	}
	if c.MinEdge < 0 || c.MinEdge > 0.5 {
		return fmt.Errorf("min_edge %v out of range", c.MinEdge)
	}
	if c.MinBooks < 1 {
		return fmt.Errorf("min_books %d must be at least 1", c.MinBooks)
	}
	if len(c.Sports) == 0 {
		return fmt.Errorf("no sports configured")
	}
	return nil
}

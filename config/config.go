// Package config loads the externally-supplied runtime configuration:
// feed URL set, static schedule source, cache TTL, capacity and
// network timeout. None of it is business logic.
package config

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type StaticConfig struct {
	// Either a URL to a zipped GTFS bundle, or three local files.
	URL           string `yaml:"url" validate:"omitempty,url"`
	StopsPath     string `yaml:"stops_path" validate:"required_without=URL"`
	RoutesPath    string `yaml:"routes_path" validate:"required_without=URL"`
	StopTimesPath string `yaml:"stop_times_path" validate:"required_without=URL"`
}

type CacheConfig struct {
	TTLSeconds     int `yaml:"ttl_seconds" validate:"gte=0"`
	MaxEntries     int `yaml:"max_entries" validate:"gte=0"`
	TimeoutSeconds int `yaml:"timeout_seconds" validate:"gte=0"`
}

type Config struct {
	Static    StaticConfig `yaml:"static"`
	Feeds     []string     `yaml:"feeds" validate:"required,min=1,dive,url"`
	AlertFeed string       `yaml:"alert_feed" validate:"required,url"`
	Cache     CacheConfig  `yaml:"cache"`
}

// Load reads, validates and defaults a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse validates and defaults a YAML config document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	v := validator.New()
	if err := v.Struct(&cfg); err != nil {
		return nil, err
	}

	if cfg.Cache.TTLSeconds == 0 {
		cfg.Cache.TTLSeconds = 30
	}
	if cfg.Cache.MaxEntries == 0 {
		cfg.Cache.MaxEntries = 10
	}
	if cfg.Cache.TimeoutSeconds == 0 {
		cfg.Cache.TimeoutSeconds = 10
	}

	return &cfg, nil
}

func (c *CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

func (c *CacheConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

package config

import (
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ScoringModeStandard = "standard"
	ScoringModeLegacy   = "legacy"

	defaultTimeLimitSec = 10
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		TTL string `yaml:"ttl"`
	} `yaml:"quiz"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Scoring struct {
		Mode                string  `yaml:"mode"`
		DefaultTimeLimitSec float64 `yaml:"defaultTimeLimitSec"`
	} `yaml:"scoring"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// ScoringMode is "legacy" only when explicitly configured.
func (c Config) ScoringMode() string {
	if strings.EqualFold(strings.TrimSpace(c.Scoring.Mode), ScoringModeLegacy) {
		return ScoringModeLegacy
	}
	return ScoringModeStandard
}

// DefaultTimeLimit is used for questions that carry no time limit of their own.
func (c Config) DefaultTimeLimit() float64 {
	if c.Scoring.DefaultTimeLimitSec > 0 {
		return c.Scoring.DefaultTimeLimitSec
	}
	return defaultTimeLimitSec
}

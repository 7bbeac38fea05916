// Package config loads service settings from an optional YAML file, a .env
// file and the process environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type Config struct {
	HTTPAddr      string        `yaml:"http_addr"`
	RedisAddr     string        `yaml:"redis_addr"`
	DatabaseURL   string        `yaml:"database_url"`
	SessionStore  string        `yaml:"session_store"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
	SweepSchedule string        `yaml:"sweep_schedule"`
	LogLevel      string        `yaml:"log_level"`
	LogFormat     string        `yaml:"log_format"`
	RoutingRule   string        `yaml:"routing_rule"`
}

func Default() Config {
	return Config{
		HTTPAddr:      ":8080",
		SessionStore:  StoreMemory,
		SessionTTL:    30 * time.Minute,
		SweepSchedule: "@every 1m",
		LogLevel:      "info",
		LogFormat:     "json",
		RoutingRule:   "whitelist",
	}
}

// Load builds the configuration. path may be empty; a missing .env file is
// not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"HTTP_ADDR":      &cfg.HTTPAddr,
		"REDIS_ADDR":     &cfg.RedisAddr,
		"DB_URL":         &cfg.DatabaseURL,
		"SESSION_STORE":  &cfg.SessionStore,
		"SWEEP_SCHEDULE": &cfg.SweepSchedule,
		"LOG_LEVEL":      &cfg.LogLevel,
		"LOG_FORMAT":     &cfg.LogFormat,
		"ROUTING_RULE":   &cfg.RoutingRule,
	}
	for name, dst := range strs {
		if v, ok := os.LookupEnv(name); ok {
			*dst = strings.TrimSpace(v)
		}
	}

	if v, ok := os.LookupEnv("SESSION_TTL"); ok {
		ttl, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("SESSION_TTL: %w", err)
		}
		cfg.SessionTTL = ttl
	}
	return nil
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	switch c.SessionStore {
	case StoreMemory:
	case StoreRedis:
		if c.RedisAddr == "" {
			return errors.New("session_store redis requires redis_addr")
		}
	default:
		return fmt.Errorf("unknown session_store %q", c.SessionStore)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be positive, got %s", c.SessionTTL)
	}
	if c.HTTPAddr == "" {
		return errors.New("http_addr is required")
	}
	return nil
}

package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDBPath       = "./flagboard.sqlite"
	DefaultChallengeDir = "./chals"
	DefaultPoints       = 500
	DefaultCacheTTL     = 30 * time.Second
)

type Config struct {
	DB struct {
		Path string `yaml:"path"`
	} `yaml:"db"`
	Challenges struct {
		Dir           string `yaml:"dir"`
		DefaultPoints int    `yaml:"default_points"`
	} `yaml:"challenges"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
}

// Load reads YAML config from path and fills in defaults. A missing file is
// not an error; the defaults apply.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return withDefaults(cfg), nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return withDefaults(cfg), nil
}

func withDefaults(cfg Config) Config {
	if cfg.DB.Path == "" {
		cfg.DB.Path = DefaultDBPath
	}
	if cfg.Challenges.Dir == "" {
		cfg.Challenges.Dir = DefaultChallengeDir
	}
	if cfg.Challenges.DefaultPoints <= 0 {
		cfg.Challenges.DefaultPoints = DefaultPoints
	}
	return cfg
}

// CacheTTL parses the configured leaderboard cache TTL, falling back to the
// default on empty or malformed values.
func (c Config) CacheTTL() time.Duration {
	if c.Redis.TTL == "" {
		return DefaultCacheTTL
	}
	if d, err := time.ParseDuration(c.Redis.TTL); err == nil {
		return d
	}
	return DefaultCacheTTL
}

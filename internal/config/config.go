package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		Driver         string `yaml:"driver"` // postgres, mysql, sqlite
		DSN            string `yaml:"url"`
		MaxOpenConns   int    `yaml:"max_open_conns"`
		QueryTimeoutMs int    `yaml:"query_timeout_ms"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // minutes
	} `yaml:"jwt"`

	Notifications struct {
		QueueSize int `yaml:"queue_size"`
		Breaker   struct {
			MaxRequests  uint32  `yaml:"max_requests"`
			IntervalSec  int     `yaml:"interval_sec"`
			TimeoutSec   int     `yaml:"timeout_sec"`
			MinRequests  uint32  `yaml:"min_requests"`
			FailureRatio float64 `yaml:"failure_ratio"`
		} `yaml:"breaker"`
	} `yaml:"notifications"`
}

var AppConfig *Config

// LoadConfig reads config/config.yaml (or CONFIG_PATH). When DATABASE_URL is
// set the file is skipped and the environment is used instead.
func LoadConfig() {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	AppConfig = cfg
}

// Load builds a Config without touching the global.
func Load() (*Config, error) {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			return nil, fmt.Errorf("open config file at %s: %w", configPath, err)
		}
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse config file at %s: %w", configPath, err)
		}
		cfg.Defaults()
		return &cfg, nil
	}

	cfg.Database.DSN = dbURL
	cfg.Database.Driver = os.Getenv("DATABASE_DRIVER")
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = 60

	cfg.Defaults()
	return &cfg, nil
}

// Defaults fills unset values.
func (c *Config) Defaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 4000
	}
	if c.Server.Env == "" {
		c.Server.Env = "development"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.QueryTimeoutMs == 0 {
		c.Database.QueryTimeoutMs = 5000
	}
	if c.JWT.TTL == 0 {
		c.JWT.TTL = 60
	}

	n := &c.Notifications
	if n.QueueSize == 0 {
		n.QueueSize = 256
	}
	if n.Breaker.MaxRequests == 0 {
		n.Breaker.MaxRequests = 5
	}
	if n.Breaker.IntervalSec == 0 {
		n.Breaker.IntervalSec = 30
	}
	if n.Breaker.TimeoutSec == 0 {
		n.Breaker.TimeoutSec = 10
	}
	if n.Breaker.MinRequests == 0 {
		n.Breaker.MinRequests = 3
	}
	if n.Breaker.FailureRatio == 0 {
		n.Breaker.FailureRatio = 0.6
	}
}

func (c *Config) QueryTimeout() time.Duration {
	return time.Duration(c.Database.QueryTimeoutMs) * time.Millisecond
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Feed struct {
		Source       string        `yaml:"source"` // websocket or kafka
		WebSocketURL string        `yaml:"websocket_url"`
		SymbolA      string        `yaml:"symbol_a"`
		SymbolB      string        `yaml:"symbol_b"`
		BackoffMin   time.Duration `yaml:"backoff_min"`
		BackoffMax   time.Duration `yaml:"backoff_max"`
		PingInterval time.Duration `yaml:"ping_interval"`
		MaxRPS       int           `yaml:"max_rps"`
	} `yaml:"feed"`
	Analytics struct {
		WindowSize           int     `yaml:"window_size"`
		HistorySize          int     `yaml:"history_size"`
		HedgeRatio           float64 `yaml:"hedge_ratio"`
		EntryThreshold       float64 `yaml:"zscore_entry_threshold"`
		ExitThreshold        float64 `yaml:"zscore_exit_threshold"`
		MinCorrelation       float64 `yaml:"min_correlation"`
		StationarityBand     float64 `yaml:"stationarity_band"`
		StationarityMaxDrift float64 `yaml:"stationarity_max_drift"`
	} `yaml:"analytics"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		TicksTopic   string   `yaml:"ticks_topic"`
		AlertsTopic  string   `yaml:"alerts_topic"`
		LogsTopic    string   `yaml:"logs_topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer    struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID    string        `yaml:"group_id"`
			RetryMax   int           `yaml:"retry_max"`
			BackoffMin time.Duration `yaml:"backoff_min"`
			BackoffMax time.Duration `yaml:"backoff_max"`
			DLQTopic   string        `yaml:"dlq_topic"`
			MinBytes   int           `yaml:"min_bytes"`
			MaxBytes   int           `yaml:"max_bytes"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	Cache struct {
		Backend string        `yaml:"backend"` // none, memory or redis
		TTL     time.Duration `yaml:"ttl"`
		Redis   struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("FEED_SOURCE"); v != "" {
		c.Feed.Source = v
	}
	if v := os.Getenv("SYMBOL_A"); v != "" {
		c.Feed.SymbolA = v
	}
	if v := os.Getenv("SYMBOL_B"); v != "" {
		c.Feed.SymbolB = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_ALERTS_TOPIC"); v != "" {
		c.Kafka.AlertsTopic = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Cache.Redis.Host = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Feed.Source == "" {
		c.Feed.Source = "websocket"
	}
	if c.Feed.WebSocketURL == "" {
		c.Feed.WebSocketURL = "wss://fstream.binance.com/ws"
	}
	if c.Analytics.WindowSize == 0 {
		c.Analytics.WindowSize = 50
	}
	if c.Analytics.HistorySize == 0 {
		c.Analytics.HistorySize = 500
	}
	if c.Analytics.HedgeRatio == 0 {
		c.Analytics.HedgeRatio = 25.0
	}
	if c.Analytics.EntryThreshold == 0 {
		c.Analytics.EntryThreshold = 2.0
	}
	if c.Analytics.ExitThreshold == 0 {
		c.Analytics.ExitThreshold = 0.5
	}
	if c.Analytics.MinCorrelation == 0 {
		c.Analytics.MinCorrelation = 0.7
	}
	if c.Analytics.StationarityBand == 0 {
		c.Analytics.StationarityBand = 2.0
	}
	if c.Analytics.StationarityMaxDrift == 0 {
		c.Analytics.StationarityMaxDrift = 0.1
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 2 * time.Second
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Feed.Source != "websocket" && c.Feed.Source != "kafka" {
		return fmt.Errorf("feed.source must be 'websocket' or 'kafka', got '%s'", c.Feed.Source)
	}
	if c.Feed.SymbolA == "" || c.Feed.SymbolB == "" {
		return fmt.Errorf("feed.symbol_a and feed.symbol_b are required")
	}
	if strings.EqualFold(c.Feed.SymbolA, c.Feed.SymbolB) {
		return fmt.Errorf("feed symbols must differ, got '%s' twice", c.Feed.SymbolA)
	}
	if c.Feed.Source == "kafka" {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers are required for the kafka feed")
		}
		if c.Kafka.TicksTopic == "" {
			return fmt.Errorf("kafka.ticks_topic is required for the kafka feed")
		}
	}
	if c.Analytics.WindowSize < 2 {
		return fmt.Errorf("analytics.window_size must be at least 2, got %d", c.Analytics.WindowSize)
	}
	switch c.Cache.Backend {
	case "none", "memory", "redis":
	default:
		return fmt.Errorf("cache.backend must be 'none', 'memory' or 'redis', got '%s'", c.Cache.Backend)
	}
	return nil
}

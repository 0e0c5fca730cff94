package config

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const DefaultDepth = 5

var (
	errInvalidDepth     = errors.New("book.depth must be at least 1")
	errFeedMissingTopic = errors.New("feed enabled without brokers or topic")
)

type AppConfig struct {
	ServiceName string     `yaml:"service_name"`
	LogLevel    string     `yaml:"log_level"`
	Book        BookConfig `yaml:"book"`
	Feed        FeedConfig `yaml:"feed"`
}

type BookConfig struct {
	Symbol string `yaml:"symbol"`
	Depth  int    `yaml:"depth"`
}

type FeedConfig struct {
	Enabled      bool     `yaml:"enabled"`
	Brokers      []string `yaml:"brokers"`
	Topic        string   `yaml:"topic"`
	GroupID      string   `yaml:"group_id"`
	MaxRetries   uint64   `yaml:"max_retries"`
	BackoffMaxMs int64    `yaml:"backoff_max_ms"`
}

func Default() *AppConfig {
	return &AppConfig{
		ServiceName: "orderbook",
		LogLevel:    "info",
		Book: BookConfig{
			Depth: DefaultDepth,
		},
		Feed: FeedConfig{
			Topic:        "orderbook.trades",
			GroupID:      "orderbook-trades",
			MaxRetries:   3,
			BackoffMaxMs: 2000,
		},
	}
}

// Load load config from file and environment variables. With no path and no
// CONFIG_FILE the defaults are returned.
func Load(filePath string) (*AppConfig, error) {
	if len(filePath) == 0 {
		filePath = os.Getenv("CONFIG_FILE")
	}

	cfg := Default()
	if len(filePath) == 0 {
		zap.S().Debug("no config file, using defaults")
		return cfg, nil
	}

	fields := []interface{}{
		"func",
		"config.readFromFile",
		"filePath",
		filePath,
	}

	sugar := zap.S().With(fields...)

	sugar.Debug("Load config...")

	configBytes, err := os.ReadFile(filePath)
	if err != nil {
		sugar.Error("Failed to load config file")
		return nil, fmt.Errorf("read config: %w", err)
	}
	configBytes = []byte(os.ExpandEnv(string(configBytes)))

	err = yaml.Unmarshal(configBytes, cfg)
	if err != nil {
		sugar.Error("Failed to parse config file")
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	zap.S().Debugf("config: %+v", cfg)

	return cfg, nil
}

func (c *AppConfig) Validate() error {
	if c.Book.Depth < 1 {
		return errInvalidDepth
	}
	if c.Feed.Enabled && (len(c.Feed.Brokers) == 0 || c.Feed.Topic == "") {
		return errFeedMissingTopic
	}
	return nil
}

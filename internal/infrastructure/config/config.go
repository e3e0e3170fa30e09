package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Name       string        `yaml:"name"`
	Root       string        `yaml:"root"`
	StaleAfter time.Duration `yaml:"stale_after"`
	FeedURLs   []FeedURL     `yaml:"feed_urls"`
}

type FeedURL struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type HTTPConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type KafkaTopics struct {
	FeedRefreshed string `yaml:"feed_refreshed"`
}

type KafkaConfig struct {
	Brokers []string    `yaml:"brokers"`
	Topics  KafkaTopics `yaml:"topics"`
}

type Config struct {
	App     AppConfig     `yaml:"app"`
	HTTP    HTTPConfig    `yaml:"http"`
	Logging LoggingConfig `yaml:"logging"`
	Kafka   KafkaConfig   `yaml:"kafka"`
}

// Default is used as is when no config file is given and as the base that a
// config file is decoded over.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:       "feedviewer",
			Root:       os.Getenv("ROOT"),
			StaleAfter: 30 * time.Minute,
			FeedURLs: []FeedURL{
				{Name: "bloodypulptales", URL: "http://bloodypulptales.com/feeds/posts/default"},
				{Name: "thehorrorsofitall", URL: "http://thehorrorsofitall.blogspot.com/feeds/posts/default"},
				{Name: "pappysgoldenage", URL: "http://pappysgoldenage.blogspot.com/feeds/posts/default"},
			},
		},
		HTTP: HTTPConfig{
			Host:         "0.0.0.0",
			Port:         5000,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Kafka: KafkaConfig{
			Topics: KafkaTopics{FeedRefreshed: "feed_refreshed"},
		},
	}
}

func (c *Config) GetAppName() string {
	return c.App.Name
}

func (c *Config) GetStaleAfter() time.Duration {
	return c.App.StaleAfter
}

func (c *Config) GetHTTPAddr() string {
	return net.JoinHostPort(c.HTTP.Host, strconv.Itoa(c.HTTP.Port))
}

func (c *Config) GetFeedURLs() []string {
	urls := make([]string, 0, len(c.App.FeedURLs))
	for _, f := range c.App.FeedURLs {
		urls = append(urls, f.URL)
	}
	return urls
}

// GetFeedNames maps feed URLs to their configured names, for logging.
func (c *Config) GetFeedNames() map[string]string {
	names := make(map[string]string, len(c.App.FeedURLs))
	for _, f := range c.App.FeedURLs {
		if f.Name != "" {
			names[f.URL] = f.Name
		}
	}
	return names
}

func (c *Config) validate() error {
	if len(c.App.FeedURLs) == 0 {
		return fmt.Errorf("no feed urls configured")
	}
	for i, f := range c.App.FeedURLs {
		if f.URL == "" {
			return fmt.Errorf("feed_urls[%d]: url is empty", i)
		}
	}
	if c.App.StaleAfter <= 0 {
		return fmt.Errorf("stale_after must be positive, got %s", c.App.StaleAfter)
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid http port %d", c.HTTP.Port)
	}
	return nil
}

// LoadConfig decodes the YAML file at configPath over the defaults. ${VAR}
// references in the file are expanded from the environment. An empty path
// yields the defaults.
func LoadConfig(configPath string) (*Config, error) {
	cfg := Default()
	if configPath == "" {
		return cfg, cfg.validate()
	}

	raw, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(raw))

	if err = yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config yaml: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

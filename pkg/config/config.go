// Package config loads lawcite configuration from defaults, an optional
// YAML file and LAWCITE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/kimjonghyeok62/law-citation-search/pkg/lawapi"
	"github.com/kimjonghyeok62/law-citation-search/pkg/logging"
	"github.com/kimjonghyeok62/law-citation-search/pkg/resolve"
)

// Config is the complete lawcite configuration.
type Config struct {
	API     APIConfig      `koanf:"api"`
	Cache   CacheConfig    `koanf:"cache"`
	Resolve ResolveConfig  `koanf:"resolve"`
	Log     logging.Config `koanf:"log"`
}

// APIConfig configures the law.go.kr DRF client.
type APIConfig struct {
	BaseURL           string              `koanf:"base_url"`
	OC                string              `koanf:"oc"`
	ProxyBase         string              `koanf:"proxy_base"`
	Timeout           time.Duration       `koanf:"timeout"`
	RequestsPerSecond float64             `koanf:"requests_per_second"`
	Burst             int                 `koanf:"burst"`
	UserAgent         string              `koanf:"user_agent"`
	Aliases           map[string][]string `koanf:"aliases"`
}

// CacheConfig configures the law and article caches.
type CacheConfig struct {
	TTL time.Duration `koanf:"ttl"`
}

// ResolveConfig configures citation resolution.
type ResolveConfig struct {
	Concurrency int `koanf:"concurrency"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	var cfg Config
	applyDefaults(&cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = lawapi.DefaultBaseURL
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = lawapi.DefaultTimeout
	}
	if cfg.API.RequestsPerSecond == 0 {
		cfg.API.RequestsPerSecond = lawapi.DefaultRequestsPerSecond
	}
	if cfg.API.Burst == 0 {
		cfg.API.Burst = lawapi.DefaultBurst
	}
	if cfg.API.UserAgent == "" {
		cfg.API.UserAgent = lawapi.DefaultUserAgent
	}
	if len(cfg.API.Aliases) == 0 {
		cfg.API.Aliases = lawapi.DefaultAliases()
	}

	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = lawapi.DefaultCacheTTL
	}

	if cfg.Resolve.Concurrency == 0 {
		cfg.Resolve.Concurrency = resolve.DefaultConcurrency
	}

	defaults := logging.DefaultConfig()
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = defaults.Format
	}
}

// Validate checks the configuration for values no component can work with.
func (c *Config) Validate() error {
	if err := validateHTTPURL("api.base_url", c.API.BaseURL); err != nil {
		return err
	}
	if c.API.ProxyBase != "" {
		if err := validateHTTPURL("api.proxy_base", c.API.ProxyBase); err != nil {
			return err
		}
	}
	if c.API.Timeout <= 0 {
		return errors.New("api.timeout must be positive")
	}
	if c.API.RequestsPerSecond < 0 {
		return fmt.Errorf("api.requests_per_second must not be negative: %v", c.API.RequestsPerSecond)
	}
	if c.API.Burst < 1 {
		return fmt.Errorf("api.burst must be at least 1: %d", c.API.Burst)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative: %s", c.Cache.TTL)
	}
	if c.Resolve.Concurrency < 1 {
		return fmt.Errorf("resolve.concurrency must be at least 1: %d", c.Resolve.Concurrency)
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

func validateHTTPURL(field, raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("%s must be an http(s) URL: %q", field, raw)
	}
	return nil
}

// LawAPI returns the law API client configuration.
func (c *Config) LawAPI(logger *zap.Logger) lawapi.Config {
	return lawapi.Config{
		BaseURL:           c.API.BaseURL,
		OC:                c.API.OC,
		ProxyBase:         c.API.ProxyBase,
		UserAgent:         c.API.UserAgent,
		Timeout:           c.API.Timeout,
		RequestsPerSecond: c.API.RequestsPerSecond,
		Burst:             c.API.Burst,
		CacheTTL:          c.Cache.TTL,
		Aliases:           c.API.Aliases,
		Logger:            logger,
	}
}

// Resolver returns the resolver configuration.
func (c *Config) Resolver(logger *zap.Logger) resolve.Config {
	return resolve.Config{
		Concurrency: c.Resolve.Concurrency,
		Logger:      logger,
	}
}

// Package config loads and validates scraper configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Source  SourceConfig  `mapstructure:"source"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Storage StorageConfig `mapstructure:"storage"`
	DB      DBConfig      `mapstructure:"db"`
	AI      AIConfig      `mapstructure:"ai"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// MetricsConfig exposes Prometheus metrics during a run. An empty address
// disables the endpoint.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// SourceConfig tunes listing traversal.
type SourceConfig struct {
	Name        string `mapstructure:"name"`
	PageDelayMs int    `mapstructure:"page_delay_ms"`
	MaxPages    int    `mapstructure:"max_pages"`
}

// HTTPConfig configures HTTP client retry behavior.
type HTTPConfig struct {
	UserAgent        string `mapstructure:"user_agent"`
	TimeoutSeconds   int    `mapstructure:"timeout_seconds"`
	MaxRetries       int    `mapstructure:"max_retries"`
	BackoffInitialMs int    `mapstructure:"backoff_initial_ms"`
}

// StorageConfig sets the local JSON store location.
type StorageConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	FilePath string `mapstructure:"file_path"`
}

// DBConfig controls access to the relational database.
type DBConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	DSN          string `mapstructure:"dsn"`
	Table        string `mapstructure:"table"`
	BatchSize    int    `mapstructure:"batch_size"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

// AIConfig configures the optional remote classifier.
type AIConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	Endpoint       string  `mapstructure:"endpoint"`
	APIKey         string  `mapstructure:"api_key"`
	Model          string  `mapstructure:"model"`
	MaxTokens      int     `mapstructure:"max_tokens"`
	Temperature    float64 `mapstructure:"temperature"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("AYUDAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("source.name", "junta-cyl")
	v.SetDefault("source.page_delay_ms", 500)
	v.SetDefault("source.max_pages", 0)
	v.SetDefault("http.timeout_seconds", 15)
	v.SetDefault("http.max_retries", 3)
	v.SetDefault("http.backoff_initial_ms", 1000)
	v.SetDefault("storage.enabled", true)
	v.SetDefault("storage.file_path", "data/ayudas.json")
	v.SetDefault("db.enabled", false)
	v.SetDefault("db.table", "ayudas")
	v.SetDefault("db.batch_size", 100)
	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gpt-3.5-turbo")
	v.SetDefault("ai.max_tokens", 500)
	v.SetDefault("ai.temperature", 0.3)
	v.SetDefault("ai.timeout_seconds", 20)
	v.SetDefault("metrics.addr", "")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Source.Name == "" {
		return fmt.Errorf("source.name must be set")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.HTTP.MaxRetries <= 0 {
		return fmt.Errorf("http.max_retries must be > 0")
	}
	if c.Storage.Enabled && c.Storage.FilePath == "" {
		return fmt.Errorf("storage.file_path must be set when local storage is enabled")
	}
	if c.DB.Enabled && c.DB.DSN == "" {
		return fmt.Errorf("db.dsn must be set when the database is enabled")
	}
	if c.AI.Enabled && c.AI.Endpoint == "" {
		return fmt.Errorf("ai.endpoint must be set when the remote classifier is enabled")
	}
	if !c.Storage.Enabled && !c.DB.Enabled {
		return fmt.Errorf("at least one of storage or db must be enabled")
	}
	return nil
}

// HTTPTimeout converts the HTTP timeout config into a duration.
func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// BackoffInitial converts the retry backoff config into a duration.
func (c Config) BackoffInitial() time.Duration {
	return time.Duration(c.HTTP.BackoffInitialMs) * time.Millisecond
}

// PageDelay converts the inter-page pacing config into a duration.
func (c Config) PageDelay() time.Duration {
	return time.Duration(c.Source.PageDelayMs) * time.Millisecond
}

package config

import (
	"fmt"
	"time"
)

// Config holds the application configuration
type Config struct {
	Port      int    `mapstructure:"port"`
	DataDir   string `mapstructure:"data_dir"`
	ModelPath string `mapstructure:"model_path"`
	Version   string `mapstructure:"-"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	Form    FormConfig    `mapstructure:"form"`
	Redis   RedisConfig   `mapstructure:"redis"`
	History HistoryConfig `mapstructure:"history"`
}

// FormConfig tunes the submission pipeline used by the page and terminal
type FormConfig struct {
	// PredictURL is where submissions are posted. Empty means this
	// server's own /api/predict.
	PredictURL string `mapstructure:"predict_url"`
	// RequestTimeout bounds the outbound request. Zero waits indefinitely.
	RequestTimeout   time.Duration `mapstructure:"request_timeout"`
	ErrorNoticeTTL   time.Duration `mapstructure:"error_notice_ttl"`
	SuccessNoticeTTL time.Duration `mapstructure:"success_notice_ttl"`
	SummaryDebounce  time.Duration `mapstructure:"summary_debounce"`
}

// RedisConfig enables the prediction cache when Addr is set
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// HistoryConfig controls the prediction history database
type HistoryConfig struct {
	// Path of the SQLite file. Empty disables history.
	Path          string        `mapstructure:"path"`
	Retention     time.Duration `mapstructure:"retention"`
	PruneSchedule string        `mapstructure:"prune_schedule"`
}

// PredictEndpoint resolves the URL the form pipeline posts to
func (c *Config) PredictEndpoint() string {
	if c.Form.PredictURL != "" {
		return c.Form.PredictURL
	}
	return fmt.Sprintf("http://localhost:%d/api/predict", c.Port)
}

// Validate checks the configuration for values that cannot work
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.Form.RequestTimeout < 0 {
		return fmt.Errorf("form.request_timeout must not be negative")
	}
	if c.Redis.Addr != "" && c.Redis.TTL <= 0 {
		return fmt.Errorf("redis.ttl must be positive when redis is enabled")
	}
	if c.History.Retention < 0 {
		return fmt.Errorf("history.retention must not be negative")
	}
	return nil
}

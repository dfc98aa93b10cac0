// Package config provides configuration management for the logward logging facility.
// It supports loading configuration from YAML files, JSON files, and environment variables
// with automatic validation and default value application.
//
// Example usage:
//
//	cfg, err := config.Load("config.yaml", "LOGWARD")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Or panic on error:
//	cfg := config.MustLoad("config.yaml", "LOGWARD")
package config

import (
	"time"
)

// Config represents the complete configuration for the logging facility.
// It is constructed once at process start and is long-lived for the process lifetime.
type Config struct {
	Service ServiceConfig `mapstructure:"service"`
	Log     LogConfig     `mapstructure:"log"`
	Elastic ElasticConfig `mapstructure:"elastic"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// ServiceConfig contains the service identity attached to every log record.
type ServiceConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"` // development, staging, production
}

// LogConfig contains local sink configuration: log directory, per-sink minimum
// levels, and the rotation policy shared by both file sinks.
type LogConfig struct {
	Directory    string `mapstructure:"directory"`     // log directory, created if absent
	FileLevel    string `mapstructure:"file_level"`    // minimum level for both file sinks
	ConsoleLevel string `mapstructure:"console_level"` // minimum level for the console sink
	MaxBackups   int    `mapstructure:"max_backups"`   // retained daily generations
}

// ElasticConfig contains remote document store configuration.
// An empty host list means the remote sink is not installed; all local sinks
// still function.
type ElasticConfig struct {
	Hosts        []string      `mapstructure:"hosts"`
	Username     string        `mapstructure:"username"`
	Password     string        `mapstructure:"password"`
	IndexPrefix  string        `mapstructure:"index_prefix"` // daily index is "<prefix>-<YYYY.MM.DD>"
	Level        string        `mapstructure:"level"`        // minimum level for the remote sink
	QueueSize    int           `mapstructure:"queue_size"`   // bounded dispatch queue; overflow drops
	FlushTimeout time.Duration `mapstructure:"flush_timeout"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Port      int    `mapstructure:"port"`
	Path      string `mapstructure:"path"`
	Namespace string `mapstructure:"namespace"` // Metric prefix
}

// Enabled reports whether remote configuration is present.
func (c ElasticConfig) Enabled() bool {
	return len(c.Hosts) > 0
}

// applyDefaults fills in default values for fields that were not configured.
func applyDefaults(cfg *Config) {
	if cfg.Service.Name == "" {
		cfg.Service.Name = "logward-service"
	}
	if cfg.Service.Env == "" {
		cfg.Service.Env = "development"
	}

	if cfg.Log.Directory == "" {
		cfg.Log.Directory = "var/logs"
	}
	if cfg.Log.FileLevel == "" {
		cfg.Log.FileLevel = "info"
	}
	if cfg.Log.ConsoleLevel == "" {
		cfg.Log.ConsoleLevel = "debug"
	}
	if cfg.Log.MaxBackups == 0 {
		cfg.Log.MaxBackups = 30
	}

	if cfg.Elastic.IndexPrefix == "" {
		cfg.Elastic.IndexPrefix = "app-logs"
	}
	if cfg.Elastic.Level == "" {
		cfg.Elastic.Level = "debug"
	}
	if cfg.Elastic.QueueSize == 0 {
		cfg.Elastic.QueueSize = 1024
	}
	if cfg.Elastic.FlushTimeout == 0 {
		cfg.Elastic.FlushTimeout = 5 * time.Second
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "logward"
	}
}

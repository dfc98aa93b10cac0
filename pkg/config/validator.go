package config

import (
	"fmt"
)

// validLevels are the level names accepted for sink minimum-level fields.
var validLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate validates the configuration and returns an error if any required fields
// are missing or have invalid values. Configuration errors are fatal at startup:
// the process should fail fast rather than log silently into nowhere.
func Validate(cfg *Config) error {
	if cfg.Service.Name == "" {
		return fmt.Errorf("service.name is required")
	}

	if cfg.Log.Directory == "" {
		return fmt.Errorf("log.directory is required")
	}
	if cfg.Log.MaxBackups < 1 {
		return fmt.Errorf("log.max_backups must be at least 1")
	}
	if !validLevels[cfg.Log.FileLevel] {
		return fmt.Errorf("log.file_level must be one of debug, info, warn, error")
	}
	if !validLevels[cfg.Log.ConsoleLevel] {
		return fmt.Errorf("log.console_level must be one of debug, info, warn, error")
	}

	// Validate Elastic config (if used)
	if cfg.Elastic.Enabled() {
		for _, h := range cfg.Elastic.Hosts {
			if h == "" {
				return fmt.Errorf("elastic.hosts must not contain empty entries")
			}
		}
		if cfg.Elastic.IndexPrefix == "" {
			return fmt.Errorf("elastic.index_prefix is required when elastic.hosts is set")
		}
		if !validLevels[cfg.Elastic.Level] {
			return fmt.Errorf("elastic.level must be one of debug, info, warn, error")
		}
		if cfg.Elastic.QueueSize < 1 {
			return fmt.Errorf("elastic.queue_size must be at least 1")
		}
		if (cfg.Elastic.Username == "") != (cfg.Elastic.Password == "") {
			return fmt.Errorf("elastic.username and elastic.password must be set together")
		}
	}

	// Validate Metrics config (if enabled)
	if cfg.Metrics.Enabled {
		if cfg.Metrics.Port == 0 {
			return fmt.Errorf("metrics.port is required when metrics are enabled")
		}
		if cfg.Metrics.Path == "" {
			return fmt.Errorf("metrics.path is required when metrics are enabled")
		}
	}

	return nil
}

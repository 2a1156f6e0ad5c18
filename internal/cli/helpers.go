package cli

import (
	"fmt"

	"github.com/glorpus-work/zipack/internal/logger"
	"github.com/glorpus-work/zipack/pkg/config"
)

// These variables will be set by the main package
var (
	ConfigPath *string
	Verbose    *bool
	LogFormat  *string
)

// loadConfig loads the configuration from --config or the default location.
// This is a bridge function that the CLI commands can use
func loadConfig() (*config.Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func getConfigPath() (string, error) {
	if ConfigPath != nil && *ConfigPath != "" {
		return *ConfigPath, nil
	}

	defaultPath, err := config.GetDefaultConfigPath()
	if err != nil {
		logger.Warn("Failed to get default config path", logger.Fields{"error": err})
		return "", fmt.Errorf("failed to get default config path: %w", err)
	}
	return defaultPath, nil
}

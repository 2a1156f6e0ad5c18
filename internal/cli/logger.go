package cli

import (
	"github.com/glorpus-work/zipack/internal/logger"
	"github.com/glorpus-work/zipack/pkg/config"
	"github.com/glorpus-work/zipack/pkg/errors"
)

// SetupLogging initializes the global logger from the config file and the
// global flags. --verbose forces debug level; --log-format overrides the
// configured format. A config file that cannot be loaded only costs its
// logging settings, so that commands like "config init --force" still run.
func SetupLogging() error {
	cfg, loadErr := loadConfig()
	if loadErr != nil {
		cfg = config.DefaultConfig()
	}

	level, format, err := resolveLogging(cfg)
	if err != nil {
		return err
	}
	logger.InitLogger(level, format)

	if loadErr != nil {
		logger.Warn("Ignoring configuration file for logging", logger.Fields{"error": loadErr.Error()})
	}
	return nil
}

func resolveLogging(cfg *config.Config) (string, logger.OutputFormat, error) {
	level := cfg.Settings.LogLevel
	if Verbose != nil && *Verbose {
		level = "debug"
	}

	format := logger.OutputFormat(cfg.Settings.LogFormat)
	if LogFormat != nil && *LogFormat != "" {
		format = logger.OutputFormat(*LogFormat)
	}
	switch format {
	case logger.FormatText, logger.FormatJSON:
	default:
		return "", "", errors.ErrInvalidLogFormatWithDetails(string(format))
	}
	return level, format, nil
}

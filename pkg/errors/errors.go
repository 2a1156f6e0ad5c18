// Package errors defines the error taxonomy shared by the zipack packages and
// small helpers for wrapping errors with context.
package errors

import "fmt"

// Packaging errors. Every failure of a packaging run wraps exactly one of these.
var (
	ErrInvalidSource    = fmt.Errorf("invalid source directory")
	ErrEnumeration      = fmt.Errorf("failed to enumerate source tree")
	ErrPathResolution   = fmt.Errorf("failed to resolve archive entry name")
	ErrOutputCreation   = fmt.Errorf("failed to create output archive")
	ErrEntryWrite       = fmt.Errorf("failed to write archive entry")
	ErrFinalize         = fmt.Errorf("failed to finalize archive")
	ErrCompressionUnset = fmt.Errorf("compression is not configured")
	ErrInvalidState     = fmt.Errorf("invalid archiver state")
	ErrWriterClosed     = fmt.Errorf("archive writer is closed")
	ErrInterrupted      = fmt.Errorf("packaging interrupted")

	// Compression errors.
	ErrUnknownMethod     = fmt.Errorf("unknown compression method")
	ErrInvalidLevel      = fmt.Errorf("invalid compression level")
	ErrUnsupportedMethod = fmt.Errorf("unsupported compression method")

	// Config errors.
	ErrEmptyConfigPath   = fmt.Errorf("config file path cannot be empty")
	ErrInvalidConfigPath = fmt.Errorf("invalid config file path")
	ErrConfigParse       = fmt.Errorf("failed to parse config")
	ErrConfigValidation  = fmt.Errorf("invalid configuration")
	ErrConfigEncode      = fmt.Errorf("failed to encode config")
	ErrConfigDirectory   = fmt.Errorf("failed to create config directory")
	ErrConfigFileCreate  = fmt.Errorf("failed to create config file")
	ErrConfigFileRename  = fmt.Errorf("failed to rename temporary config file")
	ErrConfigFileChmod   = fmt.Errorf("failed to set config file permissions")
	ErrConfigMarshal     = fmt.Errorf("failed to marshal config")
	ErrConfigFileExists  = fmt.Errorf("configuration file already exists (use --force to overwrite)")
	ErrInvalidLogLevel   = fmt.Errorf("invalid log level")
	ErrInvalidLogFormat  = fmt.Errorf("invalid log format")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// WrapKind wraps err with formatted context and tags it with kind, so that both
// errors.Is(result, kind) and errors.Is(result, err) hold.
// If err is nil, WrapKind returns nil.
func WrapKind(kind, err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", kind, fmt.Sprintf(format, args...), err)
}

// ErrInvalidLevelWithValue creates an error naming the rejected compression level.
func ErrInvalidLevelWithValue(level, minLevel, maxLevel int) error {
	return fmt.Errorf("%w: can only be between %d and %d, not %d", ErrInvalidLevel, minLevel, maxLevel, level)
}

// ErrUnknownMethodWithDetails creates an error naming the rejected method and the valid options.
func ErrUnknownMethodWithDetails(method string, valid []string) error {
	return fmt.Errorf("%w: %q, must be one of: %v", ErrUnknownMethod, method, valid)
}

// ErrInvalidLogLevelWithDetails is a helper to create a wrapped error with the invalid level and valid options.
func ErrInvalidLogLevelWithDetails(level string) error {
	return fmt.Errorf("%w: '%s', must be one of: error, warn, info, debug", ErrInvalidLogLevel, level)
}

// ErrInvalidLogFormatWithDetails is a helper to create a wrapped error with the invalid format and valid options.
func ErrInvalidLogFormatWithDetails(format string) error {
	return fmt.Errorf("%w: '%s', must be one of: text, json", ErrInvalidLogFormat, format)
}

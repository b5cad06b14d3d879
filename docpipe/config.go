// CLAUDE:SUMMARY Configuration struct and defaults for the docpipe extraction engine.
package docpipe

import "log/slog"

// Config configures the extraction engine.
type Config struct {
	// MaxFileSize is the maximum document size to process (default: 20 MB).
	MaxFileSize int64 `json:"max_file_size" yaml:"max_file_size"`

	// Logger for debug/error messages.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = 20 * 1024 * 1024
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

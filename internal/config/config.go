// Package config provides loading and validation of the optional TOML
// configuration file for the digest tool. Command-line flags always take
// precedence over values loaded here.
package config

import (
	"errors"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"

	"github.com/isseis/go-multi-digest/internal/common"
)

// Error definitions for the config package
var (
	// ErrInvalidBlockSize is returned when block_size is negative.
	ErrInvalidBlockSize = errors.New("block_size must be positive")

	// ErrInvalidQueueDepth is returned when queue_depth is negative.
	ErrInvalidQueueDepth = errors.New("queue_depth must be positive")

	// ErrInvalidFormat is returned when format is not a known output format.
	ErrInvalidFormat = errors.New("format must be \"tsv\" or \"json\"")
)

// Config holds the tool defaults loadable from a TOML file. Zero values mean
// "not set"; the CLI falls back to its built-in defaults for those.
type Config struct {
	// Algorithms lists default algorithm names, applied when no algorithm
	// flag is given on the command line.
	Algorithms []string `toml:"algorithms"`

	// BlockSize is the chunk size in bytes.
	BlockSize int `toml:"block_size"`

	// QueueDepth is the per-worker chunk queue depth.
	QueueDepth int `toml:"queue_depth"`

	// Format selects the output format ("tsv" or "json").
	Format string `toml:"format"`

	// LogLevel sets the slog level ("debug", "info", "warn", "error").
	LogLevel string `toml:"log_level"`
}

// Loader handles loading and validating configuration files.
type Loader struct {
	fs common.FileSystem
}

// NewLoader creates a new config loader using the real file system.
func NewLoader() *Loader {
	return NewLoaderWithFS(common.NewDefaultFileSystem())
}

// NewLoaderWithFS creates a new config loader with a custom FileSystem.
func NewLoaderWithFS(fs common.FileSystem) *Loader {
	return &Loader{fs: fs}
}

// Load reads and validates the TOML config at path.
func (l *Loader) Load(path string) (*Config, error) {
	f, err := l.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks the loaded values for internal consistency. Algorithm
// names are not checked here; the digest registry validates them when the
// job is built.
func (c *Config) Validate() error {
	if c.BlockSize < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBlockSize, c.BlockSize)
	}
	if c.QueueDepth < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidQueueDepth, c.QueueDepth)
	}
	switch c.Format {
	case "", "tsv", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.Format)
	}
	return nil
}

// Package config defines the runtime configuration of a lamnet run.
package config

import (
	"errors"
	"fmt"

	"github.com/vic/lamnet/pkg/inet"
	"github.com/vic/lamnet/pkg/logging"
)

// ErrInvalidConfig is wrapped by every Validate error.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds every tuneable for a single reduction run.
type Config struct {
	// ── Input ────────────────────────────────────────────────────────
	Expr string // -e: term source
	File string // positional argument; stdin when both are empty

	// ── Reduction ────────────────────────────────────────────────────
	MaxSteps     uint64 // 0 = unlimited
	Check        bool   // run Check after every rewrite
	IgnoreLabels bool
	Trace        int // rule events kept and printed
	Step         bool

	// ── Output ───────────────────────────────────────────────────────
	Verbose   int
	LogFormat string
}

// Default returns a Config populated from defaults.go.
func Default() Config {
	return Config{
		MaxSteps:  DefaultMaxSteps,
		Check:     true,
		Trace:     DefaultTrace,
		LogFormat: DefaultLogFormat,
	}
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Expr != "" && c.File != "" {
		return fmt.Errorf("%w: --expr and a source file are mutually exclusive", ErrInvalidConfig)
	}
	if c.Trace < 0 {
		return fmt.Errorf("%w: trace size must not be negative, got %d", ErrInvalidConfig, c.Trace)
	}
	if c.Verbose < 0 {
		return fmt.Errorf("%w: verbosity must not be negative, got %d", ErrInvalidConfig, c.Verbose)
	}
	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("%w: unknown log format %q (want %s or %s)", ErrInvalidConfig, c.LogFormat, LogFormatText, LogFormatJSON)
	}
	return nil
}

// DupMatching returns the Dup comparison mode selected by IgnoreLabels.
func (c *Config) DupMatching() inet.DupMatching {
	if c.IgnoreLabels {
		return inet.IgnoreLabels
	}
	return inet.MatchLabels
}

// LogLevel maps Verbose to a logging level.
func (c *Config) LogLevel() logging.Level {
	return logging.LevelFromVerbosity(c.Verbose)
}

// NetOptions returns the net options this configuration asks for.
func (c *Config) NetOptions(logger logging.Logger) []inet.Option {
	opts := []inet.Option{
		inet.WithCheck(c.Check),
		inet.WithDupMatching(c.DupMatching()),
		inet.WithLogger(logger),
	}
	if c.Trace > 0 {
		opts = append(opts, inet.WithTrace(c.Trace))
	}
	return opts
}

package config

// loader.go - configuration loading from environment variables.
//
// Precedence order (highest wins):
//   1. CLI flags  (handled by cmd/lamnet)
//   2. Environment variables  (this file)
//   3. Defaults   (defaults.go)

import (
	"os"
	"strconv"
	"strings"
)

// ── Environment variable mapping ─────────────────────────────────────
//
// Every supported env var uses the LAMNET_ prefix. Boolean values
// accept "1", "true", "yes" and "0", "false", "no" (case-insensitive).

// LoadFromEnv overlays environment variables onto cfg. Unset or
// unparsable variables leave the existing value alone. Call it before
// flag parsing so that flags take precedence.
func LoadFromEnv(cfg *Config) {
	if v, ok := envUint("LAMNET_MAX_STEPS"); ok {
		cfg.MaxSteps = v
	}
	if v, ok := envBool("LAMNET_CHECK"); ok {
		cfg.Check = v
	}
	if v, ok := envBool("LAMNET_IGNORE_LABELS"); ok {
		cfg.IgnoreLabels = v
	}
	if v := envInt("LAMNET_TRACE"); v > 0 {
		cfg.Trace = v
	}
	if v := os.Getenv("LAMNET_LOG_FORMAT"); v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}
	if v := envInt("LAMNET_VERBOSE"); v > 0 {
		cfg.Verbose = v
	}
}

// ── helpers ──────────────────────────────────────────────────────────

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func envUint(key string) (uint64, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envBool(key string) (value, ok bool) {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes":
		return true, true
	case "0", "false", "no":
		return false, true
	default:
		return false, false
	}
}

package config

// ── Default values ───────────────────────────────────────────────────
//
// Shared by the CLI flags and the environment loader.

const (
	// DefaultMaxSteps bounds a reduction run. Zero means unlimited.
	DefaultMaxSteps = 1_000_000

	// DefaultLogFormat is the slog handler used when none is chosen.
	DefaultLogFormat = LogFormatText

	// DefaultTrace is the number of rule events kept; zero disables tracing.
	DefaultTrace = 0
)

// Log formats accepted by --log-format.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

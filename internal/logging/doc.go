// Package logging assembles structured slog loggers and formatting helpers used
// across corpusprep.
//
// It owns the console/JSON handlers, the optional size-rotated log file, and
// context-aware helpers so pipeline code can tag log lines with the run ID,
// dataset category, and split automatically. The package also provides a
// no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so new components
// emit data with the same shape as the rest of the system.
package logging

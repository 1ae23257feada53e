// Package services defines shared utilities consumed by the conversion
// pipeline and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, dataset categories, and corpus
//     splits for logging.
//   - Structured error markers plus the Wrap helper so callers can classify
//     failures (validation, missing input, malformed labels, external tools)
//     with errors.Is.
package services

// Package config loads, normalizes, and validates corpusprep configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// CORPUSPREP_DATA_ROOT. The Config type centralizes every knob the CLI and the
// conversion pipeline need, so the data root, worker count, PCM parameters,
// and extractor choice are resolved in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config

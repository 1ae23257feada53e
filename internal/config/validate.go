package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateArchive(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if c.Preflight.MinFreeGiB < 0 {
		return errors.New("preflight.min_free_gib must not be negative")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.NumWorkers <= 0 {
		return errors.New("pipeline.num_workers must be positive")
	}
	return nil
}

func (c *Config) validateAudio() error {
	if c.Audio.Channels <= 0 {
		return errors.New("audio.channels must be positive")
	}
	if c.Audio.SampleRate <= 0 {
		return errors.New("audio.sample_rate must be positive")
	}
	if c.Audio.BitDepth <= 0 || c.Audio.BitDepth%8 != 0 {
		return fmt.Errorf("audio.bit_depth %d must be a positive multiple of 8", c.Audio.BitDepth)
	}
	return nil
}

func (c *Config) validateArchive() error {
	switch c.Archive.Extractor {
	case ExtractorUnzip, ExtractorBuiltin:
		return nil
	default:
		return fmt.Errorf("archive.extractor: unsupported value %q (want %q or %q)", c.Archive.Extractor, ExtractorUnzip, ExtractorBuiltin)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

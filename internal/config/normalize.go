package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePipeline()
	c.normalizeArchive()
	c.normalizeLogging()
	return c.normalizeMetrics()
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.DataRoot) == "" {
		if value, ok := os.LookupEnv("CORPUSPREP_DATA_ROOT"); ok {
			c.Paths.DataRoot = strings.TrimSpace(value)
		}
	}
	if c.Paths.DataRoot != "" {
		if err := c.SetDataRoot(c.Paths.DataRoot); err != nil {
			return err
		}
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	var err error
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizePipeline() {
	c.Pipeline.DataSets = strings.TrimSpace(c.Pipeline.DataSets)
	if c.Pipeline.DataSets == "" {
		c.Pipeline.DataSets = defaultDataSets
	}
}

func (c *Config) normalizeArchive() {
	c.Archive.Extractor = strings.ToLower(strings.TrimSpace(c.Archive.Extractor))
	if c.Archive.Extractor == "" {
		c.Archive.Extractor = defaultExtractor
	}
	c.Archive.UnzipBinary = strings.TrimSpace(c.Archive.UnzipBinary)
	if c.Archive.UnzipBinary == "" {
		c.Archive.UnzipBinary = defaultUnzipBinary
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = defaultLogMaxSizeMB
	}
	if c.Logging.MaxBackups < 0 {
		c.Logging.MaxBackups = 0
	}
}

func (c *Config) normalizeMetrics() error {
	c.Metrics.Textfile = strings.TrimSpace(c.Metrics.Textfile)
	if c.Metrics.Textfile == "" {
		return nil
	}
	expanded, err := expandPath(c.Metrics.Textfile)
	if err != nil {
		return fmt.Errorf("metrics.textfile: %w", err)
	}
	if filepath.Ext(expanded) != ".prom" {
		return fmt.Errorf("metrics.textfile: %q must end in .prom", expanded)
	}
	c.Metrics.Textfile = expanded
	return nil
}

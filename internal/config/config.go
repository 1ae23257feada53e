package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the corpus root and auxiliary directories.
type Paths struct {
	DataRoot string `toml:"data_root"`
	LogDir   string `toml:"log_dir"`
}

// Pipeline contains dataset selection and worker pool settings.
type Pipeline struct {
	DataSets     string `toml:"data_sets"`
	TrainingSet  bool   `toml:"training_set"`
	NumWorkers   int    `toml:"num_workers"`
	SkipFailed   bool   `toml:"skip_failed"`
	SortManifest bool   `toml:"sort_manifest"`
	Resume       bool   `toml:"resume"`
}

// Audio describes the raw PCM layout of the source corpus.
type Audio struct {
	Channels   int `toml:"channels"`
	BitDepth   int `toml:"bit_depth"`
	SampleRate int `toml:"sample_rate"`
}

// Archive selects how source zip archives are unpacked.
type Archive struct {
	Extractor   string `toml:"extractor"`
	UnzipBinary string `toml:"unzip_binary"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format     string `toml:"format"`
	Level      string `toml:"level"`
	File       bool   `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

// Metrics configures the Prometheus textfile written at the end of a run.
type Metrics struct {
	Textfile string `toml:"textfile"`
}

// Preflight contains thresholds for the check command.
type Preflight struct {
	MinFreeGiB int `toml:"min_free_gib"`
}

// Config encapsulates all configuration values for corpusprep.
//
// Configuration sections by subsystem:
//   - Paths: corpus data root and log directory
//   - Pipeline: dataset selection, split, and worker pool
//   - Audio: PCM channel count, bit depth, and sample rate
//   - Archive: unzip subprocess or builtin extractor
//   - Logging: log format, level, and rotating file output
//   - Metrics: Prometheus textfile destination
//   - Preflight: free-space threshold for the check command
type Config struct {
	Paths     Paths     `toml:"paths"`
	Pipeline  Pipeline  `toml:"pipeline"`
	Audio     Audio     `toml:"audio"`
	Archive   Archive   `toml:"archive"`
	Logging   Logging   `toml:"logging"`
	Metrics   Metrics   `toml:"metrics"`
	Preflight Preflight `toml:"preflight"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/corpusprep/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("corpusprep.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// OutputRoot returns the processed corpus root that sits next to the data root.
func (c *Config) OutputRoot() string {
	if strings.TrimSpace(c.Paths.DataRoot) == "" {
		return ""
	}
	return c.Paths.DataRoot + "_Processed"
}

// LedgerPath returns the dataset ledger location inside the output root.
func (c *Config) LedgerPath() string {
	root := c.OutputRoot()
	if root == "" {
		return ""
	}
	return filepath.Join(root, "ledger.db")
}

// LogFilePath returns the rotating log file path, or empty when file logging is off.
func (c *Config) LogFilePath() string {
	if !c.Logging.File || strings.TrimSpace(c.Paths.LogDir) == "" {
		return ""
	}
	return filepath.Join(c.Paths.LogDir, "corpusprep.log")
}

// RequireDataRoot reports a configuration error when no data root has been set.
func (c *Config) RequireDataRoot() error {
	if strings.TrimSpace(c.Paths.DataRoot) == "" {
		return errors.New("paths.data_root is required. Pass --data-root, set CORPUSPREP_DATA_ROOT, or edit the config file")
	}
	return nil
}

// SetDataRoot expands and stores a data root supplied outside the config file.
func (c *Config) SetDataRoot(value string) error {
	expanded, err := expandPath(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("paths.data_root: %w", err)
	}
	c.Paths.DataRoot = expanded
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

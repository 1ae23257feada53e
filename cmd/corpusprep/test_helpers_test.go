package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"corpusprep/internal/config"
	"corpusprep/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	corpus     *testsupport.Corpus
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	cfg.Archive.Extractor = config.ExtractorBuiltin
	base := testsupport.BaseDir(cfg)

	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("CORPUSPREP_DATA_ROOT", "")

	configPath := filepath.Join(homeDir, ".config", "corpusprep", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		corpus:     testsupport.NewCorpus(t, cfg.Paths.DataRoot, true),
		configPath: configPath,
		baseDir:    base,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\ndata_root = %q\nlog_dir = %q\n\n[pipeline]\ndata_sets = %q\nnum_workers = %d\n\n[archive]\nextractor = %q\n\n[logging]\nlevel = \"error\"\n\n[preflight]\nmin_free_gib = 0\n",
		cfg.Paths.DataRoot,
		cfg.Paths.LogDir,
		cfg.Pipeline.DataSets,
		cfg.Pipeline.NumWorkers,
		cfg.Archive.Extractor,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"corpusprep/internal/manifest"
	"corpusprep/internal/testsupport"
)

const testCategory = "5.금융-은행"

func TestRunCommandProcessesCorpus(t *testing.T) {
	env := setupCLITestEnv(t)
	env.corpus.AddUtterance(testCategory, "spk01/a", "천원", 0.1, testsupport.PCM16(1600, 1))
	env.corpus.AddUtterance(testCategory, "spk01/b", "이천원", 0.2, testsupport.PCM16(3200, 2))
	env.corpus.WriteLabel(testCategory, "spk02/orphan", "없음", 1.0)
	env.corpus.Archive(testCategory)

	out, _, err := runCLI(t, []string{"run", "--data-sets", testCategory, "--sort"}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	requireContains(t, out, testCategory)
	requireContains(t, out, "manifest_all.json (2 records)")
	requireContains(t, out, "complete")

	records, err := manifest.ReadFile(filepath.Join(env.corpus.OutputRoot(), "manifest_all.json"))
	if err != nil {
		t.Fatalf("read manifest_all: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Text != "천원" || records[1].Text != "이천원" {
		t.Fatalf("unexpected record order: %+v", records)
	}
	for _, r := range records {
		if _, err := os.Stat(r.AudioFilepath); err != nil {
			t.Fatalf("wav missing for %s: %v", r.AudioFilepath, err)
		}
	}

	out, _, err = runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "processed")
	requireContains(t, out, testCategory)
}

func TestRunCommandWritesMetricsTextfile(t *testing.T) {
	env := setupCLITestEnv(t)
	env.corpus.AddUtterance(testCategory, "a", "일", 0.1, testsupport.PCM16(1600, 3))

	textfile := filepath.Join(env.baseDir, "metrics", "corpusprep.prom")
	cfgData, err := os.ReadFile(env.configPath)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	cfgData = append(cfgData, []byte("\n[metrics]\ntextfile = \""+textfile+"\"\n")...)
	if err := os.WriteFile(env.configPath, cfgData, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, _, err := runCLI(t, []string{"run", "--data-sets", testCategory}, env.configPath); err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := os.ReadFile(textfile)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	requireContains(t, string(data), "corpusprep_records_total")
}

func TestRunCommandDataRootFlagOverridesConfig(t *testing.T) {
	env := setupCLITestEnv(t)
	other := testsupport.NewCorpus(t, filepath.Join(env.baseDir, "alt", "Training"), true)
	other.AddUtterance(testCategory, "x", "삼", 0.1, testsupport.PCM16(1600, 4))

	out, _, err := runCLI(t, []string{"--data-root", other.Root, "run", "--data-sets", testCategory}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "(1 records)")
	if _, err := os.Stat(filepath.Join(other.OutputRoot(), "manifest_all.json")); err != nil {
		t.Fatalf("expected manifest under flag root: %v", err)
	}
	if _, err := os.Stat(env.corpus.OutputRoot()); !os.IsNotExist(err) {
		t.Fatalf("configured root should be untouched, stat err=%v", err)
	}
}

func TestRunCommandRejectsInvalidFlags(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"run", "--num-workers", "0"}, env.configPath); err == nil {
		t.Fatal("expected error for zero workers")
	}
	if _, _, err := runCLI(t, []string{"run", "--extractor", "7z"}, env.configPath); err == nil {
		t.Fatal("expected error for unknown extractor")
	}
}

func TestRunCommandFailsPreflightWithoutDataRoot(t *testing.T) {
	env := setupCLITestEnv(t)
	_, stderr, err := runCLI(t, []string{"run", "--data-sets", testCategory}, env.configPath)
	if err == nil {
		t.Fatal("expected preflight failure when data root does not exist")
	}
	if !strings.Contains(err.Error(), "preflight") {
		t.Fatalf("unexpected error: %v", err)
	}
	requireContains(t, stderr, "Data root")
}

func TestStatusWithoutLedger(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "nothing has been processed yet")
}

func TestCheckCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	env.corpus.AddUtterance(testCategory, "a", "일", 0.1, testsupport.PCM16(1600, 5))

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "Data root")
	requireContains(t, out, "All checks passed")
}

func TestCheckCommandReportsFailures(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err == nil {
		t.Fatal("expected check to fail without a data root on disk")
	}
	requireContains(t, out, "FAIL")
}

package preflight

import (
	"fmt"

	"corpusprep/internal/config"
	"corpusprep/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every preflight check for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	for _, status := range CheckSystemDeps(cfg) {
		results = append(results, depResult(status))
	}

	results = append(results, CheckDirectoryReadable("Data root", cfg.Paths.DataRoot))
	output := cfg.OutputRoot()
	results = append(results, CheckWritableTarget("Output root", output))
	results = append(results, CheckFreeSpace("Free space", output, cfg.Preflight.MinFreeGiB))
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}

func depResult(status deps.Status) Result {
	name := status.Name
	if status.Available {
		return Result{Name: name, Passed: true, Detail: status.Path}
	}
	if status.Optional {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (optional)", status.Detail)}
	}
	detail := status.Detail
	if status.Description != "" {
		detail = fmt.Sprintf("%s; %s", detail, status.Description)
	}
	return Result{Name: name, Detail: detail}
}

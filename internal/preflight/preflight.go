package preflight

import (
	"context"
	"path/filepath"

	"ecalib/internal/config"
	"ecalib/internal/services/bart"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	binary := bart.Resolve(cfg.BART.InstallRoot, cfg.BART.Binary)
	exe := CheckExecutable("BART executable", binary)
	results = append(results, exe)
	if exe.Passed {
		client, err := bart.New(cfg.BART.InstallRoot, cfg.BART.Binary)
		if err != nil {
			results = append(results, Result{Name: "BART version", Detail: err.Error()})
		} else {
			results = append(results, CheckBARTVersion(ctx, client))
		}
	}

	results = append(results, CheckDirectoryAccess("Scratch directory", cfg.Paths.ScratchDir))
	if cfg.Paths.MinFreeMiB > 0 {
		results = append(results, CheckFreeSpace("Scratch free space", cfg.Paths.ScratchDir, cfg.Paths.MinFreeMiB))
	}

	if cfg.History.Enabled {
		results = append(results, CheckDirectoryAccess("History directory", filepath.Dir(cfg.History.Path)))
	}

	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

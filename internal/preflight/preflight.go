// Package preflight verifies the environment before a rip starts.
package preflight

import (
	"context"
	"fmt"
	"os"

	"lathe/internal/config"
	"lathe/internal/deps"
)

// Result describes one preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every preflight check. Tool checks never create
// directories, so a failed preflight leaves the filesystem untouched.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	results := make([]Result, 0, 4)
	statuses := deps.Check(ctx, deps.Requirements(cfg.Tools.YtDlpBinary, cfg.Tools.FFmpegBinary))
	for _, status := range statuses {
		result := Result{Name: status.Name, Passed: status.Available}
		if status.Available {
			result.Detail = status.Version
		} else {
			result.Detail = status.Detail
		}
		results = append(results, result)
	}
	results = append(results, checkWritableParents(cfg)...)
	return results
}

// AllPassed reports whether every check succeeded.
func AllPassed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return len(results) > 0
}

// checkWritableParents confirms that any configured directory which already
// exists is actually a writable directory. Missing directories pass; the
// stages create them on first use.
func checkWritableParents(cfg *config.Config) []Result {
	checks := []struct {
		name string
		path string
	}{
		{"download directory", cfg.Paths.DownloadDir},
		{"output directory", cfg.Paths.OutputDir},
	}
	results := make([]Result, 0, len(checks))
	for _, check := range checks {
		result := Result{Name: check.name, Passed: true, Detail: check.path}
		info, err := os.Stat(check.path)
		switch {
		case os.IsNotExist(err):
			result.Detail = fmt.Sprintf("%s (will be created)", check.path)
		case err != nil:
			result.Passed = false
			result.Detail = err.Error()
		case !info.IsDir():
			result.Passed = false
			result.Detail = fmt.Sprintf("%s exists but is not a directory", check.path)
		}
		results = append(results, result)
	}
	return results
}

package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"stagecast/internal/config"
	"stagecast/internal/deps"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := checkAccess(path); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckOutputDirectory checks the output directory, or the nearest existing
// parent when it has not been created yet.
func CheckOutputDirectory(path string) Result {
	const name = "Output directory"
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		parent := filepath.Dir(path)
		for parent != filepath.Dir(parent) {
			if _, err := os.Stat(parent); err == nil {
				break
			}
			parent = filepath.Dir(parent)
		}
		result := CheckDirectoryAccess(name, parent)
		if result.Passed {
			result.Detail = fmt.Sprintf("%s (will be created)", path)
		}
		return result
	}
	return CheckDirectoryAccess(name, path)
}

// CheckInputs reports each project input as its own result.
func CheckInputs(reqs []Requirement) []Result {
	results := make([]Result, 0, len(reqs))
	for _, req := range reqs {
		if reason := check(req); reason != "" {
			results = append(results, Result{Name: req.Name, Detail: fmt.Sprintf("%s (%s)", req.Path, reason)})
			continue
		}
		results = append(results, Result{Name: req.Name, Passed: true, Detail: req.Path})
	}
	return results
}

// CheckSystemDeps evaluates the external binaries for the given config.
func CheckSystemDeps(_ context.Context, cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.FFmpegBinary(),
			Description: "Required for every stage",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.FFprobeBinary(),
			Description: "Required for narration duration lookups",
		},
	}
	return deps.CheckBinaries(requirements)
}

// RunAll executes the filesystem checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	results := []Result{CheckOutputDirectory(cfg.Paths.OutputDir)}
	results = append(results, CheckInputs(ProjectRequirements(cfg))...)
	optional := []Requirement{
		{Name: "key color (optional)", Path: cfg.Inputs.KeyColor},
		{Name: "layout (optional)", Path: cfg.Inputs.Layout},
		{Name: "fonts (optional)", Path: cfg.Paths.FontsDir, Kind: Directory},
	}
	for _, res := range CheckInputs(optional) {
		if !res.Passed {
			res.Passed = true
			res.Detail += ", defaults apply"
		}
		results = append(results, res)
	}
	return results
}

package preflight

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"stagecast/internal/config"
	"stagecast/internal/stageerr"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Kind is the filesystem object a requirement expects.
type Kind int

const (
	File Kind = iota
	Directory
)

func (k Kind) String() string {
	if k == Directory {
		return "directory"
	}
	return "file"
}

// Requirement names one input a stage reads.
type Requirement struct {
	Name string
	Path string
	Kind Kind
}

// Problem is a requirement that failed validation.
type Problem struct {
	Requirement
	Reason string
}

// MissingInputsError lists every requirement that failed, one per line.
type MissingInputsError struct {
	Problems []Problem
}

func (e *MissingInputsError) Error() string {
	lines := make([]string, 0, len(e.Problems)+1)
	lines = append(lines, "missing required files or directories:")
	for _, p := range e.Problems {
		lines = append(lines, fmt.Sprintf("%s: %s (%s)", p.Name, p.Path, p.Reason))
	}
	return strings.Join(lines, "\n")
}

// Unwrap ties the error to the missing-input failure class.
func (e *MissingInputsError) Unwrap() error {
	return stageerr.ErrMissingInput
}

// Validate checks that every requirement exists with the expected kind and
// reports all failures at once.
func Validate(reqs []Requirement) error {
	var problems []Problem
	for _, req := range reqs {
		if reason := check(req); reason != "" {
			problems = append(problems, Problem{Requirement: req, Reason: reason})
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return &MissingInputsError{Problems: problems}
}

func check(req Requirement) string {
	if strings.TrimSpace(req.Path) == "" {
		return "path not configured"
	}
	info, err := os.Stat(req.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "not found"
		}
		return fmt.Sprintf("stat: %v", err)
	}
	switch req.Kind {
	case Directory:
		if !info.IsDir() {
			return "not a directory"
		}
	default:
		if !info.Mode().IsRegular() {
			return "not a regular file"
		}
	}
	return ""
}

// StageRequirements returns the inputs stage n reads.
func StageRequirements(cfg *config.Config, stage int) []Requirement {
	in := cfg.Inputs
	switch stage {
	case 1:
		return []Requirement{
			{Name: "background", Path: in.Background},
			{Name: "presenter", Path: in.Presenter},
			{Name: "narration", Path: in.Narration},
			{Name: "title", Path: in.Title},
		}
	case 2:
		return []Requirement{
			{Name: "stage1 video", Path: cfg.OutputPath(config.ArtifactStage1Video)},
			{Name: "narration", Path: in.Narration},
		}
	case 3:
		return []Requirement{
			{Name: "stage2 video", Path: cfg.OutputPath(config.ArtifactStage2Video)},
			{Name: "timeline", Path: in.Timeline},
			{Name: "pictures", Path: in.PicturesDir, Kind: Directory},
		}
	case 4:
		return []Requirement{
			{Name: "stage3 video", Path: cfg.OutputPath(config.ArtifactStage3Video)},
			{Name: "timeline", Path: in.Timeline},
		}
	default:
		return nil
	}
}

// ProjectRequirements returns every source input of the production,
// independent of stage outputs.
func ProjectRequirements(cfg *config.Config) []Requirement {
	in := cfg.Inputs
	return []Requirement{
		{Name: "background", Path: in.Background},
		{Name: "presenter", Path: in.Presenter},
		{Name: "narration", Path: in.Narration},
		{Name: "timeline", Path: in.Timeline},
		{Name: "pictures", Path: in.PicturesDir, Kind: Directory},
		{Name: "title", Path: in.Title},
	}
}

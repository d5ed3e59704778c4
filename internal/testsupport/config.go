package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"stagecast/internal/config"
)

// DefaultTimeline is the cue file written by WithProjectFiles.
const DefaultTimeline = "1\n00:00:01,000 --> 00:00:03,000\nHello world\n\n2\n00:00:03,000 --> 00:00:05,000\nSecond cue here\n"

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose project root is a fresh temp directory.
// All input and output paths are absolute, matching a normalized Load.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	defaults := cfgVal.Inputs
	cfgVal.Paths.ProjectRoot = base
	cfgVal.Paths.OutputDir = filepath.Join(base, "output")
	cfgVal.Paths.FontsDir = filepath.Join(base, "Font")
	cfgVal.Inputs = config.Inputs{
		Background:  filepath.Join(base, defaults.Background),
		Presenter:   filepath.Join(base, defaults.Presenter),
		Narration:   filepath.Join(base, defaults.Narration),
		Timeline:    filepath.Join(base, defaults.Timeline),
		PicturesDir: filepath.Join(base, defaults.PicturesDir),
		Title:       filepath.Join(base, defaults.Title),
		KeyColor:    filepath.Join(base, defaults.KeyColor),
		Layout:      filepath.Join(base, defaults.Layout),
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithProjectFiles writes every required source input: media placeholders,
// DefaultTimeline, a title and the given number of pictures.
func WithProjectFiles(pictures int) ConfigOption {
	return func(b *configBuilder) {
		in := b.cfg.Inputs
		WriteFile(b.t, in.Background, 16)
		WriteFile(b.t, in.Presenter, 16)
		WriteFile(b.t, in.Narration, 16)
		WriteText(b.t, in.Timeline, DefaultTimeline)
		WriteText(b.t, in.Title, "Stage Title\n")
		if err := os.MkdirAll(in.PicturesDir, 0o755); err != nil {
			b.t.Fatalf("mkdir pictures: %v", err)
		}
		for i := 1; i <= pictures; i++ {
			WriteFile(b.t, filepath.Join(in.PicturesDir, fmt.Sprintf("%d.png", i)), 8)
		}
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, ffmpeg and ffprobe are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// BaseDir returns the project root backing the generated config.
func BaseDir(cfg *config.Config) string {
	return cfg.Paths.ProjectRoot
}

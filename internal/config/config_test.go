package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"stagecast/internal/config"
)

func TestLoadDefaultConfigResolvesInputsUnderProjectRoot(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	root := t.TempDir()
	t.Setenv("STAGECAST_PROJECT_ROOT", root)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if cfg.Paths.ProjectRoot != root {
		t.Fatalf("unexpected project root: got %q want %q", cfg.Paths.ProjectRoot, root)
	}
	if cfg.Paths.OutputDir != filepath.Join(root, "output") {
		t.Fatalf("unexpected output dir: %q", cfg.Paths.OutputDir)
	}
	if cfg.Inputs.Background != filepath.Join(root, "Background Fame", "FRAMEVIDEO.jpg") {
		t.Fatalf("unexpected background path: %q", cfg.Inputs.Background)
	}
	if cfg.Inputs.PicturesDir != filepath.Join(root, "Image Description") {
		t.Fatalf("unexpected pictures dir: %q", cfg.Inputs.PicturesDir)
	}
	if cfg.FFmpegBinary() != "ffmpeg" || cfg.FFprobeBinary() != "ffprobe" {
		t.Fatalf("unexpected tool defaults: %q %q", cfg.FFmpegBinary(), cfg.FFprobeBinary())
	}
	if cfg.Canvas.Width != 1920 || cfg.Canvas.Height != 1080 {
		t.Fatalf("unexpected canvas: %+v", cfg.Canvas)
	}
	if cfg.Keying.Anchor != config.AnchorCenter {
		t.Fatalf("unexpected anchor: %q", cfg.Keying.Anchor)
	}
}

func TestLoadCustomConfigOverridesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()
	absTitle := filepath.Join(t.TempDir(), "custom-title.txt")
	cfgPath := filepath.Join(t.TempDir(), "config.toml")

	payload := map[string]any{
		"paths": map[string]any{
			"project_root": root,
			"output_dir":   "renders",
		},
		"inputs": map[string]any{
			"title":    absTitle,
			"timeline": "subs/cues.srt",
		},
		"tools": map[string]any{
			"ffmpeg": "/opt/ffmpeg/bin/ffmpeg",
		},
		"keying": map[string]any{
			"similarity": 0.2,
			"soft_edge":  true,
			"anchor":     "Bottom",
		},
		"logging": map[string]any{
			"format": "JSON",
			"level":  "DEBUG",
		},
	}
	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(cfgPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != cfgPath {
		t.Fatalf("expected custom config to be used, got %q exists=%v", resolved, exists)
	}
	if cfg.Paths.OutputDir != filepath.Join(root, "renders") {
		t.Fatalf("unexpected output dir: %q", cfg.Paths.OutputDir)
	}
	if cfg.Inputs.Title != absTitle {
		t.Fatalf("absolute input should be kept, got %q", cfg.Inputs.Title)
	}
	if cfg.Inputs.Timeline != filepath.Join(root, "subs", "cues.srt") {
		t.Fatalf("unexpected timeline path: %q", cfg.Inputs.Timeline)
	}
	if cfg.FFmpegBinary() != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("unexpected ffmpeg binary: %q", cfg.FFmpegBinary())
	}
	if !cfg.Keying.SoftEdge || cfg.Keying.Anchor != config.AnchorBottom {
		t.Fatalf("unexpected keying: %+v", cfg.Keying)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging: %+v", cfg.Logging)
	}
}

func TestEnvOverridesTools(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("STAGECAST_FFMPEG", "/usr/local/bin/ffmpeg")
	t.Setenv("STAGECAST_FFPROBE", "/usr/local/bin/ffprobe")
	t.Chdir(t.TempDir())

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.FFmpegBinary() != "/usr/local/bin/ffmpeg" || cfg.FFprobeBinary() != "/usr/local/bin/ffprobe" {
		t.Fatalf("env overrides not applied: %q %q", cfg.FFmpegBinary(), cfg.FFprobeBinary())
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"odd canvas", func(c *config.Config) { c.Canvas.Width = 1921 }, "even"},
		{"zero canvas", func(c *config.Config) { c.Canvas.Height = 0 }, "positive"},
		{"similarity", func(c *config.Config) { c.Keying.Similarity = 0 }, "keying.similarity"},
		{"blend", func(c *config.Config) { c.Keying.Blend = 2 }, "keying.blend"},
		{"anchor", func(c *config.Config) { c.Keying.Anchor = "top" }, "keying.anchor"},
		{"level", func(c *config.Config) { c.Logging.Level = "loud" }, "logging.level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateSampleProducesLoadableConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("sample config should load cleanly, exists=%v err=%v", exists, err)
	}
}

func TestEnsureDirectoriesCreatesOutputDir(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(t.TempDir(), "a", "b")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	if info, err := os.Stat(cfg.Paths.OutputDir); err != nil || !info.IsDir() {
		t.Fatalf("output dir not created: %v", err)
	}
	if got := cfg.OutputPath("x.mp4"); got != filepath.Join(cfg.Paths.OutputDir, "x.mp4") {
		t.Fatalf("unexpected output path %q", got)
	}
}

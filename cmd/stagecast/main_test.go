package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"stagecast/internal/config"
	"stagecast/internal/testsupport"
)

const stubFFmpeg = `#!/bin/sh
for a in "$@"; do
  if [ "$a" = "-encoders" ]; then
    printf 'Encoders:\n V..... = Video\n ------\n V....D libx264              H.264\n'
    exit 0
  fi
done
for a in "$@"; do
  case "$a" in
    *.partial.*) printf 'video' > "$a" ;;
  esac
done
exit 0
`

const stubFFprobe = `#!/bin/sh
for arg in "$@"; do
  if [ "$arg" = "-show_streams" ]; then
    echo '{"streams":[{"index":0,"codec_type":"video","codec_name":"h264","width":1080,"height":1920},{"index":1,"codec_type":"audio","codec_name":"aac"}],"format":{"duration":"4.5"}}'
    exit 0
  fi
done
echo 4.5
`

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, testsupport.WithProjectFiles(2))
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))

	binDir := filepath.Join(base, "bin")
	ffmpegPath := filepath.Join(binDir, "ffmpeg")
	ffprobePath := filepath.Join(binDir, "ffprobe")
	testsupport.WriteText(t, ffmpegPath, stubFFmpeg)
	testsupport.WriteText(t, ffprobePath, stubFFprobe)
	for _, path := range []string{ffmpegPath, ffprobePath} {
		if err := os.Chmod(path, 0o755); err != nil {
			t.Fatalf("chmod %s: %v", path, err)
		}
	}

	configPath := filepath.Join(base, "stagecast.toml")
	testsupport.WriteText(t, configPath, fmt.Sprintf(`[paths]
project_root = %q

[tools]
ffmpeg = %q
ffprobe = %q

[logging]
level = "error"
`, base, ffmpegPath, ffprobePath))

	return &cliTestEnv{cfg: cfg, configPath: configPath}
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
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

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	env := setupCLITestEnv(t)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err := runCLI(t, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := runCLI(t, "", "config", "init", "--path", target); err == nil {
		t.Fatal("expected config init to refuse overwriting")
	}

	out, _, err = runCLI(t, env.configPath, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, env.configPath)
	requireContains(t, out, "project_root")
	requireContains(t, out, "veryfast")
	requireContains(t, out, "warning: layout file")
}

func TestTimelineCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "timeline")
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	requireContains(t, out, "Hello world")
	requireContains(t, out, "Second cue here")
	requireContains(t, out, "2 cues, 5.000 total")
}

func TestCaptionsCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "captions")
	if err != nil {
		t.Fatalf("captions: %v", err)
	}
	revealPath := env.cfg.OutputPath(config.ArtifactCaptionsASS)
	if strings.TrimSpace(out) != revealPath {
		t.Fatalf("captions printed %q, want %q", out, revealPath)
	}
	data, err := os.ReadFile(revealPath)
	if err != nil {
		t.Fatalf("read captions: %v", err)
	}
	requireContains(t, string(data), `{\q2}Hello world`)

	karaokePath := filepath.Join(t.TempDir(), "karaoke.ass")
	if _, _, err := runCLI(t, env.configPath, "captions", "--style", "karaoke", "--out", karaokePath); err != nil {
		t.Fatalf("captions karaoke: %v", err)
	}
	data, err = os.ReadFile(karaokePath)
	if err != nil {
		t.Fatalf("read karaoke: %v", err)
	}
	requireContains(t, string(data), `\k`)

	if _, _, err := runCLI(t, env.configPath, "captions", "--style", "marquee"); err == nil {
		t.Fatal("expected unknown style to fail")
	}
}

func TestStageCommandsAndHistory(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "stage1")
	if err != nil {
		t.Fatalf("stage1: %v", err)
	}
	if strings.TrimSpace(out) != env.cfg.OutputPath(config.ArtifactStage1Video) {
		t.Fatalf("stage1 printed %q", out)
	}

	out, _, err = runCLI(t, env.configPath, "run", "--from", "2")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.TrimSpace(out) != env.cfg.OutputPath(config.ArtifactFinalVideo) {
		t.Fatalf("run printed %q", out)
	}

	out, _, err = runCLI(t, env.configPath, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	for _, stage := range []string{"stage1", "stage2", "stage3", "stage4"} {
		requireContains(t, out, stage)
	}
	requireContains(t, out, "succeeded")
}

func TestStageCommandReportsMissingInputs(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "stage2")
	if err == nil {
		t.Fatal("expected stage2 to fail without stage1 output")
	}
	if out != "" {
		t.Fatalf("failed stage should print nothing on stdout, got %q", out)
	}
	requireContains(t, err.Error(), "missing required files or directories")
	requireContains(t, err.Error(), config.ArtifactStage1Video)

	if _, _, err := runCLI(t, env.configPath, "run", "--from", "3", "--to", "2"); err == nil {
		t.Fatal("expected invalid range to fail")
	}
}

func TestCheckCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "check")
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "Binaries")
	requireContains(t, out, "libx264")
	requireContains(t, out, "1080x1920 h264, 4.500s")
	requireContains(t, out, "1 audio stream(s)")
	requireContains(t, out, "defaults apply")
	requireContains(t, out, "All checks passed")

	if err := os.Remove(env.cfg.Inputs.Title); err != nil {
		t.Fatal(err)
	}
	out, _, err = runCLI(t, env.configPath, "check")
	if err == nil {
		t.Fatalf("expected check to fail without a title, got:\n%s", out)
	}
}

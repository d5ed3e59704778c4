package deps

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "FFmpeg", Command: present},
		{Name: "FFprobe", Command: "clearly-not-present-binary"},
		{Name: "Empty", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available || results[0].Resolved != present {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}

	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("unexpected status for empty command: %#v", results[2])
	}
}

func TestListEncoders(t *testing.T) {
	original := commandOutput
	t.Cleanup(func() { commandOutput = original })

	var gotArgs []string
	commandOutput = func(_ context.Context, binary string, args ...string) ([]byte, error) {
		gotArgs = append([]string{binary}, args...)
		return []byte(`Encoders:
 V..... = Video
 A..... = Audio
 ------
 V....D libx264              libx264 H.264 / AVC / MPEG-4 AVC (codec h264)
 V....D h264_videotoolbox    VideoToolbox H.264 Encoder (codec h264)
 A....D aac                  AAC (Advanced Audio Coding)
`), nil
	}

	encoders, err := ListEncoders(context.Background(), "ffmpeg")
	if err != nil {
		t.Fatalf("ListEncoders returned error: %v", err)
	}
	if len(gotArgs) != 3 || gotArgs[2] != "-encoders" {
		t.Fatalf("unexpected command %v", gotArgs)
	}
	if !encoders["libx264"] || !encoders["h264_videotoolbox"] {
		t.Fatalf("missing video encoders: %v", encoders)
	}
	if encoders["aac"] || encoders["="] {
		t.Fatalf("unexpected entries: %v", encoders)
	}

	commandOutput = func(context.Context, string, ...string) ([]byte, error) {
		return nil, errors.New("exec failed")
	}
	if _, err := ListEncoders(context.Background(), "ffmpeg"); err == nil {
		t.Fatal("expected error")
	}
}

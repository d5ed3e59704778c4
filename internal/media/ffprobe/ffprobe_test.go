package ffprobe

import (
	"context"
	"errors"
	"math"
	"slices"
	"testing"
)

func stubCommand(t *testing.T, output string, err error) *[]string {
	t.Helper()
	var captured []string
	original := commandOutput
	commandOutput = func(_ context.Context, binary string, args ...string) ([]byte, error) {
		captured = append([]string{binary}, args...)
		return []byte(output), err
	}
	t.Cleanup(func() { commandOutput = original })
	return &captured
}

func TestDuration(t *testing.T) {
	captured := stubCommand(t, "12.480000\n", nil)

	got, err := Duration(context.Background(), "", "audio/VoiceTXT.mp3")
	if err != nil {
		t.Fatalf("Duration returned error: %v", err)
	}
	if got != 12.48 {
		t.Fatalf("Duration = %v, want 12.48", got)
	}
	want := []string{"ffprobe", "-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", "audio/VoiceTXT.mp3"}
	if !slices.Equal(*captured, want) {
		t.Fatalf("unexpected command %v", *captured)
	}
}

func TestDurationRejectsUnusableOutput(t *testing.T) {
	for _, output := range []string{"N/A\n", "", "inf"} {
		stubCommand(t, output, nil)
		if _, err := Duration(context.Background(), "ffprobe", "a.mp3"); err == nil {
			t.Fatalf("expected error for output %q", output)
		}
	}
}

func TestDurationCommandFailure(t *testing.T) {
	stubCommand(t, "a.mp3: No such file or directory", errors.New("exit status 1"))
	_, err := Prober{Binary: "ffprobe"}.Duration(context.Background(), "a.mp3")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestDurationEmptyPath(t *testing.T) {
	if _, err := Duration(context.Background(), "ffprobe", "  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestInspect(t *testing.T) {
	stubCommand(t, `{"streams":[{"index":0,"codec_type":"video","width":1920,"height":1080},{"index":1,"codec_type":"audio"}],"format":{"duration":"30.5"}}`, nil)

	result, err := Inspect(context.Background(), "ffprobe", "final.mp4")
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}
	video, ok := result.VideoStream()
	if !ok || video.Width != 1920 || video.Height != 1080 {
		t.Fatalf("unexpected video stream %+v ok=%v", video, ok)
	}
	if result.AudioStreamCount() != 1 {
		t.Fatalf("expected 1 audio stream, got %d", result.AudioStreamCount())
	}
	if result.DurationSeconds() != 30.5 {
		t.Fatalf("unexpected duration %v", result.DurationSeconds())
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{Format: Format{Duration: "bad"}}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if _, ok := result.VideoStream(); ok {
		t.Fatal("expected no video stream")
	}
}

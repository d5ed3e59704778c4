package ffmpeg

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"stagecast/internal/config"
	"stagecast/internal/logging"
)

// H.264 encoders the pipeline knows how to drive.
const (
	EncoderX264         = "libx264"
	EncoderNVENC        = "h264_nvenc"
	EncoderVideoToolbox = "h264_videotoolbox"
)

// SelectEncoder maps the layout's encoder choice to an ffmpeg encoder name.
// "auto" picks the platform hardware encoder (darwin: VideoToolbox, windows:
// NVENC) when preferHardware is set and libx264 otherwise. Unknown names are
// passed through unchanged.
func SelectEncoder(choice string, preferHardware bool, goos string) string {
	normalized := strings.ToLower(strings.TrimSpace(choice))
	switch normalized {
	case "x264":
		return EncoderX264
	case "nvenc":
		return EncoderNVENC
	case "videotoolbox":
		return EncoderVideoToolbox
	case "", "auto":
		if preferHardware {
			switch goos {
			case "darwin":
				return EncoderVideoToolbox
			case "windows":
				return EncoderNVENC
			}
		}
		return EncoderX264
	default:
		return strings.TrimSpace(choice)
	}
}

// IsHardware reports whether encoder runs on a hardware encoder block.
func IsHardware(encoder string) bool {
	return encoder == EncoderNVENC || encoder == EncoderVideoToolbox
}

// EncodeArgs returns the video codec and rate-control arguments for encoder.
func EncodeArgs(encoder string, layout config.Layout) []string {
	var args []string
	switch encoder {
	case EncoderX264:
		args = []string{"-c:v", EncoderX264, "-preset", layout.X264Preset, "-crf", strconv.FormatFloat(layout.X264CRF, 'f', -1, 64)}
	case EncoderVideoToolbox:
		args = []string{"-c:v", EncoderVideoToolbox, "-b:v", "6000k", "-maxrate", "8000k", "-bufsize", "16000k"}
	case EncoderNVENC:
		args = []string{"-c:v", EncoderNVENC, "-preset", "p5", "-b:v", "6000k", "-maxrate", "8000k", "-bufsize", "16000k"}
	default:
		args = []string{"-c:v", encoder}
	}
	return append(args, "-pix_fmt", "yuv420p")
}

// WithFallback runs attempt with hardware preferred and, if that fails,
// exactly once more in software. A cancelled context is not retried.
func WithFallback(ctx context.Context, logger *slog.Logger, attempt func(hardware bool) error) error {
	err := attempt(true)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return err
	}
	logging.WarnWithContext(logger, "hardware encode failed; retrying with software encoder", "encoder_fallback",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check hardware encoder support or set \"encoder\": \"x264\" in the layout file"),
		logging.String(logging.FieldImpact, "stage re-encodes with libx264"),
	)
	return attempt(false)
}

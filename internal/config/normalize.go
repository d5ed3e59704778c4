package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeInputs(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeKeying()
	c.normalizeOverlay()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("STAGECAST_PROJECT_ROOT"); ok && strings.TrimSpace(value) != "" {
		c.Paths.ProjectRoot = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.ProjectRoot) == "" {
		c.Paths.ProjectRoot = defaultProjectRoot
	}
	var err error
	if c.Paths.ProjectRoot, err = expandPath(strings.TrimSpace(c.Paths.ProjectRoot)); err != nil {
		return fmt.Errorf("paths.project_root: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = resolveUnder(c.Paths.ProjectRoot, c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.FontsDir) == "" {
		c.Paths.FontsDir = defaultFontsDir
	}
	if c.Paths.FontsDir, err = resolveUnder(c.Paths.ProjectRoot, c.Paths.FontsDir); err != nil {
		return fmt.Errorf("paths.fonts_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeInputs() error {
	defaults := Default().Inputs
	fields := []struct {
		key      string
		value    *string
		fallback string
	}{
		{"inputs.background", &c.Inputs.Background, defaults.Background},
		{"inputs.presenter", &c.Inputs.Presenter, defaults.Presenter},
		{"inputs.narration", &c.Inputs.Narration, defaults.Narration},
		{"inputs.timeline", &c.Inputs.Timeline, defaults.Timeline},
		{"inputs.pictures_dir", &c.Inputs.PicturesDir, defaults.PicturesDir},
		{"inputs.title", &c.Inputs.Title, defaults.Title},
		{"inputs.key_color", &c.Inputs.KeyColor, defaults.KeyColor},
		{"inputs.layout", &c.Inputs.Layout, defaults.Layout},
	}
	for _, field := range fields {
		if strings.TrimSpace(*field.value) == "" {
			*field.value = field.fallback
		}
		resolved, err := resolveUnder(c.Paths.ProjectRoot, *field.value)
		if err != nil {
			return fmt.Errorf("%s: %w", field.key, err)
		}
		*field.value = resolved
	}
	return nil
}

func (c *Config) normalizeTools() {
	if value, ok := os.LookupEnv("STAGECAST_FFMPEG"); ok && strings.TrimSpace(value) != "" {
		c.Tools.FFmpeg = value
	}
	if value, ok := os.LookupEnv("STAGECAST_FFPROBE"); ok && strings.TrimSpace(value) != "" {
		c.Tools.FFprobe = value
	}
	c.Tools.FFmpeg = strings.TrimSpace(c.Tools.FFmpeg)
	if c.Tools.FFmpeg == "" {
		c.Tools.FFmpeg = defaultFFmpeg
	}
	c.Tools.FFprobe = strings.TrimSpace(c.Tools.FFprobe)
	if c.Tools.FFprobe == "" {
		c.Tools.FFprobe = defaultFFprobe
	}
}

func (c *Config) normalizeKeying() {
	c.Keying.Anchor = strings.ToLower(strings.TrimSpace(c.Keying.Anchor))
	if c.Keying.Anchor == "" {
		c.Keying.Anchor = defaultKeyAnchor
	}
	if c.Keying.BlurSigma <= 0 {
		c.Keying.BlurSigma = defaultKeyBlurSigma
	}
}

func (c *Config) normalizeOverlay() {
	if c.Overlay.BoxWidthRatio <= 0 {
		c.Overlay.BoxWidthRatio = defaultOverlayBoxRatio
	}
	if c.Overlay.Margin < 0 {
		c.Overlay.Margin = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

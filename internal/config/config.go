package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the project root and the directories derived from it.
type Paths struct {
	ProjectRoot string `toml:"project_root"`
	OutputDir   string `toml:"output_dir"`
	FontsDir    string `toml:"fonts_dir"`
}

// Inputs lists the source assets of one production. Relative values are
// resolved against Paths.ProjectRoot.
type Inputs struct {
	Background  string `toml:"background"`
	Presenter   string `toml:"presenter"`
	Narration   string `toml:"narration"`
	Timeline    string `toml:"timeline"`
	PicturesDir string `toml:"pictures_dir"`
	Title       string `toml:"title"`
	KeyColor    string `toml:"key_color"`
	Layout      string `toml:"layout"`
}

// Tools names the external binaries the pipeline drives.
type Tools struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
}

// Canvas is the output frame size.
type Canvas struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Keying controls how the presenter clip is keyed over the background.
type Keying struct {
	// Similarity is the chromakey colour tolerance (0-1).
	Similarity float64 `toml:"similarity"`
	// Blend is the chromakey edge blend (0-1).
	Blend float64 `toml:"blend"`
	// SoftEdge adds alpha smoothing and spill suppression after keying.
	SoftEdge  bool    `toml:"soft_edge"`
	BlurSigma float64 `toml:"blur_sigma"`
	// Anchor places the presenter: "center" or "bottom".
	Anchor string `toml:"anchor"`
}

// Overlay controls the image overlay region of stage 3.
type Overlay struct {
	BoxWidthRatio float64 `toml:"box_width_ratio"`
	Margin        int     `toml:"margin"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for stagecast.
//
// Configuration sections:
//   - Paths: project root, output and fonts directories
//   - Inputs: source assets (relative to the project root)
//   - Tools: ffmpeg/ffprobe binaries
//   - Canvas: output frame size
//   - Keying: chroma key tolerance and soft-edge options
//   - Overlay: stage 3 picture box
//   - Logging: log format and level
//
// Caption and title styling lives in the JSON layout file, see LoadLayout.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Inputs  Inputs  `toml:"inputs"`
	Tools   Tools   `toml:"tools"`
	Canvas  Canvas  `toml:"canvas"`
	Keying  Keying  `toml:"keying"`
	Overlay Overlay `toml:"overlay"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/stagecast/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/stagecast/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("stagecast.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the output directory.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.OutputDir, err)
	}
	return nil
}

// OutputPath joins name onto the output directory.
func (c *Config) OutputPath(name string) string {
	return filepath.Join(c.Paths.OutputDir, name)
}

// FFmpegBinary returns the ffmpeg executable.
func (c *Config) FFmpegBinary() string {
	if bin := strings.TrimSpace(c.Tools.FFmpeg); bin != "" {
		return bin
	}
	return defaultFFmpeg
}

// FFprobeBinary returns the ffprobe executable used for duration lookups.
func (c *Config) FFprobeBinary() string {
	if bin := strings.TrimSpace(c.Tools.FFprobe); bin != "" {
		return bin
	}
	return defaultFFprobe
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// resolveUnder anchors a relative path at root; absolute and ~ paths are
// expanded as-is.
func resolveUnder(root, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	if strings.HasPrefix(value, "~") || filepath.IsAbs(value) {
		return expandPath(value)
	}
	return expandPath(filepath.Join(root, value))
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the effective configuration as TOML.
func (c *Config) Encode() (string, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return string(data), nil
}

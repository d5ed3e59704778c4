package config

const (
	defaultProjectRoot     = "."
	defaultOutputDir       = "output"
	defaultFontsDir        = "Font"
	defaultBackground      = "Background Fame/FRAMEVIDEO.jpg"
	defaultPresenter       = "backround_videos/FRAMEVIDEO.mp4"
	defaultNarration       = "audio/VoiceTXT.mp3"
	defaultTimeline        = "Timeline.srt"
	defaultPicturesDir     = "Image Description"
	defaultTitle           = "title.txt"
	defaultKeyColor        = "keycolor.txt"
	defaultLayout          = "configs.json"
	defaultFFmpeg          = "ffmpeg"
	defaultFFprobe         = "ffprobe"
	defaultCanvasWidth     = 1920
	defaultCanvasHeight    = 1080
	defaultKeySimilarity   = 0.30
	defaultKeyBlend        = 0.10
	defaultKeyBlurSigma    = 2
	defaultKeyAnchor       = AnchorCenter
	defaultOverlayBoxRatio = 0.30
	defaultOverlayMargin   = 40
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Presenter anchors.
const (
	AnchorCenter = "center"
	AnchorBottom = "bottom"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ProjectRoot: defaultProjectRoot,
			OutputDir:   defaultOutputDir,
			FontsDir:    defaultFontsDir,
		},
		Inputs: Inputs{
			Background:  defaultBackground,
			Presenter:   defaultPresenter,
			Narration:   defaultNarration,
			Timeline:    defaultTimeline,
			PicturesDir: defaultPicturesDir,
			Title:       defaultTitle,
			KeyColor:    defaultKeyColor,
			Layout:      defaultLayout,
		},
		Tools: Tools{
			FFmpeg:  defaultFFmpeg,
			FFprobe: defaultFFprobe,
		},
		Canvas: Canvas{
			Width:  defaultCanvasWidth,
			Height: defaultCanvasHeight,
		},
		Keying: Keying{
			Similarity: defaultKeySimilarity,
			Blend:      defaultKeyBlend,
			BlurSigma:  defaultKeyBlurSigma,
			Anchor:     defaultKeyAnchor,
		},
		Overlay: Overlay{
			BoxWidthRatio: defaultOverlayBoxRatio,
			Margin:        defaultOverlayMargin,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
)

// Caption alignments.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
)

// Layout carries caption/title styling and encoder settings. Values are read
// once from the JSON layout file and never mutated afterwards.
type Layout struct {
	TitleFontSize  float64 `json:"title_top_size"`
	TitleMarginTop float64 `json:"title_margin_top"`

	WordFontSize   float64 `json:"timeline_word_size"`
	WordMarginLeft float64 `json:"timeline_word_margin_left"`
	WordAlign      string  `json:"timeline_word_align"`

	// RegionWidthPx wins when positive; otherwise RegionWidthPercent applies,
	// as either a 0-1 fraction or a 0-100 percentage.
	RegionWidthPx      float64 `json:"timeline_word_region_width_px"`
	RegionWidthPercent float64 `json:"timeline_word_region_width_percent"`

	// Colours are CSS-style hex strings (RRGGBB or AARRGGBB); empty means the
	// generator default.
	TitlePrimaryColor string `json:"title_primary_color,omitempty"`
	TitleOutlineColor string `json:"title_outline_color,omitempty"`
	WordPrimaryColor  string `json:"timeline_word_primary_color,omitempty"`
	WordOutlineColor  string `json:"timeline_word_outline_color,omitempty"`

	Encoder     string  `json:"encoder"`
	X264Preset  string  `json:"x264_preset"`
	X264CRF     float64 `json:"x264_crf"`
	FPS         float64 `json:"fps_output"`
	StatsPeriod float64 `json:"stats_period"`
}

// DefaultLayout returns the per-key defaults used when a layout file parses
// but omits or mangles individual values.
func DefaultLayout() Layout {
	return Layout{
		TitleFontSize:  38,
		TitleMarginTop: 40,
		WordFontSize:   30,
		WordMarginLeft: 40,
		WordAlign:      AlignLeft,
		Encoder:        "auto",
		X264Preset:     "veryfast",
		X264CRF:        22,
		FPS:            30,
		StatsPeriod:    5,
	}
}

// FallbackLayout returns the full set used when the layout file is missing
// or is not valid JSON: larger type than DefaultLayout and a 35% caption
// region.
func FallbackLayout() Layout {
	layout := DefaultLayout()
	layout.TitleFontSize = 80
	layout.WordFontSize = 70
	layout.RegionWidthPercent = 0.35
	return layout
}

// Align returns the normalized caption alignment.
func (l Layout) Align() string {
	if strings.EqualFold(strings.TrimSpace(l.WordAlign), AlignCenter) {
		return AlignCenter
	}
	return AlignLeft
}

// LoadLayout reads the JSON layout file at path. It never fails: a missing or
// unparsable file yields FallbackLayout, and individual bad values fall back
// to DefaultLayout entries. Every substitution is reported in the returned
// warnings.
func LoadLayout(path string) (Layout, []string) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return FallbackLayout(), []string{fmt.Sprintf("layout file %s not found; using fallback layout", path)}
		}
		return FallbackLayout(), []string{fmt.Sprintf("read layout file: %v; using fallback layout", err)}
	}
	return ParseLayout(data)
}

// ParseLayout applies the lenient parse policy to raw JSON bytes.
func ParseLayout(data []byte) (Layout, []string) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var raw map[string]any
	if err := decoder.Decode(&raw); err != nil || raw == nil {
		if err == nil {
			err = errors.New("top-level value is not an object")
		}
		return FallbackLayout(), []string{fmt.Sprintf("parse layout: %v; using fallback layout", err)}
	}

	p := layoutParser{raw: raw}
	layout := DefaultLayout()
	layout.TitleFontSize = p.number("title_top_size", layout.TitleFontSize)
	layout.WordFontSize = p.number("timeline_word_size", layout.WordFontSize)
	layout.TitleMarginTop = p.number("title_margin_top", layout.TitleMarginTop)
	layout.WordMarginLeft = p.number("timeline_word_margin_left", layout.WordMarginLeft)
	layout.WordAlign = p.str("timeline_word_align", layout.WordAlign)
	layout.RegionWidthPx = p.number("timeline_word_region_width_px", layout.RegionWidthPx)
	layout.RegionWidthPercent = p.number("timeline_word_region_width_percent", layout.RegionWidthPercent)
	layout.TitlePrimaryColor = p.str("title_primary_color", "")
	layout.TitleOutlineColor = p.str("title_outline_color", "")
	layout.WordPrimaryColor = p.str("timeline_word_primary_color", "")
	layout.WordOutlineColor = p.str("timeline_word_outline_color", "")
	layout.Encoder = p.str("encoder", layout.Encoder)
	layout.X264Preset = p.str("x264_preset", layout.X264Preset)
	layout.X264CRF = p.number("x264_crf", layout.X264CRF)
	layout.FPS = p.positive("fps_output", layout.FPS)
	layout.StatsPeriod = p.positive("stats_period", layout.StatsPeriod)
	return layout, p.warnings
}

type layoutParser struct {
	raw      map[string]any
	warnings []string
}

// number accepts JSON numbers and numeric strings.
func (p *layoutParser) number(key string, fallback float64) float64 {
	value, ok := p.raw[key]
	if !ok {
		return fallback
	}
	var text string
	switch v := value.(type) {
	case json.Number:
		text = v.String()
	case string:
		text = strings.TrimSpace(v)
	default:
		p.warnf("%s: expected a number, got %T; using %v", key, value, fallback)
		return fallback
	}
	parsed, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		p.warnf("%s: %q is not a finite number; using %v", key, text, fallback)
		return fallback
	}
	return parsed
}

// positive is number for keys where zero or less makes ffmpeg fail.
func (p *layoutParser) positive(key string, fallback float64) float64 {
	value := p.number(key, fallback)
	if value <= 0 {
		p.warnf("%s: %v must be greater than zero; using %v", key, value, fallback)
		return fallback
	}
	return value
}

func (p *layoutParser) str(key, fallback string) string {
	value, ok := p.raw[key]
	if !ok {
		return fallback
	}
	s, ok := value.(string)
	if !ok {
		p.warnf("%s: expected a string, got %T; using %q", key, value, fallback)
		return fallback
	}
	return s
}

func (p *layoutParser) warnf(format string, args ...any) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

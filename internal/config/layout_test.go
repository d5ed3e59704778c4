package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"stagecast/internal/config"
)

func TestLoadLayoutMissingFileUsesFallbackSet(t *testing.T) {
	layout, warnings := config.LoadLayout(filepath.Join(t.TempDir(), "configs.json"))
	if layout != config.FallbackLayout() {
		t.Fatalf("expected fallback layout, got %+v", layout)
	}
	if layout.TitleFontSize != 80 || layout.WordFontSize != 70 || layout.RegionWidthPercent != 0.35 {
		t.Fatalf("unexpected fallback values: %+v", layout)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "not found") {
		t.Fatalf("expected a single not-found warning, got %v", warnings)
	}
}

func TestParseLayoutSyntaxErrorUsesFallbackSet(t *testing.T) {
	layout, warnings := config.ParseLayout([]byte(`{"title_top_size": 12,`))
	if layout != config.FallbackLayout() {
		t.Fatalf("expected fallback layout, got %+v", layout)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected one warning, got %v", warnings)
	}
}

func TestParseLayoutNonObjectUsesFallbackSet(t *testing.T) {
	layout, _ := config.ParseLayout([]byte(`[1, 2]`))
	if layout != config.FallbackLayout() {
		t.Fatalf("expected fallback layout, got %+v", layout)
	}
}

func TestParseLayoutEmptyObjectUsesPerKeyDefaults(t *testing.T) {
	layout, warnings := config.ParseLayout([]byte(`{}`))
	if layout != config.DefaultLayout() {
		t.Fatalf("expected default layout, got %+v", layout)
	}
	if len(warnings) != 0 {
		t.Fatalf("absent keys should not warn, got %v", warnings)
	}
	if layout.TitleFontSize != 38 || layout.WordFontSize != 30 || layout.RegionWidthPercent != 0 {
		t.Fatalf("unexpected defaults: %+v", layout)
	}
}

func TestParseLayoutReadsValuesAndFallsBackPerKey(t *testing.T) {
	data := []byte(`{
		"title_top_size": 64,
		"timeline_word_size": "48",
		"timeline_word_margin_left": "wide",
		"timeline_word_align": "CENTER",
		"timeline_word_region_width_percent": 35,
		"title_primary_color": "#FFCC00",
		"timeline_word_outline_color": 123,
		"encoder": "x264",
		"x264_crf": null,
		"fps_output": 25
	}`)
	layout, warnings := config.ParseLayout(data)

	if layout.TitleFontSize != 64 {
		t.Fatalf("title size: got %v", layout.TitleFontSize)
	}
	if layout.WordFontSize != 48 {
		t.Fatalf("numeric strings should be accepted, got %v", layout.WordFontSize)
	}
	if layout.WordMarginLeft != 40 {
		t.Fatalf("bad margin should fall back to 40, got %v", layout.WordMarginLeft)
	}
	if layout.Align() != config.AlignCenter {
		t.Fatalf("align: got %q", layout.Align())
	}
	if layout.RegionWidthPercent != 35 {
		t.Fatalf("percent: got %v", layout.RegionWidthPercent)
	}
	if layout.TitlePrimaryColor != "#FFCC00" {
		t.Fatalf("colour: got %q", layout.TitlePrimaryColor)
	}
	if layout.WordOutlineColor != "" {
		t.Fatalf("non-string colour should be dropped, got %q", layout.WordOutlineColor)
	}
	if layout.X264CRF != 22 {
		t.Fatalf("null crf should fall back to 22, got %v", layout.X264CRF)
	}
	if layout.FPS != 25 || layout.Encoder != "x264" {
		t.Fatalf("unexpected fps/encoder: %v %q", layout.FPS, layout.Encoder)
	}
	if len(warnings) != 3 {
		t.Fatalf("expected 3 warnings (margin, outline colour, crf), got %d: %v", len(warnings), warnings)
	}
}

func TestLoadLayoutReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs.json")
	if err := os.WriteFile(path, []byte(`{"stats_period": 2}`), 0o644); err != nil {
		t.Fatalf("write layout: %v", err)
	}
	layout, warnings := config.LoadLayout(path)
	if layout.StatsPeriod != 2 || len(warnings) != 0 {
		t.Fatalf("unexpected result: %+v %v", layout, warnings)
	}
}

func TestAlignDefaultsToLeft(t *testing.T) {
	for _, value := range []string{"", "left", "right", "Left"} {
		if got := (config.Layout{WordAlign: value}).Align(); got != config.AlignLeft {
			t.Fatalf("Align(%q) = %q, want left", value, got)
		}
	}
}

func TestParseLayoutRejectsNonPositiveRates(t *testing.T) {
	layout, warnings := config.ParseLayout([]byte(`{"fps_output": 0, "stats_period": -2}`))
	defaults := config.DefaultLayout()
	if layout.FPS != defaults.FPS || layout.StatsPeriod != defaults.StatsPeriod {
		t.Fatalf("expected default rates, got fps=%v stats_period=%v", layout.FPS, layout.StatsPeriod)
	}
	if len(warnings) != 2 {
		t.Fatalf("expected two warnings, got %v", warnings)
	}
	for _, w := range warnings {
		if !strings.Contains(w, "greater than zero") {
			t.Fatalf("unexpected warning %q", w)
		}
	}
}

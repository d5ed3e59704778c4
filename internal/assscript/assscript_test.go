package assscript

import (
	"math"
	"strings"
	"testing"

	"stagecast/internal/config"
	"stagecast/internal/timeline"
)

var canvas = config.Canvas{Width: 1920, Height: 1080}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0:00:00.00"},
		{1.5, "0:00:01.50"},
		{61.25, "0:01:01.25"},
		{3723.456, "1:02:03.45"},
		{TitleEnd, "24:00:00.00"},
		{-3, "0:00:00.00"},
	}
	for _, tt := range tests {
		if got := FormatTime(tt.in); got != tt.want {
			t.Fatalf("FormatTime(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEscapeTextPreservesLineBreaks(t *testing.T) {
	got := EscapeText(`a {b}\Nc}`)
	want := `a \{b\}\Nc\}`
	if got != want {
		t.Fatalf("EscapeText = %q, want %q", got, want)
	}
}

func TestColorFromHex(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"#FF8800", "&H000088FF"},
		{"ff8800", "&H000088FF"},
		{"80FF8800", "&H800088FF"},
		{"#12345", "fallback"},
		{"GGGGGG", "fallback"},
		{"", "fallback"},
	}
	for _, tt := range tests {
		if got := ColorFromHex(tt.in, "fallback"); got != tt.want {
			t.Fatalf("ColorFromHex(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTitleDocument(t *testing.T) {
	layout := config.DefaultLayout()
	layout.TitleOutlineColor = "#000000"

	doc := Title("  My {Title}\\Nline two \n", layout, canvas)
	if len(doc.Events) != 1 {
		t.Fatalf("expected exactly one event, got %d", len(doc.Events))
	}
	event := doc.Events[0]
	if event.Start != 0 || event.End != TitleEnd {
		t.Fatalf("unexpected title span: %v-%v", event.Start, event.End)
	}
	if event.Text != `{\an8}My \{Title\}\Nline two` {
		t.Fatalf("unexpected title text %q", event.Text)
	}

	rendered := doc.String()
	wantStyle := "Style: Title,Paytone One,38,&H00FFFFFF,&H00FFFFFF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,2,0,8,40,40,40,0"
	if !strings.Contains(rendered, wantStyle) {
		t.Fatalf("missing title style line in:\n%s", rendered)
	}
	for _, want := range []string{"PlayResX: 1920", "PlayResY: 1080", "WrapStyle: 2", "ScaledBorderAndShadow: yes"} {
		if !strings.Contains(rendered, want) {
			t.Fatalf("missing header %q", want)
		}
	}
	if !strings.HasSuffix(rendered, `Dialogue: 0,0:00:00.00,24:00:00.00,Title,,0,0,0,,{\an8}My \{Title\}\Nline two`) {
		t.Fatalf("unexpected dialogue tail:\n%s", rendered)
	}
}

func TestResolveRegion(t *testing.T) {
	tests := []struct {
		name    string
		px      float64
		percent float64
		want    float64
	}{
		{"pixels win", 500, 50, 500},
		{"fraction", 0, 0.35, 672},
		{"percentage", 0, 35, 672},
		{"default", 0, 0, 672},
		{"half", 0, 50, 960},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout := config.DefaultLayout()
			layout.RegionWidthPx = tt.px
			layout.RegionWidthPercent = tt.percent
			region := ResolveRegion(layout, 1920)
			if region.Width != tt.want {
				t.Fatalf("width = %v, want %v", region.Width, tt.want)
			}
			if region.MarginRight != math.Max(0, 1920-40-tt.want) {
				t.Fatalf("margin right = %v", region.MarginRight)
			}
		})
	}
}

func TestResolveRegionClampsMarginRight(t *testing.T) {
	layout := config.DefaultLayout()
	layout.RegionWidthPx = 5000
	if region := ResolveRegion(layout, 1920); region.MarginRight != 0 {
		t.Fatalf("expected clamped margin, got %v", region.MarginRight)
	}
}

func TestWordRevealHelloWorld(t *testing.T) {
	cues := []timeline.Cue{{Index: 0, Start: 1, End: 3, Text: "Hello world"}}

	doc, region := WordReveal(cues, config.DefaultLayout(), canvas)
	if region.Align != config.AlignLeft {
		t.Fatalf("unexpected align %q", region.Align)
	}
	if len(doc.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(doc.Events))
	}
	first, second := doc.Events[0], doc.Events[1]
	if first.Start != 1 || first.End != 2 || first.Text != `{\q2}Hello` {
		t.Fatalf("unexpected first event %+v", first)
	}
	if second.Start != 2 || second.End != 3 || second.Text != `{\q2}Hello world` {
		t.Fatalf("unexpected second event %+v", second)
	}
	rendered := doc.String()
	if !strings.Contains(rendered, "Style: LeftDefault,Alata-Regular,30,&H00FFFFFF,&H00FFFFFF,&H00111111,&H00000000,0,0,0,0,100,100,0,0,1,2,0,4,40,1208,40,0") {
		t.Fatalf("unexpected style in:\n%s", rendered)
	}
	if !strings.Contains(rendered, `Dialogue: 0,0:00:01.00,0:00:02.00,LeftDefault,,0,0,0,,{\q2}Hello`) {
		t.Fatalf("missing first dialogue in:\n%s", rendered)
	}
}

func TestWordRevealEventsTileCue(t *testing.T) {
	cues := []timeline.Cue{
		{Index: 0, Start: 10, End: 14, Text: "one two three four five"},
		{Index: 1, Start: 14, End: 15, Text: "   "},
		{Index: 2, Start: 15, End: 16, Text: "solo"},
	}

	doc, _ := WordReveal(cues, config.DefaultLayout(), canvas)
	if len(doc.Events) != 6 {
		t.Fatalf("expected 6 events, got %d", len(doc.Events))
	}
	prevEnd := 10.0
	for i, event := range doc.Events[:5] {
		if math.Abs(event.Start-prevEnd) > 1e-9 {
			t.Fatalf("event %d starts at %v, previous ended at %v", i, event.Start, prevEnd)
		}
		if math.Abs((event.End-event.Start)-0.8) > 1e-9 {
			t.Fatalf("event %d spans %v, want 0.8", i, event.End-event.Start)
		}
		prevEnd = event.End
	}
	if math.Abs(prevEnd-14) > 1e-9 {
		t.Fatalf("last reveal ends at %v, want 14", prevEnd)
	}
	solo := doc.Events[5]
	if solo.Start != 15 || solo.End != 16 || solo.Text != `{\q2}solo` {
		t.Fatalf("unexpected single-word event %+v", solo)
	}
}

func TestWordRevealCenterAlignment(t *testing.T) {
	layout := config.DefaultLayout()
	layout.WordAlign = "Center"

	doc, region := WordReveal([]timeline.Cue{{Start: 0, End: 1, Text: "hi"}}, layout, canvas)
	if region.Align != config.AlignCenter {
		t.Fatalf("unexpected align %q", region.Align)
	}
	if doc.Styles[0].Alignment != AlignMiddleCenter {
		t.Fatalf("unexpected style alignment %d", doc.Styles[0].Alignment)
	}
	if doc.Events[0].Text != `{\an5}{\q2}hi` {
		t.Fatalf("unexpected text %q", doc.Events[0].Text)
	}
}

func TestWordRevealWrapsToRegion(t *testing.T) {
	layout := config.DefaultLayout()
	layout.RegionWidthPx = 200
	// 30 * 0.56 = 16.8px per character, so 11 characters fit in 200px.
	doc, _ := WordReveal([]timeline.Cue{{Start: 0, End: 3, Text: "alpha beta gamma"}}, layout, canvas)
	last := doc.Events[len(doc.Events)-1]
	if last.Text != `{\q2}alpha beta\Ngamma` {
		t.Fatalf("unexpected wrapped text %q", last.Text)
	}
}

func TestWrap(t *testing.T) {
	// 10 * 0.56 = 5.6px per character.
	tests := []struct {
		name  string
		text  string
		width float64
		want  []string
	}{
		{"fits", "aa bb", 100, []string{"aa bb"}},
		{"breaks", "aaaa bbbb cccc", 56, []string{"aaaa bbbb", "cccc"}},
		{"long word alone", "a loooooooooooooooooong b", 56, []string{"a", "loooooooooooooooooong", "b"}},
		{"empty", "   ", 100, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.text, 10, tt.width)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Fatalf("Wrap = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapNeverSplitsWords(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog again and again"
	lines := Wrap(text, 30, 150)
	if strings.Join(lines, " ") != text {
		t.Fatalf("wrapping changed words: %q", lines)
	}
	for _, line := range lines {
		if strings.Contains(line, " ") && estimateWidth(line, 30) > 150 {
			t.Fatalf("multi-word line %q exceeds budget", line)
		}
	}
}

func TestKaraoke(t *testing.T) {
	cues := []timeline.Cue{
		{Start: 0, End: 1, Text: "a{"},
		{Start: 1, End: 2, Text: " "},
	}
	doc := Karaoke(cues, canvas)
	if len(doc.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(doc.Events))
	}
	if doc.Events[0].Text != `{\k50}a{\k50}\{` {
		t.Fatalf("unexpected karaoke text %q", doc.Events[0].Text)
	}
	if !strings.Contains(doc.String(), "Style: Default,Arial,36,&H00FFFFFF,&HFFFFFFFF,&H00111111,&H00000000,0,0,0,0,100,100,0,0,1,2,0,2,40,40,40,0") {
		t.Fatalf("unexpected karaoke style:\n%s", doc.String())
	}
}

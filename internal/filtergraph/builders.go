package filtergraph

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"stagecast/internal/timeline"
)

// OutputLabel is the final label every stage graph produces.
const OutputLabel = "vout"

// CompositeParams configures the stage 1 graph.
type CompositeParams struct {
	Width, Height int
	FPS           float64
	// TitleASS and FontsDir are raw paths; they are escaped here.
	TitleASS   string
	FontsDir   string
	KeyColor   string
	Similarity float64
	Blend      float64
	SoftEdge   bool
	BlurSigma  float64
	// Anchor is "center" or "bottom".
	Anchor string
}

// Composite builds the base composite: input 0 is the looping presenter clip,
// input 1 the background still.
func Composite(p CompositeParams) *Graph {
	size := fmt.Sprintf("%d:%d", p.Width, p.Height)
	fps := p.FPS
	if fps <= 0 {
		fps = 30
	}
	key := p.KeyColor
	if key == "" {
		key = DefaultKeyColor
	}

	g := New(2, OutputLabel)
	g.Add([]string{"1:v"}, []Filter{
		F("scale", size, "force_original_aspect_ratio=increase"),
		F("crop", size),
		F("setsar", "1"),
		F("fps", number(fps)),
		subtitles(p.TitleASS, p.FontsDir),
	}, "bg")

	presenter := []Filter{
		F("scale", size, "force_original_aspect_ratio=decrease"),
		F("setsar", "1"),
		F("format", "rgba"),
		F("chromakey", key, fmt.Sprintf("%.2f", p.Similarity), fmt.Sprintf("%.2f", p.Blend)),
	}
	if !p.SoftEdge {
		g.Add([]string{"0:v"}, presenter, "fg")
	} else {
		sigma := p.BlurSigma
		if sigma <= 0 {
			sigma = 2
		}
		g.Add([]string{"0:v"}, append(presenter, F("split")), "keyed", "alpha")
		g.Add([]string{"alpha"}, []Filter{
			F("alphaextract"),
			F("gblur", "sigma="+number(sigma)),
		}, "mask")
		g.Add([]string{"keyed", "mask"}, []Filter{
			F("alphamerge"),
			F("despill", "type="+despillType(key)),
		}, "fg")
	}

	y := "(H-h)/2"
	if strings.EqualFold(p.Anchor, "bottom") {
		y = "H-h"
	}
	g.Add([]string{"bg", "fg"}, []Filter{F("overlay", "(W-w)/2", y, "format=auto")}, OutputLabel)
	return g
}

// OverlayParams configures the stage 3 graph.
type OverlayParams struct {
	Width         int
	FPS           float64
	BoxWidthRatio float64
	Margin        int
}

// Overlay builds the picture overlay graph. Input 0 is the stage 2 video and
// input 1+i the still shown during cue i. Cues without a picture and
// pictures without a cue get no overlay.
func Overlay(cues []timeline.Cue, pictureCount int, p OverlayParams) *Graph {
	count := min(len(cues), pictureCount)
	ratio := p.BoxWidthRatio
	if ratio <= 0 {
		ratio = 0.30
	}
	boxWidth := int(math.Round(float64(p.Width) * ratio))
	fps := p.FPS
	if fps <= 0 {
		fps = 30
	}

	g := New(1+count, OutputLabel)
	g.Add([]string{"0:v"}, []Filter{F("fps", number(fps)), F("setsar", "1")}, "base")
	prev := "base"
	for i := 0; i < count; i++ {
		cue := cues[i]
		pic := fmt.Sprintf("pic%d", i)
		out := fmt.Sprintf("l%d", i)
		g.Add([]string{fmt.Sprintf("%d:v", 1+i)}, []Filter{
			F("scale", strconv.Itoa(boxWidth), "-1", "force_original_aspect_ratio=decrease"),
			F("format", "rgba"),
		}, pic)
		g.Add([]string{prev, pic}, []Filter{F("overlay",
			fmt.Sprintf("W-%d-w", p.Margin),
			"(H-h)/2",
			fmt.Sprintf("enable='between(t,%.3f,%.3f)'", cue.Start, cue.End),
			"format=auto",
		)}, out)
		prev = out
	}
	g.Add([]string{prev}, []Filter{F("null")}, OutputLabel)
	return g
}

// Captions burns the ASS document at assPath into input 0.
func Captions(assPath, fontsDir string) *Graph {
	g := New(1, OutputLabel)
	g.Add([]string{"0:v"}, []Filter{subtitles(assPath, fontsDir)}, OutputLabel)
	return g
}

func subtitles(assPath, fontsDir string) Filter {
	return F("subtitles",
		"'"+EscapePath(assPath)+"'",
		"fontsdir='"+EscapePath(fontsDir)+"'",
	)
}

// despillType picks the despill mode matching the dominant channel of a
// 0xRRGGBB key colour.
func despillType(key string) string {
	value, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(key), "0x"), 16, 32)
	if err != nil {
		return "green"
	}
	green := (value >> 8) & 0xFF
	blue := value & 0xFF
	if blue > green {
		return "blue"
	}
	return "green"
}

func number(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

package assscript

import (
	"math"
	"strings"
	"unicode/utf8"

	"stagecast/internal/config"
	"stagecast/internal/timeline"
)

const (
	defaultPrimary = "&H00FFFFFF"
	defaultOutline = "&H00111111"
	opaqueBlack    = "&H00000000"

	titleStyle  = "Title"
	titleFont   = "Paytone One"
	revealStyle = "LeftDefault"
	revealFont  = "Alata-Regular"

	// TitleEnd keeps the title on screen far past any realistic video length.
	TitleEnd = 24 * 60 * 60

	// charWidthFactor approximates the average glyph advance of the caption
	// font as a fraction of its point size.
	charWidthFactor = 0.56

	defaultRegionFraction = 0.35
	minWrapWidth          = 100
	minCueDuration        = 0.01
)

// Region is the horizontal band word-reveal captions occupy.
type Region struct {
	Width       float64
	MarginLeft  float64
	MarginRight float64
	Align       string
}

// Title builds the static title overlay: a single event from 0 to TitleEnd.
func Title(text string, layout config.Layout, canvas config.Canvas) Document {
	primary := ColorFromHex(layout.TitlePrimaryColor, defaultPrimary)
	return Document{
		PlayResX: canvas.Width,
		PlayResY: canvas.Height,
		Styles: []Style{{
			Name:         titleStyle,
			Font:         titleFont,
			Size:         layout.TitleFontSize,
			Primary:      primary,
			Secondary:    primary,
			Outline:      ColorFromHex(layout.TitleOutlineColor, defaultOutline),
			Back:         opaqueBlack,
			OutlineWidth: 2,
			Alignment:    AlignTopCenter,
			MarginL:      40,
			MarginR:      40,
			MarginV:      layout.TitleMarginTop,
		}},
		Events: []Event{{
			Start: 0,
			End:   TitleEnd,
			Style: titleStyle,
			Text:  `{\an8}` + EscapeText(strings.TrimSpace(text)),
		}},
	}
}

// ResolveRegion computes the caption band for the canvas width. A positive
// pixel width wins; otherwise the percentage applies (values above 1 are read
// as 0-100); otherwise 35% of the canvas.
func ResolveRegion(layout config.Layout, canvasWidth int) Region {
	width := float64(canvasWidth)
	var region float64
	switch {
	case layout.RegionWidthPx > 0:
		region = layout.RegionWidthPx
	case layout.RegionWidthPercent > 0:
		fraction := layout.RegionWidthPercent
		if fraction > 1 {
			fraction /= 100
		}
		region = math.Round(width * fraction)
	default:
		region = math.Round(width * defaultRegionFraction)
	}
	return Region{
		Width:       region,
		MarginLeft:  layout.WordMarginLeft,
		MarginRight: math.Max(0, width-layout.WordMarginLeft-region),
		Align:       layout.Align(),
	}
}

// WordReveal builds the progressive caption track. A cue with n words yields
// n events splitting the cue window into equal slices; event i shows the first
// i words wrapped to the region width.
func WordReveal(cues []timeline.Cue, layout config.Layout, canvas config.Canvas) (Document, Region) {
	region := ResolveRegion(layout, canvas.Width)
	primary := ColorFromHex(layout.WordPrimaryColor, defaultPrimary)

	alignment := AlignMiddleLeft
	alignTag := ""
	if region.Align == config.AlignCenter {
		alignment = AlignMiddleCenter
		alignTag = `{\an5}`
	}

	doc := Document{
		PlayResX: canvas.Width,
		PlayResY: canvas.Height,
		Styles: []Style{{
			Name:         revealStyle,
			Font:         revealFont,
			Size:         layout.WordFontSize,
			Primary:      primary,
			Secondary:    primary,
			Outline:      ColorFromHex(layout.WordOutlineColor, defaultOutline),
			Back:         opaqueBlack,
			OutlineWidth: 2,
			Alignment:    alignment,
			MarginL:      region.MarginLeft,
			MarginR:      region.MarginRight,
			MarginV:      40,
		}},
	}

	budget := math.Max(minWrapWidth, region.Width)
	for _, cue := range cues {
		words := cue.Words()
		if len(words) == 0 {
			continue
		}
		duration := math.Max(minCueDuration, cue.End-cue.Start)
		n := float64(len(words))
		for i := 1; i <= len(words); i++ {
			lines := Wrap(strings.Join(words[:i], " "), layout.WordFontSize, budget)
			doc.Events = append(doc.Events, Event{
				Start: cue.Start + float64(i-1)/n*duration,
				End:   cue.Start + float64(i)/n*duration,
				Style: revealStyle,
				Text:  alignTag + `{\q2}` + EscapeText(strings.Join(lines, `\N`)),
			})
		}
	}
	return doc, region
}

// Wrap packs words greedily into lines whose estimated pixel width stays
// within widthPx. A word wider than the budget gets a line of its own and is
// never split.
func Wrap(text string, fontSize, widthPx float64) []string {
	var (
		lines   []string
		current string
	)
	for _, word := range strings.Fields(text) {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if estimateWidth(candidate, fontSize) > widthPx {
			if current != "" {
				lines = append(lines, current)
			}
			current = word
			continue
		}
		current = candidate
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

func estimateWidth(text string, fontSize float64) float64 {
	return math.Round(float64(utf8.RuneCountInString(text)) * fontSize * charWidthFactor)
}

// Karaoke builds a caption track with one event per cue, timing each
// character with a \k tag.
func Karaoke(cues []timeline.Cue, canvas config.Canvas) Document {
	doc := Document{
		PlayResX: canvas.Width,
		PlayResY: canvas.Height,
		Styles: []Style{{
			Name:         "Default",
			Font:         "Arial",
			Size:         36,
			Primary:      defaultPrimary,
			Secondary:    "&HFFFFFFFF",
			Outline:      defaultOutline,
			Back:         opaqueBlack,
			OutlineWidth: 2,
			Alignment:    AlignBottomCenter,
			MarginL:      40,
			MarginR:      40,
			MarginV:      40,
		}},
	}
	for _, cue := range cues {
		if strings.TrimSpace(cue.Text) == "" {
			continue
		}
		duration := math.Max(minCueDuration, cue.End-cue.Start)
		chars := []rune(cue.Text)
		total := math.Max(1, math.Round(duration*100))
		perChar := int(math.Max(1, math.Round(total/float64(len(chars)))))

		var b strings.Builder
		for _, ch := range chars {
			b.WriteString(`{\k`)
			b.WriteString(number(float64(perChar)))
			b.WriteString("}")
			b.WriteString(EscapeText(string(ch)))
		}
		doc.Events = append(doc.Events, Event{
			Start: cue.Start,
			End:   cue.End,
			Style: "Default",
			Text:  b.String(),
		})
	}
	return doc
}

package assscript

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	styleFormat = "Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding"
	eventFormat = "Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text"
)

// Numpad alignments used by the generators.
const (
	AlignBottomCenter = 2
	AlignMiddleLeft   = 4
	AlignMiddleCenter = 5
	AlignTopCenter    = 8
)

// Style is one [V4+ Styles] entry.
type Style struct {
	Name      string
	Font      string
	Size      float64
	Primary   string
	Secondary string
	Outline   string
	Back      string
	// OutlineWidth is the border thickness in script pixels.
	OutlineWidth float64
	Alignment    int
	MarginL      float64
	MarginR      float64
	MarginV      float64
}

// Event is one Dialogue line. Text is emitted verbatim, so callers escape
// user content with EscapeText.
type Event struct {
	Layer int
	Start float64
	End   float64
	Style string
	Text  string
}

// Document is a complete ASS script.
type Document struct {
	PlayResX int
	PlayResY int
	Styles   []Style
	Events   []Event
}

// String renders the script. Lines are joined with "\n" and the output has
// no trailing newline.
func (d Document) String() string {
	lines := make([]string, 0, 12+len(d.Styles)+len(d.Events))
	lines = append(lines,
		"[Script Info]",
		"ScriptType: v4.00+",
		"PlayResX: "+strconv.Itoa(d.PlayResX),
		"PlayResY: "+strconv.Itoa(d.PlayResY),
		"WrapStyle: 2",
		"ScaledBorderAndShadow: yes",
		"",
		"[V4+ Styles]",
		styleFormat,
	)
	for _, style := range d.Styles {
		lines = append(lines, style.line())
	}
	lines = append(lines, "", "[Events]", eventFormat)
	for _, event := range d.Events {
		lines = append(lines, event.line())
	}
	return strings.Join(lines, "\n")
}

func (s Style) line() string {
	return fmt.Sprintf("Style: %s,%s,%s,%s,%s,%s,%s,0,0,0,0,100,100,0,0,1,%s,0,%d,%s,%s,%s,0",
		s.Name, s.Font, number(s.Size),
		s.Primary, s.Secondary, s.Outline, s.Back,
		number(s.OutlineWidth), s.Alignment,
		number(s.MarginL), number(s.MarginR), number(s.MarginV),
	)
}

func (e Event) line() string {
	return fmt.Sprintf("Dialogue: %d,%s,%s,%s,,0,0,0,,%s", e.Layer, FormatTime(e.Start), FormatTime(e.End), e.Style, e.Text)
}

// FormatTime renders seconds as H:MM:SS.cc. Centiseconds are truncated.
func FormatTime(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	whole := math.Floor(seconds)
	hours := int(whole / 3600)
	minutes := int(math.Mod(whole, 3600) / 60)
	secs := int(math.Mod(whole, 60))
	centis := int(math.Floor((seconds - whole) * 100))
	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, secs, centis)
}

// EscapeText escapes override-block braces while keeping \N hard line breaks
// intact.
func EscapeText(text string) string {
	parts := strings.Split(text, `\N`)
	for i, part := range parts {
		part = strings.ReplaceAll(part, "{", `\{`)
		parts[i] = strings.ReplaceAll(part, "}", `\}`)
	}
	return strings.Join(parts, `\N`)
}

// ColorFromHex converts a CSS-style RRGGBB or AARRGGBB hex string into an ASS
// &HAABBGGRR colour. A leading '#' is accepted. Anything else yields fallback.
func ColorFromHex(hex, fallback string) string {
	value := strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(hex), "#"))
	if !isHex(value) {
		return fallback
	}
	switch len(value) {
	case 6:
		return "&H00" + value[4:6] + value[2:4] + value[0:2]
	case 8:
		return "&H" + value[0:2] + value[6:8] + value[4:6] + value[2:4]
	default:
		return fallback
	}
}

func isHex(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if !(r >= '0' && r <= '9' || r >= 'A' && r <= 'F') {
			return false
		}
	}
	return true
}

func number(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

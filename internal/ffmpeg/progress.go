package ffmpeg

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"stagecast/internal/logging"
)

var (
	outTimePattern = regexp.MustCompile(`out_time=([0-9:.]+)`)
	speedPattern   = regexp.MustCompile(`speed=\s*([0-9.]+)x`)
)

// Progress is one throttled progress report.
type Progress struct {
	Label   string
	Percent float64
	// OutTime is the encoded position in seconds.
	OutTime float64
	// Speed is ffmpeg's realtime multiplier, empty until reported.
	Speed string
	Done  bool
}

// ProgressParser consumes ffmpeg -progress output line by line. A report is
// produced at the end of each progress block when the percentage advanced by
// at least one point, and once more at progress=end.
type ProgressParser struct {
	label   string
	total   float64
	sampler *logging.ProgressSampler
	outTime float64
	haveOut bool
	speed   string
}

// NewProgressParser tracks progress against total seconds. A non-positive
// total disables reporting.
func NewProgressParser(label string, total float64) *ProgressParser {
	return &ProgressParser{
		label:   label,
		total:   total,
		sampler: logging.NewProgressSampler(1),
	}
}

// Feed parses one line and reports whether it completed a report.
func (p *ProgressParser) Feed(line string) (Progress, bool) {
	if m := outTimePattern.FindStringSubmatch(line); m != nil {
		if seconds, ok := parseClock(m[1]); ok {
			p.outTime = seconds
			p.haveOut = true
		}
	}
	if m := speedPattern.FindStringSubmatch(line); m != nil {
		p.speed = m[1]
	}
	if p.total <= 0 {
		return Progress{}, false
	}

	switch strings.TrimSpace(line) {
	case "progress=end":
		return Progress{Label: p.label, Percent: 100, OutTime: p.total, Speed: p.speed, Done: true}, true
	case "progress=continue":
		if !p.haveOut {
			return Progress{}, false
		}
		percent := math.Min(100, math.Max(0, p.outTime*100/p.total))
		if !p.sampler.ShouldLog(percent, "") {
			return Progress{}, false
		}
		return Progress{Label: p.label, Percent: percent, OutTime: p.outTime, Speed: p.speed}, true
	}
	return Progress{}, false
}

// parseClock converts HH:MM:SS.ffffff to seconds.
func parseClock(value string) (float64, bool) {
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return 0, false
	}
	var seconds float64
	for _, part := range parts {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return 0, false
		}
		seconds = seconds*60 + v
	}
	return seconds, true
}

// FormatClock renders whole seconds as HH:MM:SS.
func FormatClock(seconds float64) string {
	s := int(math.Max(0, math.Floor(seconds)))
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, s%3600/60, s%60)
}

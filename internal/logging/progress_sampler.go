package logging

import "strings"

// ProgressSampler suppresses repetitive progress reports: it emits when the
// percentage has advanced by at least the configured step since the last
// emission, or when the stage changes.
type ProgressSampler struct {
	step      float64
	lastStage string
	last      float64
}

// NewProgressSampler constructs a sampler with the given minimum step in
// percentage points (default 1).
func NewProgressSampler(step float64) *ProgressSampler {
	if step <= 0 {
		step = 1
	}
	return &ProgressSampler{step: step, last: -step}
}

// ShouldLog reports whether a progress event should be emitted. Percent can be
// negative to indicate "unknown"; stage is trimmed before comparison.
func (s *ProgressSampler) ShouldLog(percent float64, stage string) bool {
	if s == nil {
		return true
	}
	stage = strings.TrimSpace(stage)
	emit := false
	if stage != "" && stage != s.lastStage {
		s.lastStage = stage
		s.last = -s.step
		emit = true
	}
	if percent >= 0 && percent-s.last >= s.step {
		s.last = percent
		emit = true
	}
	return emit
}

// Reset clears the sampler state (e.g. when a new stage starts).
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.lastStage = ""
	s.last = -s.step
}

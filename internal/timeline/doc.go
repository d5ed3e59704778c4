// Package timeline parses SRT-style cue files into an ordered timeline.
//
// Parsing is lenient: malformed timestamps degrade to zero and cues whose end
// does not follow their start are dropped. Every such degradation is reported
// as a Warning alongside the parsed cues instead of failing the parse. Only
// I/O errors are returned as errors.
package timeline

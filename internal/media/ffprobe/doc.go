// Package ffprobe wraps the ffprobe binary.
//
// Duration is what the pipeline needs: the narration length clamps stage 1 and
// drives progress percentages in stages 3 and 4. Inspect decodes the full
// JSON report for the check command.
package ffprobe

// Package ffmpeg runs the ffmpeg binary and interprets its output.
//
// Key types:
//   - Executor: runs a command and streams stderr lines (stubbed in tests)
//   - Runner: ffmpeg invocations with logging and optional progress parsing
//   - ProgressParser: turns -progress key=value output into percentages
//
// Encoder helpers pick a hardware or software H.264 encoder, build its
// rate-control arguments, and retry a failed hardware encode once in software.
package ffmpeg

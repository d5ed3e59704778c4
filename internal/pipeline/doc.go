// Package pipeline drives the four ffmpeg stages that turn the project
// inputs into the final video.
//
// Each stage validates its inputs, writes its generated artifacts (ASS
// documents, filter scripts, the picture map) to the output directory and
// then runs ffmpeg once, or twice when a hardware encode falls back to
// libx264. Videos are rendered to a partial file and renamed into place only
// after ffmpeg succeeds, so a failed stage never leaves a truncated output
// behind.
//
// A file lock in the output directory keeps two runs from writing the same
// artifacts. Every stage execution is recorded in the run journal when one is
// attached.
package pipeline

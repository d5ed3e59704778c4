// Package assscript renders Advanced SubStation Alpha documents for the title
// overlay and the caption tracks burned in by ffmpeg's subtitles filter.
//
// Key types:
//   - Document: script header, styles and dialogue events
//   - Region: the horizontal band word-reveal captions are confined to
//
// Generators:
//   - Title: one static event covering the whole video
//   - WordReveal: progressive word-by-word captions per cue
//   - Karaoke: per-character \k timing per cue
package assscript

// Package filtergraph builds ffmpeg -filter_complex graphs as labelled chains
// and checks their connectivity before they are serialized.
//
// A Graph is an ordered list of Chains. Each chain reads stream specifiers
// ("0:v") or labels produced by earlier chains, applies a filter list, and
// produces new labels. Validate rejects dangling, duplicated and unconsumed
// labels so wiring mistakes surface before ffmpeg runs.
//
// Stage builders:
//   - Composite: background fill, chroma-keyed presenter, title burn-in
//   - Overlay: one still image per cue inside its time window
//   - Captions: subtitle burn-in
package filtergraph

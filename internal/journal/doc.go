// Package journal keeps a SQLite history of stage runs in the output
// directory: which run executed which stage, with what encoder, and how it
// ended.
//
// The journal is write-mostly history for the history command. Stages never
// consult it to skip or resume work.
package journal

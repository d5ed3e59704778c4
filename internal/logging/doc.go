// Package logging assembles structured slog loggers and formatting helpers used
// across stagecast.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// and exposes context helpers so stage code can tag log lines with the run
// correlation ID and stage name. Logs go to stderr; stdout is reserved for the
// paths of produced files.
package logging

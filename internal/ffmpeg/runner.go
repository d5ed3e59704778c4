package ffmpeg

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"stagecast/internal/logging"
)

// Option configures a Runner.
type Option func(*Runner)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(r *Runner) {
		if exec != nil {
			r.exec = exec
		}
	}
}

// Runner invokes ffmpeg and waits for it to exit.
type Runner struct {
	binary string
	exec   Executor
	logger *slog.Logger
}

// NewRunner constructs a runner for the given ffmpeg binary.
func NewRunner(binary string, logger *slog.Logger, opts ...Option) *Runner {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	r := &Runner{
		binary: binary,
		exec:   commandExecutor{},
		logger: logging.NewComponentLogger(logger, "ffmpeg"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Binary returns the ffmpeg executable the runner invokes.
func (r *Runner) Binary() string {
	return r.binary
}

// Run executes ffmpeg with args. A non-zero exit is returned as *ExitError.
func (r *Runner) Run(ctx context.Context, label string, args []string) error {
	return r.run(ctx, label, args, nil)
}

// RunWithProgress executes ffmpeg and reports progress parsed from its
// -progress output against total seconds. When report is nil progress is
// logged instead.
func (r *Runner) RunWithProgress(ctx context.Context, label string, args []string, total float64, report func(Progress)) error {
	if report == nil {
		report = r.logProgress
	}
	parser := NewProgressParser(label, total)
	return r.run(ctx, label, args, func(line string) {
		if progress, ok := parser.Feed(line); ok {
			report(progress)
		}
	})
}

func (r *Runner) run(ctx context.Context, label string, args []string, onStderr func(string)) error {
	logger := logging.WithContext(ctx, r.logger)
	logger.Debug("ffmpeg command",
		logging.String("label", label),
		logging.String("binary", r.binary),
		logging.String("args", strings.Join(args, " ")),
	)
	started := time.Now()
	if err := r.exec.Run(ctx, r.binary, args, onStderr); err != nil {
		logger.Debug("ffmpeg failed",
			logging.String("label", label),
			logging.Duration("elapsed", time.Since(started)),
			logging.Error(err),
		)
		return err
	}
	logger.Info("ffmpeg finished",
		logging.String("label", label),
		logging.Duration("elapsed", time.Since(started).Round(time.Millisecond)),
	)
	return nil
}

func (r *Runner) logProgress(p Progress) {
	speed := p.Speed
	if speed == "" {
		speed = "-"
	}
	r.logger.Info("encoding progress",
		logging.String("label", p.Label),
		logging.Float64("percent", roundTenth(p.Percent)),
		logging.String("t", FormatClock(p.OutTime)),
		logging.String("speed", speed+"x"),
	)
}

func roundTenth(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

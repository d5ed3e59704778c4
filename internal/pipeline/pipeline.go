package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"stagecast/internal/config"
	"stagecast/internal/ffmpeg"
	"stagecast/internal/journal"
	"stagecast/internal/logging"
	"stagecast/internal/stageerr"
)

// First and Last bound the stage numbers.
const (
	First = 1
	Last  = 4
)

// DurationProber reports the length of a media file in seconds.
type DurationProber interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithJournal records every stage execution in j.
func WithJournal(j *journal.Journal) Option {
	return func(p *Pipeline) {
		p.journal = j
	}
}

// WithProgress routes encode progress of stages 3 and 4 to report instead of
// the log.
func WithProgress(report func(ffmpeg.Progress)) Option {
	return func(p *Pipeline) {
		p.progress = report
	}
}

// WithGOOS overrides the platform used for hardware encoder selection.
func WithGOOS(goos string) Option {
	return func(p *Pipeline) {
		if goos != "" {
			p.goos = goos
		}
	}
}

// Pipeline runs stages against one project configuration.
type Pipeline struct {
	cfg      *config.Config
	layout   config.Layout
	runner   *ffmpeg.Runner
	probe    DurationProber
	journal  *journal.Journal
	progress func(ffmpeg.Progress)
	logger   *slog.Logger
	goos     string
}

// New constructs a pipeline. The layout is read once by the caller and never
// modified here.
func New(cfg *config.Config, layout config.Layout, runner *ffmpeg.Runner, probe DurationProber, logger *slog.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	p := &Pipeline{
		cfg:    cfg,
		layout: layout,
		runner: runner,
		probe:  probe,
		logger: logging.NewComponentLogger(logger, "pipeline"),
		goos:   runtime.GOOS,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Stage1 renders the silent base composite.
func (p *Pipeline) Stage1(ctx context.Context) (string, error) {
	return p.Stage(ctx, 1)
}

// Stage2 muxes the narration onto the stage 1 video.
func (p *Pipeline) Stage2(ctx context.Context) (string, error) {
	return p.Stage(ctx, 2)
}

// Stage3 overlays one picture per cue.
func (p *Pipeline) Stage3(ctx context.Context) (string, error) {
	return p.Stage(ctx, 3)
}

// Stage4 burns in the word-reveal captions.
func (p *Pipeline) Stage4(ctx context.Context) (string, error) {
	return p.Stage(ctx, 4)
}

// Stage runs a single stage under the output directory lock and returns the
// produced video path.
func (p *Pipeline) Stage(ctx context.Context, n int) (string, error) {
	return p.Run(ctx, n, n)
}

// Run executes stages from..to in order, stopping at the first failure. It
// returns the output of the last stage that ran.
func (p *Pipeline) Run(ctx context.Context, from, to int) (string, error) {
	if from < First || to > Last || from > to {
		return "", stageerr.Wrap(stageerr.ErrValidation, "pipeline", "select stages",
			fmt.Sprintf("stage range %d..%d is outside %d..%d", from, to, First, Last), nil)
	}
	if err := p.cfg.EnsureDirectories(); err != nil {
		return "", stageerr.Wrap(stageerr.ErrConfiguration, "pipeline", "prepare output directory", "", err)
	}
	unlock, err := p.lock()
	if err != nil {
		return "", err
	}
	defer unlock()

	if _, ok := logging.RunIDFromContext(ctx); !ok {
		ctx = logging.WithRunID(ctx, uuid.NewString())
	}

	var output string
	for n := from; n <= to; n++ {
		output, err = p.execute(ctx, n)
		if err != nil {
			return "", err
		}
	}
	return output, nil
}

func (p *Pipeline) lock() (func(), error) {
	path := p.cfg.OutputPath(config.ArtifactLock)
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, stageerr.Wrap(stageerr.ErrConfiguration, "pipeline", "acquire lock", path, err)
	}
	if !ok {
		return nil, stageerr.Wrap(stageerr.ErrBusy, "pipeline", "acquire lock",
			fmt.Sprintf("another run holds %s", path), nil)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			p.logger.Warn("failed to release pipeline lock", logging.String("lock", path), logging.Error(err))
		}
	}, nil
}

// stageResult is what a stage driver hands back for logging and the journal.
type stageResult struct {
	output  string
	encoder string
}

func (p *Pipeline) execute(ctx context.Context, n int) (string, error) {
	name := stageName(n)
	stageCtx := logging.WithStage(ctx, name)
	logger := logging.WithContext(stageCtx, p.logger)
	runID, _ := logging.RunIDFromContext(ctx)

	var entryID int64
	if p.journal != nil {
		id, err := p.journal.Begin(stageCtx, runID, n)
		if err != nil {
			logger.Warn("journal unavailable", logging.Error(err))
		} else {
			entryID = id
		}
	}

	logger.Info("stage started", logging.String(logging.FieldEventType, "stage_start"))
	started := time.Now()

	result, err := p.driver(n)(stageCtx, logger)

	if entryID != 0 {
		recorded := result.output
		if err != nil {
			recorded = ""
		}
		// An interrupted run must still close its journal row.
		if jerr := p.journal.Finish(context.WithoutCancel(stageCtx), entryID, recorded, result.encoder, err); jerr != nil {
			logger.Warn("failed to record stage result", logging.Error(jerr))
		}
	}
	if err != nil {
		logger.Error("stage failed",
			logging.String(logging.FieldEventType, "stage_failure"),
			logging.String("error_kind", string(stageerr.Classify(err))),
			logging.Error(err),
		)
		return "", err
	}
	logger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.String("output", result.output),
		logging.String("encoder", result.encoder),
		logging.Duration("elapsed", time.Since(started).Round(time.Millisecond)),
	)
	return result.output, nil
}

type driver func(context.Context, *slog.Logger) (stageResult, error)

func (p *Pipeline) driver(n int) driver {
	switch n {
	case 1:
		return p.stage1
	case 2:
		return p.stage2
	case 3:
		return p.stage3
	default:
		return p.stage4
	}
}

func stageName(n int) string {
	return "stage" + strconv.Itoa(n)
}

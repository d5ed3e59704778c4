package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"stagecast/internal/config"
	"stagecast/internal/ffmpeg"
	"stagecast/internal/journal"
	"stagecast/internal/logging"
	"stagecast/internal/media/ffprobe"
	"stagecast/internal/pipeline"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configSeen = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) logger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.NewFromConfig(cfg, "")
}

// layout reads the JSON layout once per command and logs every fallback.
func (c *commandContext) layout(logger *slog.Logger) (config.Layout, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return config.Layout{}, err
	}
	layout, warnings := config.LoadLayout(cfg.Inputs.Layout)
	for _, warning := range warnings {
		logging.WarnWithContext(logger, "layout value replaced by default", "layout_fallback",
			logging.String("detail", warning),
			logging.String(logging.FieldErrorHint, "fix "+cfg.Inputs.Layout),
		)
	}
	return layout, nil
}

// runContext tags the command context with a fresh run identifier.
func runContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logging.WithRunID(ctx, uuid.NewString())
}

// withPipeline builds a pipeline wired to the configured binaries and the run
// journal, and closes the journal afterwards.
func (c *commandContext) withPipeline(cmd *cobra.Command, fn func(*pipeline.Pipeline) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.logger()
	if err != nil {
		return err
	}
	layout, err := c.layout(logger)
	if err != nil {
		return err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	opts := []pipeline.Option{}
	j, err := journal.Open(cfg.OutputPath(config.ArtifactJournal))
	if err != nil {
		logger.Warn("run journal unavailable", logging.Error(err))
	} else {
		defer j.Close()
		opts = append(opts, pipeline.WithJournal(j))
	}
	if bars := newProgressBars(cmd.ErrOrStderr()); bars != nil {
		defer bars.close()
		opts = append(opts, pipeline.WithProgress(bars.report))
	}

	runner := ffmpeg.NewRunner(cfg.FFmpegBinary(), logger)
	prober := ffprobe.Prober{Binary: cfg.FFprobeBinary()}
	return fn(pipeline.New(cfg, layout, runner, prober, logger, opts...))
}

func printPath(out io.Writer, path string) {
	fmt.Fprintln(out, path)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

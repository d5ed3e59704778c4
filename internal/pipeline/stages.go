package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"stagecast/internal/assets"
	"stagecast/internal/assscript"
	"stagecast/internal/config"
	"stagecast/internal/ffmpeg"
	"stagecast/internal/fileutil"
	"stagecast/internal/filtergraph"
	"stagecast/internal/logging"
	"stagecast/internal/preflight"
	"stagecast/internal/stageerr"
	"stagecast/internal/timeline"
)

func (p *Pipeline) stage1(ctx context.Context, logger *slog.Logger) (stageResult, error) {
	const name = "stage1"
	if err := preflight.Validate(preflight.StageRequirements(p.cfg, 1)); err != nil {
		return stageResult{}, err
	}

	title, err := assets.ReadTitle(p.cfg.Inputs.Title)
	if err != nil {
		return stageResult{}, stageerr.Wrap(stageerr.ErrMissingInput, name, "read title", p.cfg.Inputs.Title, err)
	}
	titleASS := p.cfg.OutputPath(config.ArtifactTitleASS)
	doc := assscript.Title(title, p.layout, p.cfg.Canvas)
	if err := fileutil.WriteFileAtomic(titleASS, []byte(doc.String()), 0o644); err != nil {
		return stageResult{}, stageerr.Wrap(nil, name, "write title script", titleASS, err)
	}

	duration, err := p.probe.Duration(ctx, p.cfg.Inputs.Narration)
	if err != nil {
		return stageResult{}, stageerr.Wrap(stageerr.ErrExternalTool, name, "probe narration duration", p.cfg.Inputs.Narration, err)
	}
	logger.Info("narration duration", logging.Float64("seconds", duration))

	keying := p.cfg.Keying
	graph, err := filtergraph.Composite(filtergraph.CompositeParams{
		Width:      p.cfg.Canvas.Width,
		Height:     p.cfg.Canvas.Height,
		FPS:        p.layout.FPS,
		TitleASS:   titleASS,
		FontsDir:   p.cfg.Paths.FontsDir,
		KeyColor:   filtergraph.ReadKeyColor(p.cfg.Inputs.KeyColor),
		Similarity: keying.Similarity,
		Blend:      keying.Blend,
		SoftEdge:   keying.SoftEdge,
		BlurSigma:  keying.BlurSigma,
		Anchor:     keying.Anchor,
	}).Render()
	if err != nil {
		return stageResult{}, stageerr.Wrap(stageerr.ErrValidation, name, "build filter graph", "", err)
	}

	output := p.cfg.OutputPath(config.ArtifactStage1Video)
	encoder, err := p.encode(ctx, logger, name, output, func(encoder, target string) error {
		args := []string{
			"-y", "-hide_banner",
			"-stream_loop", "-1", "-i", p.cfg.Inputs.Presenter,
			"-loop", "1", "-i", p.cfg.Inputs.Background,
			"-filter_complex", graph,
			"-map", "[" + filtergraph.OutputLabel + "]",
			"-t", fmt.Sprintf("%.3f", duration),
			"-an",
		}
		args = append(args, ffmpeg.EncodeArgs(encoder, p.layout)...)
		args = append(args, target)
		return p.runner.Run(ctx, name, args)
	})
	return stageResult{output: output, encoder: encoder}, err
}

func (p *Pipeline) stage2(ctx context.Context, logger *slog.Logger) (stageResult, error) {
	const name = "stage2"
	if err := preflight.Validate(preflight.StageRequirements(p.cfg, 2)); err != nil {
		return stageResult{}, err
	}

	input := p.cfg.OutputPath(config.ArtifactStage1Video)
	output := p.cfg.OutputPath(config.ArtifactStage2Video)
	partial := fileutil.PartialPath(output)
	args := ffmpeg.MuxArgs(input, p.cfg.Inputs.Narration, partial)
	if err := p.runner.Run(ctx, name, args); err != nil {
		_ = fileutil.RemoveIfExists(partial)
		return stageResult{}, toolError(ctx, name, err)
	}
	if err := fileutil.Promote(partial, output); err != nil {
		return stageResult{}, stageerr.Wrap(stageerr.ErrExternalTool, name, "finalize output", output, err)
	}
	logger.Debug("narration muxed", logging.String("video", input), logging.String("audio", p.cfg.Inputs.Narration))
	return stageResult{output: output, encoder: "copy"}, nil
}

func (p *Pipeline) stage3(ctx context.Context, logger *slog.Logger) (stageResult, error) {
	const name = "stage3"
	if err := preflight.Validate(preflight.StageRequirements(p.cfg, 3)); err != nil {
		return stageResult{}, err
	}

	cues, err := p.loadTimeline(logger, name)
	if err != nil {
		return stageResult{}, err
	}
	pictures, err := assets.ListPictures(p.cfg.Inputs.PicturesDir)
	if err != nil {
		return stageResult{}, stageerr.Wrap(stageerr.ErrMissingInput, name, "list pictures", p.cfg.Inputs.PicturesDir, err)
	}
	switch {
	case len(pictures) > len(cues):
		logger.Warn("more pictures than cues; extra pictures are ignored",
			logging.String(logging.FieldEventType, "picture_count_mismatch"),
			logging.Int("pictures", len(pictures)),
			logging.Int("cues", len(cues)),
		)
	case len(pictures) < len(cues):
		logger.Warn("fewer pictures than cues; later cues get no overlay",
			logging.String(logging.FieldEventType, "picture_count_mismatch"),
			logging.Int("pictures", len(pictures)),
			logging.Int("cues", len(cues)),
		)
	}
	pictures = pictures[:min(len(pictures), len(cues))]

	mapPath := p.cfg.OutputPath(config.ArtifactPictureMap)
	if err := assets.WritePictureMap(mapPath, p.cfg.Paths.ProjectRoot, cues, pictures); err != nil {
		return stageResult{}, stageerr.Wrap(nil, name, "write picture map", mapPath, err)
	}
	scriptPath := p.cfg.OutputPath(config.ArtifactStage3Filter)
	graph := filtergraph.Overlay(cues, len(pictures), filtergraph.OverlayParams{
		Width:         p.cfg.Canvas.Width,
		FPS:           p.layout.FPS,
		BoxWidthRatio: p.cfg.Overlay.BoxWidthRatio,
		Margin:        p.cfg.Overlay.Margin,
	})
	if err := filtergraph.WriteScript(scriptPath, graph); err != nil {
		return stageResult{}, stageerr.Wrap(stageerr.ErrValidation, name, "write filter script", scriptPath, err)
	}
	logger.Info("overlay artifacts written",
		logging.String("filter_script", scriptPath),
		logging.String("picture_map", mapPath),
		logging.Int("overlays", len(pictures)),
	)

	input := p.cfg.OutputPath(config.ArtifactStage2Video)
	output := p.cfg.OutputPath(config.ArtifactStage3Video)
	total := p.progressTotal(ctx, logger)
	encoder, err := p.encode(ctx, logger, name, output, func(encoder, target string) error {
		args := []string{"-y", "-hide_banner", "-i", input}
		for _, pic := range pictures {
			args = append(args, "-loop", "1", "-i", pic)
		}
		args = append(args, "-filter_complex_script", scriptPath, "-map", "["+filtergraph.OutputLabel+"]", "-map", "0:a:0")
		args = append(args, p.finishArgs(encoder, target)...)
		return p.runner.RunWithProgress(ctx, name, args, total, p.progress)
	})
	return stageResult{output: output, encoder: encoder}, err
}

func (p *Pipeline) stage4(ctx context.Context, logger *slog.Logger) (stageResult, error) {
	const name = "stage4"
	if err := preflight.Validate(preflight.StageRequirements(p.cfg, 4)); err != nil {
		return stageResult{}, err
	}

	cues, err := p.loadTimeline(logger, name)
	if err != nil {
		return stageResult{}, err
	}
	doc, region := assscript.WordReveal(cues, p.layout, p.cfg.Canvas)
	assPath := p.cfg.OutputPath(config.ArtifactCaptionsASS)
	if err := fileutil.WriteFileAtomic(assPath, []byte(doc.String()), 0o644); err != nil {
		return stageResult{}, stageerr.Wrap(nil, name, "write captions script", assPath, err)
	}
	scriptPath := p.cfg.OutputPath(config.ArtifactStage4Filter)
	if err := filtergraph.WriteScript(scriptPath, filtergraph.Captions(assPath, p.cfg.Paths.FontsDir)); err != nil {
		return stageResult{}, stageerr.Wrap(stageerr.ErrValidation, name, "write filter script", scriptPath, err)
	}
	logger.Info("caption artifacts written",
		logging.String("captions", assPath),
		logging.String("filter_script", scriptPath),
		logging.Int("events", len(doc.Events)),
		logging.Float64("region_width", region.Width),
		logging.String("align", region.Align),
	)

	input := p.cfg.OutputPath(config.ArtifactStage3Video)
	output := p.cfg.OutputPath(config.ArtifactFinalVideo)
	total := p.progressTotal(ctx, logger)
	encoder, err := p.encode(ctx, logger, name, output, func(encoder, target string) error {
		args := []string{
			"-y", "-hide_banner",
			"-i", input,
			"-filter_complex_script", scriptPath,
			"-map", "[" + filtergraph.OutputLabel + "]",
			"-map", "0:a:0",
		}
		args = append(args, p.finishArgs(encoder, target)...)
		return p.runner.RunWithProgress(ctx, name, args, total, p.progress)
	})
	return stageResult{output: output, encoder: encoder}, err
}

// finishArgs appends encoder, frame rate, progress reporting and the audio
// copy shared by stages 3 and 4.
func (p *Pipeline) finishArgs(encoder, target string) []string {
	args := ffmpeg.EncodeArgs(encoder, p.layout)
	args = append(args, "-r", formatNumber(p.layout.FPS))
	args = append(args, "-progress", "pipe:2", "-stats_period", formatNumber(p.layout.StatsPeriod))
	return append(args, "-c:a", "copy", "-shortest", target)
}

// encode renders to a partial file with the preferred encoder. When that
// encoder is a hardware one and fails, it retries once with libx264. The
// partial file is renamed over output only on success.
func (p *Pipeline) encode(ctx context.Context, logger *slog.Logger, name, output string, render func(encoder, target string) error) (string, error) {
	partial := fileutil.PartialPath(output)
	primary := ffmpeg.SelectEncoder(p.layout.Encoder, true, p.goos)
	used := primary
	attempt := func(hardware bool) error {
		used = ffmpeg.EncoderX264
		if hardware {
			used = primary
		}
		logger.Debug("encode attempt", logging.String("encoder", used), logging.Bool("hardware", ffmpeg.IsHardware(used)))
		_ = fileutil.RemoveIfExists(partial)
		return render(used, partial)
	}

	var err error
	if ffmpeg.IsHardware(primary) {
		err = ffmpeg.WithFallback(ctx, logger, attempt)
	} else {
		err = attempt(true)
	}
	if err != nil {
		_ = fileutil.RemoveIfExists(partial)
		return used, toolError(ctx, name, err)
	}
	if err := fileutil.Promote(partial, output); err != nil {
		return used, stageerr.Wrap(stageerr.ErrExternalTool, name, "finalize output", output, err)
	}
	return used, nil
}

func (p *Pipeline) loadTimeline(logger *slog.Logger, name string) (timeline.Timeline, error) {
	result, err := timeline.ParseFile(p.cfg.Inputs.Timeline)
	if err != nil {
		return nil, stageerr.Wrap(stageerr.ErrMissingInput, name, "read timeline", p.cfg.Inputs.Timeline, err)
	}
	for _, w := range result.Warnings {
		logger.Warn("timeline entry adjusted",
			logging.String(logging.FieldEventType, "timeline_warning"),
			logging.Int("block", w.Block),
			logging.String("detail", w.Message),
		)
	}
	logger.Info("timeline parsed", logging.Int("cues", len(result.Cues)))
	return result.Cues, nil
}

// progressTotal is the narration length used as the progress denominator, or
// 0 (no progress) when it cannot be probed.
func (p *Pipeline) progressTotal(ctx context.Context, logger *slog.Logger) float64 {
	total, err := p.probe.Duration(ctx, p.cfg.Inputs.Narration)
	if err != nil {
		logger.Warn("narration duration unavailable; progress disabled",
			logging.String(logging.FieldEventType, "progress_unavailable"),
			logging.Error(err),
		)
		return 0
	}
	return total
}

func toolError(ctx context.Context, name string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return stageerr.Wrap(nil, name, "run ffmpeg", "cancelled", ctxErr)
	}
	return stageerr.Wrap(stageerr.ErrExternalTool, name, "run ffmpeg", "", err)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

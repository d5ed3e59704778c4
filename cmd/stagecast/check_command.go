package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"stagecast/internal/config"
	"stagecast/internal/deps"
	"stagecast/internal/ffmpeg"
	"stagecast/internal/media/ffprobe"
	"stagecast/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify binaries, encoders, inputs and output directory access",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}
			layout, err := ctx.layout(logger)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := isTerminal(out)
			failures := 0

			if ctx.configSeen {
				fmt.Fprintf(out, "Config: %s\n", ctx.configPath)
			} else {
				fmt.Fprintln(out, "Config: defaults (no config file found)")
			}
			fmt.Fprintf(out, "Project root: %s\n\n", cfg.Paths.ProjectRoot)

			statuses := preflight.CheckSystemDeps(cmd.Context(), cfg)
			binRows := make([][]string, 0, len(statuses))
			ffmpegOK, ffprobeOK := false, false
			for _, status := range statuses {
				kind := statusOK
				detail := status.Resolved
				if !status.Available {
					kind = statusError
					detail = status.Detail
					failures++
				} else if status.Command == cfg.FFmpegBinary() {
					ffmpegOK = true
				} else if status.Command == cfg.FFprobeBinary() {
					ffprobeOK = true
				}
				binRows = append(binRows, []string{status.Name, statusCell(kind, colorize), detail, status.Description})
			}
			fmt.Fprintln(out, renderSectionHeader("Binaries"))
			fmt.Fprintln(out, renderTable([]string{"Binary", "Status", "Path", "Purpose"}, binRows, nil))

			if ffmpegOK {
				fmt.Fprintln(out, renderSectionHeader("Encoders"))
				encoders, err := deps.ListEncoders(cmd.Context(), cfg.FFmpegBinary())
				if err != nil {
					fmt.Fprintf(out, "%s %v\n", statusCell(statusWarn, colorize), err)
				} else {
					preferred := ffmpeg.SelectEncoder(layout.Encoder, true, runtime.GOOS)
					rows := make([][]string, 0, 3)
					for _, name := range []string{ffmpeg.EncoderX264, ffmpeg.EncoderNVENC, ffmpeg.EncoderVideoToolbox} {
						kind := statusOK
						if !encoders[name] {
							kind = statusWarn
						}
						rows = append(rows, []string{name, statusCell(kind, colorize), yesNo(name == preferred)})
					}
					if !encoders[ffmpeg.EncoderX264] {
						failures++
					}
					fmt.Fprintln(out, renderTable([]string{"Encoder", "Status", "Preferred"}, rows, nil))
				}
			}

			if ffprobeOK {
				fmt.Fprintln(out, renderSectionHeader("Media"))
				fmt.Fprintln(out, renderTable([]string{"Input", "Status", "Detail"}, mediaRows(cmd.Context(), cfg, colorize), nil))
			}

			results := preflight.RunAll(cfg)
			rows := make([][]string, 0, len(results))
			for _, res := range results {
				kind := statusOK
				if !res.Passed {
					kind = statusError
					failures++
				}
				rows = append(rows, []string{res.Name, statusCell(kind, colorize), res.Detail})
			}
			fmt.Fprintln(out, renderSectionHeader("Project"))
			fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, rows, nil))

			if failures > 0 {
				return fmt.Errorf("%d check(s) failed", failures)
			}
			fmt.Fprintln(out, "All checks passed")
			return nil
		},
	}
}

// mediaRows probes the presenter clip and the narration. Problems are
// warnings; the stages themselves decide whether a file is usable.
func mediaRows(ctx context.Context, cfg *config.Config, colorize bool) [][]string {
	inputs := []struct {
		name  string
		path  string
		video bool
	}{
		{"Presenter", cfg.Inputs.Presenter, true},
		{"Narration", cfg.Inputs.Narration, false},
	}
	rows := make([][]string, 0, len(inputs))
	for _, in := range inputs {
		if _, err := os.Stat(in.path); err != nil {
			rows = append(rows, []string{in.name, statusCell(statusWarn, colorize), "not found"})
			continue
		}
		result, err := ffprobe.Inspect(ctx, cfg.FFprobeBinary(), in.path)
		if err != nil {
			rows = append(rows, []string{in.name, statusCell(statusWarn, colorize), err.Error()})
			continue
		}
		kind, detail := statusOK, ""
		if in.video {
			stream, ok := result.VideoStream()
			if !ok {
				kind, detail = statusWarn, "no video stream"
			} else {
				detail = fmt.Sprintf("%dx%d %s", stream.Width, stream.Height, stream.CodecName)
			}
		} else {
			count := result.AudioStreamCount()
			if count == 0 {
				kind = statusWarn
			}
			detail = fmt.Sprintf("%d audio stream(s)", count)
		}
		if seconds := result.DurationSeconds(); seconds > 0 {
			detail += ", " + formatSeconds(seconds) + "s"
		}
		rows = append(rows, []string{in.name, statusCell(kind, colorize), detail})
	}
	return rows
}

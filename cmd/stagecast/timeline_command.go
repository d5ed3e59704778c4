package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"stagecast/internal/assscript"
	"stagecast/internal/config"
	"stagecast/internal/fileutil"
	"stagecast/internal/timeline"
)

func newTimelineCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "timeline",
		Short: "Show the parsed timeline cues and any parse warnings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			result, err := timeline.ParseFile(cfg.Inputs.Timeline)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(result.Cues))
			for _, cue := range result.Cues {
				rows = append(rows, []string{
					strconv.Itoa(cue.Index),
					formatSeconds(cue.Start),
					formatSeconds(cue.End),
					strconv.Itoa(len(cue.Words())),
					cue.Text,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Start", "End", "Words", "Text"},
				rows,
				[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignLeft},
			))
			fmt.Fprintf(out, "%d cues, %s total\n", len(result.Cues), formatSeconds(result.Cues.Duration()))

			if len(result.Warnings) > 0 {
				warnRows := make([][]string, 0, len(result.Warnings))
				for _, w := range result.Warnings {
					warnRows = append(warnRows, []string{strconv.Itoa(w.Block), w.Message})
				}
				fmt.Fprintln(out, renderSectionHeader("Warnings"))
				fmt.Fprintln(out, renderTable([]string{"Block", "Detail"}, warnRows, []columnAlignment{alignRight, alignLeft}))
			}
			return nil
		},
	}
}

const (
	captionStyleReveal  = "reveal"
	captionStyleKaraoke = "karaoke"
)

func newCaptionsCommand(ctx *commandContext) *cobra.Command {
	var style string
	var outPath string

	cmd := &cobra.Command{
		Use:   "captions",
		Short: "Write the caption ASS document without rendering video",
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
			result, err := timeline.ParseFile(cfg.Inputs.Timeline)
			if err != nil {
				return err
			}

			var (
				doc    assscript.Document
				target = strings.TrimSpace(outPath)
				name   string
			)
			switch strings.ToLower(strings.TrimSpace(style)) {
			case captionStyleReveal:
				layout, err := ctx.layout(logger)
				if err != nil {
					return err
				}
				doc, _ = assscript.WordReveal(result.Cues, layout, cfg.Canvas)
				name = config.ArtifactCaptionsASS
			case captionStyleKaraoke:
				doc = assscript.Karaoke(result.Cues, cfg.Canvas)
				name = config.ArtifactKaraokeASS
			default:
				return fmt.Errorf("unknown caption style %q (want %s or %s)", style, captionStyleReveal, captionStyleKaraoke)
			}

			if target == "" {
				target = cfg.OutputPath(name)
			} else if target, err = filepath.Abs(target); err != nil {
				return err
			}
			if err := fileutil.WriteFileAtomic(target, []byte(doc.String()), 0o644); err != nil {
				return fmt.Errorf("write captions: %w", err)
			}
			printPath(cmd.OutOrStdout(), target)
			return nil
		},
	}

	cmd.Flags().StringVar(&style, "style", captionStyleReveal, "Caption style: reveal or karaoke")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Destination file (defaults to the output directory)")
	return cmd
}

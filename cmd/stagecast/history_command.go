package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"stagecast/internal/config"
	"stagecast/internal/journal"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent stage runs from the run journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}
			j, err := journal.Open(cfg.OutputPath(config.ArtifactJournal))
			if err != nil {
				return err
			}
			defer j.Close()

			entries, err := j.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No stage runs recorded")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				detail := e.OutputPath
				if e.Status == journal.StatusFailed {
					detail = fmt.Sprintf("%s: %s", e.ErrorKind, e.ErrorMessage)
				}
				rows = append(rows, []string{
					e.StartedAt.Local().Format("2006-01-02 15:04:05"),
					shortRunID(e.RunID),
					"stage" + strconv.Itoa(e.Stage),
					string(e.Status),
					e.Encoder,
					e.Duration().Round(time.Second).String(),
					detail,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Started", "Run", "Stage", "Status", "Encoder", "Took", "Output / Error"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show")
	return cmd
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

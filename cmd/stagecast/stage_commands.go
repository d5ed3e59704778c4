package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stagecast/internal/pipeline"
)

var stageSummaries = map[int]string{
	1: "Composite the keyed presenter over the background with the title",
	2: "Add the narration track to the stage 1 video",
	3: "Overlay one picture per timeline cue",
	4: "Burn in word-reveal captions",
}

func newStageCommands(ctx *commandContext) []*cobra.Command {
	cmds := make([]*cobra.Command, 0, pipeline.Last)
	for n := pipeline.First; n <= pipeline.Last; n++ {
		stage := n
		cmds = append(cmds, &cobra.Command{
			Use:   fmt.Sprintf("stage%d", stage),
			Short: stageSummaries[stage],
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return ctx.withPipeline(cmd, func(p *pipeline.Pipeline) error {
					out, err := p.Stage(runContext(cmd), stage)
					if err != nil {
						return err
					}
					printPath(cmd.OutOrStdout(), out)
					return nil
				})
			},
		})
	}
	return cmds
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var from, to int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run stages in order, stopping at the first failure",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(cmd, func(p *pipeline.Pipeline) error {
				out, err := p.Run(runContext(cmd), from, to)
				if err != nil {
					return err
				}
				printPath(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&from, "from", pipeline.First, "First stage to run")
	cmd.Flags().IntVar(&to, "to", pipeline.Last, "Last stage to run")
	return cmd
}

package cli

import (
	"github.com/mikey/nb-spam-filter/internal/core"
	"github.com/spf13/cobra"
)

func newTrainCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Train on the dataset and print the evaluation report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(e *env) error {
				return e.container.Invoke(func(svc *core.DetectorService, cache core.PredictionCache, reviewer core.Reviewer) error {
					defer closeAll(e.logger, cache, reviewer)

					run, _, err := svc.Train(e.ctx)
					if err != nil {
						return err
					}
					return RenderRun(e.out, run, e.cfg.ReportFormat())
				})
			})
		},
	}
}

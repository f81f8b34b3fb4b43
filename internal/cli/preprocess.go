package cli

import (
	"fmt"

	"github.com/mikey/nb-spam-filter/internal/core"
	"github.com/mikey/nb-spam-filter/internal/textproc"
	"github.com/spf13/cobra"
)

func newPreprocessCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "preprocess",
		Short: "Show original and processed text for the first dataset rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(e *env) error {
				return e.container.Invoke(func(source core.DatasetSource) error {
					ds, err := source.Load(e.ctx)
					if err != nil {
						return err
					}

					pre := textproc.NewPreprocessor()
					n := min(limit, len(ds.Records))
					if limit <= 0 {
						n = len(ds.Records)
					}
					fmt.Fprintf(e.out, "Original vs. Processed Text (first %d examples):\n", n)
					for _, r := range ds.Records[:n] {
						fmt.Fprintf(e.out, "Original: %s\n", r.Text)
						fmt.Fprintf(e.out, "Processed: %s\n\n", pre.Preprocess(r.Text))
					}
					return nil
				})
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "Number of rows to show, 0 for all")
	return cmd
}

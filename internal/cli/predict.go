package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mikey/nb-spam-filter/internal/core"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ExampleMessages are classified by predict --examples.
var ExampleMessages = []string{
	"Congratulations! You've won a FREE iPhone! Click this link now to claim your prize.",
	"Hey, can we meet tomorrow to discuss the project? I've attached the latest report.",
	"Urgent! Your account has been compromised. Verify your details immediately via the link provided.",
	"Hi there, how are you doing? I hope everything is fine at your end.",
	"You are selected for a lucky draw. Send your bank details to claim the reward.",
}

type predictOptions struct {
	file     string
	examples bool
	report   bool
}

func newPredictCmd(opts *rootOptions) *cobra.Command {
	po := &predictOptions{}

	cmd := &cobra.Command{
		Use:   "predict [text...]",
		Short: "Train, then classify messages",
		Long: `Train on the dataset, then classify each message given as an argument, each
line of --file, each line of stdin, or the built-in examples with --examples.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			texts, err := po.collect(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			return opts.run(cmd, func(e *env) error {
				return e.container.Invoke(func(svc *core.DetectorService, cache core.PredictionCache, reviewer core.Reviewer) error {
					defer closeAll(e.logger, cache, reviewer)

					run, pipeline, err := svc.Train(e.ctx)
					if err != nil {
						return err
					}
					if po.report {
						if err := RenderRun(e.out, run, e.cfg.ReportFormat()); err != nil {
							return err
						}
						fmt.Fprintln(e.out)
					}

					preds, err := svc.PredictBatch(e.ctx, pipeline, texts)
					if err != nil {
						return err
					}
					e.logger.Debug("Classified messages", zap.Int("count", len(preds)), zap.String("run_id", run.RunID))
					return RenderPredictions(e.out, preds, e.cfg.ReportFormat())
				})
			})
		},
	}

	cmd.Flags().StringVar(&po.file, "file", "", "Read messages from a file, one per line")
	cmd.Flags().BoolVar(&po.examples, "examples", false, "Classify the built-in example messages")
	cmd.Flags().BoolVar(&po.report, "report", false, "Print the training report first")
	return cmd
}

// collect gathers the messages to classify.
func (po *predictOptions) collect(args []string, stdin io.Reader) ([]string, error) {
	var texts []string
	if po.examples {
		texts = append(texts, ExampleMessages...)
	}
	texts = append(texts, args...)

	if po.file != "" {
		f, err := os.Open(po.file)
		if err != nil {
			return nil, fmt.Errorf("failed to open input file: %w", err)
		}
		defer f.Close()
		lines, err := readLines(f)
		if err != nil {
			return nil, err
		}
		texts = append(texts, lines...)
	}

	if len(texts) == 0 && po.file == "" {
		lines, err := readLines(stdin)
		if err != nil {
			return nil, err
		}
		texts = lines
	}

	if len(texts) == 0 {
		return nil, errors.New("no messages to classify")
	}
	return texts, nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return lines, nil
}

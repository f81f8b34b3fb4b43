// Package cli implements the spam-detector commands.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/mikey/nb-spam-filter/internal/config"
	"github.com/mikey/nb-spam-filter/internal/di"
	"github.com/mikey/nb-spam-filter/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/dig"
	"go.uber.org/zap"
)

type rootOptions struct {
	configFile string
	verbose    bool
	jsonLog    bool
}

// env is what every command runs with.
type env struct {
	ctx       context.Context
	cfg       *config.Config
	logger    *zap.Logger
	container *dig.Container
	out       io.Writer
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "spam-detector",
		Short: "Naive Bayes spam classifier",
		Long: `spam-detector trains a TF-IDF and multinomial naive Bayes classifier on a labeled
ham/spam CSV dataset, reports how it scores on a held-out split and classifies new messages.`,
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "Path to config file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")
	flags.BoolVar(&opts.jsonLog, "json-log", false, "Output logs in JSON format")
	flags.String("dataset", "", "Dataset path or s3://bucket/key (default spam.csv)")
	flags.String("format", "", "Output format: text, json or yaml")

	cmd.AddCommand(
		newTrainCmd(opts),
		newPredictCmd(opts),
		newPreprocessCmd(opts),
	)
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// run loads the configuration, overlays the command line flags, builds the
// logger and the container, and calls fn.
func (o *rootOptions) run(cmd *cobra.Command, fn func(*env) error) error {
	cfg, err := config.New(o.configFile)
	if err != nil {
		return err
	}

	v := cfg.GetViper()
	if err := v.BindPFlag("dataset.path", cmd.Flags().Lookup("dataset")); err != nil {
		return err
	}
	if err := v.BindPFlag("report.format", cmd.Flags().Lookup("format")); err != nil {
		return err
	}

	var logger *zap.Logger
	if o.verbose || o.jsonLog {
		logger, err = logging.InitConsoleLogger(o.verbose, o.jsonLog)
	} else {
		logger, err = logging.InitLogger(cfg)
	}
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	container, err := di.BuildContainer(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}

	return fn(&env{
		ctx:       ctx,
		cfg:       cfg,
		logger:    logger,
		container: container,
		out:       cmd.OutOrStdout(),
	})
}

func closeAll(logger *zap.Logger, values ...any) {
	for _, v := range values {
		if c, ok := v.(io.Closer); ok {
			if err := c.Close(); err != nil {
				logger.Warn("Failed to close resource", zap.Error(err))
			}
		}
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/neurlang/nli/cmd/nli/commands"
	"github.com/neurlang/nli/logger"
)

var rootCmd = &cobra.Command{
	Use:   "nli",
	Short: "Natural language inference experiments",
	Long: `nli trains NLI classifiers on SNLI or MultiNLI and prints a classification report.

Available commands:
  overlap        - word-overlap features, cross-validated logistic regression
  cross-product  - word-cross-product features, cross-validated logistic regression
  hypothesis-only - hypothesis words only, cross-validated logistic regression
  sparse         - union of sparse feature functions chosen with --phi
  glove          - GloVe leaves features, cross-validated logistic regression
  shallow        - GloVe leaves features, cross-validated shallow neural network
  sentence-rnn   - sentence-encoding LSTM
  chained-rnn    - chained LSTM over premise and hypothesis
  predict        - label a premise and hypothesis with a saved model

Examples:
  nli overlap --assess snli-dev
  nli cross-product --hashing 100000 --save cross.lzw
  nli predict cross.lzw "( ( A dog ) runs )" "( An animal ( is moving ) )"`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := commands.LoadConfig(cmd)
		if err != nil {
			return err
		}
		if err := logger.Initialize(cfg.Log.JSON, cfg.Log.Level); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "TOML configuration file (default ./nli.toml when present)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Log as JSON")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(commands.OverlapCmd)
	rootCmd.AddCommand(commands.CrossProductCmd)
	rootCmd.AddCommand(commands.HypothesisOnlyCmd)
	rootCmd.AddCommand(commands.SparseCmd)
	rootCmd.AddCommand(commands.GloVeCmd)
	rootCmd.AddCommand(commands.ShallowCmd)
	rootCmd.AddCommand(commands.SentenceRNNCmd)
	rootCmd.AddCommand(commands.ChainedRNNCmd)
	rootCmd.AddCommand(commands.PredictCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

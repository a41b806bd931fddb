package commands

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/neurlang/nli/recipes"
	"github.com/neurlang/nli/tree"
)

// PredictCmd labels one sentence pair with a saved model
var PredictCmd = &cobra.Command{
	Use:   "predict MODEL PREMISE HYPOTHESIS",
	Short: "Label a premise and hypothesis parse with a saved model",
	Long: `Load a model saved with --save and classify one pair. Premise and hypothesis
are bracketed parses such as "( ( A dog ) runs )" or plain tokenized sentences.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := Config(cmd)
		if err != nil {
			return err
		}
		a, h, err := recipes.LoadArtifact(args[0])
		if err != nil {
			return err
		}
		premise, err := tree.Parse(args[1])
		if err != nil {
			return errors.Wrap(err, "premise")
		}
		hypothesis, err := tree.Parse(args[2])
		if err != nil {
			return errors.Wrap(err, "hypothesis")
		}

		classify, err := recipes.New(cfg).Classifier(a)
		if err != nil {
			return err
		}
		label, err := classify(premise, hypothesis)
		if err != nil {
			return err
		}
		pterm.Info.WithWriter(cmd.OutOrStdout()).Printf("%s model from run %s\n", a.Recipe, h.RunID)
		fmt.Fprintln(cmd.OutOrStdout(), label)
		return nil
	},
}

package commands

import (
	"context"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/neurlang/nli/logger"
	"github.com/neurlang/nli/recipes"
)

type runFunc func(f *recipes.Fitter, ctx context.Context, r recipes.Run) (*recipes.Outcome, error)

func newExperimentCmd(use, short string, run runFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := Config(cmd)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			train, _ := flags.GetString("train")
			assess, _ := flags.GetString("assess")
			save, _ := flags.GetString("save")

			f := recipes.New(cfg)
			r := recipes.Run{Out: cmd.OutOrStdout()}
			if r.Train, r.Assess, err = f.Readers(train, assess); err != nil {
				return err
			}
			if flags.Lookup("hashing") != nil {
				r.Hashing, _ = flags.GetInt("hashing")
			}
			if flags.Lookup("numbers-to-words") != nil {
				r.NumberWords, _ = flags.GetBool("numbers-to-words")
			}
			if flags.Lookup("phi") != nil {
				r.Phi, _ = flags.GetString("phi")
			}
			if flags.Lookup("combine") != nil {
				r.Combine, _ = flags.GetString("combine")
			}
			if flags.Lookup("resume") != nil {
				f.ResumePath, _ = flags.GetString("resume")
			}

			info := pterm.Info.WithWriter(cmd.OutOrStdout())
			info.Printf("%s: training on %s, %d threads\n", use, r.Train, cfg.Experiment.Threads)
			out, err := run(f, cmd.Context(), r)
			if err != nil {
				return err
			}
			pterm.Success.WithWriter(cmd.OutOrStdout()).Printf("%s %s: %0.03f\n", use, out.Metric, out.Score)

			if save != "" {
				if err := out.Artifact.Save(save, out.RunID); err != nil {
					return err
				}
				logger.Logger.Infow("model saved", logger.FieldFile, save, logger.FieldRunID, out.RunID)
			}
			return nil
		},
	}
	cmd.Flags().String("train", "snli", "Training corpus: snli or multinli")
	cmd.Flags().String("assess", recipes.AssessSplit,
		"Assessment data: split, snli-dev, snli-test, multinli-matched or multinli-mismatched")
	cmd.Flags().String("save", "", "Save the trained model to this file")
	return cmd
}

// OverlapCmd runs word-overlap features with logistic regression
var OverlapCmd = newExperimentCmd(recipes.Overlap,
	"Word-overlap features with cross-validated logistic regression",
	(*recipes.Fitter).RunOverlap)

// CrossProductCmd runs word-cross-product features with logistic regression
var CrossProductCmd = newExperimentCmd(recipes.CrossProduct,
	"Word-cross-product features with cross-validated logistic regression",
	(*recipes.Fitter).RunCrossProduct)

// HypothesisOnlyCmd runs the hypothesis-only baseline
var HypothesisOnlyCmd = newExperimentCmd(recipes.HypothesisOnly,
	"Hypothesis words only, with cross-validated logistic regression",
	(*recipes.Fitter).RunHypothesisOnly)

// SparseCmd runs a union of sparse feature functions chosen with --phi
var SparseCmd = newExperimentCmd(recipes.Sparse,
	"Union of sparse feature functions with cross-validated logistic regression",
	(*recipes.Fitter).RunSparse)

// GloVeCmd runs GloVe leaves features with logistic regression
var GloVeCmd = newExperimentCmd(recipes.GloVe,
	"GloVe leaves features with cross-validated logistic regression",
	(*recipes.Fitter).RunGloVe)

// ShallowCmd runs GloVe leaves features with a shallow neural network
var ShallowCmd = newExperimentCmd(recipes.Shallow,
	"GloVe leaves features with a cross-validated shallow neural network",
	(*recipes.Fitter).RunShallow)

// SentenceRNNCmd runs the sentence-encoding LSTM
var SentenceRNNCmd = newExperimentCmd(recipes.SentenceRNN,
	"Sentence-encoding LSTM classifier",
	(*recipes.Fitter).RunSentenceRNN)

// ChainedRNNCmd runs the chained LSTM
var ChainedRNNCmd = newExperimentCmd(recipes.ChainedRNN,
	"Chained LSTM classifier over premise and hypothesis",
	(*recipes.Fitter).RunChainedRNN)

func init() {
	for _, cmd := range []*cobra.Command{OverlapCmd, CrossProductCmd, HypothesisOnlyCmd, SparseCmd} {
		cmd.Flags().Int("hashing", 0, "Hash features into at least this many columns instead of a dictionary")
		cmd.Flags().Bool("numbers-to-words", false, "Spell out digit tokens before extracting features")
	}
	SparseCmd.Flags().String("phi", "overlap+hypothesis-only",
		"Feature functions joined by +: overlap, cross-product, hypothesis-only")
	GloVeCmd.Flags().String("combine", "sum", "Combine leaf vectors by sum or mean")
	ShallowCmd.Flags().String("combine", "sum", "Combine leaf vectors by sum or mean")
	for _, cmd := range []*cobra.Command{SentenceRNNCmd, ChainedRNNCmd} {
		cmd.Flags().String("resume", "", "Continue training from a model saved with --save, when the file exists")
	}
}

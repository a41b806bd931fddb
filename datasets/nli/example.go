// Package nli implements readers for the SNLI and MultiNLI JSONL corpora.
package nli

import "github.com/neurlang/nli/tree"

// Gold labels.
const (
	Entailment    = "entailment"
	Contradiction = "contradiction"
	Neutral       = "neutral"

	// Unlabeled marks pairs whose annotators did not reach a consensus.
	Unlabeled = "-"
)

// Labels returns the three NLI classes in a stable order.
func Labels() []string {
	return []string{Contradiction, Entailment, Neutral}
}

// Example is one line of an SNLI or MultiNLI file.
type Example struct {
	AnnotatorLabels      []string `json:"annotator_labels"`
	CaptionID            string   `json:"captionID"`
	GoldLabel            string   `json:"gold_label"`
	PairID               string   `json:"pairID"`
	PromptID             string   `json:"promptID,omitempty"`
	Genre                string   `json:"genre,omitempty"`
	Sentence1            string   `json:"sentence1"`
	Sentence1BinaryParse string   `json:"sentence1_binary_parse"`
	Sentence1Parse       string   `json:"sentence1_parse"`
	Sentence2            string   `json:"sentence2"`
	Sentence2BinaryParse string   `json:"sentence2_binary_parse"`
	Sentence2Parse       string   `json:"sentence2_parse"`

	// Premise and Hypothesis are parsed from the binary parses.
	Premise    *tree.Tree `json:"-"`
	Hypothesis *tree.Tree `json:"-"`
}

func (e *Example) parse() (err error) {
	if e.Premise, err = tree.Parse(e.Sentence1BinaryParse); err != nil {
		return err
	}
	e.Hypothesis, err = tree.Parse(e.Sentence2BinaryParse)
	return err
}

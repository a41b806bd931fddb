// Package metrics scores predicted labels against gold labels.
package metrics

import (
	"fmt"
	"io"
	"sort"

	"github.com/pkg/errors"
	"github.com/pterm/pterm"

	"github.com/neurlang/nli/linalg"
)

// ClassScores are the scores of one label.
type ClassScores struct {
	Label     string
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Report is a classification report. Labels are sorted.
type Report struct {
	Classes  []ClassScores
	Accuracy float64
	Macro    ClassScores
	Weighted ClassScores
}

// NewReport scores yPred against y. Precision, recall or F1 with a zero
// denominator count as 0.
func NewReport(y, yPred []string) (*Report, error) {
	if len(y) != len(yPred) {
		return nil, errors.Wrapf(linalg.ErrShape, "metrics: %d gold labels, %d predictions", len(y), len(yPred))
	}
	type counts struct{ tp, fp, fn, support int }
	per := make(map[string]*counts)
	get := func(label string) *counts {
		c, ok := per[label]
		if !ok {
			c = &counts{}
			per[label] = c
		}
		return c
	}
	var correct int
	for i := range y {
		gold, pred := get(y[i]), get(yPred[i])
		gold.support++
		if y[i] == yPred[i] {
			gold.tp++
			correct++
		} else {
			gold.fn++
			pred.fp++
		}
	}

	labels := make([]string, 0, len(per))
	for label := range per {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	r := &Report{Macro: ClassScores{Label: "macro avg"}, Weighted: ClassScores{Label: "weighted avg"}}
	if len(y) > 0 {
		r.Accuracy = float64(correct) / float64(len(y))
	}
	for _, label := range labels {
		c := per[label]
		s := ClassScores{
			Label:     label,
			Precision: safeDiv(c.tp, c.tp+c.fp),
			Recall:    safeDiv(c.tp, c.tp+c.fn),
			Support:   c.support,
		}
		if s.Precision+s.Recall > 0 {
			s.F1 = 2 * s.Precision * s.Recall / (s.Precision + s.Recall)
		}
		r.Classes = append(r.Classes, s)

		n, w := float64(len(labels)), float64(c.support)/float64(max(len(y), 1))
		r.Macro.Precision += s.Precision / n
		r.Macro.Recall += s.Recall / n
		r.Macro.F1 += s.F1 / n
		r.Weighted.Precision += s.Precision * w
		r.Weighted.Recall += s.Recall * w
		r.Weighted.F1 += s.F1 * w
	}
	r.Macro.Support, r.Weighted.Support = len(y), len(y)
	return r, nil
}

func safeDiv(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

// MacroF1 is the unweighted mean of the per-label F1 scores, with undefined scores as 0.
func MacroF1(y, yPred []string) (float64, error) {
	r, err := NewReport(y, yPred)
	if err != nil {
		return 0, err
	}
	return r.Macro.F1, nil
}

// Accuracy is the share of exact matches.
func Accuracy(y, yPred []string) (float64, error) {
	r, err := NewReport(y, yPred)
	if err != nil {
		return 0, err
	}
	return r.Accuracy, nil
}

// Render writes the report as a table with three decimals.
func (r *Report) Render(w io.Writer) error {
	row := func(s ClassScores) []string {
		return []string{s.Label,
			fmt.Sprintf("%.3f", s.Precision),
			fmt.Sprintf("%.3f", s.Recall),
			fmt.Sprintf("%.3f", s.F1),
			fmt.Sprint(s.Support)}
	}
	data := [][]string{{"", "precision", "recall", "f1-score", "support"}}
	for _, s := range r.Classes {
		data = append(data, row(s))
	}
	data = append(data,
		[]string{"accuracy", "", "", fmt.Sprintf("%.3f", r.Accuracy), fmt.Sprint(r.Macro.Support)},
		row(r.Macro),
		row(r.Weighted))
	return pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(w).Render()
}

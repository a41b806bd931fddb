package metrics

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurlang/nli/linalg"
)

func TestReport(t *testing.T) {
	y := []string{"a", "a", "b", "b", "c", "c"}
	pred := []string{"a", "b", "b", "b", "a", "a"}
	r, err := NewReport(y, pred)
	require.NoError(t, err)

	require.Len(t, r.Classes, 3)
	a, b, c := r.Classes[0], r.Classes[1], r.Classes[2]
	assert.InDelta(t, 1.0/3, a.Precision, 1e-12)
	assert.InDelta(t, 0.5, a.Recall, 1e-12)
	assert.InDelta(t, 0.4, a.F1, 1e-12)
	assert.InDelta(t, 2.0/3, b.Precision, 1e-12)
	assert.InDelta(t, 1, b.Recall, 1e-12)
	assert.InDelta(t, 0.8, b.F1, 1e-12)
	// c is never predicted: zero division gives 0
	assert.Equal(t, ClassScores{Label: "c", Support: 2}, c)

	assert.InDelta(t, 0.5, r.Accuracy, 1e-12)
	assert.InDelta(t, 0.4, r.Macro.F1, 1e-12)
	assert.InDelta(t, 0.4, r.Weighted.F1, 1e-12)
	assert.Equal(t, 6, r.Macro.Support)
}

func TestPredictedOnlyLabelCounts(t *testing.T) {
	f1, err := MacroF1([]string{"a", "a"}, []string{"a", "x"})
	require.NoError(t, err)
	// a: p=1 r=.5 f=2/3, x: p=0 r=0 f=0
	assert.InDelta(t, 1.0/3, f1, 1e-12)
}

func TestAccuracyAndErrors(t *testing.T) {
	acc, err := Accuracy([]string{"a", "b"}, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, acc)

	_, err = MacroF1([]string{"a"}, nil)
	assert.ErrorIs(t, err, linalg.ErrShape)

	f1, err := MacroF1(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, f1)
}

func TestRender(t *testing.T) {
	r, err := NewReport([]string{"entailment", "neutral"}, []string{"entailment", "entailment"})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf))
	out := buf.String()
	assert.Contains(t, out, "precision")
	assert.Contains(t, out, "entailment")
	assert.Contains(t, out, "0.500")
	assert.Contains(t, out, "macro avg")
}

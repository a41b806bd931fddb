package nli

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(gold, p, h string) string {
	b, _ := json.Marshal(map[string]interface{}{
		"annotator_labels":       []string{gold},
		"gold_label":             gold,
		"pairID":                 p + h,
		"sentence1":              p,
		"sentence1_binary_parse": "( " + p + " )",
		"sentence2":              h,
		"sentence2_binary_parse": "( " + h + " )",
	})
	return string(b)
}

func writeCorpus(t *testing.T, dir, name string, n int, gz bool) string {
	t.Helper()
	path := filepath.Join(dir, name)
	var content string
	for i := 0; i < n; i++ {
		gold := Labels()[i%3]
		if i%10 == 9 {
			gold = Unlabeled
		}
		content += line(gold, fmt.Sprintf("a dog %d", i), "a dog") + "\n"
	}
	if !gz {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}
	f, err := os.Create(path + ".gz")
	require.NoError(t, err)
	w := gzip.NewWriter(f)
	_, err = w.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
	return path
}

func TestReadFiltersUnlabeled(t *testing.T) {
	dir := t.TempDir()
	writeCorpus(t, dir, snliTrain, 20, false)

	exs, err := SNLITrainReader(dir).ReadAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, exs, 18)
	for _, ex := range exs {
		assert.NotEqual(t, Unlabeled, ex.GoldLabel)
		assert.Equal(t, []string{"a", "dog"}, ex.Hypothesis.Leaves())
		assert.Len(t, ex.Premise.Leaves(), 3)
	}

	all, err := SNLITrainReader(dir, WithFilterUnlabeled(false)).ReadAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 20)
}

func TestReadGzipSibling(t *testing.T) {
	dir := t.TempDir()
	writeCorpus(t, dir, multiNLIDevMatched, 6, true)

	exs, err := MultiNLIMatchedDevReader(dir).ReadAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, exs, 6)
}

func TestReadSamplingIsReproducible(t *testing.T) {
	dir := t.TempDir()
	writeCorpus(t, dir, snliDev, 300, false)

	read := func(seed int64) []string {
		exs, err := SNLIDevReader(dir, WithSampPercentage(0.3), WithRandomState(seed)).ReadAll(context.Background())
		require.NoError(t, err)
		var ids []string
		for _, ex := range exs {
			ids = append(ids, ex.PairID)
		}
		return ids
	}
	a, b := read(7), read(7)
	assert.Equal(t, a, b)
	assert.Greater(t, len(a), 40)
	assert.Less(t, len(a), 140)
	assert.NotEqual(t, a, read(8))
}

func TestReadMissingFile(t *testing.T) {
	_, err := SNLITestReader(t.TempDir()).ReadAll(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestReadBadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(line(Neutral, "a b", "c")+"\n{nope\n"), 0o644))
	_, err := NewReader(path).ReadAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.jsonl:2")
}

func TestReadStopsOnYieldError(t *testing.T) {
	dir := t.TempDir()
	writeCorpus(t, dir, snliTrain, 5, false)
	stop := errors.New("stop")
	var n int
	err := SNLITrainReader(dir).Read(context.Background(), func(*Example) error {
		n++
		return stop
	})
	assert.Equal(t, stop, err)
	assert.Equal(t, 1, n)
}

func TestReadCancelled(t *testing.T) {
	dir := t.TempDir()
	writeCorpus(t, dir, snliTrain, 5, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := SNLITrainReader(dir).Read(ctx, func(*Example) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadAllEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(line(Unlabeled, "a", "b")+"\n"), 0o644))
	_, err := NewReader(path).ReadAll(context.Background())
	assert.True(t, errors.Is(err, ErrNoData))
}

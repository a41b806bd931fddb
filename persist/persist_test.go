package persist

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type weights struct {
	Classes []string    `json:"classes"`
	W       [][]float64 `json:"w"`
}

func TestRoundTrip(t *testing.T) {
	in := weights{Classes: []string{"a", "b"}, W: [][]float64{{1.5, -2}, {0, 3}}}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "logistic", "run-1", in))

	var out weights
	h, err := Read(&buf, "logistic", &out)
	require.NoError(t, err)
	assert.Equal(t, Header{Kind: "logistic", RunID: "run-1"}, h)
	assert.Equal(t, in, out)
}

func TestWrongKind(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "shallow", "", weights{}))
	var out weights
	h, err := Read(&buf, "logistic", &out)
	assert.True(t, errors.Is(err, ErrKind))
	assert.Equal(t, "shallow", h.Kind)
}

func TestFiles(t *testing.T) {
	name := filepath.Join(t.TempDir(), "model.json.lzw")
	require.NoError(t, WriteFile(name, "rnn", "r", weights{Classes: []string{"x"}}))

	h, err := Peek(name)
	require.NoError(t, err)
	assert.Equal(t, "rnn", h.Kind)

	var out weights
	_, err = ReadFile(name, "rnn", &out)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, out.Classes)

	_, err = Peek(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestGarbage(t *testing.T) {
	var out weights
	_, err := Read(bytes.NewReader([]byte("not lzw at all")), "x", &out)
	assert.Error(t, err)
}

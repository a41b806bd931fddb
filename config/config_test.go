package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, 50, c.Data.GloVeDim)
	assert.Equal(t, int64(42), c.Experiment.RandomState)
	assert.Equal(t, 3, c.Experiment.CV)
	assert.Equal(t, []float64{0.4, 0.6, 0.8, 1.0}, c.Logistic.CGrid)
	assert.Equal(t, []string{"l1", "l2"}, c.Logistic.Penalties)
	assert.Equal(t, []int{50, 100}, c.Shallow.HiddenDims)
	assert.Equal(t, 10000, c.RNN.NWords)
	assert.Equal(t, 52, c.RNN.MaxLength)
	assert.True(t, c.RNN.TrainEmbedding)
	assert.Equal(t, 2048, c.RNN.ChainedBatchSize)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[data]
glove_dim = 300

[logistic]
c_grid = [0.5]
penalties = ["l2"]

[rnn]
max_iter = 7
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 300, c.Data.GloVeDim)
	assert.Equal(t, []float64{0.5}, c.Logistic.CGrid)
	assert.Equal(t, 7, c.RNN.MaxIter)
	assert.Equal(t, 50, c.RNN.HiddenDim)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("NLI_EXPERIMENT_RANDOM_STATE", "7")
	t.Setenv("NLI_LOG_LEVEL", "debug")
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, int64(7), c.Experiment.RandomState)
	assert.Equal(t, "debug", c.Log.Level)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[data]\nglove_dim = 42\n"), 0o644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "glove_dim")
}

func TestValidate(t *testing.T) {
	for name, mut := range map[string]func(*Config){
		"train size":   func(c *Config) { c.Experiment.TrainSize = 1 },
		"cv":           func(c *Config) { c.Experiment.CV = 1 },
		"samp":         func(c *Config) { c.Experiment.TrainSampPercentage = 2 },
		"c grid":       func(c *Config) { c.Logistic.CGrid = []float64{0} },
		"penalty":      func(c *Config) { c.Logistic.Penalties = []string{"l3"} },
		"hidden dims":  func(c *Config) { c.Shallow.HiddenDims = nil },
		"rnn dims":     func(c *Config) { c.RNN.HiddenDim = 0 },
		"level":        func(c *Config) { c.Log.Level = "loud" },
		"threads":      func(c *Config) { c.Experiment.Threads = -1 },
		"max length":   func(c *Config) { c.RNN.MaxLength = -1 },
		"empty grid":   func(c *Config) { c.Logistic.Penalties = nil },
		"hidden value": func(c *Config) { c.Shallow.HiddenDims = []int{-5} },
	} {
		c := Default()
		mut(c)
		assert.Error(t, c.Validate(), name)
	}
}

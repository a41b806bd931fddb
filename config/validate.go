package config

import "github.com/pkg/errors"

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	switch c.Data.GloVeDim {
	case 50, 100, 200, 300:
	default:
		return errors.Errorf("data.glove_dim must be 50, 100, 200 or 300, got %d", c.Data.GloVeDim)
	}

	for name, p := range map[string]float64{
		"experiment.train_samp_percentage":  c.Experiment.TrainSampPercentage,
		"experiment.assess_samp_percentage": c.Experiment.AssessSampPercentage,
	} {
		if p < 0 || p > 1 {
			return errors.Errorf("%s must be in [0, 1], got %v", name, p)
		}
	}
	if c.Experiment.TrainSize <= 0 || c.Experiment.TrainSize >= 1 {
		return errors.Errorf("experiment.train_size must be in (0, 1), got %v", c.Experiment.TrainSize)
	}
	if c.Experiment.CV < 2 {
		return errors.Errorf("experiment.cv must be >= 2, got %d", c.Experiment.CV)
	}
	if c.Experiment.Threads < 0 {
		return errors.Errorf("experiment.threads must be >= 0, got %d", c.Experiment.Threads)
	}

	if len(c.Logistic.CGrid) == 0 || len(c.Logistic.Penalties) == 0 {
		return errors.New("logistic.c_grid and logistic.penalties cannot be empty")
	}
	for _, C := range c.Logistic.CGrid {
		if C <= 0 {
			return errors.Errorf("logistic.c_grid values must be > 0, got %v", C)
		}
	}
	for _, p := range c.Logistic.Penalties {
		if p != "l1" && p != "l2" {
			return errors.Errorf("logistic.penalties must be l1 or l2, got %q", p)
		}
	}

	if len(c.Shallow.HiddenDims) == 0 {
		return errors.New("shallow.hidden_dims cannot be empty")
	}
	for _, h := range c.Shallow.HiddenDims {
		if h <= 0 {
			return errors.Errorf("shallow.hidden_dims values must be > 0, got %d", h)
		}
	}

	if c.RNN.EmbedDim <= 0 || c.RNN.HiddenDim <= 0 {
		return errors.Errorf("rnn.embed_dim and rnn.hidden_dim must be > 0, got %d and %d", c.RNN.EmbedDim, c.RNN.HiddenDim)
	}
	if c.RNN.MaxLength < 0 {
		return errors.Errorf("rnn.max_length must be >= 0, got %d", c.RNN.MaxLength)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	return nil
}

// Package config loads experiment settings from nli.toml, NLI_ environment
// variables and built-in defaults.
package config

// Config is the complete experiment configuration.
type Config struct {
	Data       DataConfig       `mapstructure:"data"`
	Experiment ExperimentConfig `mapstructure:"experiment"`
	Logistic   LogisticConfig   `mapstructure:"logistic"`
	Shallow    ShallowConfig    `mapstructure:"shallow"`
	RNN        RNNConfig        `mapstructure:"rnn"`
	Log        LogConfig        `mapstructure:"log"`
}

// DataConfig locates the corpora and the GloVe vectors.
type DataConfig struct {
	SNLIHome     string `mapstructure:"snli_home"`
	MultiNLIHome string `mapstructure:"multinli_home"`
	GloVeHome    string `mapstructure:"glove_home"`
	GloVeDim     int    `mapstructure:"glove_dim"` // 50, 100, 200 or 300
}

// ExperimentConfig controls sampling, splitting and parallelism.
type ExperimentConfig struct {
	RandomState          int64   `mapstructure:"random_state"`
	TrainSampPercentage  float64 `mapstructure:"train_samp_percentage"`  // 0 reads everything
	AssessSampPercentage float64 `mapstructure:"assess_samp_percentage"` // 0 reads everything
	TrainSize            float64 `mapstructure:"train_size"`             // share kept for training when no assess data is given
	CV                   int     `mapstructure:"cv"`
	Threads              int     `mapstructure:"threads"` // 0 = detect
}

// LogisticConfig is the cross-validated logistic regression grid.
type LogisticConfig struct {
	CGrid     []float64 `mapstructure:"c_grid"`
	Penalties []string  `mapstructure:"penalties"`
	MaxIter   int       `mapstructure:"max_iter"`
	Tol       float64   `mapstructure:"tol"`
	Eta       float64   `mapstructure:"eta"`
	BatchSize int       `mapstructure:"batch_size"`
}

// ShallowConfig is the cross-validated shallow network grid.
type ShallowConfig struct {
	HiddenDims []int   `mapstructure:"hidden_dims"`
	MaxIter    int     `mapstructure:"max_iter"`
	Eta        float64 `mapstructure:"eta"`
	BatchSize  int     `mapstructure:"batch_size"`
}

// RNNConfig configures both recurrent models.
type RNNConfig struct {
	NWords           int     `mapstructure:"n_words"`
	EmbedDim         int     `mapstructure:"embed_dim"`
	HiddenDim        int     `mapstructure:"hidden_dim"`
	MaxIter          int     `mapstructure:"max_iter"`
	Eta              float64 `mapstructure:"eta"` // sentence-encoding model
	BatchSize        int     `mapstructure:"batch_size"`
	ChainedEta       float64 `mapstructure:"chained_eta"`
	ChainedBatchSize int     `mapstructure:"chained_batch_size"`
	MaxLength        int     `mapstructure:"max_length"`
	TrainEmbedding   bool    `mapstructure:"train_embedding"`
	UseGloVe         bool    `mapstructure:"use_glove"`
}

// LogConfig configures the logger.
type LogConfig struct {
	JSON  bool   `mapstructure:"json"`
	Level string `mapstructure:"level"`
}

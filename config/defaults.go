package config

import "github.com/spf13/viper"

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("data.snli_home", "data/nlidata/snli_1.0")
	v.SetDefault("data.multinli_home", "data/nlidata/multinli_1.0")
	v.SetDefault("data.glove_home", "data/glove.6B")
	v.SetDefault("data.glove_dim", 50)

	v.SetDefault("experiment.random_state", 42)
	v.SetDefault("experiment.train_samp_percentage", 0.0)
	v.SetDefault("experiment.assess_samp_percentage", 0.0)
	v.SetDefault("experiment.train_size", 0.7)
	v.SetDefault("experiment.cv", 3)
	v.SetDefault("experiment.threads", 0)

	v.SetDefault("logistic.c_grid", []float64{0.4, 0.6, 0.8, 1.0})
	v.SetDefault("logistic.penalties", []string{"l1", "l2"})
	v.SetDefault("logistic.max_iter", 100)
	v.SetDefault("logistic.tol", 1e-4)
	v.SetDefault("logistic.eta", 0.1)
	v.SetDefault("logistic.batch_size", 256)

	v.SetDefault("shallow.hidden_dims", []int{50, 100})
	v.SetDefault("shallow.max_iter", 50)
	v.SetDefault("shallow.eta", 0.01)
	v.SetDefault("shallow.batch_size", 1028)

	v.SetDefault("rnn.n_words", 10000)
	v.SetDefault("rnn.embed_dim", 50)
	v.SetDefault("rnn.hidden_dim", 50)
	v.SetDefault("rnn.max_iter", 5)
	v.SetDefault("rnn.eta", 0.001)
	v.SetDefault("rnn.batch_size", 1028)
	v.SetDefault("rnn.chained_eta", 0.05)
	v.SetDefault("rnn.chained_batch_size", 2048)
	v.SetDefault("rnn.max_length", 52)
	v.SetDefault("rnn.train_embedding", true)
	v.SetDefault("rnn.use_glove", false)

	v.SetDefault("log.json", false)
	v.SetDefault("log.level", "info")
}

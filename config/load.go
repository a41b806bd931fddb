package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "nli.toml"

// New returns a Viper instance with defaults and NLI_ environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("NLI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load reads the configuration. An empty path uses nli.toml in the working
// directory when it exists and defaults otherwise; an explicit path must exist.
func Load(path string) (*Config, error) {
	v := New()
	if path == "" {
		if _, err := os.Stat(FileName); err == nil {
			path = FileName
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	}
	return LoadWithViper(v)
}

// LoadWithViper decodes and validates a configuration from v.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		panic(err)
	}
	return &c
}

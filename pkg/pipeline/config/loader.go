package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// DefaultEnvPrefix prefixes the environment variables read by Load, as in BLOCKPIPE_BLOCK_SIZE.
const DefaultEnvPrefix = "BLOCKPIPE"

// LoaderConfig holds optional file overrides.
type LoaderConfig struct {
	ConfigFile string // YAML config file path (optional)
	EnvFile    string // .env file path (optional)
	EnvPrefix  string
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

// WithConfigFile sets the YAML config file to read.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets a .env file loaded into the environment before reading it.
// Variables already set in the environment win.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvPrefix replaces DefaultEnvPrefix.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvPrefix = prefix }
}

// Load reads the configuration from defaults, then the config file, then the
// environment, and validates it.
func Load(opts ...LoaderOption) (*Config, error) {
	lc := LoaderConfig{EnvPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		opt(&lc)
	}

	v := viper.New()
	setDefaults(v)

	if lc.ConfigFile != "" {
		v.SetConfigFile(lc.ConfigFile)
		err := v.ReadInConfig()
		if err != nil {
			return nil, errors.Wrapf(err, "unable to read config file %s", lc.ConfigFile)
		}
	}

	if lc.EnvFile != "" {
		err := godotenv.Load(lc.EnvFile)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to load env file %s", lc.EnvFile)
		}
	}

	v.SetEnvPrefix(lc.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	err := v.Unmarshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "unable to unmarshal config")
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults registers every key so that AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("block_size", def.BlockSize)
	v.SetDefault("read_limit", def.ReadLimit)
	v.SetDefault("end_on_zero_read", def.EndOnZeroRead)
	v.SetDefault("protect_source", def.ProtectSource)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
}

package config

import (
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/askiada/go-blockpipe/pkg/pipeline"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// LogConfig contains logging configuration.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `yaml:"format" mapstructure:"format" validate:"oneof=json console"`
}

// Config contains the settings of a pipeline.
type Config struct {
	BlockSize int `yaml:"block_size" mapstructure:"block_size" validate:"gt=0"`
	// ReadLimit is unbounded when negative.
	ReadLimit     int64     `yaml:"read_limit" mapstructure:"read_limit" validate:"gte=-1"`
	EndOnZeroRead bool      `yaml:"end_on_zero_read" mapstructure:"end_on_zero_read"`
	ProtectSource bool      `yaml:"protect_source" mapstructure:"protect_source"`
	Log           LogConfig `yaml:"log" mapstructure:"log"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	cfg := &Config{ReadLimit: -1}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills the zero fields with their default values.
func (c *Config) ApplyDefaults() {
	if c.BlockSize == 0 {
		c.BlockSize = pipeline.DefaultBlockSize
	}
	if c.Log.Level == "" {
		c.Log.Level = zerolog.InfoLevel.String()
	}
	if c.Log.Format == "" {
		c.Log.Format = FormatJSON
	}
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			return strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		})
	})
	return validate
}

// Validate checks every field of the configuration.
func (c *Config) Validate() error {
	err := getValidator().Struct(c)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return errors.Wrap(err, "unable to validate config")
	}
	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, fmt.Sprintf("%s must satisfy %s %s (got: %v)", e.Namespace(), e.Tag(), e.Param(), e.Value()))
	}
	return errors.Errorf("invalid config: %s", strings.Join(messages, "; "))
}

// Logger returns a zerolog logger writing to w at the configured level and format.
func (c *Config) Logger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if c.Log.Format == FormatConsole {
		w = zerolog.ConsoleWriter{Out: w, NoColor: true}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Options converts the configuration into pipeline options. Logs are written to logOutput.
func (c *Config) Options(logOutput io.Writer) []pipeline.Option {
	opts := []pipeline.Option{
		pipeline.WithBlockSize(c.BlockSize),
		pipeline.WithLogger(c.Logger(logOutput)),
	}
	if c.ReadLimit >= 0 {
		opts = append(opts, pipeline.WithReadLimit(c.ReadLimit))
	}
	if c.EndOnZeroRead {
		opts = append(opts, pipeline.WithEndOnZeroRead())
	}
	if c.ProtectSource {
		opts = append(opts, pipeline.WithProtectedSource())
	}
	return opts
}

package pipeline

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/askiada/go-blockpipe/pkg/pipeline/model"
)

// DefaultBlockSize is the number of units read from the source per block.
const DefaultBlockSize = 8192

const unlimited = -1

type settings struct {
	logger        zerolog.Logger
	opts          []model.PipelineOption
	blockSize     int
	readLimit     int64
	endOnZeroRead bool
	protect       bool
}

func defaultSettings() settings {
	return settings{
		logger:    zerolog.Nop(),
		blockSize: DefaultBlockSize,
		readLimit: unlimited,
	}
}

// Option configures a pipeline. Invalid values are reported by New.
type Option func(s *settings) error

// WithBlockSize sets the maximum number of units read from the source at once.
func WithBlockSize(size int) Option {
	return func(s *settings) error {
		if size <= 0 {
			return errors.Wrapf(ErrInvalidBlockSize, "got %d", size)
		}
		s.blockSize = size
		return nil
	}
}

// WithReadLimit caps the total number of units read from the source. The
// source may hold more; the rest is never read.
func WithReadLimit(limit int64) Option {
	return func(s *settings) error {
		if limit < 0 {
			return errors.Wrapf(ErrInvalidReadLimit, "got %d", limit)
		}
		s.readLimit = limit
		return nil
	}
}

// WithEndOnZeroRead makes a zero-unit read end the source gracefully instead
// of being retried.
func WithEndOnZeroRead() Option {
	return func(s *settings) error {
		s.endOnZeroRead = true
		return nil
	}
}

// WithProtectedSource copies borrowed segments before handing them to the
// encoders, so that no encoder can mutate the caller's memory.
func WithProtectedSource() Option {
	return func(s *settings) error {
		s.protect = true
		return nil
	}
}

// WithLogger sets the logger used by the pipeline.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *settings) error {
		s.logger = logger
		return nil
	}
}

// WithPipelineOption registers hooks observing the pipeline, such as measure or drawer.
func WithPipelineOption(opt model.PipelineOption) Option {
	return func(s *settings) error {
		if opt == nil {
			return errors.New("pipeline option must be set")
		}
		s.opts = append(s.opts, opt)
		return nil
	}
}

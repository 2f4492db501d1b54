package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/askiada/go-blockpipe/pkg/pipeline/model"
)

// Pipeline reads blocks from a source and runs them through a chain of encoders.
//
// A pipeline is single use: it is consumed by either Run or Stream. It is not
// safe for concurrent use.
type Pipeline[T Unit] struct {
	id       string
	src      Source[T]
	settings settings
	hooks    hooks
	stages   []chainStage[T]
	logger   zerolog.Logger
	consumed bool
}

// New creates a new pipeline reading from src.
func New[T Unit](src Source[T], opts ...Option) (*Pipeline[T], error) {
	if src == nil {
		return nil, ErrSourceMustBeSet
	}
	pipe := &Pipeline[T]{
		id:       uuid.NewString(),
		src:      src,
		settings: defaultSettings(),
	}
	for _, opt := range opts {
		err := opt(&pipe.settings)
		if err != nil {
			return nil, errors.Wrap(err, "invalid pipeline configuration")
		}
	}
	pipe.hooks = hooks(pipe.settings.opts)
	pipe.logger = pipe.settings.logger.With().Str("pipeline_id", pipe.id).Logger()

	err := pipe.hooks.new()
	if err != nil {
		return nil, err
	}

	return pipe, nil
}

// ID returns the identifier attached to the pipeline logs.
func (p *Pipeline[T]) ID() string { return p.id }

// AddEncoder appends enc to the chain. An empty name defaults to "encoder-<index>".
func (p *Pipeline[T]) AddEncoder(name string, enc Encoder[T]) error {
	if enc == nil {
		return ErrEncoderMustBeSet
	}
	if p.consumed {
		return ErrPipelineConsumed
	}
	p.stages = append(p.stages, chainStage[T]{enc: enc, info: encoderStage(len(p.stages), name)})
	return nil
}

// AddEncoders appends every encoder of encs to the chain, in order.
func (p *Pipeline[T]) AddEncoders(encs ...Encoder[T]) error {
	for _, enc := range encs {
		err := p.AddEncoder("", enc)
		if err != nil {
			return err
		}
	}
	return nil
}

// runner holds what a single execution of the pipeline needs.
type runner[T Unit] struct {
	reader    *blockReader[T]
	chain     *chain[T]
	terminal  *model.StageInfo
	hooks     hooks
	startTime time.Time
}

func (p *Pipeline[T]) prepare(terminal *model.StageInfo) (*runner[T], error) {
	source := sourceStage()
	c := &chain[T]{
		source: source,
		stages: p.stages,
		hooks:  p.hooks,
		logger: p.logger,
	}

	err := p.hooks.prepareStage(nil, source)
	if err != nil {
		return nil, err
	}
	parent := source
	for _, stage := range p.stages {
		err = p.hooks.prepareStage(parent, stage.info)
		if err != nil {
			return nil, err
		}
		parent = stage.info
	}
	err = p.hooks.prepareStage(parent, terminal)
	if err != nil {
		return nil, err
	}

	p.logger.Debug().
		Int("block_size", p.settings.blockSize).
		Int64("read_limit", p.settings.readLimit).
		Int("encoders", len(p.stages)).
		Str("terminal", terminal.Name).
		Msg("pipeline started")

	return &runner[T]{
		reader: &blockReader[T]{
			src:           p.src,
			stage:         source,
			hooks:         p.hooks,
			logger:        p.logger,
			blockSize:     p.settings.blockSize,
			limit:         p.settings.readLimit,
			endOnZeroRead: p.settings.endOnZeroRead,
			protect:       p.settings.protect,
		},
		chain:     c,
		terminal:  terminal,
		hooks:     p.hooks,
		startTime: time.Now(),
	}, nil
}

// step reads one block and runs it through the chain.
func (r *runner[T]) step() (out []T, final bool, units int, err error) {
	seg, err := r.reader.next()
	if err != nil {
		return nil, false, 0, err
	}
	out, err = r.chain.run(seg.Data(), seg.Final())
	if err != nil {
		return nil, false, 0, err
	}
	return out, seg.Final(), seg.Len(), nil
}

func (r *runner[T]) finish() error {
	err := r.hooks.afterSink(r.terminal, time.Since(r.startTime))
	if err != nil {
		return err
	}
	return r.hooks.finish()
}

// Run pushes every block of the source through the chain and writes the
// results to sink. It returns the number of units read from the source, or -1
// when the source was empty from the start.
//
// ctx is checked between blocks; a cancelled run does not deliver the final
// call to the encoders.
func (p *Pipeline[T]) Run(ctx context.Context, sink Sink[T]) (int64, error) {
	if sink == nil {
		return 0, ErrSinkMustBeSet
	}
	if p.consumed {
		return 0, ErrPipelineConsumed
	}
	p.consumed = true

	run, err := p.prepare(&model.StageInfo{Type: model.SinkStageType, Name: "sink", Index: -1})
	if err != nil {
		return 0, err
	}

	var total int64
	for {
		if ctx.Err() != nil {
			return total, errors.Wrap(ctx.Err(), "pipeline interrupted")
		}
		out, final, units, err := run.step()
		if err != nil {
			return total, err
		}
		total += int64(units)

		if len(out) > 0 {
			start := time.Now()
			n, err := sink.Write(out)
			if err == nil && n < len(out) {
				err = errors.Wrapf(ErrShortWrite, "%d of %d units", n, len(out))
			}
			if err != nil {
				return total, newIOError("write", run.terminal.Name, err)
			}
			err = run.hooks.onSinkWrite(run.chain.last(), run.terminal, n, time.Since(start))
			if err != nil {
				return total, err
			}
		}
		if final {
			break
		}
	}

	err = run.finish()
	if err != nil {
		return total, err
	}
	p.logger.Debug().Int64("units", total).Msg("pipeline finished")

	if total == 0 {
		return -1, nil
	}
	return total, nil
}

// Stream returns a pull-based view of the pipeline. Nothing is read from the
// source until the first read on the stream.
func (p *Pipeline[T]) Stream() (*Stream[T], error) {
	if p.consumed {
		return nil, ErrPipelineConsumed
	}
	p.consumed = true

	return &Stream[T]{pipe: p}, nil
}

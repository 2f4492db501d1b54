package pipeline

import (
	"io"
	"time"

	"github.com/askiada/go-blockpipe/pkg/pipeline/model"
)

// Stream is a pull-based view of a pipeline. Blocks are read from the source
// and encoded only when a read needs more data. A Stream[byte] is an
// io.ReadCloser.
//
// Reads return io.EOF once the pipeline is exhausted. Every method but Close
// returns ErrStreamClosed after Close. A Stream is not safe for concurrent use.
type Stream[T Unit] struct {
	pipe      *Pipeline[T]
	run       *runner[T]
	pending   []T
	err       error
	exhausted bool
	closed    bool
}

// fill makes pending non-empty unless the pipeline is exhausted.
func (s *Stream[T]) fill() error {
	if s.err != nil {
		return s.err
	}
	if s.run == nil {
		run, err := s.pipe.prepare(&model.StageInfo{Type: model.StreamStageType, Name: "stream", Index: -1})
		if err != nil {
			s.err = err
			return err
		}
		s.run = run
	}

	for len(s.pending) == 0 && !s.exhausted {
		start := time.Now()
		out, final, _, err := s.run.step()
		if err != nil {
			s.err = err
			return err
		}
		if len(out) > 0 {
			err = s.run.hooks.onSinkWrite(s.run.chain.last(), s.run.terminal, len(out), time.Since(start))
			if err != nil {
				s.err = err
				return err
			}
		}
		s.pending = out
		if final {
			s.exhausted = true
			s.pipe.logger.Debug().Int64("units", s.run.reader.read).Msg("stream exhausted")
			err = s.run.finish()
			if err != nil {
				s.err = err
				return err
			}
		}
	}
	return nil
}

// ReadUnit reads a single unit.
func (s *Stream[T]) ReadUnit() (T, error) {
	var unit T
	if s.closed {
		return unit, ErrStreamClosed
	}
	err := s.fill()
	if err != nil {
		return unit, err
	}
	if len(s.pending) == 0 {
		return unit, io.EOF
	}
	unit = s.pending[0]
	s.pending = s.pending[1:]
	return unit, nil
}

// Read reads up to len(p) units into p. It returns as soon as some units are
// available, without waiting for p to be full.
func (s *Stream[T]) Read(p []T) (int, error) {
	if s.closed {
		return 0, ErrStreamClosed
	}
	if len(p) == 0 {
		return 0, nil
	}
	err := s.fill()
	if err != nil {
		return 0, err
	}
	if len(s.pending) == 0 {
		return 0, io.EOF
	}
	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

// Skip discards up to n units and returns how many were discarded. It returns
// fewer than n only when the pipeline is exhausted.
func (s *Stream[T]) Skip(n int64) (int64, error) {
	if s.closed {
		return 0, ErrStreamClosed
	}
	var skipped int64
	for skipped < n {
		err := s.fill()
		if err != nil {
			return skipped, err
		}
		if len(s.pending) == 0 {
			break
		}
		k := int(min(int64(len(s.pending)), n-skipped))
		s.pending = s.pending[k:]
		skipped += int64(k)
	}
	return skipped, nil
}

// Close stops the stream and closes the source when it is an io.Closer.
// Closing an already closed stream is a no-op.
func (s *Stream[T]) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.pending = nil
	s.pipe.logger.Debug().Bool("exhausted", s.exhausted).Msg("stream closed")

	if closer, ok := s.pipe.src.(io.Closer); ok {
		err := closer.Close()
		if err != nil {
			return newIOError("close", "source", err)
		}
	}
	return nil
}

var _ io.ReadCloser = (*Stream[byte])(nil)

package pipeline

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrSourceMustBeSet  = errors.New("source must be set")
	ErrSinkMustBeSet    = errors.New("sink must be set")
	ErrEncoderMustBeSet = errors.New("encoder must be set")
	ErrInvalidBlockSize = errors.New("block size must be greater than 0")
	ErrInvalidReadLimit = errors.New("read limit must be greater or equal to 0")
	ErrInvalidUnitSize  = errors.New("unit size must be greater than 0")
	ErrInvalidWindow    = errors.New("offset and length must fit in the buffer")
	ErrSinkOverflow     = errors.New("block does not fit in the remaining sink capacity")
	ErrShortWrite       = errors.New("sink accepted fewer units than given")
	ErrStreamClosed     = errors.New("stream is closed")
	ErrPipelineConsumed = errors.New("pipeline has already been run")
)

// IOError reports a failure raised by a source or a sink collaborator.
type IOError struct {
	// Op is either "read" or "write".
	Op    string
	Stage string
	Err   error
}

func newIOError(op, stage string, err error) *IOError {
	return &IOError{Op: op, Stage: stage, Err: err}
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Cause makes the error compatible with errors.Cause.
func (e *IOError) Cause() error { return e.Err }

// EncodingError reports a failure raised by an encoder of the chain, either as
// a returned error or as a recovered panic.
type EncodingError struct {
	Stage string
	Index int
	Final bool
	Err   error
}

func newEncodingError(stage string, index int, final bool, err error) *EncodingError {
	return &EncodingError{Stage: stage, Index: index, Final: final, Err: err}
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoder %d (%s), final=%t: %v", e.Index, e.Stage, e.Final, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// Cause makes the error compatible with errors.Cause.
func (e *EncodingError) Cause() error { return e.Err }

// IsIOError reports whether err was raised by a source or a sink.
func IsIOError(err error) bool {
	var ioErr *IOError
	return errors.As(err, &ioErr)
}

// IsEncodingError reports whether err was raised by an encoder.
func IsEncodingError(err error) bool {
	var encErr *EncodingError
	return errors.As(err, &encErr)
}

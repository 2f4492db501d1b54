package pipeline

import (
	"io"

	"github.com/pkg/errors"
)

// Sink is the write capability a pipeline pushes finished blocks to.
//
// Write either consumes the whole block or returns an error. A sink must not
// retain data past the call.
type Sink[T Unit] interface {
	Write(data []T) (int, error)
}

// FixedSink writes into a window of a caller-provided buffer.
type FixedSink[T Unit] struct {
	buf []T
	pos int
	end int
}

// NewFixedSink creates a sink writing into buf[offset:offset+length].
// A negative length means up to the end of buf.
func NewFixedSink[T Unit](buf []T, offset, length int) (*FixedSink[T], error) {
	if length < 0 {
		length = len(buf) - offset
	}
	if offset < 0 || length < 0 || offset+length > len(buf) {
		return nil, errors.Wrapf(ErrInvalidWindow, "offset %d, length %d, buffer %d", offset, length, len(buf))
	}
	return &FixedSink[T]{buf: buf, pos: offset, end: offset + length}, nil
}

// Write implements Sink.
func (s *FixedSink[T]) Write(data []T) (int, error) {
	if len(data) > s.end-s.pos {
		return 0, errors.Wrapf(ErrSinkOverflow, "%d units, %d available", len(data), s.end-s.pos)
	}
	n := copy(s.buf[s.pos:s.end], data)
	s.pos += n
	return n, nil
}

// Remaining returns the free capacity left in the window.
func (s *FixedSink[T]) Remaining() int { return s.end - s.pos }

// BufferSink accumulates every block in a growable buffer.
type BufferSink[T Unit] struct {
	units []T
}

// NewBufferSink creates an empty growable sink. sizeHint preallocates capacity.
func NewBufferSink[T Unit](sizeHint int) *BufferSink[T] {
	return &BufferSink[T]{units: make([]T, 0, max(sizeHint, 0))}
}

// Write implements Sink.
func (s *BufferSink[T]) Write(data []T) (int, error) {
	s.units = append(s.units, data...)
	return len(data), nil
}

// Units returns everything written so far.
func (s *BufferSink[T]) Units() []T { return s.units }

// Len returns the number of units written so far.
func (s *BufferSink[T]) Len() int { return len(s.units) }

// Reset discards everything written so far.
func (s *BufferSink[T]) Reset() { s.units = s.units[:0] }

// WriterSink writes bytes to a blocking io.Writer.
type WriterSink struct {
	w io.Writer
}

// NewWriterSink creates a sink writing to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Write implements Sink.
func (s *WriterSink) Write(data []byte) (int, error) {
	n, err := s.w.Write(data)
	if err != nil {
		return n, err
	}
	if n < len(data) {
		return n, errors.Wrapf(ErrShortWrite, "%d of %d bytes", n, len(data))
	}
	return n, nil
}

// Close closes the underlying writer when it is an io.Closer.
func (s *WriterSink) Close() error {
	if closer, ok := s.w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// ChanSink sends a private copy of every block on a channel.
type ChanSink[T Unit] struct {
	ch chan<- []T
}

// NewChanSink creates a sink sending to ch. Sends block until received.
func NewChanSink[T Unit](ch chan<- []T) *ChanSink[T] {
	return &ChanSink[T]{ch: ch}
}

// Write implements Sink.
func (s *ChanSink[T]) Write(data []T) (int, error) {
	block := make([]T, len(data))
	copy(block, data)
	s.ch <- block
	return len(data), nil
}

var (
	_ Sink[byte] = (*FixedSink[byte])(nil)
	_ Sink[rune] = (*BufferSink[rune])(nil)
	_ Sink[byte] = (*WriterSink)(nil)
	_ Sink[byte] = (*ChanSink[byte])(nil)
)

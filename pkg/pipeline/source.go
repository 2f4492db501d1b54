package pipeline

import (
	"io"

	"github.com/pkg/errors"
)

// Source is the read capability a pipeline consumes.
//
// Read returns at most maxUnits units. It must be callable repeatedly until a
// final segment is returned. A non-final empty segment means the source had
// nothing to give this time; how the pipeline reacts is set by WithEndOnZeroRead.
type Source[T Unit] interface {
	Read(maxUnits int) (Segment[T], error)
}

// SliceSource reads from an in-memory slice without copying it.
type SliceSource[T Unit] struct {
	data []T
	pos  int
}

// NewSliceSource creates a source over data. Segments are borrowed views of data.
func NewSliceSource[T Unit](data []T) *SliceSource[T] {
	return &SliceSource[T]{data: data}
}

// Read implements Source.
func (s *SliceSource[T]) Read(maxUnits int) (Segment[T], error) {
	remaining := len(s.data) - s.pos
	if remaining <= 0 {
		return BorrowedSegment[T](nil, true), nil
	}
	n := min(maxUnits, remaining)
	seg := BorrowedSegment(s.data[s.pos:s.pos+n:s.pos+n], n == remaining)
	s.pos += n
	return seg, nil
}

// ReaderSource reads bytes from a blocking io.Reader.
//
// The reader is read into a reused internal buffer and every segment is a
// fresh owned copy.
type ReaderSource struct {
	r   io.Reader
	buf []byte
	eof bool
}

// NewReaderSource creates a source reading from r.
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: r}
}

// Read implements Source.
func (s *ReaderSource) Read(maxUnits int) (Segment[byte], error) {
	if s.eof {
		return OwnedSegment[byte](nil, true), nil
	}
	if cap(s.buf) < maxUnits {
		s.buf = make([]byte, maxUnits)
	}
	buf := s.buf[:maxUnits]
	n, err := s.r.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return Segment[byte]{}, err
	}
	s.eof = err != nil
	var data []byte
	if n > 0 {
		data = make([]byte, n)
		copy(data, buf[:n])
	}
	return OwnedSegment(data, s.eof), nil
}

// Close closes the underlying reader when it is an io.Closer.
func (s *ReaderSource) Close() error {
	if closer, ok := s.r.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// ChanSource reads blocks sent on a channel until the channel is closed.
//
// Blocks received from the channel become owned by the source: senders must
// not touch them afterwards. An empty block is reported as a zero-unit read.
type ChanSource[T Unit] struct {
	ch       <-chan []T
	leftover []T
	done     bool
}

// NewChanSource creates a source receiving from ch.
func NewChanSource[T Unit](ch <-chan []T) *ChanSource[T] {
	return &ChanSource[T]{ch: ch}
}

// Read implements Source.
func (s *ChanSource[T]) Read(maxUnits int) (Segment[T], error) {
	if len(s.leftover) == 0 {
		if s.done {
			return OwnedSegment[T](nil, true), nil
		}
		block, ok := <-s.ch
		if !ok {
			s.done = true
			return OwnedSegment[T](nil, true), nil
		}
		if len(block) == 0 {
			return OwnedSegment[T](nil, false), nil
		}
		s.leftover = block
	}
	n := min(maxUnits, len(s.leftover))
	data := s.leftover[:n:n]
	s.leftover = s.leftover[n:]
	return OwnedSegment(data, false), nil
}

var (
	_ Source[byte] = (*SliceSource[byte])(nil)
	_ Source[rune] = (*SliceSource[rune])(nil)
	_ Source[byte] = (*ReaderSource)(nil)
	_ Source[byte] = (*ChanSource[byte])(nil)
)

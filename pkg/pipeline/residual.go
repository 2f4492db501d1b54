package pipeline

import (
	"github.com/pkg/errors"
)

// residual wraps an encoder so that it only sees inputs of a given shape.
// Data that does not fit yet is kept in pending until the next call.
//
// cut returns how many of avail units can be forwarded as a non-final call,
// 0 meaning hold everything.
type residual[T Unit] struct {
	enc  Encoder[T]
	size int
	cut  func(avail int) int
	// greedy adapters merge every new unit into pending; the others only top
	// pending up to size and forward the rest without copying.
	greedy bool
	// wholeFinal adapters forward all remaining units in the final call.
	wholeFinal bool
	pending    []T
	done       bool
}

func newResidual[T Unit](kind string, size int, enc Encoder[T]) (*residual[T], error) {
	if size <= 0 {
		return nil, errors.Wrapf(ErrInvalidUnitSize, "%s encoder got %d", kind, size)
	}
	if enc == nil {
		return nil, errors.Wrapf(ErrEncoderMustBeSet, "%s encoder", kind)
	}
	return &residual[T]{enc: enc, size: size}, nil
}

// NewFixedSize wraps enc so that every non-final call receives exactly size
// units. The final call receives the remainder, shorter than size and
// possibly empty.
func NewFixedSize[T Unit](size int, enc Encoder[T]) (Encoder[T], error) {
	r, err := newResidual("fixed size", size, enc)
	if err != nil {
		return nil, err
	}
	r.cut = func(avail int) int {
		if avail >= size {
			return size
		}
		return 0
	}
	return r, nil
}

// NewMultipleSize wraps enc so that every non-final call receives a positive
// multiple of size units. The final call receives everything left.
func NewMultipleSize[T Unit](size int, enc Encoder[T]) (Encoder[T], error) {
	r, err := newResidual("multiple size", size, enc)
	if err != nil {
		return nil, err
	}
	r.cut = func(avail int) int {
		return avail - avail%size
	}
	r.greedy = true
	r.wholeFinal = true
	return r, nil
}

// NewRound wraps enc so that every non-final call receives at least size
// units: data is held back until size units are available, then everything
// available is forwarded. The final call receives everything left.
func NewRound[T Unit](size int, enc Encoder[T]) (Encoder[T], error) {
	r, err := newResidual("round", size, enc)
	if err != nil {
		return nil, err
	}
	r.cut = func(avail int) int {
		if avail >= size {
			return avail
		}
		return 0
	}
	r.greedy = true
	r.wholeFinal = true
	return r, nil
}

// Encode implements Encoder.
func (r *residual[T]) Encode(data []T, final bool) ([]T, error) {
	if r.done {
		return nil, nil
	}
	if final && r.wholeFinal {
		return r.finish(r.join(data))
	}

	var out collector[T]
	if len(r.pending) > 0 {
		take := len(data)
		if !r.greedy {
			take = min(take, r.size-len(r.pending))
		}
		r.pending = append(r.pending, data[:take]...)
		data = data[take:]
		rest, err := r.forward(&out, r.pending)
		if err != nil {
			return nil, err
		}
		r.pending = rest
		if len(rest) == 0 {
			r.pending = nil
		}
	}

	// pending is empty from here unless data has been fully consumed.
	rest, err := r.forward(&out, data)
	if err != nil {
		return nil, err
	}
	if final {
		tail := r.pending
		if len(tail) == 0 {
			tail = rest
		}
		res, err := r.finish(tail)
		if err != nil {
			return nil, err
		}
		out.add(res)
		return out.result(), nil
	}
	if len(rest) > 0 {
		r.pending = append(r.pending, rest...)
	}
	return out.result(), nil
}

// forward sends every non-final cut of buf to the wrapped encoder and returns
// what is left.
func (r *residual[T]) forward(out *collector[T], buf []T) ([]T, error) {
	for {
		n := r.cut(len(buf))
		if n == 0 {
			return buf, nil
		}
		res, err := r.enc.Encode(buf[:n:n], false)
		if err != nil {
			return nil, err
		}
		out.add(res)
		buf = buf[n:]
	}
}

func (r *residual[T]) join(data []T) []T {
	if len(r.pending) == 0 {
		return data
	}
	return append(r.pending, data...)
}

func (r *residual[T]) finish(tail []T) ([]T, error) {
	r.done = true
	r.pending = nil
	return r.enc.Encode(tail, true)
}

// collector gathers the outputs of several calls of a wrapped encoder. A
// single output is returned as is.
type collector[T Unit] struct {
	parts [][]T
	total int
}

func (c *collector[T]) add(part []T) {
	if len(part) == 0 {
		return
	}
	c.parts = append(c.parts, part)
	c.total += len(part)
}

func (c *collector[T]) result() []T {
	switch len(c.parts) {
	case 0:
		return nil
	case 1:
		return c.parts[0]
	}
	out := make([]T, 0, c.total)
	for _, part := range c.parts {
		out = append(out, part...)
	}
	return out
}

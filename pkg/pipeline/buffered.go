package pipeline

// Result is what a BufferedFunc returns: either Ready with the encoded data,
// or NotYetReady when it wants more input before producing anything.
type Result[T Unit] struct {
	data  []T
	ready bool
}

// Ready returns a result accepting the input and carrying its encoded form.
func Ready[T Unit](data []T) Result[T] {
	return Result[T]{data: data, ready: true}
}

// NotYetReady returns a result asking for more input.
func NotYetReady[T Unit]() Result[T] {
	return Result[T]{}
}

// IsReady reports whether the input was accepted.
func (r Result[T]) IsReady() bool { return r.ready }

// Data returns the encoded data of a ready result.
func (r Result[T]) Data() []T { return r.data }

// BufferedFunc decides by itself whether the input it is given is enough.
type BufferedFunc[T Unit] func(data []T, final bool) (Result[T], error)

// Buffered keeps concatenating input until its function accepts it.
type Buffered[T Unit] struct {
	fn      BufferedFunc[T]
	pending []T
	done    bool
}

// NewBuffered wraps fn. Each call hands fn everything received since it last
// accepted its input. The final call always hands fn everything left; a
// NotYetReady answer to it produces no output.
func NewBuffered[T Unit](fn BufferedFunc[T]) (*Buffered[T], error) {
	if fn == nil {
		return nil, ErrEncoderMustBeSet
	}
	return &Buffered[T]{fn: fn}, nil
}

// Encode implements Encoder.
func (b *Buffered[T]) Encode(data []T, final bool) ([]T, error) {
	if b.done {
		return nil, nil
	}
	buf := data
	if len(b.pending) > 0 {
		b.pending = append(b.pending, data...)
		buf = b.pending
	}

	res, err := b.fn(buf, final)
	if err != nil {
		return nil, err
	}
	if final {
		b.done = true
		b.pending = nil
		return res.data, nil
	}
	if res.ready {
		b.pending = nil
		return res.data, nil
	}
	if len(b.pending) == 0 && len(data) > 0 {
		b.pending = append([]T(nil), data...)
	}
	return nil, nil
}

var _ Encoder[byte] = (*Buffered[byte])(nil)

package pipeline

import "github.com/rs/zerolog"

// Encoder transforms the blocks of a pipeline.
//
// Encode is called once per block while the source has data, then exactly once
// more with final set to true and the trailing, possibly empty, data. The
// returned slice may be empty, shorter or longer than data. Returning an empty
// slice on a non-final call means there is nothing to hand downstream yet.
//
// data may alias the source storage or a buffer owned by an upstream encoder;
// an encoder must not retain it past the call.
type Encoder[T Unit] interface {
	Encode(data []T, final bool) ([]T, error)
}

// EncoderFunc adapts a function to the Encoder interface.
type EncoderFunc[T Unit] func(data []T, final bool) ([]T, error)

// Encode implements Encoder.
func (f EncoderFunc[T]) Encode(data []T, final bool) ([]T, error) {
	return f(data, final)
}

// Compose returns a single encoder running encs in order with the same
// semantics as a pipeline chain: a non-final empty output stops the block and
// the final call reaches every encoder exactly once.
func Compose[T Unit](encs ...Encoder[T]) (Encoder[T], error) {
	c := &chain[T]{source: sourceStage(), logger: zerolog.Nop()}
	for i, enc := range encs {
		if enc == nil {
			return nil, ErrEncoderMustBeSet
		}
		c.stages = append(c.stages, chainStage[T]{enc: enc, info: encoderStage(i, "")})
	}
	return EncoderFunc[T](c.run), nil
}

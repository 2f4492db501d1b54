package pipeline_test

import (
	"context"
	"testing"

	"github.com/askiada/go-blockpipe/pkg/pipeline"
)

func createData(t *testing.T, total int) []byte {
	t.Helper()
	data := make([]byte, total)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return data
}

// recorder is an identity encoder remembering the size of every call it gets.
type recorder struct {
	calls      []int
	finalCalls int
	finalSizes []int
}

func (r *recorder) Encode(data []byte, final bool) ([]byte, error) {
	if final {
		r.finalCalls++
		r.finalSizes = append(r.finalSizes, len(data))
	} else {
		r.calls = append(r.calls, len(data))
	}
	return data, nil
}

func duplicate(times int) pipeline.EncoderFunc[byte] {
	return func(data []byte, _ bool) ([]byte, error) {
		out := make([]byte, 0, len(data)*times)
		for _, b := range data {
			for i := 0; i < times; i++ {
				out = append(out, b)
			}
		}
		return out, nil
	}
}

func increment(data []byte, _ bool) ([]byte, error) {
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b + 1
	}
	return out, nil
}

func duplicateAll(t *testing.T, data []byte, times int) []byte {
	t.Helper()
	out, err := duplicate(times)(data, true)
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func runToBuffer(t *testing.T, src pipeline.Source[byte], encs []pipeline.Encoder[byte], opts ...pipeline.Option) ([]byte, int64, error) {
	t.Helper()
	pipe, err := pipeline.New(src, opts...)
	if err != nil {
		return nil, 0, err
	}
	err = pipe.AddEncoders(encs...)
	if err != nil {
		return nil, 0, err
	}
	sink := pipeline.NewBufferSink[byte](0)
	total, err := pipe.Run(context.Background(), sink)
	return sink.Units(), total, err
}

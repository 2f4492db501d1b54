package pipeline_test

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-blockpipe/pkg/pipeline"
)

func TestSliceSource(t *testing.T) {
	t.Parallel()

	data := []byte("abcdefg")
	src := pipeline.NewSliceSource(data)

	seg, err := src.Read(3)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), seg.Data())
	assert.False(t, seg.Final())
	assert.Equal(t, pipeline.Borrowed, seg.Kind())

	seg, err = src.Read(3)
	require.NoError(t, err)
	assert.Equal(t, []byte("def"), seg.Data())
	assert.False(t, seg.Final())

	seg, err = src.Read(3)
	require.NoError(t, err)
	assert.Equal(t, []byte("g"), seg.Data())
	assert.True(t, seg.Final())

	seg, err = src.Read(3)
	require.NoError(t, err)
	assert.Zero(t, seg.Len())
	assert.True(t, seg.Final())
}

func TestSegmentOwned(t *testing.T) {
	t.Parallel()

	data := []byte("abc")
	seg := pipeline.BorrowedSegment(data, true)
	owned := seg.Owned()
	assert.Equal(t, pipeline.Owned, owned.Kind())
	assert.True(t, owned.Final())
	owned.Data()[0] = 'z'
	assert.Equal(t, []byte("abc"), data)

	again := owned.Owned()
	again.Data()[1] = 'y'
	assert.Equal(t, []byte("zyc"), owned.Data())

	assert.Equal(t, "borrowed", pipeline.Borrowed.String())
	assert.Equal(t, "owned", pipeline.Owned.String())
}

func TestChanSource(t *testing.T) {
	t.Parallel()

	ch := make(chan []byte, 3)
	ch <- []byte("hello")
	ch <- []byte{}
	ch <- []byte("!")
	close(ch)

	src := pipeline.NewChanSource(ch)

	seg, err := src.Read(3)
	require.NoError(t, err)
	assert.Equal(t, []byte("hel"), seg.Data())
	assert.Equal(t, pipeline.Owned, seg.Kind())

	seg, err = src.Read(3)
	require.NoError(t, err)
	assert.Equal(t, []byte("lo"), seg.Data())

	seg, err = src.Read(3)
	require.NoError(t, err)
	assert.Zero(t, seg.Len())
	assert.False(t, seg.Final())

	seg, err = src.Read(3)
	require.NoError(t, err)
	assert.Equal(t, []byte("!"), seg.Data())

	seg, err = src.Read(3)
	require.NoError(t, err)
	assert.True(t, seg.Final())

	seg, err = src.Read(3)
	require.NoError(t, err)
	assert.True(t, seg.Final())
}

func TestRunZeroReads(t *testing.T) {
	t.Parallel()

	newSource := func() pipeline.Source[byte] {
		ch := make(chan []byte, 4)
		ch <- []byte("ab")
		ch <- nil
		ch <- []byte("cd")
		close(ch)
		return pipeline.NewChanSource(ch)
	}

	rec := &recorder{}
	got, total, err := runToBuffer(t, newSource(), []pipeline.Encoder[byte]{rec})
	require.NoError(t, err)
	assert.Equal(t, []byte("abcd"), got)
	assert.Equal(t, int64(4), total)
	assert.Equal(t, []int{2, 2}, rec.calls)
	assert.Equal(t, 1, rec.finalCalls)

	rec = &recorder{}
	got, total, err = runToBuffer(t, newSource(), []pipeline.Encoder[byte]{rec}, pipeline.WithEndOnZeroRead())
	require.NoError(t, err)
	assert.Equal(t, []byte("ab"), got)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, 1, rec.finalCalls)
}

type oversizedSource struct{}

func (oversizedSource) Read(maxUnits int) (pipeline.Segment[byte], error) {
	return pipeline.OwnedSegment(make([]byte, maxUnits+1), false), nil
}

func TestRunOversizedSource(t *testing.T) {
	t.Parallel()

	_, _, err := runToBuffer(t, oversizedSource{}, nil, pipeline.WithBlockSize(4))
	require.Error(t, err)
	assert.True(t, pipeline.IsIOError(err))
}

func TestRunReaderSourceFromPipe(t *testing.T) {
	t.Parallel()

	data := createData(t, 100_000)
	reader, writer := io.Pipe()

	group, ctx := errgroup.WithContext(context.Background())
	group.Go(func() error {
		defer writer.Close()
		for start := 0; start < len(data); start += 777 {
			end := min(start+777, len(data))
			_, err := writer.Write(data[start:end])
			if err != nil {
				return err
			}
		}
		return nil
	})

	pipe, err := pipeline.New[byte](pipeline.NewReaderSource(reader), pipeline.WithBlockSize(1000))
	require.NoError(t, err)
	require.NoError(t, pipe.AddEncoder("double", duplicate(2)))

	sink := pipeline.NewBufferSink[byte](len(data) * 2)
	total, err := pipe.Run(ctx, sink)
	require.NoError(t, err)
	require.NoError(t, group.Wait())

	assert.Equal(t, int64(len(data)), total)
	assert.Equal(t, duplicateAll(t, data, 2), sink.Units())
}

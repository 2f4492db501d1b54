package pipeline_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-blockpipe/pkg/pipeline"
)

func TestFixedSinkWindow(t *testing.T) {
	t.Parallel()

	buf := []byte("..........")
	sink, err := pipeline.NewFixedSink(buf, 2, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, sink.Remaining())

	n, err := sink.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 2, sink.Remaining())

	_, err = sink.Write([]byte("def"))
	require.ErrorIs(t, err, pipeline.ErrSinkOverflow)

	n, err = sink.Write([]byte("de"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte("..abcde..."), buf)
	assert.Zero(t, sink.Remaining())
}

func TestFixedSinkInvalidWindow(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 10)
	for _, tc := range []struct {
		offset, length int
	}{
		{-1, 2},
		{0, 11},
		{8, 3},
		{11, -1},
	} {
		_, err := pipeline.NewFixedSink(buf, tc.offset, tc.length)
		require.ErrorIs(t, err, pipeline.ErrInvalidWindow, "offset %d length %d", tc.offset, tc.length)
	}

	sink, err := pipeline.NewFixedSink(buf, 10, -1)
	require.NoError(t, err)
	assert.Zero(t, sink.Remaining())
}

func TestRunFixedSink(t *testing.T) {
	t.Parallel()

	data := createData(t, 300)
	buf := make([]byte, 320)
	sink, err := pipeline.NewFixedSink(buf, 10, 300)
	require.NoError(t, err)

	pipe, err := pipeline.New[byte](pipeline.NewSliceSource(data), pipeline.WithBlockSize(64))
	require.NoError(t, err)
	total, err := pipe.Run(context.Background(), sink)
	require.NoError(t, err)
	assert.Equal(t, int64(300), total)
	assert.Equal(t, data, buf[10:310])
	assert.Equal(t, make([]byte, 10), buf[:10])
}

func TestBufferSink(t *testing.T) {
	t.Parallel()

	sink := pipeline.NewBufferSink[rune](-1)
	_, err := sink.Write([]rune("ab"))
	require.NoError(t, err)
	_, err = sink.Write([]rune("ç"))
	require.NoError(t, err)
	assert.Equal(t, 3, sink.Len())
	assert.Equal(t, "abç", string(sink.Units()))

	sink.Reset()
	assert.Zero(t, sink.Len())
}

type tinyWriter struct {
	bytes.Buffer
	closed bool
}

func (w *tinyWriter) Write(p []byte) (int, error) {
	if len(p) > 1 {
		p = p[:1]
	}
	return w.Buffer.Write(p)
}

func (w *tinyWriter) Close() error {
	w.closed = true
	return nil
}

func TestWriterSink(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	pipe, err := pipeline.New[byte](pipeline.NewSliceSource([]byte("hello world")), pipeline.WithBlockSize(4))
	require.NoError(t, err)
	require.NoError(t, pipe.AddEncoder("increment", pipeline.EncoderFunc[byte](increment)))
	_, err = pipe.Run(context.Background(), pipeline.NewWriterSink(&out))
	require.NoError(t, err)
	assert.Equal(t, "ifmmp!xpsme", out.String())

	tiny := &tinyWriter{}
	sink := pipeline.NewWriterSink(tiny)
	n, err := sink.Write([]byte("abc"))
	require.ErrorIs(t, err, pipeline.ErrShortWrite)
	assert.Equal(t, 1, n)
	require.NoError(t, sink.Close())
	assert.True(t, tiny.closed)
}

func TestChanSink(t *testing.T) {
	t.Parallel()

	ch := make(chan []byte, 16)
	data := createData(t, 50)

	pipe, err := pipeline.New[byte](pipeline.NewSliceSource(data), pipeline.WithBlockSize(20))
	require.NoError(t, err)
	_, err = pipe.Run(context.Background(), pipeline.NewChanSink(ch))
	require.NoError(t, err)
	close(ch)

	var got []byte
	blocks := [][]byte{}
	for block := range ch {
		blocks = append(blocks, block)
		got = append(got, block...)
	}
	require.Len(t, blocks, 3)
	assert.Len(t, blocks[2], 10)
	assert.Equal(t, data, got)

	blocks[0][0] = 200
	assert.Equal(t, byte(0), data[0])
}

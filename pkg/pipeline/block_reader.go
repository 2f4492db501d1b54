package pipeline

import (
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/askiada/go-blockpipe/pkg/pipeline/model"
)

// zeroReadWarnEvery is how many consecutive zero-unit reads are retried before
// a warning is logged.
const zeroReadWarnEvery = 1024

// blockReader turns a Source into a sequence of blocks honouring the block
// size, the read limit and the zero-read policy. It reports exactly one final
// segment, then keeps returning empty final segments.
type blockReader[T Unit] struct {
	src           Source[T]
	stage         *model.StageInfo
	hooks         hooks
	logger        zerolog.Logger
	blockSize     int
	limit         int64
	read          int64
	endOnZeroRead bool
	protect       bool
	final         bool
}

func (br *blockReader[T]) next() (Segment[T], error) {
	if br.final {
		return OwnedSegment[T](nil, true), nil
	}

	maxUnits := br.blockSize
	if br.limit >= 0 {
		remaining := br.limit - br.read
		if remaining <= 0 {
			br.final = true
			return br.emit(OwnedSegment[T](nil, true), 0)
		}
		if remaining < int64(maxUnits) {
			maxUnits = int(remaining)
		}
	}

	zeroReads := 0
	for {
		start := time.Now()
		seg, err := br.src.Read(maxUnits)
		if err != nil {
			return Segment[T]{}, newIOError("read", br.stage.Name, err)
		}
		if seg.Len() > maxUnits {
			return Segment[T]{}, newIOError("read", br.stage.Name,
				errors.Errorf("source returned %d units, at most %d were requested", seg.Len(), maxUnits))
		}

		if seg.Len() == 0 && !seg.Final() {
			if br.endOnZeroRead {
				br.logger.Debug().Int64("units_read", br.read).Msg("zero-unit read, ending source")
				seg = seg.asFinal()
			} else {
				zeroReads++
				if zeroReads%zeroReadWarnEvery == 0 {
					br.logger.Warn().Int("zero_reads", zeroReads).Msg("source keeps returning zero units")
				}
				continue
			}
		}

		br.read += int64(seg.Len())
		if br.limit >= 0 && br.read >= br.limit {
			seg = seg.asFinal()
		}
		if seg.Final() {
			br.final = true
		}
		if br.protect {
			seg = seg.Owned()
		}
		return br.emit(seg, time.Since(start))
	}
}

func (br *blockReader[T]) emit(seg Segment[T], elapsed time.Duration) (Segment[T], error) {
	br.logger.Debug().
		Int("units", seg.Len()).
		Bool("final", seg.Final()).
		Stringer("kind", seg.Kind()).
		Msg("block read")
	err := br.hooks.onSourceRead(br.stage, seg.Len(), seg.Final(), elapsed)
	if err != nil {
		return Segment[T]{}, err
	}
	return seg, nil
}

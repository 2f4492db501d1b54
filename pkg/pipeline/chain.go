package pipeline

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/askiada/go-blockpipe/pkg/pipeline/model"
)

type chainStage[T Unit] struct {
	enc  Encoder[T]
	info *model.StageInfo
}

// chain drives one block through the encoders, in order.
type chain[T Unit] struct {
	source *model.StageInfo
	stages []chainStage[T]
	hooks  hooks
	logger zerolog.Logger
}

func sourceStage() *model.StageInfo {
	return &model.StageInfo{Type: model.SourceStageType, Name: "source", Index: -1}
}

func encoderStage(index int, name string) *model.StageInfo {
	if name == "" {
		name = fmt.Sprintf("encoder-%d", index)
	}
	return &model.StageInfo{Type: model.EncoderStageType, Name: name, Index: index}
}

// last returns the stage whose output reaches the sink.
func (c *chain[T]) last() *model.StageInfo {
	if len(c.stages) == 0 {
		return c.source
	}
	return c.stages[len(c.stages)-1].info
}

// run passes data through every encoder. It returns early with no output when
// an encoder produces nothing on a non-final call. On the final call every
// encoder runs, whatever its predecessors returned.
func (c *chain[T]) run(data []T, final bool) ([]T, error) {
	parent := c.source
	for i, stage := range c.stages {
		start := time.Now()
		out, err := encode(stage.enc, data, final)
		if err != nil {
			return nil, newEncodingError(stage.info.Name, i, final, err)
		}
		err = c.hooks.onEncoderOutput(parent, stage.info, len(data), len(out), final, time.Since(start))
		if err != nil {
			return nil, err
		}
		if final {
			c.logger.Debug().Str("stage", stage.info.Name).Int("units", len(out)).Msg("final call delivered")
		} else if len(out) == 0 {
			c.logger.Trace().Str("stage", stage.info.Name).Int("units_in", len(data)).Msg("chain short-circuited")
			return nil, nil
		}
		data = out
		parent = stage.info
	}
	return data, nil
}

func encode[T Unit](enc Encoder[T], data []T, final bool) (out []T, err error) {
	defer func() {
		if r := recover(); r != nil {
			if rErr, ok := r.(error); ok {
				err = errors.Wrap(rErr, "encoder panicked")
				return
			}
			err = errors.Errorf("encoder panicked: %v", r)
		}
	}()
	return enc.Encode(data, final)
}

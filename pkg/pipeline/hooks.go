package pipeline

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-blockpipe/pkg/pipeline/model"
)

// hooks fans pipeline events out to the registered pipeline options.
type hooks []model.PipelineOption

func (h hooks) new() error {
	for _, opt := range h {
		err := opt.New()
		if err != nil {
			return errors.Wrap(err, "unable to apply pipeline option")
		}
	}
	return nil
}

func (h hooks) prepareStage(parentStage, stage *model.StageInfo) error {
	for _, opt := range h {
		err := opt.PrepareStage(parentStage, stage)
		if err != nil {
			return errors.Wrapf(err, "unable to prepare stage %s", stage.Name)
		}
	}
	return nil
}

func (h hooks) onSourceRead(stage *model.StageInfo, units int, final bool, elapsed time.Duration) error {
	for _, opt := range h {
		err := opt.OnSourceRead(stage, units, final, elapsed)
		if err != nil {
			return errors.Wrap(err, "unable to run source read function")
		}
	}
	return nil
}

func (h hooks) onEncoderOutput(parentStage, stage *model.StageInfo, unitsIn, unitsOut int, final bool, elapsed time.Duration) error {
	for _, opt := range h {
		err := opt.OnEncoderOutput(parentStage, stage, unitsIn, unitsOut, final, elapsed)
		if err != nil {
			return errors.Wrapf(err, "unable to run encoder output function for %s", stage.Name)
		}
	}
	return nil
}

func (h hooks) onSinkWrite(parentStage, stage *model.StageInfo, units int, elapsed time.Duration) error {
	for _, opt := range h {
		err := opt.OnSinkWrite(parentStage, stage, units, elapsed)
		if err != nil {
			return errors.Wrap(err, "unable to run sink write function")
		}
	}
	return nil
}

func (h hooks) afterSink(stage *model.StageInfo, total time.Duration) error {
	for _, opt := range h {
		err := opt.AfterSink(stage, total)
		if err != nil {
			return errors.Wrap(err, "unable to run after sink function")
		}
	}
	return nil
}

func (h hooks) finish() error {
	for _, opt := range h {
		err := opt.Finish()
		if err != nil {
			return errors.Wrap(err, "unable to finish pipeline option")
		}
	}
	return nil
}

package drawer

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-blockpipe/pkg/pipeline/measure"
	"github.com/askiada/go-blockpipe/pkg/pipeline/model"
)

type pipelineDrawer struct {
	Drawer
	m measure.Measure
}

func (pd *pipelineDrawer) New() error {
	return nil
}

func (pd *pipelineDrawer) PrepareStage(parentStage, stage *model.StageInfo) error {
	err := pd.AddStage(stage.Name)
	if err != nil {
		return err
	}
	if parentStage == nil {
		return nil
	}
	err = pd.AddLink(parentStage.Name, stage.Name)
	if err != nil {
		return err
	}

	return nil
}

func (pd *pipelineDrawer) OnSourceRead(*model.StageInfo, int, bool, time.Duration) error {
	return nil
}

func (pd *pipelineDrawer) OnEncoderOutput(_, _ *model.StageInfo, _, _ int, _ bool, _ time.Duration) error {
	return nil
}

func (pd *pipelineDrawer) OnSinkWrite(_, _ *model.StageInfo, _ int, _ time.Duration) error {
	return nil
}

func (pd *pipelineDrawer) AfterSink(*model.StageInfo, time.Duration) error {
	return nil
}

func (pd *pipelineDrawer) Finish() error {
	if pd.m != nil {
		err := pd.AddMeasure(pd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure to drawer")
		}
	}
	err := pd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw pipeline")
	}

	return nil
}

// PipelineDrawer draws the stages of a pipeline once it is finished. When msr
// is not nil, stages and links are labelled with its metrics; msr must then be
// registered on the same pipeline with measure.PipelineMeasure.
func PipelineDrawer(drawer Drawer, msr measure.Measure) model.PipelineOption {
	return &pipelineDrawer{Drawer: drawer, m: msr}
}

package measure

import (
	"time"

	"github.com/askiada/go-blockpipe/pkg/pipeline/model"
)

type pipelineMeasure struct {
	Measure
}

func (pm *pipelineMeasure) New() error {
	return nil
}

func (pm *pipelineMeasure) PrepareStage(_, stage *model.StageInfo) error {
	pm.AddMetric(stage.Name)

	return nil
}

func (pm *pipelineMeasure) OnSourceRead(stage *model.StageInfo, units int, final bool, readDuration time.Duration) error {
	mt := pm.AddMetric(stage.Name)
	mt.AddDuration(readDuration)
	mt.AddUnits(0, units)
	if final {
		mt.AddFinalCall()
	}

	return nil
}

func (pm *pipelineMeasure) OnEncoderOutput(parentStage, stage *model.StageInfo, unitsIn, unitsOut int, final bool, computationDuration time.Duration) error {
	mt := pm.AddMetric(stage.Name)
	mt.AddDuration(computationDuration)
	mt.AddUnits(unitsIn, unitsOut)
	mt.AddTransport(parentStage.Name, unitsIn, computationDuration)
	if final {
		mt.AddFinalCall()
	}

	return nil
}

func (pm *pipelineMeasure) OnSinkWrite(parentStage, stage *model.StageInfo, units int, writeDuration time.Duration) error {
	mt := pm.AddMetric(stage.Name)
	mt.AddDuration(writeDuration)
	mt.AddUnits(units, units)
	mt.AddTransport(parentStage.Name, units, writeDuration)

	return nil
}

func (pm *pipelineMeasure) AfterSink(stage *model.StageInfo, totalDuration time.Duration) error {
	pm.AddMetric(stage.Name).SetTotalDuration(totalDuration)

	return nil
}

func (pm *pipelineMeasure) Finish() error {
	return nil
}

// PipelineMeasure records the activity of every stage of a pipeline in measure.
func PipelineMeasure(measure Measure) model.PipelineOption {
	return &pipelineMeasure{measure}
}

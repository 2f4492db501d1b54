package model

import "time"

// PipelineOption defines the interface for pipeline options.
//
// Hooks run synchronously on the goroutine driving the pipeline. An error
// returned by a hook stops the pipeline.
type PipelineOption interface {
	// New initialises the pipeline option.
	New() error

	pipelineStageOption
	pipelineSourceOption
	pipelineEncoderOption
	pipelineSinkOption

	// Finish runs after the pipeline is finished.
	Finish() error
}

// pipelineStageOption defines the interface for stage preparation at the pipeline level.
type pipelineStageOption interface {
	// PrepareStage runs once per stage before the first block is read.
	// parentStage is nil for the source.
	PrepareStage(parentStage, stage *StageInfo) error
}

// pipelineSourceOption defines the interface for source options at the pipeline level.
type pipelineSourceOption interface {
	// OnSourceRead runs everytime a segment is read from the source.
	OnSourceRead(stage *StageInfo, units int, final bool, readDuration time.Duration) error
}

// pipelineEncoderOption defines the interface for encoder options at the pipeline level.
type pipelineEncoderOption interface {
	// OnEncoderOutput runs everytime an encoder of the chain is called.
	OnEncoderOutput(parentStage, stage *StageInfo, unitsIn, unitsOut int, final bool, computationDuration time.Duration) error
}

// pipelineSinkOption defines the interface for sink options at the pipeline level.
type pipelineSinkOption interface {
	// OnSinkWrite runs everytime a block is written to the sink or served by the stream.
	OnSinkWrite(parentStage, stage *StageInfo, units int, writeDuration time.Duration) error
	// AfterSink runs once the last block has been delivered.
	AfterSink(stage *StageInfo, totalDuration time.Duration) error
}

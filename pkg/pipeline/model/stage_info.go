package model

type stageType string

const (
	SourceStageType  stageType = "source"
	EncoderStageType stageType = "encoder"
	SinkStageType    stageType = "sink"
	StreamStageType  stageType = "stream"
)

// StageInfo describes one stage of a pipeline.
type StageInfo struct {
	Type stageType
	Name string
	// Index is the position of an encoder in the chain, -1 for other stages.
	Index int
}


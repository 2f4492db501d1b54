package measure

import "time"

// Measure holds one metric per pipeline stage.
type Measure interface {
	AddMetric(name string) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
}

// Metric accumulates what went through a single stage.
type Metric interface {
	AddDuration(elapsed time.Duration)
	AddUnits(unitsIn, unitsOut int)
	AddFinalCall()
	AddTransport(inputStageName string, units int, elapsed time.Duration)
	AVGDuration() time.Duration
	Calls() int64
	FinalCalls() int64
	UnitsIn() int64
	UnitsOut() int64
	SetTotalDuration(endDuration time.Duration)
	GetTotalDuration() time.Duration
	AllTransports() map[string]*TransportInfo
}

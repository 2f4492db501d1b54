package measure

import (
	"sync"
	"time"
)

// TransportInfo describes what flowed on the link from an input stage.
type TransportInfo struct {
	Elapsed time.Duration
	Units   int64
	total   int64
}

type DefaultMetric struct {
	allTransports map[string]*TransportInfo
	mu            *sync.Mutex
	EndDuration   time.Duration
	stepElapsed   time.Duration
	total         int64
	finalCalls    int64
	unitsIn       int64
	unitsOut      int64
}

func (mt *DefaultMetric) AddDuration(elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.total++
	mt.stepElapsed += elapsed
}

func (mt *DefaultMetric) AddUnits(unitsIn, unitsOut int) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.unitsIn += int64(unitsIn)
	mt.unitsOut += int64(unitsOut)
}

func (mt *DefaultMetric) AddFinalCall() {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.finalCalls++
}

func (mt *DefaultMetric) SetTotalDuration(endDuration time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.EndDuration = endDuration
}

func (mt *DefaultMetric) GetTotalDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.EndDuration
}

func (mt *DefaultMetric) AddTransport(inputStageName string, units int, elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	if mt.allTransports[inputStageName] == nil {
		mt.allTransports[inputStageName] = &TransportInfo{}
	}
	ch := mt.allTransports[inputStageName]
	ch.Elapsed += elapsed
	ch.Units += int64(units)
	ch.total++
}

func (mt *DefaultMetric) AVGDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	if mt.total == 0 {
		return time.Duration(0)
	}

	return round(time.Duration(float64(mt.stepElapsed) / float64(mt.total)))
}

func (mt *DefaultMetric) Calls() int64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.total
}

func (mt *DefaultMetric) FinalCalls() int64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.finalCalls
}

func (mt *DefaultMetric) UnitsIn() int64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.unitsIn
}

func (mt *DefaultMetric) UnitsOut() int64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.unitsOut
}

// AllTransports returns a copy of the links into the stage.
func (mt *DefaultMetric) AllTransports() map[string]*TransportInfo {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	all := make(map[string]*TransportInfo, len(mt.allTransports))
	for name, info := range mt.allTransports {
		cpy := *info
		all[name] = &cpy
	}

	return all
}

func round(d time.Duration) time.Duration {
	switch {
	case d > time.Hour:
		d = d.Round(time.Hour)
	case d > time.Minute:
		d = d.Round(time.Minute)
	case d > time.Second:
		d = d.Round(time.Second)
	case d > time.Millisecond:
		d = d.Round(time.Millisecond)
	case d > time.Microsecond:
		d = d.Round(time.Microsecond)
	}

	return d
}

var _ Metric = (*DefaultMetric)(nil)

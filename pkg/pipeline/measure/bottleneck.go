package measure

import (
	"sort"
	"time"
)

// StageCost is the time spent in a single stage.
type StageCost struct {
	Name  string
	Calls int64
	AVG   time.Duration
	Total time.Duration
}

// Bottlenecks returns the cost of every stage of m, the most expensive first.
// Stages with the same cost are sorted by name.
func Bottlenecks(m Measure) []StageCost {
	all := m.AllMetrics()
	costs := make([]StageCost, 0, len(all))
	for name, mt := range all {
		calls := mt.Calls()
		avg := mt.AVGDuration()
		costs = append(costs, StageCost{
			Name:  name,
			Calls: calls,
			AVG:   avg,
			Total: avg * time.Duration(calls),
		})
	}

	sort.Slice(costs, func(i, j int) bool {
		if costs[i].Total != costs[j].Total {
			return costs[i].Total > costs[j].Total
		}
		return costs[i].Name < costs[j].Name
	})

	return costs
}

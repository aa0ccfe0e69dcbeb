package trace

// TraceSummary aggregates statistics from a ScheduleTrace.
type TraceSummary struct {
	RoutedMeasurements int
	RoutingCells       int
	MaxRegionSize      int
	MeanRegionSize     float64
	IdleSlices         int
	MaxWait            int
	ConsumedByKind     map[string]int // magic state kind → count consumed
	Failures           int
}

// Summarize computes aggregate statistics from a ScheduleTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *ScheduleTrace) *TraceSummary {
	summary := &TraceSummary{
		ConsumedByKind: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.RoutedMeasurements = len(st.Routings)
	for _, r := range st.Routings {
		summary.RoutingCells += r.RegionSize
		if r.RegionSize > summary.MaxRegionSize {
			summary.MaxRegionSize = r.RegionSize
		}
	}
	if len(st.Routings) > 0 {
		summary.MeanRegionSize = float64(summary.RoutingCells) / float64(len(st.Routings))
	}

	for _, w := range st.Waits {
		summary.IdleSlices += w.IdleSlices
		if w.IdleSlices > summary.MaxWait {
			summary.MaxWait = w.IdleSlices
		}
	}

	for _, c := range st.Consumptions {
		summary.ConsumedByKind[c.Kind]++
	}

	summary.Failures = len(st.Failures)

	return summary
}

package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures routing, magic-state and failure decisions.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// ScheduleTrace collects decision records during one compilation.
type ScheduleTrace struct {
	Level        TraceLevel
	Routings     []RoutingRecord
	Waits        []WaitRecord
	Consumptions []ConsumptionRecord
	Failures     []FailureRecord
}

// NewScheduleTrace creates a ScheduleTrace ready for recording.
func NewScheduleTrace(level TraceLevel) *ScheduleTrace {
	return &ScheduleTrace{
		Level:        level,
		Routings:     make([]RoutingRecord, 0),
		Waits:        make([]WaitRecord, 0),
		Consumptions: make([]ConsumptionRecord, 0),
		Failures:     make([]FailureRecord, 0),
	}
}

// Enabled reports whether records should be collected.
// Safe on a nil trace.
func (st *ScheduleTrace) Enabled() bool {
	return st != nil && st.Level == TraceLevelDecisions
}

// RecordRouting appends a routing record.
func (st *ScheduleTrace) RecordRouting(record RoutingRecord) {
	st.Routings = append(st.Routings, record)
}

// RecordWait appends a magic-state wait record.
func (st *ScheduleTrace) RecordWait(record WaitRecord) {
	st.Waits = append(st.Waits, record)
}

// RecordConsumption appends a magic-state consumption record.
func (st *ScheduleTrace) RecordConsumption(record ConsumptionRecord) {
	st.Consumptions = append(st.Consumptions, record)
}

// RecordFailure appends a failure record.
func (st *ScheduleTrace) RecordFailure(record FailureRecord) {
	st.Failures = append(st.Failures, record)
}

package pipeline

import (
	"time"

	"alertscope/core"
	"alertscope/sequence"
	"alertscope/summary"
	"alertscope/temporal"
)

// Report is the serializable snapshot of a Result handed to export
type Report struct {
	RunID         string                    `json:"run_id" yaml:"run_id" msgpack:"run_id"`
	StartedAt     time.Time                 `json:"started_at" yaml:"started_at" msgpack:"started_at"`
	DurationMs    int64                     `json:"duration_ms" yaml:"duration_ms" msgpack:"duration_ms"`
	WindowLengths []int                     `json:"window_lengths" yaml:"window_lengths" msgpack:"window_lengths"`
	PatternSource string                    `json:"pattern_source" yaml:"pattern_source" msgpack:"pattern_source"`
	Summary       *summary.Summary          `json:"summary" yaml:"summary" msgpack:"summary"`
	Metrics       []summary.Metric          `json:"metrics" yaml:"metrics" msgpack:"metrics"`
	Temporal      temporal.Snapshot         `json:"temporal" yaml:"temporal" msgpack:"temporal"`
	Patterns      []sequence.Result[string] `json:"patterns" yaml:"patterns" msgpack:"patterns"`
	Events        []core.AnnotatedEvent     `json:"events,omitempty" yaml:"events,omitempty" msgpack:"events,omitempty"`
}

// Report builds the export snapshot. Events are included only when
// withEvents is set since they dominate the document size.
func (r *Result) Report(withEvents bool) Report {
	rep := Report{
		RunID:         r.RunID,
		StartedAt:     r.StartedAt,
		DurationMs:    r.Duration.Milliseconds(),
		WindowLengths: r.Config.WindowLengths,
		PatternSource: r.Config.PatternSource.String(),
		Summary:       r.Summary,
		Metrics:       r.Summary.Metrics(),
		Temporal:      r.Temporal.Snapshot(),
		Patterns:      r.Patterns,
	}
	if withEvents {
		rep.Events = r.Events
	}
	return rep
}

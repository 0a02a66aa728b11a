package temporal

import "alertscope/core"

// HourCount is one hour bucket in serialized form
type HourCount struct {
	Hour  int `json:"hour" yaml:"hour" msgpack:"hour"`
	Count int `json:"count" yaml:"count" msgpack:"count"`
}

// MatrixRow is one date row of the heatmap matrix
type MatrixRow struct {
	Date  core.Date        `json:"date" yaml:"date" msgpack:"date"`
	Hours [HoursPerDay]int `json:"hours" yaml:"hours" msgpack:"hours"`
}

// Snapshot is the serializable form of Aggregates handed to export.
// Optional values are nil when no event had a valid timestamp.
type Snapshot struct {
	Hours         []HourCount    `json:"hours" yaml:"hours" msgpack:"hours"`
	PeakHour      *HourCount     `json:"peak_hour,omitempty" yaml:"peak_hour,omitempty" msgpack:"peak_hour,omitempty"`
	Dates         []DateCount    `json:"dates" yaml:"dates" msgpack:"dates"`
	MeanPerDate   *float64       `json:"mean_per_date,omitempty" yaml:"mean_per_date,omitempty" msgpack:"mean_per_date,omitempty"`
	Matrix        []MatrixRow    `json:"matrix" yaml:"matrix" msgpack:"matrix"`
	Weekdays      []WeekdayCount `json:"weekdays" yaml:"weekdays" msgpack:"weekdays"`
	ValidEvents   int            `json:"valid_events" yaml:"valid_events" msgpack:"valid_events"`
	SkippedEvents int            `json:"skipped_events" yaml:"skipped_events" msgpack:"skipped_events"`
}

// Snapshot materializes the aggregates. Only hours with at least one event
// are listed; the matrix keeps all 24 cells per date.
func (a *Aggregates) Snapshot() Snapshot {
	s := Snapshot{
		Hours:         []HourCount{},
		Dates:         a.Dates.Entries(),
		Matrix:        make([]MatrixRow, 0, len(a.Matrix.dates)),
		Weekdays:      []WeekdayCount{},
		ValidEvents:   a.Valid,
		SkippedEvents: a.Skipped,
	}

	for _, h := range a.Hours.Hours() {
		s.Hours = append(s.Hours, HourCount{Hour: h, Count: a.Hours.Count(h)})
	}
	if hour, count, ok := a.Hours.Peak(); ok {
		s.PeakHour = &HourCount{Hour: hour, Count: count}
	}
	if mean, ok := a.Dates.Mean(); ok {
		s.MeanPerDate = &mean
	}
	for _, d := range a.Matrix.dates {
		s.Matrix = append(s.Matrix, MatrixRow{Date: d, Hours: a.Matrix.Row(d)})
	}
	if !a.Empty() {
		s.Weekdays = a.Weekdays.Entries()
	}
	return s
}

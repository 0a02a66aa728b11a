// Package summary reduces classified events and their temporal aggregates to
// a fixed set of scalar statistics and frequency rankings.
//
// Statistics that need data the run does not have are nil. A nil field means
// "unavailable" and is rendered as such; it is never replaced by zero.
package summary

import (
	"math"
	"sort"
	"time"

	"alertscope/core"
	"alertscope/temporal"
)

// DefaultTopN is the number of entries kept in each ranking
const DefaultTopN = 10

// Ranked is one entry of a frequency ranking
type Ranked struct {
	Value string  `json:"value" yaml:"value" msgpack:"value"`
	Count int     `json:"count" yaml:"count" msgpack:"count"`
	Share float64 `json:"share" yaml:"share" msgpack:"share"`
}

// CategoryStats describes the events of one main category
type CategoryStats struct {
	MainCategory       string   `json:"main_category" yaml:"main_category" msgpack:"main_category"`
	Count              int      `json:"count" yaml:"count" msgpack:"count"`
	DistinctSignatures int      `json:"distinct_signatures" yaml:"distinct_signatures" msgpack:"distinct_signatures"`
	MeanHour           *float64 `json:"mean_hour,omitempty" yaml:"mean_hour,omitempty" msgpack:"mean_hour,omitempty"`
	StdDevHour         *float64 `json:"stddev_hour,omitempty" yaml:"stddev_hour,omitempty" msgpack:"stddev_hour,omitempty"`
}

// Summary is the scalar view of one analysis run
type Summary struct {
	TotalEvents            int        `json:"total_events" yaml:"total_events" msgpack:"total_events"`
	DistinctSignatures     int        `json:"distinct_signatures" yaml:"distinct_signatures" msgpack:"distinct_signatures"`
	DistinctMainCategories int        `json:"distinct_main_categories" yaml:"distinct_main_categories" msgpack:"distinct_main_categories"`
	DistinctDates          *int       `json:"distinct_dates,omitempty" yaml:"distinct_dates,omitempty" msgpack:"distinct_dates,omitempty"`
	TopSignature           *string    `json:"top_signature,omitempty" yaml:"top_signature,omitempty" msgpack:"top_signature,omitempty"`
	TopMainCategory        *string    `json:"top_main_category,omitempty" yaml:"top_main_category,omitempty" msgpack:"top_main_category,omitempty"`
	ModalHour              *int       `json:"modal_hour,omitempty" yaml:"modal_hour,omitempty" msgpack:"modal_hour,omitempty"`
	UniquenessRatio        *float64   `json:"uniqueness_ratio,omitempty" yaml:"uniqueness_ratio,omitempty" msgpack:"uniqueness_ratio,omitempty"`
	Earliest               *time.Time `json:"earliest,omitempty" yaml:"earliest,omitempty" msgpack:"earliest,omitempty"`
	Latest                 *time.Time `json:"latest,omitempty" yaml:"latest,omitempty" msgpack:"latest,omitempty"`
	MeanEventsPerDate      *float64   `json:"mean_events_per_date,omitempty" yaml:"mean_events_per_date,omitempty" msgpack:"mean_events_per_date,omitempty"`
	MeanEventsPerHour      *float64   `json:"mean_events_per_hour,omitempty" yaml:"mean_events_per_hour,omitempty" msgpack:"mean_events_per_hour,omitempty"`

	TopSignatures    []Ranked        `json:"top_signatures" yaml:"top_signatures" msgpack:"top_signatures"`
	MainCategories   []Ranked        `json:"main_categories" yaml:"main_categories" msgpack:"main_categories"`
	DetailCategories []Ranked        `json:"detailed_categories" yaml:"detailed_categories" msgpack:"detailed_categories"`
	Categories       []CategoryStats `json:"category_stats" yaml:"category_stats" msgpack:"category_stats"`
}

// Reduce computes the summary of a run. agg must come from the same events.
// topN <= 0 selects DefaultTopN.
func Reduce(events []core.AnnotatedEvent, agg *temporal.Aggregates, topN int) *Summary {
	if topN <= 0 {
		topN = DefaultTopN
	}
	if agg == nil {
		agg = temporal.Aggregate(events)
	}

	total := len(events)
	signatures := newCounter()
	mains := newCounter()
	details := newCounter()
	for _, e := range events {
		signatures.add(e.Signature)
		mains.add(e.MainCategory)
		details.add(e.DetailedCategory)
	}

	s := &Summary{
		TotalEvents:            total,
		DistinctSignatures:     signatures.len(),
		DistinctMainCategories: mains.len(),
		TopSignatures:          signatures.ranking(total, topN),
		MainCategories:         mains.ranking(total, 0),
		DetailCategories:       details.ranking(total, topN),
	}
	s.Categories = categoryStats(events, s.MainCategories)

	if total > 0 {
		s.TopSignature = ptr(s.TopSignatures[0].Value)
		s.TopMainCategory = ptr(s.MainCategories[0].Value)
		s.UniquenessRatio = ptr(float64(signatures.len()) / float64(total))
	}

	if !agg.Empty() {
		s.DistinctDates = ptr(agg.Dates.Len())
		if hour, _, ok := agg.Hours.Peak(); ok {
			s.ModalHour = ptr(hour)
		}
		if mean, ok := agg.Dates.Mean(); ok {
			s.MeanEventsPerDate = ptr(mean)
		}
		s.MeanEventsPerHour = ptr(float64(agg.Valid) / float64(temporal.HoursPerDay))
		s.Earliest, s.Latest = timeRange(events)
	}

	return s
}

func ptr[T any](v T) *T {
	return &v
}

// counter counts values and remembers first-seen order for stable ranking
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(v string) {
	if _, ok := c.counts[v]; !ok {
		c.order = append(c.order, v)
	}
	c.counts[v]++
}

func (c *counter) len() int {
	return len(c.order)
}

// ranking sorts by count descending, ties keep first-seen order.
// limit <= 0 keeps every value.
func (c *counter) ranking(total, limit int) []Ranked {
	out := make([]Ranked, 0, len(c.order))
	for _, v := range c.order {
		out = append(out, Ranked{Value: v, Count: c.counts[v]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Share = float64(out[i].Count) / float64(total)
	}
	return out
}

func timeRange(events []core.AnnotatedEvent) (earliest, latest *time.Time) {
	for _, e := range events {
		if !e.Timestamp.Valid {
			continue
		}
		ts := e.Timestamp.Time
		if earliest == nil || ts.Before(*earliest) {
			earliest = ptr(ts)
		}
		if latest == nil || ts.After(*latest) {
			latest = ptr(ts)
		}
	}
	return earliest, latest
}

// categoryStats groups events by main category in ranking order. Hour
// statistics use only events with a valid timestamp; the standard deviation
// is the sample deviation and needs at least two such events.
func categoryStats(events []core.AnnotatedEvent, order []Ranked) []CategoryStats {
	type acc struct {
		count int
		sigs  map[string]bool
		hours []int
	}
	groups := make(map[string]*acc, len(order))
	for _, e := range events {
		g, ok := groups[e.MainCategory]
		if !ok {
			g = &acc{sigs: make(map[string]bool)}
			groups[e.MainCategory] = g
		}
		g.count++
		g.sigs[e.Signature] = true
		if h, ok := e.Hour(); ok {
			g.hours = append(g.hours, h)
		}
	}

	out := make([]CategoryStats, 0, len(order))
	for _, r := range order {
		name := r.Value
		g := groups[name]
		cs := CategoryStats{
			MainCategory:       name,
			Count:              g.count,
			DistinctSignatures: len(g.sigs),
		}
		if n := len(g.hours); n > 0 {
			sum := 0.0
			for _, h := range g.hours {
				sum += float64(h)
			}
			mean := sum / float64(n)
			cs.MeanHour = ptr(mean)
			if n > 1 {
				ss := 0.0
				for _, h := range g.hours {
					d := float64(h) - mean
					ss += d * d
				}
				cs.StdDevHour = ptr(math.Sqrt(ss / float64(n-1)))
			}
		}
		out = append(out, cs)
	}
	return out
}

// Package temporal buckets annotated events by hour of day, calendar date,
// weekday, and date x hour. Events whose timestamp is invalid are counted as
// skipped and otherwise ignored.
package temporal

import (
	"sort"
	"time"

	"alertscope/core"
)

// HoursPerDay is the width of the hour histogram and of every matrix row
const HoursPerDay = 24

// HourHistogram counts events per hour of day
type HourHistogram struct {
	counts [HoursPerDay]int
	total  int
}

// Count returns the number of events in hour h, 0 when h is out of range
func (h *HourHistogram) Count(hour int) int {
	if hour < 0 || hour >= HoursPerDay {
		return 0
	}
	return h.counts[hour]
}

// Counts returns all 24 buckets, including empty ones
func (h *HourHistogram) Counts() [HoursPerDay]int {
	return h.counts
}

// Hours returns the hours holding at least one event, ascending
func (h *HourHistogram) Hours() []int {
	var out []int
	for hour, n := range h.counts {
		if n > 0 {
			out = append(out, hour)
		}
	}
	return out
}

// Total is the sum of all buckets
func (h *HourHistogram) Total() int {
	return h.total
}

// Peak returns the busiest hour and its count. Ties go to the lowest hour.
// ok is false when the histogram is empty.
func (h *HourHistogram) Peak() (hour, count int, ok bool) {
	if h.total == 0 {
		return 0, 0, false
	}
	for i, n := range h.counts {
		if n > count {
			hour, count = i, n
		}
	}
	return hour, count, true
}

// DateCount is one entry of the date histogram
type DateCount struct {
	Date  core.Date `json:"date" yaml:"date" msgpack:"date"`
	Count int       `json:"count" yaml:"count" msgpack:"count"`
}

// DateHistogram counts events per calendar date, ascending by date
type DateHistogram struct {
	entries []DateCount
	index   map[core.Date]int
	total   int
}

// Entries returns the per-date counts in ascending date order
func (d *DateHistogram) Entries() []DateCount {
	out := make([]DateCount, len(d.entries))
	copy(out, d.entries)
	return out
}

// Count returns the count for a date, 0 if absent
func (d *DateHistogram) Count(date core.Date) int {
	if i, ok := d.index[date]; ok {
		return d.entries[i].Count
	}
	return 0
}

// Len is the number of distinct dates
func (d *DateHistogram) Len() int {
	return len(d.entries)
}

// Total is the sum of all dates
func (d *DateHistogram) Total() int {
	return d.total
}

// Mean is the population mean of events per distinct date
func (d *DateHistogram) Mean() (float64, bool) {
	if len(d.entries) == 0 {
		return 0, false
	}
	return float64(d.total) / float64(len(d.entries)), true
}

// Matrix is a dense date x hour grid of event counts. Rows follow ascending
// date order; missing cells are 0.
type Matrix struct {
	dates []core.Date
	rows  map[core.Date]*[HoursPerDay]int
	total int
}

// Dates returns the row keys in ascending order
func (m *Matrix) Dates() []core.Date {
	out := make([]core.Date, len(m.dates))
	copy(out, m.dates)
	return out
}

// At returns the count for (date, hour), 0 for missing cells
func (m *Matrix) At(date core.Date, hour int) int {
	if hour < 0 || hour >= HoursPerDay {
		return 0
	}
	row, ok := m.rows[date]
	if !ok {
		return 0
	}
	return row[hour]
}

// Row returns all 24 cells of a date, all zero for an unknown date
func (m *Matrix) Row(date core.Date) [HoursPerDay]int {
	if row, ok := m.rows[date]; ok {
		return *row
	}
	return [HoursPerDay]int{}
}

// Total is the sum of every cell
func (m *Matrix) Total() int {
	return m.total
}

// WeekdayCount is one entry of the weekday histogram
type WeekdayCount struct {
	Weekday time.Weekday `json:"-" yaml:"-" msgpack:"-"`
	Name    string       `json:"weekday" yaml:"weekday" msgpack:"weekday"`
	Count   int          `json:"count" yaml:"count" msgpack:"count"`
}

// weekOrder lists weekdays Monday first
var weekOrder = [7]time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// WeekdayHistogram counts events per day of week
type WeekdayHistogram struct {
	counts [7]int
}

// Count returns the number of events on a weekday
func (w *WeekdayHistogram) Count(day time.Weekday) int {
	if day < time.Sunday || day > time.Saturday {
		return 0
	}
	return w.counts[day]
}

// Entries returns all seven weekdays, Monday first
func (w *WeekdayHistogram) Entries() []WeekdayCount {
	out := make([]WeekdayCount, 0, len(weekOrder))
	for _, day := range weekOrder {
		out = append(out, WeekdayCount{Weekday: day, Name: day.String(), Count: w.counts[day]})
	}
	return out
}

// Aggregates holds every temporal aggregate of one run
type Aggregates struct {
	Hours    *HourHistogram
	Dates    *DateHistogram
	Matrix   *Matrix
	Weekdays *WeekdayHistogram

	// Valid and Skipped count events with valid and invalid timestamps
	Valid   int
	Skipped int
}

// Empty reports whether no event had a valid timestamp
func (a *Aggregates) Empty() bool {
	return a.Valid == 0
}

// Aggregate builds the hour, date, weekday and matrix aggregates in a single
// pass. The events slice is read only.
func Aggregate(events []core.AnnotatedEvent) *Aggregates {
	agg := &Aggregates{
		Hours:    &HourHistogram{},
		Dates:    &DateHistogram{index: make(map[core.Date]int)},
		Matrix:   &Matrix{rows: make(map[core.Date]*[HoursPerDay]int)},
		Weekdays: &WeekdayHistogram{},
	}

	dateCounts := make(map[core.Date]int)
	for _, e := range events {
		if !e.Timestamp.Valid {
			agg.Skipped++
			continue
		}
		agg.Valid++

		date, _ := e.Date()
		hour, _ := e.Hour()
		day, _ := e.Weekday()

		agg.Hours.counts[hour]++
		agg.Hours.total++

		dateCounts[date]++

		row, ok := agg.Matrix.rows[date]
		if !ok {
			row = &[HoursPerDay]int{}
			agg.Matrix.rows[date] = row
		}
		row[hour]++
		agg.Matrix.total++

		agg.Weekdays.counts[day]++
	}

	dates := make([]core.Date, 0, len(dateCounts))
	for d := range dateCounts {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	agg.Matrix.dates = dates
	agg.Dates.entries = make([]DateCount, len(dates))
	for i, d := range dates {
		agg.Dates.entries[i] = DateCount{Date: d, Count: dateCounts[d]}
		agg.Dates.index[d] = i
		agg.Dates.total += dateCounts[d]
	}

	return agg
}

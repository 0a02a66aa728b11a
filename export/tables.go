package export

import (
	"strconv"
	"strings"

	"alertscope/pipeline"
	"alertscope/summary"
	"alertscope/temporal"
)

// Table is a CSV table: a header row followed by data rows
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Table file names. They are stable so downstream spreadsheets keep working.
const (
	EventsFile     = "security_events_full_data.csv"
	SummaryFile    = "summary_statistics.csv"
	CategoryFile   = "category_statistics.csv"
	HourlyFile     = "hourly_distribution.csv"
	DailyFile      = "daily_distribution.csv"
	HeatmapFile    = "heatmap_matrix.csv"
	SignaturesFile = "top_signatures.csv"
	PatternsFile   = "patterns.csv"
)

// Tables builds every CSV table of a run, in write order
func Tables(res *pipeline.Result) []Table {
	return []Table{
		EventsTable(res),
		SummaryTable(res.Summary),
		CategoryTable(res.Summary),
		HourlyTable(res.Temporal),
		DailyTable(res.Temporal),
		HeatmapTable(res.Temporal),
		SignaturesTable(res.Summary),
		PatternsTable(res),
	}
}

// EventsTable lists every annotated event with its derived time fields.
// Derived fields are empty for events with an invalid timestamp.
func EventsTable(res *pipeline.Result) Table {
	t := Table{
		Name: EventsFile,
		Header: []string{
			"timestamp", "signature", "date", "hour", "day_of_week",
			"day_of_week_num", "threat_main_category", "threat_detailed_category",
		},
	}
	for _, e := range res.Events {
		row := []string{"", e.Signature, "", "", "", "", e.MainCategory, e.DetailedCategory}
		if e.Timestamp.Valid {
			d, _ := e.Date()
			h, _ := e.Hour()
			wd, _ := e.Weekday()
			row[0] = e.Timestamp.String()
			row[2] = d.String()
			row[3] = strconv.Itoa(h)
			row[4] = wd.String()
			// Monday is 0
			row[5] = strconv.Itoa((int(wd) + 6) % 7)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// SummaryTable renders the scalar metrics
func SummaryTable(s *summary.Summary) Table {
	t := Table{Name: SummaryFile, Header: []string{"metric", "value"}}
	for _, m := range s.Metrics() {
		t.Rows = append(t.Rows, []string{m.Name, m.Value})
	}
	return t
}

// CategoryTable renders per main category statistics. Hour statistics are
// rounded to two decimals and empty when unavailable.
func CategoryTable(s *summary.Summary) Table {
	t := Table{
		Name:   CategoryFile,
		Header: []string{"main_category", "count", "distinct_signatures", "mean_hour", "stddev_hour"},
	}
	for _, c := range s.Categories {
		t.Rows = append(t.Rows, []string{
			c.MainCategory,
			strconv.Itoa(c.Count),
			strconv.Itoa(c.DistinctSignatures),
			optFloat(c.MeanHour),
			optFloat(c.StdDevHour),
		})
	}
	return t
}

// HourlyTable lists hours with at least one event, ascending
func HourlyTable(agg *temporal.Aggregates) Table {
	t := Table{Name: HourlyFile, Header: []string{"hour", "count"}}
	for _, h := range agg.Hours.Hours() {
		t.Rows = append(t.Rows, []string{strconv.Itoa(h), strconv.Itoa(agg.Hours.Count(h))})
	}
	return t
}

// DailyTable lists dates with at least one event, ascending
func DailyTable(agg *temporal.Aggregates) Table {
	t := Table{Name: DailyFile, Header: []string{"date", "count"}}
	for _, dc := range agg.Dates.Entries() {
		t.Rows = append(t.Rows, []string{dc.Date.String(), strconv.Itoa(dc.Count)})
	}
	return t
}

// HeatmapTable is the date by hour matrix with all 24 hour columns
func HeatmapTable(agg *temporal.Aggregates) Table {
	header := make([]string, 0, temporal.HoursPerDay+1)
	header = append(header, "date")
	for h := 0; h < temporal.HoursPerDay; h++ {
		header = append(header, strconv.Itoa(h))
	}

	t := Table{Name: HeatmapFile, Header: header}
	for _, d := range agg.Matrix.Dates() {
		row := make([]string, 0, temporal.HoursPerDay+1)
		row = append(row, d.String())
		for _, c := range agg.Matrix.Row(d) {
			row = append(row, strconv.Itoa(c))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// SignaturesTable is the signature frequency ranking
func SignaturesTable(s *summary.Summary) Table {
	t := Table{Name: SignaturesFile, Header: []string{"rank", "signature", "count", "share"}}
	for i, r := range s.TopSignatures {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(i + 1),
			r.Value,
			strconv.Itoa(r.Count),
			strconv.FormatFloat(r.Share, 'f', 4, 64),
		})
	}
	return t
}

// PatternsTable has one row per configured window length
func PatternsTable(res *pipeline.Result) Table {
	t := Table{
		Name:   PatternsFile,
		Header: []string{"window_length", "found", "start", "repetitions", "window"},
	}
	for _, pr := range res.Patterns {
		row := []string{strconv.Itoa(pr.WindowLength), "false", "", "", ""}
		if pr.Found() {
			row[1] = "true"
			row[2] = strconv.Itoa(pr.Match.Start)
			row[3] = strconv.Itoa(pr.Match.Repetitions)
			row[4] = strings.Join(pr.Match.Window, " -> ")
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func optFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

package summary

import (
	"fmt"
	"strconv"
	"time"
)

// Unavailable is the rendering of a statistic whose data is absent
const Unavailable = "N/A"

// Metric is one named scalar of the summary in display form
type Metric struct {
	Name      string `json:"name" yaml:"name" msgpack:"name"`
	Value     string `json:"value" yaml:"value" msgpack:"value"`
	Available bool   `json:"available" yaml:"available" msgpack:"available"`
}

// Metrics renders the scalar statistics in a fixed order
func (s *Summary) Metrics() []Metric {
	return []Metric{
		intMetric("Total events", &s.TotalEvents),
		intMetric("Distinct signatures", &s.DistinctSignatures),
		timeMetric("Period start", s.Earliest),
		timeMetric("Period end", s.Latest),
		intMetric("Most active hour", s.ModalHour),
		floatMetric("Mean events per hour", s.MeanEventsPerHour, "%.2f"),
		intMetric("Days in data", s.DistinctDates),
		floatMetric("Mean events per day", s.MeanEventsPerDate, "%.2f"),
		stringMetric("Top main category", s.TopMainCategory),
		stringMetric("Most frequent signature", s.TopSignature),
		percentMetric("Uniqueness ratio (%)", s.UniquenessRatio),
	}
}

func intMetric(name string, v *int) Metric {
	if v == nil {
		return Metric{Name: name, Value: Unavailable}
	}
	return Metric{Name: name, Value: strconv.Itoa(*v), Available: true}
}

func floatMetric(name string, v *float64, format string) Metric {
	if v == nil {
		return Metric{Name: name, Value: Unavailable}
	}
	return Metric{Name: name, Value: fmt.Sprintf(format, *v), Available: true}
}

// percentMetric renders a ratio in [0,1] as a percentage
func percentMetric(name string, v *float64) Metric {
	if v == nil {
		return Metric{Name: name, Value: Unavailable}
	}
	return Metric{Name: name, Value: fmt.Sprintf("%.2f%%", *v*100), Available: true}
}

func stringMetric(name string, v *string) Metric {
	if v == nil {
		return Metric{Name: name, Value: Unavailable}
	}
	return Metric{Name: name, Value: *v, Available: true}
}

func timeMetric(name string, v *time.Time) Metric {
	if v == nil {
		return Metric{Name: name, Value: Unavailable}
	}
	return Metric{Name: name, Value: v.Format("2006-01-02 15:04"), Available: true}
}

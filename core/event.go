package core

import (
	"fmt"
	"time"
)

// Timestamp is a point in time that may be marked invalid when the source
// value could not be parsed. An invalid Timestamp carries no time.
type Timestamp struct {
	Time  time.Time `json:"time" yaml:"time" msgpack:"time"`
	Valid bool      `json:"valid" yaml:"valid" msgpack:"valid"`
}

// ValidTimestamp wraps t as a valid Timestamp
func ValidTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t, Valid: true}
}

// InvalidTimestamp returns the invalid marker
func InvalidTimestamp() Timestamp {
	return Timestamp{}
}

// String returns the timestamp in "2006-01-02 15:04:05" form, or "invalid"
func (ts Timestamp) String() string {
	if !ts.Valid {
		return "invalid"
	}
	return ts.Time.Format("2006-01-02 15:04:05")
}

// Event is one alert record as handed over by ingestion.
// Events are values; nothing in the analysis path modifies them.
type Event struct {
	Timestamp Timestamp `json:"timestamp" yaml:"timestamp" msgpack:"timestamp"`
	Signature string    `json:"signature" yaml:"signature" msgpack:"signature"`
}

// NewEvent creates an Event with a valid timestamp
func NewEvent(signature string, at time.Time) Event {
	return Event{Timestamp: ValidTimestamp(at), Signature: signature}
}

// NewInvalidEvent creates an Event whose timestamp could not be parsed
func NewInvalidEvent(signature string) Event {
	return Event{Timestamp: InvalidTimestamp(), Signature: signature}
}

// Date returns the calendar date of the event in the timestamp's location
func (e Event) Date() (Date, bool) {
	if !e.Timestamp.Valid {
		return Date{}, false
	}
	return DateOf(e.Timestamp.Time), true
}

// Hour returns the hour of day (0-23)
func (e Event) Hour() (int, bool) {
	if !e.Timestamp.Valid {
		return 0, false
	}
	return e.Timestamp.Time.Hour(), true
}

// Weekday returns the day of week
func (e Event) Weekday() (time.Weekday, bool) {
	if !e.Timestamp.Valid {
		return time.Sunday, false
	}
	return e.Timestamp.Time.Weekday(), true
}

// Date is a calendar date without time of day or location.
type Date struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
}

// DateOf returns the calendar date of t in t's location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// String formats the date as YYYY-MM-DD
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Before reports whether d is strictly earlier than other
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// MarshalText implements encoding.TextMarshaler so dates key maps and
// serialize as YYYY-MM-DD.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Date) UnmarshalText(text []byte) error {
	t, err := time.Parse("2006-01-02", string(text))
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", string(text), err)
	}
	*d = DateOf(t)
	return nil
}

// Classification is the two-level category assigned to a signature
type Classification struct {
	MainCategory     string `json:"main_category" yaml:"main_category" msgpack:"main_category"`
	DetailedCategory string `json:"detailed_category" yaml:"detailed_category" msgpack:"detailed_category"`
}

// AnnotatedEvent is an Event together with the classification derived from
// its signature. It is produced once per event by the threat classifier.
type AnnotatedEvent struct {
	Event          `yaml:",inline"`
	Classification `yaml:",inline"`
}

// Annotate pairs an event with its classification
func Annotate(e Event, c Classification) AnnotatedEvent {
	return AnnotatedEvent{Event: e, Classification: c}
}

package ingest

import (
	"encoding/json"
	"strings"
	"time"

	"alertscope/core"
)

// TimestampLayouts are tried in order when parsing a timestamp string.
// Layouts without a zone are read as UTC.
var TimestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp converts a raw field value into a Timestamp. Values that
// cannot be parsed yield the invalid marker, never an error.
func ParseTimestamp(v interface{}) core.Timestamp {
	switch val := v.(type) {
	case time.Time:
		return core.ValidTimestamp(val)
	case string:
		return parseTimestampString(val)
	case json.Number:
		return parseTimestampString(val.String())
	default:
		return core.InvalidTimestamp()
	}
}

func parseTimestampString(s string) core.Timestamp {
	s = strings.TrimSpace(s)
	if s == "" {
		return core.InvalidTimestamp()
	}
	for _, layout := range TimestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return core.ValidTimestamp(t)
		}
	}
	return core.InvalidTimestamp()
}

package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_DerivedFields(t *testing.T) {
	e := NewEvent("SIG", time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC))

	d, ok := e.Date()
	require.True(t, ok)
	assert.Equal(t, Date{Year: 2024, Month: time.March, Day: 5}, d)

	h, ok := e.Hour()
	require.True(t, ok)
	assert.Equal(t, 14, h)

	wd, ok := e.Weekday()
	require.True(t, ok)
	assert.Equal(t, time.Tuesday, wd)
}

func TestEvent_InvalidTimestamp(t *testing.T) {
	e := NewInvalidEvent("SIG")

	_, ok := e.Date()
	assert.False(t, ok)
	_, ok = e.Hour()
	assert.False(t, ok)
	_, ok = e.Weekday()
	assert.False(t, ok)
	assert.Equal(t, "invalid", e.Timestamp.String())
	assert.Equal(t, "SIG", e.Signature)
}

func TestDate_Before(t *testing.T) {
	tests := []struct {
		name string
		a, b Date
		want bool
	}{
		{"earlier year", Date{2023, time.December, 31}, Date{2024, time.January, 1}, true},
		{"earlier month", Date{2024, time.January, 31}, Date{2024, time.February, 1}, true},
		{"earlier day", Date{2024, time.January, 1}, Date{2024, time.January, 2}, true},
		{"equal", Date{2024, time.January, 1}, Date{2024, time.January, 1}, false},
		{"later", Date{2024, time.January, 2}, Date{2024, time.January, 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Before(tt.b))
		})
	}
}

func TestDate_TextRoundTrip(t *testing.T) {
	d := Date{Year: 2024, Month: time.July, Day: 9}
	assert.Equal(t, "2024-07-09", d.String())

	data, err := json.Marshal(map[Date]int{d: 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"2024-07-09":3}`, string(data))

	var back Date
	require.NoError(t, back.UnmarshalText([]byte("2024-07-09")))
	assert.Equal(t, d, back)

	assert.Error(t, back.UnmarshalText([]byte("not-a-date")))
}

func TestAnnotatedEvent_JSONFlattens(t *testing.T) {
	ae := Annotate(NewInvalidEvent("X"), Classification{MainCategory: "OTHER", DetailedCategory: "Uncategorized"})

	data, err := json.Marshal(ae)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"timestamp": {"time": "0001-01-01T00:00:00Z", "valid": false},
		"signature": "X",
		"main_category": "OTHER",
		"detailed_category": "Uncategorized"
	}`, string(data))
}

// Package core defines the data carried between analysis stages.
//
// # Model
//
// The core package provides:
//   - Event, the immutable alert record produced by ingestion
//   - Timestamp, a point in time with an explicit invalid marker
//   - Date, a calendar date used as the key of daily aggregates
//   - Classification and AnnotatedEvent, produced by the threat classifier
//
// Events keep ingestion order. Components that consume a slice of events
// read it and return new values; none of them sorts or modifies the slice.
package core

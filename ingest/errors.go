package ingest

import "errors"

// Sentinel errors for document loading
var (
	// ErrInvalidDocument is returned when the input is not a decodable
	// document or fails schema validation
	ErrInvalidDocument = errors.New("invalid events document")

	// ErrEventsNotFound is returned when no key of the top-level object
	// holds the events array
	ErrEventsNotFound = errors.New("events array not found")

	// ErrUnsupportedFormat is returned for unknown input formats
	ErrUnsupportedFormat = errors.New("unsupported input format")
)

// Package ingest loads alert records from a document into ordered core events.
//
// The document is an object holding an array of records under an "events"
// key. Key lookup is tolerant: keys are trimmed and compared without case,
// and when no key is exactly "events" the first key containing "event" is
// used. Every record needs a signature; its timestamp may be missing or
// unparsable, in which case the event carries the invalid marker.
package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"alertscope/core"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

// Format is the encoding of an input document
type Format string

const (
	// FormatJSON is a JSON document (default)
	FormatJSON Format = "json"
	// FormatMsgpack is a MessagePack encoded map
	FormatMsgpack Format = "msgpack"
)

const (
	// DefaultEventsKey is the preferred key of the events array
	DefaultEventsKey = "events"

	signatureField = "signature"
	timestampField = "timestamp"
)

// documentSchema checks the outer shape only; records are checked one by one
// so a bad record drops that record instead of the whole document.
const documentSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"minProperties": 1
}`

// FormatFromPath picks the input format from a file extension
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".msgpack", ".mpk", ".mp":
		return FormatMsgpack
	default:
		return FormatJSON
	}
}

// Loader decodes documents into events
type Loader struct {
	eventsKey string
	logger    *zap.SugaredLogger
}

// NewLoader creates a loader looking for the given events key. An empty key
// selects DefaultEventsKey and a nil logger disables logging.
func NewLoader(eventsKey string, logger *zap.SugaredLogger) *Loader {
	eventsKey = strings.TrimSpace(eventsKey)
	if eventsKey == "" {
		eventsKey = DefaultEventsKey
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Loader{eventsKey: eventsKey, logger: logger}
}

// LoadFile reads and decodes the file at path. The format follows the
// file extension.
func (l *Loader) LoadFile(path string) ([]core.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	events, err := l.Load(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return events, nil
}

// Load decodes a document from r. Events keep the order of the records.
func (l *Loader) Load(r io.Reader, format Format) ([]core.Event, error) {
	doc, err := decode(r, format)
	if err != nil {
		return nil, err
	}

	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	obj, ok := doc.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: top level must be an object", ErrInvalidDocument)
	}

	key, ok := findKey(obj, l.eventsKey)
	if !ok {
		return nil, fmt.Errorf("%w: no key matching %q", ErrEventsNotFound, l.eventsKey)
	}
	records, ok := obj[key].([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: key %q does not hold an array", ErrInvalidDocument, key)
	}

	return l.convert(records), nil
}

func decode(r io.Reader, format Format) (interface{}, error) {
	var doc interface{}
	switch format {
	case FormatJSON, "":
		dec := json.NewDecoder(r)
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
	case FormatMsgpack:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		dec := msgpack.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return doc, nil
}

func validateDocument(doc interface{}) error {
	schemaLoader := gojsonschema.NewStringLoader(documentSchema)
	documentLoader := gojsonschema.NewGoLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("%w: schema validation failed: %v", ErrInvalidDocument, err)
	}
	if !result.Valid() {
		var errs []string
		for _, desc := range result.Errors() {
			errs = append(errs, desc.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(errs, "; "))
	}
	return nil
}

// sortedKeys returns the keys of obj in sorted order
func sortedKeys(obj map[string]interface{}) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// findKey resolves want against the keys of obj: trimmed case-insensitive
// equality first, then the first key (in sorted order) containing "event".
// Decoded objects do not keep document order, so the fallback picks by sorted
// key rather than by position in the document.
func findKey(obj map[string]interface{}, want string) (string, bool) {
	want = strings.ToLower(strings.TrimSpace(want))
	keys := sortedKeys(obj)

	for _, k := range keys {
		if strings.ToLower(strings.TrimSpace(k)) == want {
			return k, true
		}
	}
	for _, k := range keys {
		if strings.Contains(strings.ToLower(k), "event") {
			return k, true
		}
	}
	return "", false
}

// field returns the value of a record field by trimmed case-insensitive name.
// An exact key wins; among case or padding variants the first in sorted order
// wins.
func field(rec map[string]interface{}, name string) (interface{}, bool) {
	if v, ok := rec[name]; ok {
		return v, true
	}
	for _, k := range sortedKeys(rec) {
		if strings.EqualFold(strings.TrimSpace(k), name) {
			return rec[k], true
		}
	}
	return nil, false
}

func (l *Loader) convert(records []interface{}) []core.Event {
	events := make([]core.Event, 0, len(records))
	var dropped, invalid int

	for i, raw := range records {
		rec, ok := raw.(map[string]interface{})
		if !ok {
			dropped++
			l.logger.Debugw("Skipping record that is not an object", "index", i)
			continue
		}

		sig := signatureOf(rec)
		if sig == "" {
			dropped++
			l.logger.Debugw("Skipping record without signature", "index", i)
			continue
		}

		var ts core.Timestamp
		if v, ok := field(rec, timestampField); ok {
			if s, isString := v.(string); isString {
				v = strings.TrimSpace(s)
			}
			ts = ParseTimestamp(v)
		}
		if !ts.Valid {
			invalid++
		}
		events = append(events, core.Event{Timestamp: ts, Signature: sig})
	}

	if dropped > 0 {
		l.logger.Warnw("Dropped records without a usable signature",
			"dropped", dropped,
			"records", len(records))
	}
	l.logger.Infow("Events loaded",
		"events", len(events),
		"invalid_timestamps", invalid)
	return events
}

func signatureOf(rec map[string]interface{}) string {
	v, ok := field(rec, signatureField)
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case json.Number:
		return val.String()
	case map[string]interface{}, []interface{}:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

package trulens

import (
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/zeebo/errs/v2"

	"loov.dev/recordview/trace"
)

// Error is the class of errors returned by this package.
var Error = errs.Tag("trulens")

// Decode reads a single record.
func Decode(r io.Reader) (Record, error) {
	var rec Record
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return Record{}, Error.Wrap(err)
	}
	return rec, nil
}

// Convert turns the calls of rec into invocations. The root is named
// after app, or the record's own app id when app is empty.
func Convert(rec Record, app string) trace.Trace {
	if app == "" {
		app = rec.AppID
	}

	tr := trace.Trace{
		App:        app,
		TimeRange:  Range(rec.Perf),
		StartStamp: rec.Perf.StartTime,
	}

	for i := range rec.Calls {
		call := &rec.Calls[i]

		inv := &trace.Invocation{
			TimeRange:  Range(call.Perf),
			StartStamp: call.Perf.StartTime,
			Payload:    call,
		}
		for _, cell := range call.Stack {
			inv.Stack = append(inv.Stack, cell.Frame())
		}
		tr.Add(inv)
	}

	return tr
}

// Frame normalizes a stack cell. Missing fields stay empty.
func (cell StackCell) Frame() trace.Frame {
	return trace.Frame{
		Class:  cell.Method.Obj.Cls.Name,
		Method: cell.Method.Name,
		Owner:  string(cell.Method.Obj.ID),
		Path:   cell.Path.String(),
	}
}

// Range converts perf into a time range. Absent or unparsable
// timestamps become unbounded sides.
func Range(perf Perf) trace.TimeRange {
	span := trace.Unbounded
	if t, ok := ParseTimestamp(perf.StartTime); ok {
		span.Start = t
	}
	if t, ok := ParseTimestamp(perf.EndTime); ok {
		span.Finish = t
	}
	return span
}

// ParseTimestamp parses an ISO 8601 timestamp. Timestamps without a zone
// are taken as UTC.
func ParseTimestamp(s string) (trace.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	dt, err := strfmt.ParseDateTime(s)
	if err != nil {
		return 0, false
	}
	t := time.Time(dt)
	if t.IsZero() {
		return 0, false
	}
	return trace.NewTime(t), true
}

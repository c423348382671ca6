package monkit

import (
	"loov.dev/recordview/trace"
)

// File is a list of spans as written by monkit's json trace collector.
type File []Span

type Span struct {
	ID          SpanID       `json:"id"`
	ParentID    *SpanID      `json:"parent_id,omitempty"`
	Func        Func         `json:"func"`
	Trace       Trace        `json:"trace"`
	Start       UnixNano     `json:"start"`
	Finish      UnixNano     `json:"finish"`
	Orphaned    bool         `json:"orphaned"`
	Err         string       `json:"err"`
	Panicked    bool         `json:"panicked"`
	Args        []string     `json:"args"`
	Annotations []Annotation `json:"annotations"`
}

func (span *Span) Range() trace.TimeRange {
	return trace.TimeRange{
		Start:  span.Start.Time(),
		Finish: span.Finish.Time(),
	}
}

type Trace struct {
	ID TraceID `json:"id"`
}

type SpanID int64
type TraceID int64

type UnixNano int64

func (n UnixNano) Time() trace.Time { return trace.Time(n) }

type Func struct {
	Package string `json:"package"`
	Name    string `json:"name"`
}

func (fn Func) String() string { return fn.Package + " " + fn.Name }

type Annotation [2]string

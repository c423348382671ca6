package jaeger

import (
	"time"

	"loov.dev/recordview/trace"
)

// File is the export format of the Jaeger UI and query API.
type File struct {
	Data []Trace `json:"data"`
}

type TraceID string
type SpanID string
type ProcessID string

type TraceSpanID struct {
	TraceID TraceID `json:"traceID"`
	SpanID  SpanID  `json:"spanID"`
}

// Duration is in microseconds, also used for timestamps since epoch.
type Duration int64

func (d Duration) Std() time.Duration { return time.Duration(d) * time.Microsecond }
func (d Duration) Time() trace.Time   { return trace.Time(d.Std().Nanoseconds()) }

type Trace struct {
	TraceID   TraceID               `json:"traceID"`
	Spans     []Span                `json:"spans"`
	Processes map[ProcessID]Process `json:"processes"`
}

type Span struct {
	TraceSpanID
	OperationName string    `json:"operationName"`
	References    []SpanRef `json:"references"`
	StartTime     Duration  `json:"startTime"`
	Duration      Duration  `json:"duration"`
	Tags          []Tag     `json:"tags"`
	ProcessID     ProcessID `json:"processID"`
	Warnings      []string  `json:"warnings,omitempty"`
}

func (span *Span) Range() trace.TimeRange {
	start := span.StartTime.Time()
	return trace.TimeRange{
		Start:  start,
		Finish: start + span.Duration.Time(),
	}
}

// Tag returns the string value of the tag key.
func (span *Span) Tag(key string) string {
	for _, tag := range span.Tags {
		if tag.Key != key {
			continue
		}
		if s, ok := tag.Value.(string); ok {
			return s
		}
	}
	return ""
}

type SpanRef struct {
	RefType SpanRefType `json:"refType"`
	TraceSpanID
}

type SpanRefType string

const (
	ChildOf     = SpanRefType("CHILD_OF")
	FollowsFrom = SpanRefType("FOLLOWS_FROM")
)

type Process struct {
	ServiceName string `json:"serviceName"`
	Tags        []Tag  `json:"tags"`
}

type Tag struct {
	Type  string `json:"type"`
	Key   string `json:"key"`
	Value any    `json:"value"`
}

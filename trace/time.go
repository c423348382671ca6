package trace

import (
	"math"
	"time"

	"github.com/go-openapi/strfmt"
)

// Time in nanoseconds since Unix epoch.
type Time int64

// Sentinels for absent bounds.
const (
	MinTime = Time(math.MinInt64)
	MaxTime = Time(math.MaxInt64)
)

func NewTime(t time.Time) Time { return Time(t.UnixNano()) }

func (t Time) Std() time.Time { return time.Unix(0, int64(t)).UTC() }

func (t Time) Min(b Time) Time {
	if t < b {
		return t
	}
	return b
}

func (t Time) Max(b Time) Time {
	if t > b {
		return t
	}
	return b
}

// ISO formats t with millisecond precision in UTC,
// or returns "" for a sentinel.
func (t Time) ISO() string {
	if t == MinTime || t == MaxTime {
		return ""
	}
	return strfmt.DateTime(t.Std()).String()
}

type TimeRange struct {
	Start  Time
	Finish Time
}

// Unbounded is the range of a node whose bounds are not known yet.
var Unbounded = TimeRange{
	Start:  MinTime,
	Finish: MaxTime,
}

// InvalidRange is the identity element for Expand.
var InvalidRange = TimeRange{
	Start:  MaxTime,
	Finish: MinTime,
}

func (a TimeRange) HasStart() bool  { return a.Start != MinTime && a.Start != MaxTime }
func (a TimeRange) HasFinish() bool { return a.Finish != MinTime && a.Finish != MaxTime }
func (a TimeRange) Bounded() bool   { return a.HasStart() && a.HasFinish() }

// Duration is zero unless both bounds are known.
func (a TimeRange) Duration() Time {
	if !a.Bounded() {
		return 0
	}
	return a.Finish - a.Start
}

// Contains reports whether b lies within a, bounds inclusive.
func (a TimeRange) Contains(b TimeRange) bool {
	return a.Start <= b.Start && a.Finish >= b.Finish
}

func (a TimeRange) Less(b TimeRange) bool {
	if a.Start == b.Start {
		return a.Finish < b.Finish
	}
	return a.Start < b.Start
}

func (a TimeRange) Expand(b TimeRange) TimeRange {
	return TimeRange{
		Start:  a.Start.Min(b.Start),
		Finish: a.Finish.Max(b.Finish),
	}
}

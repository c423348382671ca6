package jaeger

import (
	"strconv"

	"github.com/zeebo/errs/v2"

	"loov.dev/recordview/trace"
)

var Error = errs.Tag("jaeger")

// Convert flattens traces into invocations. The stack of a span is the
// chain of its CHILD_OF parents, outermost first, followed by the span.
func Convert(traces ...Trace) (trace.Trace, error) {
	tr := trace.Trace{TimeRange: trace.InvalidRange}

	for i := range traces {
		t := &traces[i]

		spanByID := make(map[SpanID]*Span, len(t.Spans))
		for k := range t.Spans {
			span := &t.Spans[k]
			if _, err := convertHexID(string(span.SpanID)); err != nil {
				return tr, Error.Errorf("invalid SpanID %q: %v", span.SpanID, err)
			}
			spanByID[span.SpanID] = span
		}

		parentOf := func(span *Span) *Span {
			for _, ref := range span.References {
				if ref.RefType != ChildOf {
					continue
				}
				if parent, ok := spanByID[ref.SpanID]; ok {
					return parent
				}
			}
			return nil
		}

		for k := range t.Spans {
			span := &t.Spans[k]

			inv := &trace.Invocation{
				TimeRange: span.Range(),
				Payload:   span,
			}
			inv.StartStamp = inv.Start.ISO()

			seen := map[*Span]struct{}{}
			for at := span; at != nil; at = parentOf(at) {
				if _, ok := seen[at]; ok {
					break
				}
				seen[at] = struct{}{}
				inv.Stack = append(inv.Stack, t.frame(at))
			}
			reverse(inv.Stack)

			tr.Add(inv)
			tr.TimeRange = tr.TimeRange.Expand(inv.TimeRange)
		}

		if tr.App == "" {
			tr.App = t.serviceName()
		}
	}

	if len(tr.Invocations) == 0 {
		tr.TimeRange = trace.Unbounded
	}
	tr.StartStamp = tr.Start.ISO()
	return tr, nil
}

func (t *Trace) frame(span *Span) trace.Frame {
	return trace.Frame{
		Class:  span.OperationName,
		Method: span.Tag("component"),
		Owner:  string(span.SpanID),
		Path:   t.Processes[span.ProcessID].ServiceName,
	}
}

// serviceName returns the service of the first root span.
func (t *Trace) serviceName() string {
	for k := range t.Spans {
		span := &t.Spans[k]
		if len(span.References) == 0 {
			if p, ok := t.Processes[span.ProcessID]; ok {
				return p.ServiceName
			}
		}
	}
	return string(t.TraceID)
}

func reverse(frames []trace.Frame) {
	for i, k := 0, len(frames)-1; i < k; i, k = i+1, k-1 {
		frames[i], frames[k] = frames[k], frames[i]
	}
}

// See https://www.jaegertracing.io/docs/1.22/client-libraries/#value
func convertHexID(v string) (uint64, error) {
	return strconv.ParseUint(v, 16, 64)
}

package monkit

import (
	"strconv"

	"loov.dev/recordview/trace"
)

// Convert flattens monkit spans into invocations whose stacks follow
// parent_id links. Spans whose parent is missing start a new stack.
func Convert(files ...File) trace.Trace {
	tr := trace.Trace{TimeRange: trace.InvalidRange}

	type key struct {
		trace TraceID
		span  SpanID
	}
	spanByID := make(map[key]*Span)
	for i := range files {
		for k := range files[i] {
			span := &files[i][k]
			spanByID[key{span.Trace.ID, span.ID}] = span
		}
	}

	parentOf := func(span *Span) *Span {
		if span.ParentID == nil {
			return nil
		}
		return spanByID[key{span.Trace.ID, *span.ParentID}]
	}

	for i := range files {
		for k := range files[i] {
			span := &files[i][k]

			inv := &trace.Invocation{
				TimeRange: span.Range(),
				Payload:   span,
			}
			inv.StartStamp = inv.Start.ISO()

			var frames []trace.Frame
			seen := map[*Span]struct{}{}
			for at := span; at != nil; at = parentOf(at) {
				if _, ok := seen[at]; ok {
					break
				}
				seen[at] = struct{}{}
				frames = append([]trace.Frame{frame(at)}, frames...)
			}
			inv.Stack = frames

			tr.Add(inv)
			tr.TimeRange = tr.TimeRange.Expand(inv.TimeRange)

			if tr.App == "" && span.ParentID == nil {
				tr.App = span.Func.Package
			}
		}
	}

	if len(tr.Invocations) == 0 {
		tr.TimeRange = trace.Unbounded
	}
	tr.StartStamp = tr.Start.ISO()
	return tr
}

func frame(span *Span) trace.Frame {
	return trace.Frame{
		Class:  span.Func.String(),
		Method: span.Func.Name,
		Owner:  strconv.FormatInt(int64(span.ID), 10),
		Path:   span.Func.Package,
	}
}

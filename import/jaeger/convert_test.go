package jaeger_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loov.dev/recordview/import/jaeger"
	"loov.dev/recordview/trace"
)

const sample = `{
  "data": [{
    "traceID": "a1",
    "processes": {"p1": {"serviceName": "frontend"}},
    "spans": [
      {"traceID": "a1", "spanID": "2", "operationName": "db",
       "references": [{"refType": "CHILD_OF", "traceID": "a1", "spanID": "1"}],
       "startTime": 1000100, "duration": 50, "processID": "p1",
       "tags": [{"key": "component", "type": "string", "value": "sql"}]},
      {"traceID": "a1", "spanID": "1", "operationName": "GET /", "references": [],
       "startTime": 1000000, "duration": 400, "processID": "p1"},
      {"traceID": "a1", "spanID": "3", "operationName": "render",
       "references": [{"refType": "FOLLOWS_FROM", "traceID": "a1", "spanID": "1"}],
       "startTime": 1000400, "duration": 100, "processID": "p1"}
    ]
  }]
}`

func TestConvert(t *testing.T) {
	var file jaeger.File
	require.NoError(t, json.Unmarshal([]byte(sample), &file))

	tr, err := jaeger.Convert(file.Data...)
	require.NoError(t, err)

	assert.Equal(t, "frontend", tr.App)
	assert.Equal(t, trace.Time(1000000_000), tr.Start)
	assert.Equal(t, trace.Time(1000500_000), tr.Finish)
	require.Len(t, tr.Invocations, 3)

	db := tr.Invocations[0]
	assert.Equal(t, []trace.Frame{
		{Class: "GET /", Owner: "1", Path: "frontend"},
		{Class: "db", Method: "sql", Owner: "2", Path: "frontend"},
	}, db.Stack)
	assert.Len(t, tr.Invocations[2].Stack, 1)

	tree := trace.Build(tr)
	require.Len(t, tree.Root.Children, 2)
	get := tree.Root.Children[0]
	assert.Equal(t, "GET /", get.Class)
	assert.True(t, get.Finalized())
	require.Len(t, get.Children, 1)
	assert.Equal(t, "db", get.Children[0].Class)
}

func TestConvertCycle(t *testing.T) {
	tr, err := jaeger.Convert(jaeger.Trace{
		TraceID: "c",
		Spans: []jaeger.Span{
			{TraceSpanID: jaeger.TraceSpanID{SpanID: "1"}, OperationName: "a", References: []jaeger.SpanRef{{RefType: jaeger.ChildOf, TraceSpanID: jaeger.TraceSpanID{SpanID: "2"}}}},
			{TraceSpanID: jaeger.TraceSpanID{SpanID: "2"}, OperationName: "b", References: []jaeger.SpanRef{{RefType: jaeger.ChildOf, TraceSpanID: jaeger.TraceSpanID{SpanID: "1"}}}},
		},
	})
	require.NoError(t, err)
	require.Len(t, tr.Invocations, 2)
	assert.Len(t, tr.Invocations[0].Stack, 2)
	assert.Equal(t, "c", tr.App)
}

func TestConvertInvalidID(t *testing.T) {
	_, err := jaeger.Convert(jaeger.Trace{Spans: []jaeger.Span{{TraceSpanID: jaeger.TraceSpanID{SpanID: "zz"}}}})
	require.Error(t, err)
}

func TestConvertEmpty(t *testing.T) {
	tr, err := jaeger.Convert()
	require.NoError(t, err)
	assert.Equal(t, trace.Unbounded, tr.TimeRange)
	assert.Empty(t, tr.StartStamp)
}

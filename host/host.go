// Package host is the bridge to the embedding environment. The embedding
// hands a record and an app id in once per render and is told, without
// acknowledgement, which timestamp the user selected.
package host

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/zeebo/errs/v2"

	"loov.dev/recordview/import/trulens"
	"loov.dev/recordview/trace"
)

var Error = errs.Tag("host")

// Args is the argument object injected by the embedding.
type Args struct {
	RecordJSON json.RawMessage `json:"record_json"`
	AppJSON    struct {
		AppID string `json:"app_id"`
	} `json:"app_json"`
}

func DecodeArgs(r io.Reader) (Args, error) {
	var args Args
	if err := json.NewDecoder(r).Decode(&args); err != nil {
		return Args{}, Error.Wrap(err)
	}
	if len(bytes.TrimSpace(args.RecordJSON)) == 0 {
		return Args{}, Error.Errorf("missing record_json")
	}
	return args, nil
}

// Trace decodes the record and names the root after the app id.
func (args Args) Trace() (trace.Trace, error) {
	rec, err := trulens.Decode(bytes.NewReader(args.RecordJSON))
	if err != nil {
		return trace.Trace{}, err
	}
	return trulens.Convert(rec, args.AppJSON.AppID), nil
}

// Notifier receives selected timestamps. Calls must not block on the
// receiving side.
type Notifier interface {
	NotifySelected(value string)
}

// Select reports the start timestamp of node, or "" when it has none.
func Select(node *trace.Node, notifier Notifier) string {
	value := ""
	if node != nil {
		value = node.SelectionValue()
	}
	notifier.NotifySelected(value)
	return value
}

// Writer writes each selection as a line.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

func (w *Writer) NotifySelected(value string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, _ = fmt.Fprintln(w.w, value)
}

// Func adapts a function to Notifier.
type Func func(value string)

func (fn Func) NotifySelected(value string) { fn(value) }

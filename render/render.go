// Package render runs the whole pipeline for one input: the tree, its node
// index and its timeline, and provides the JSON form handed to viewers.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/errs/v2"

	"loov.dev/recordview/import/jaeger"
	"loov.dev/recordview/import/monkit"
	"loov.dev/recordview/import/trulens"
	"loov.dev/recordview/timeline"
	"loov.dev/recordview/trace"
)

var Error = errs.Tag("render")

type Format string

const (
	Trulens = Format("trulens")
	Jaeger  = Format("jaeger")
	Monkit  = Format("monkit")
)

// Load decodes one input file. app names the root node; when empty the
// name recorded in the input is used.
func Load(r io.Reader, format Format, app string) (trace.Trace, error) {
	switch format {
	case Trulens, "":
		rec, err := trulens.Decode(r)
		if err != nil {
			return trace.Trace{}, err
		}
		return trulens.Convert(rec, app), nil

	case Jaeger:
		var file jaeger.File
		if err := json.NewDecoder(r).Decode(&file); err != nil {
			return trace.Trace{}, Error.Wrap(err)
		}
		tr, err := jaeger.Convert(file.Data...)
		if app != "" {
			tr.App = app
		}
		return tr, err

	case Monkit:
		var file monkit.File
		if err := json.NewDecoder(r).Decode(&file); err != nil {
			return trace.Trace{}, Error.Wrap(err)
		}
		tr := monkit.Convert(file)
		if app != "" {
			tr.App = app
		}
		return tr, nil
	}
	return trace.Trace{}, Error.Errorf("unknown format %q", format)
}

// LoadFile decodes and renders the file at path.
func LoadFile(path string, format Format, app string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	tr, err := Load(f, format, app)
	if err != nil {
		return nil, fmt.Errorf("failed to load %q: %w", path, err)
	}
	return Render(tr), nil
}

// Result is everything derived from one trace.
type Result struct {
	Tree     *trace.Tree
	Index    trace.Index
	Timeline *timeline.Timeline
}

func Render(tr trace.Trace) *Result {
	tree := trace.Build(tr)
	return &Result{
		Tree:     tree,
		Index:    trace.NewIndex(tree.Root),
		Timeline: timeline.New(tree),
	}
}

// Pruned counts the nodes left out of the timeline.
func (result *Result) Pruned() int {
	return result.Tree.Len() - len(result.Timeline.Items)
}

// Invocations counts finalized nodes below the root.
func (result *Result) Invocations() int {
	n := 0
	result.Tree.Walk(func(node *trace.Node) bool {
		if node != result.Tree.Root && node.Finalized() {
			n++
		}
		return true
	})
	return n
}

type View struct {
	Tree   NodeView   `json:"tree"`
	Layout []ItemView `json:"layout"`
	Nodes  int        `json:"nodes"`
}

type NodeView struct {
	ID        trace.NodeID   `json:"id"`
	Name      string         `json:"name"`
	Method    string         `json:"method,omitempty"`
	Path      string         `json:"path,omitempty"`
	Owner     string         `json:"owner,omitempty"`
	Start     string         `json:"start,omitempty"`
	End       string         `json:"end,omitempty"`
	Finalized bool           `json:"finalized"`
	Selector  string         `json:"selector"`
	Ancestors []trace.NodeID `json:"ancestors"`
	Children  []NodeView     `json:"children"`
}

type ItemView struct {
	ID     trace.NodeID `json:"id"`
	Name   string       `json:"name"`
	Depth  int          `json:"depth"`
	Offset float64      `json:"offset"`
	Width  float64      `json:"width"`
}

func (result *Result) View() View {
	view := View{
		Tree:   result.node(result.Tree.Root),
		Layout: make([]ItemView, 0, len(result.Timeline.Items)),
		Nodes:  result.Tree.Len(),
	}
	for _, item := range result.Timeline.Items {
		view.Layout = append(view.Layout, ItemView{
			ID:     item.Node.ID,
			Name:   item.Node.Class,
			Depth:  item.Depth,
			Offset: item.Offset,
			Width:  item.Width,
		})
	}
	return view
}

func (result *Result) node(node *trace.Node) NodeView {
	view := NodeView{
		ID:        node.ID,
		Name:      node.Class,
		Method:    node.Method,
		Path:      node.Path,
		Owner:     node.Owner,
		Start:     node.Start.ISO(),
		End:       node.Finish.ISO(),
		Finalized: node.Finalized(),
		Selector:  trace.Selector(node),
		Ancestors: []trace.NodeID{},
		Children:  make([]NodeView, 0, len(node.Children)),
	}
	for _, ancestor := range result.Tree.Ancestors(node) {
		view.Ancestors = append(view.Ancestors, ancestor.ID)
	}
	for _, child := range node.Children {
		view.Children = append(view.Children, result.node(child))
	}
	return view
}

func (result *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(result.View())
}

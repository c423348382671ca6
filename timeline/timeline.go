package timeline

import (
	"time"

	"loov.dev/recordview/trace"
)

// Item is one bar of the timeline.
type Item struct {
	Node  *trace.Node
	Depth int

	// Placement is the range the bar covers. It equals the node range for
	// finalized nodes and the range of its descendants otherwise.
	Placement trace.TimeRange

	// Offset and Width are fractions of the root duration.
	Offset float64
	Width  float64
}

// Layout flattens tree in depth-first pre-order.
//
// Nodes starting at or after the end of the root are left out together with
// their subtrees. A node whose placement is still unbounded gets no bar, but
// its children are laid out. The tree itself is not modified.
func Layout(tree *trace.Tree) []Item {
	if tree == nil || tree.Root == nil {
		return nil
	}

	root := tree.Root
	placement := placements(root)
	treeEnd := root.Finish

	total := float64(0)
	if root.Bounded() && root.Duration() > 0 {
		total = float64(root.Duration())
	}

	items := []Item{}
	var include func(node *trace.Node, depth int)
	include = func(node *trace.Node, depth int) {
		span := placement[node]
		if span.HasStart() && span.Start >= treeEnd {
			return
		}

		if span.Bounded() {
			item := Item{
				Node:      node,
				Depth:     depth,
				Placement: span,
			}
			if total > 0 {
				item.Offset = float64(span.Start-root.Start) / total
				item.Width = float64(span.Duration()) / total
			}
			items = append(items, item)
		}

		for _, child := range node.Children {
			include(child, depth+1)
		}
	}
	include(root, 0)

	return items
}

// placements computes the range each node covers on the timeline: its own
// range, with every unknown side taken from the union of its descendants.
func placements(root *trace.Node) map[*trace.Node]trace.TimeRange {
	result := map[*trace.Node]trace.TimeRange{}

	var place func(node *trace.Node) trace.TimeRange
	place = func(node *trace.Node) trace.TimeRange {
		descendants := trace.InvalidRange
		for _, child := range node.Children {
			if r := place(child); r.Bounded() {
				descendants = descendants.Expand(r)
			}
		}

		span := descendants
		if node.Finalized() {
			span = node.TimeRange
			if !span.HasStart() {
				span.Start = descendants.Start
			}
			if !span.HasFinish() {
				span.Finish = descendants.Finish
			}
		}
		result[node] = span
		return span
	}
	place(root)

	return result
}

// Timeline is the render list of one tree.
type Timeline struct {
	Tree *trace.Tree
	trace.TimeRange
	Items []Item
}

func New(tree *trace.Tree) *Timeline {
	timeline := &Timeline{
		Tree:  tree,
		Items: Layout(tree),
	}
	if tree != nil && tree.Root != nil {
		timeline.TimeRange = tree.Root.TimeRange
	}
	return timeline
}

// Visible returns the items lasting at least min, in render order.
func (timeline *Timeline) Visible(min time.Duration) []Item {
	visible := make([]Item, 0, len(timeline.Items))
	for _, item := range timeline.Items {
		if time.Duration(item.Placement.Duration()) < min {
			continue
		}
		visible = append(visible, item)
	}
	return visible
}

// MaxDepth is the deepest row of the timeline.
func (timeline *Timeline) MaxDepth() int {
	depth := 0
	for _, item := range timeline.Items {
		if item.Depth > depth {
			depth = item.Depth
		}
	}
	return depth
}

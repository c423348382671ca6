package trace

import "strings"

// Index maps node ids to nodes.
type Index map[NodeID]*Node

// NewIndex visits every node under root once. When two nodes share
// an id the one visited last wins.
func NewIndex(root *Node) Index {
	index := Index{}
	if root == nil {
		return index
	}

	queue := []*Node{root}
	for len(queue) > 0 {
		node := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		index[node.ID] = node
		queue = append(queue, node.Children...)
	}
	return index
}

// Selector returns the record lens that addresses the method of node.
func Selector(node *Node) string {
	if node == nil {
		return ""
	}

	parts := []string{"Select.Record"}
	if path := strings.TrimPrefix(node.Path, "."); path != "" {
		parts = append(parts, path)
	}
	if node.Method != "" {
		parts = append(parts, node.Method)
	}
	return strings.Join(parts, ".")
}

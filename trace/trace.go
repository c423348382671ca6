package trace

// Frame is one entry of an invocation's call stack.
type Frame struct {
	Class  string
	Method string
	Owner  string
	Path   string
}

// Invocation is one recorded call.
type Invocation struct {
	// Stack lists the enclosing frames, outermost first. The last frame
	// denotes the invocation itself.
	Stack []Frame
	TimeRange

	// StartStamp is the start time as written in the input.
	StartStamp string
	// Payload is the raw call from the importer, passed through unexamined.
	Payload any
}

// Trace is the complete input of one build.
type Trace struct {
	App string
	TimeRange
	StartStamp string

	Invocations []*Invocation
}

func (tr *Trace) Add(inv *Invocation) {
	tr.Invocations = append(tr.Invocations, inv)
}

type Node struct {
	ID    NodeID
	Index int

	Class  string
	Method string
	Path   string
	Owner  string
	TimeRange

	Children []*Node
	// Ancestors are arena positions of every node from the root
	// down to the parent.
	Ancestors []int

	Payload *Invocation
}

func (node *Node) Finalized() bool { return node.Payload != nil }

// SelectionValue is the value reported to the host when the node is selected.
func (node *Node) SelectionValue() string {
	if node.Payload == nil {
		return ""
	}
	return node.Payload.StartStamp
}

func (node *Node) Depth() int { return len(node.Ancestors) }

// Tree owns every node created during one build.
type Tree struct {
	Root  *Node
	nodes []*Node
}

func (tree *Tree) add(node *Node) *Node {
	node.Index = len(tree.nodes)
	tree.nodes = append(tree.nodes, node)
	return node
}

// Len returns the number of nodes, root included.
func (tree *Tree) Len() int { return len(tree.nodes) }

// Node returns the node at arena position index.
func (tree *Tree) Node(index int) *Node {
	if index < 0 || index >= len(tree.nodes) {
		return nil
	}
	return tree.nodes[index]
}

// Ancestors resolves node.Ancestors, root first.
func (tree *Tree) Ancestors(node *Node) []*Node {
	ancestors := make([]*Node, 0, len(node.Ancestors))
	for _, index := range node.Ancestors {
		if parent := tree.Node(index); parent != nil {
			ancestors = append(ancestors, parent)
		}
	}
	return ancestors
}

// Parent returns the owner of node, nil for the root.
func (tree *Tree) Parent(node *Node) *Node {
	if len(node.Ancestors) == 0 {
		return nil
	}
	return tree.Node(node.Ancestors[len(node.Ancestors)-1])
}

// Walk visits the tree in pre-order, stopping descent into a node's
// children when fn returns false.
func (tree *Tree) Walk(fn func(node *Node) bool) {
	var walk func(node *Node)
	walk = func(node *Node) {
		if !fn(node) {
			return
		}
		for _, child := range node.Children {
			walk(child)
		}
	}
	if tree.Root != nil {
		walk(tree.Root)
	}
}

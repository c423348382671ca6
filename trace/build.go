package trace

// Builder reconstructs the call tree of a trace from the stacks
// of its invocations.
type Builder struct {
	tree     Tree
	newToken func() string
}

type Option func(*Builder)

// WithTokens replaces the random token source of provisional ids.
func WithTokens(newToken func() string) Option {
	return func(b *Builder) { b.newToken = newToken }
}

// NewBuilder creates a tree containing only the root, named after tr.App
// and spanning the declared range of the trace.
func NewBuilder(tr Trace, opts ...Option) *Builder {
	b := &Builder{newToken: NewToken}
	for _, opt := range opts {
		opt(b)
	}

	b.tree.Root = b.tree.add(&Node{
		ID:        RootID,
		Class:     tr.App,
		Owner:     "0",
		TimeRange: tr.TimeRange,
		Payload: &Invocation{
			TimeRange:  tr.TimeRange,
			StartStamp: tr.StartStamp,
		},
	})
	return b
}

// Build creates the tree for tr, inserting invocations in input order.
func Build(tr Trace, opts ...Option) *Tree {
	b := NewBuilder(tr, opts...)
	for _, inv := range tr.Invocations {
		b.Insert(inv)
	}
	return b.Tree()
}

func (b *Builder) Tree() *Tree { return &b.tree }

// Insert adds inv to the tree and returns the node it finalized.
//
// An invocation with an empty stack belongs to the root's implicit
// scope: nothing is created and Insert returns nil.
func (b *Builder) Insert(inv *Invocation) *Node {
	if inv == nil || len(inv.Stack) == 0 {
		return nil
	}
	return b.insert(b.tree.Root, inv, 0)
}

func (b *Builder) insert(parent *Node, inv *Invocation, i int) *Node {
	frame := inv.Stack[i]
	node := enclosing(parent.Children, frame.Class, inv.TimeRange)

	if i == len(inv.Stack)-1 {
		if node == nil {
			node = b.child(parent, frame)
		}
		finalize(node, frame, inv)
		return node
	}

	if node == nil {
		node = b.child(parent, frame)
		node.ID = ProvisionalID(b.newToken(), frame.Method, frame.Path)
	}
	return b.insert(node, inv, i+1)
}

// child appends a node with unknown bounds for frame to parent.
func (b *Builder) child(parent *Node, frame Frame) *Node {
	ancestors := make([]int, len(parent.Ancestors), len(parent.Ancestors)+1)
	copy(ancestors, parent.Ancestors)

	node := b.tree.add(&Node{
		Class:     frame.Class,
		Method:    frame.Method,
		Path:      frame.Path,
		TimeRange: Unbounded,
		Ancestors: append(ancestors, parent.Index),
	})
	parent.Children = append(parent.Children, node)
	return node
}

// enclosing finds the oldest sibling of class whose known bounds contain span.
func enclosing(children []*Node, class string, span TimeRange) *Node {
	for _, child := range children {
		if child.Class == class && child.Contains(span) {
			return child
		}
	}
	return nil
}

// finalize attaches inv to node. Finalizing twice overwrites.
func finalize(node *Node, frame Frame, inv *Invocation) {
	node.Owner = frame.Owner
	node.TimeRange = inv.TimeRange
	node.ID = FinalizedID(frame.Owner, frame.Method, frame.Class, inv.TimeRange)
	node.Payload = inv
}

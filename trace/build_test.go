package trace_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loov.dev/recordview/trace"
)

var epoch = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func ms(n int) trace.Time {
	return trace.NewTime(epoch.Add(time.Duration(n) * time.Millisecond))
}

func span(start, finish int) trace.TimeRange {
	return trace.TimeRange{Start: ms(start), Finish: ms(finish)}
}

func call(r trace.TimeRange, classes ...string) *trace.Invocation {
	inv := &trace.Invocation{TimeRange: r}
	for _, class := range classes {
		inv.Stack = append(inv.Stack, trace.Frame{
			Class:  class,
			Method: "run",
			Owner:  "obj-" + class,
			Path:   ".app." + class,
		})
	}
	if r.HasStart() {
		inv.StartStamp = r.Start.ISO()
	}
	return inv
}

func record(invs ...*trace.Invocation) trace.Trace {
	return trace.Trace{
		App:         "app",
		TimeRange:   span(0, 100),
		StartStamp:  ms(0).ISO(),
		Invocations: invs,
	}
}

func counter() trace.Option {
	n := 0
	return trace.WithTokens(func() string {
		n++
		return fmt.Sprintf("t%d", n)
	})
}

func TestBuildNested(t *testing.T) {
	a := call(span(0, 50), "Retriever")
	b := call(span(10, 30), "Retriever", "Embedder")

	tree := trace.Build(record(a, b))
	root := tree.Root

	assert.Equal(t, trace.RootID, root.ID)
	assert.Equal(t, "app", root.Class)
	assert.Equal(t, span(0, 100), root.TimeRange)
	require.Len(t, root.Children, 1)

	retriever := root.Children[0]
	assert.Equal(t, "Retriever", retriever.Class)
	assert.Equal(t, span(0, 50), retriever.TimeRange)
	assert.Same(t, a, retriever.Payload)
	assert.Equal(t, "obj-Retriever", retriever.Owner)
	require.Len(t, retriever.Children, 1)

	embedder := retriever.Children[0]
	assert.Equal(t, "Embedder", embedder.Class)
	assert.Equal(t, span(10, 30), embedder.TimeRange)
	assert.Same(t, b, embedder.Payload)
	assert.Empty(t, embedder.Children)

	assert.Equal(t, []*trace.Node{root, retriever}, tree.Ancestors(embedder))
	assert.Same(t, retriever, tree.Parent(embedder))
	assert.Nil(t, tree.Parent(root))
	assert.Equal(t, 2, embedder.Depth())
	assert.Equal(t, 3, tree.Len())
}

func TestBuildChildBeforeParent(t *testing.T) {
	b := call(span(10, 30), "Retriever", "Embedder")
	a := call(span(0, 50), "Retriever")

	builder := trace.NewBuilder(record(), counter())

	embedder := builder.Insert(b)
	require.NotNil(t, embedder)
	root := builder.Tree().Root
	require.Len(t, root.Children, 1)

	retriever := root.Children[0]
	assert.False(t, retriever.Finalized())
	assert.Equal(t, trace.NodeID("~t1-run-.app.Retriever"), retriever.ID)
	assert.True(t, retriever.ID.IsProvisional())
	assert.Equal(t, trace.Unbounded, retriever.TimeRange)
	assert.Empty(t, retriever.Owner)

	finalized := builder.Insert(a)
	assert.Same(t, retriever, finalized)
	assert.True(t, retriever.Finalized())
	assert.False(t, retriever.ID.IsProvisional())
	assert.Equal(t, span(0, 50), retriever.TimeRange)
	assert.Equal(t, "obj-Retriever", retriever.Owner)
	assert.Equal(t, []*trace.Node{embedder}, retriever.Children)
	assert.Len(t, root.Children, 1)
}

func TestBuildSiblingsOfSameClass(t *testing.T) {
	first := call(span(0, 50), "Agent")
	second := call(span(60, 90), "Agent")
	tool := call(span(65, 70), "Agent", "Tool")

	tree := trace.Build(record(first, second, tool))
	require.Len(t, tree.Root.Children, 2)

	assert.Same(t, first, tree.Root.Children[0].Payload)
	assert.Empty(t, tree.Root.Children[0].Children)

	assert.Same(t, second, tree.Root.Children[1].Payload)
	require.Len(t, tree.Root.Children[1].Children, 1)
	assert.Same(t, tool, tree.Root.Children[1].Children[0].Payload)
}

func TestBuildOldestEnclosingSiblingWins(t *testing.T) {
	early := call(span(0, 50), "Agent")
	late := call(span(40, 100), "Agent")
	inner := call(span(45, 48), "Agent", "Tool")

	tree := trace.Build(record(early, late, inner))
	require.Len(t, tree.Root.Children, 2)
	assert.Len(t, tree.Root.Children[0].Children, 1)
	assert.Empty(t, tree.Root.Children[1].Children)
}

func TestBuildEmptyStack(t *testing.T) {
	builder := trace.NewBuilder(record())
	assert.Nil(t, builder.Insert(&trace.Invocation{TimeRange: span(1, 2)}))
	assert.Nil(t, builder.Insert(nil))
	assert.Empty(t, builder.Tree().Root.Children)
	assert.Equal(t, 1, builder.Tree().Len())
}

func TestBuildAbsentTimesWidenMatching(t *testing.T) {
	outer := call(trace.Unbounded, "Chain")
	inner := call(span(10, 20), "Chain", "LLM")

	tree := trace.Build(record(outer, inner))
	require.Len(t, tree.Root.Children, 1)

	chain := tree.Root.Children[0]
	assert.True(t, chain.Finalized())
	assert.Equal(t, trace.NodeID("obj-Chain-run-Chain--"), chain.ID)
	require.Len(t, chain.Children, 1)
	assert.Same(t, inner, chain.Children[0].Payload)
}

func TestBuildRefinalizeOverwrites(t *testing.T) {
	first := call(span(0, 50), "Retriever")
	again := call(span(0, 50), "Retriever")
	again.Stack[0].Owner = "obj-other"

	tree := trace.Build(record(first, again))
	require.Len(t, tree.Root.Children, 1)

	node := tree.Root.Children[0]
	assert.Same(t, again, node.Payload)
	assert.Equal(t, "obj-other", node.Owner)
	assert.Equal(t, trace.FinalizedID("obj-other", "run", "Retriever", span(0, 50)), node.ID)
}

func TestBuildEveryInvocationFinalizesOneNode(t *testing.T) {
	invs := []*trace.Invocation{
		call(span(20, 25), "App", "Chain", "LLM"),
		call(span(0, 90), "App"),
		call(span(10, 40), "App", "Chain"),
		call(span(30, 35), "App", "Chain", "Parser"),
		call(span(50, 80), "App", "Chain"),
		call(span(55, 60), "App", "Chain", "LLM"),
		call(span(5, 6), "App", "Retriever"),
	}
	tree := trace.Build(record(invs...))

	owners := map[*trace.Invocation]int{}
	tree.Walk(func(node *trace.Node) bool {
		if node != tree.Root && node.Payload != nil {
			owners[node.Payload]++
		}
		return true
	})

	for i, inv := range invs {
		assert.Equal(t, 1, owners[inv], "invocation %d", i)
	}
	assert.Len(t, owners, len(invs))
}

func TestBuildIdempotentIdentity(t *testing.T) {
	rec := record(
		call(span(0, 50), "Retriever"),
		call(span(10, 30), "Retriever", "Embedder"),
		call(span(60, 70), "Synth"),
	)

	ids := func(tree *trace.Tree) []trace.NodeID {
		var ids []trace.NodeID
		tree.Walk(func(node *trace.Node) bool {
			ids = append(ids, node.ID)
			return true
		})
		return ids
	}

	assert.Equal(t, ids(trace.Build(rec)), ids(trace.Build(rec)))
}

func TestWalkSkipsSubtree(t *testing.T) {
	tree := trace.Build(record(
		call(span(0, 50), "Retriever"),
		call(span(10, 30), "Retriever", "Embedder"),
		call(span(60, 70), "Synth"),
	))

	var visited []string
	tree.Walk(func(node *trace.Node) bool {
		visited = append(visited, node.Class)
		return node.Class != "Retriever"
	})
	assert.Equal(t, []string{"app", "Retriever", "Synth"}, visited)
}

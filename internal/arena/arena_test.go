package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iwe-org/iwe-sub001/internal/inline"
)

func Test_Arena_NewNodeID_allocatesDistinctSlots(t *testing.T) {
	a := New()
	id1 := a.NewNodeID()
	id2 := a.NewNodeID()
	assert.NotEqual(t, id1, id2)
	assert.True(t, a.Node(id1).IsEmpty())
	assert.True(t, a.Node(id2).IsEmpty())
}

func Test_Arena_SetNode_and_Node(t *testing.T) {
	a := New()
	id := a.NewNodeID()
	a.SetNode(id, Node{Kind: KindLeaf, Prev: NoNode, Next: NoNode, Child: NoNode})
	assert.Equal(t, KindLeaf, a.Node(id).Kind)
}

func Test_Arena_Node_outOfRangeReturnsEmpty(t *testing.T) {
	a := New()
	assert.True(t, a.Node(NoNode).IsEmpty())
	assert.True(t, a.Node(NodeID(99)).IsEmpty())
}

func Test_Arena_Line(t *testing.T) {
	a := New()
	id := a.NewLineID()
	a.SetLine(id, inline.NewTextLine("hello"))
	assert.Equal(t, "hello", a.Line(id).PlainText())
	assert.True(t, a.Line(NoLine).IsEmpty())
}

func Test_Arena_DeleteBranch_tombstonesChildAndNext(t *testing.T) {
	a := New()
	root := a.NewNodeID()
	child := a.NewNodeID()
	sibling := a.NewNodeID()
	a.SetNode(child, Node{Kind: KindLeaf, Prev: root, Next: NoNode, Child: NoNode})
	a.SetNode(root, Node{Kind: KindSection, Prev: NoNode, Next: sibling, Child: child})
	a.SetNode(sibling, Node{Kind: KindLeaf, Prev: root, Next: NoNode, Child: NoNode})

	a.DeleteBranch(root)

	assert.True(t, a.Node(root).IsEmpty())
	assert.True(t, a.Node(child).IsEmpty())
	// DeleteBranch walks child then next from root, so a root's sibling
	// chain starting at Next is also tombstoned, not just its own subtree.
	assert.True(t, a.Node(sibling).IsEmpty())
}

func Test_Arena_DeleteBranch_noNodeIsNoop(t *testing.T) {
	a := New()
	assert.NotPanics(t, func() { a.DeleteBranch(NoNode) })
}

func Test_Node_IsList(t *testing.T) {
	assert.True(t, Node{Kind: KindBulletList}.IsList())
	assert.True(t, Node{Kind: KindOrderedList}.IsList())
	assert.False(t, Node{Kind: KindSection}.IsList())
}

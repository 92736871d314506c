package graph

import (
	"github.com/iwe-org/iwe-sub001/internal/arena"
	"github.com/iwe-org/iwe-sub001/internal/key"
)

// NodePointer is a small, pure value type carrying a borrowed arena plus a
// cursor id (spec §9 design note: "Lazy visitors over borrowed graph...
// implemented as small value types carrying &Graph and a cursor id"). It
// is read-only: Next/Child return new NodePointer values, never mutate.
type NodePointer struct {
	a  *arena.Arena
	id arena.NodeID
}

// ID returns the cursor's current node id.
func (p NodePointer) ID() arena.NodeID { return p.id }

// Node returns the node the cursor currently points at.
func (p NodePointer) Node() arena.Node { return p.a.Node(p.id) }

// Valid reports whether the cursor points at a real (non-tombstone) node.
func (p NodePointer) Valid() bool { return !p.Node().IsEmpty() }

// Next moves the cursor to the current node's next sibling.
func (p NodePointer) Next() (NodePointer, bool) {
	n := p.Node()
	if n.Next == arena.NoNode {
		return NodePointer{}, false
	}
	return NodePointer{a: p.a, id: n.Next}, true
}

// Child moves the cursor to the current node's first child.
func (p NodePointer) Child() (NodePointer, bool) {
	n := p.Node()
	if n.Child == arena.NoNode {
		return NodePointer{}, false
	}
	return NodePointer{a: p.a, id: n.Child}, true
}

// VisitKey returns a NodePointer positioned at key's Document node.
func (g *Graph) VisitKey(k key.Key) (NodePointer, bool) {
	id, ok := g.docs[k.String()]
	if !ok {
		return NodePointer{}, false
	}
	return NodePointer{a: g.arena, id: id}, true
}

// VisitNode returns a NodePointer positioned at an arbitrary node id.
func (g *Graph) VisitNode(id arena.NodeID) NodePointer {
	return NodePointer{a: g.arena, id: id}
}

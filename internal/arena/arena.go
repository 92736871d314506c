// Package arena implements the append-only node and line storage that
// backs the workspace graph (C2). The arena never reuses ids and never
// removes a slot: "deleting" a node means overwriting its slot with an
// Empty node (I2). Callers serialize all mutation; the arena itself holds
// no lock.
package arena

import (
	"github.com/iwe-org/iwe-sub001/internal/inline"
	"github.com/iwe-org/iwe-sub001/internal/key"
)

// NodeID indexes into the arena's node vector. NoNode is the sentinel for
// "no such link".
type NodeID int

// LineID indexes into the arena's line vector.
type LineID int

// NoNode marks an absent prev/next/child/document-entry link.
const NoNode NodeID = -1

// NoLine marks a node with no associated inline content.
const NoLine LineID = -1

// Kind discriminates the node variants of spec §3.
type Kind int

const (
	KindEmpty Kind = iota
	KindDocument
	KindSection
	KindLeaf
	KindRaw
	KindBulletList
	KindOrderedList
	KindQuote
	KindHorizontalRule
	KindReference
	KindTable
)

// RefKind distinguishes the three ways a Reference node can have been
// written in source Markdown.
type RefKind int

const (
	RefRegular RefKind = iota
	RefWikiLink
	RefWikiLinkPiped
)

// TableAlign is one column's alignment in a Table node.
type TableAlign int

const (
	AlignNone TableAlign = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// Node is a tagged variant over every node kind (spec §9 design note:
// "Polymorphism over node kinds... use a tagged variant with kind-specific
// accessors. Avoid virtual dispatch"). Every non-empty non-root node has
// exactly one parent and sits in a Prev/Next/Child link structure: Prev is
// the document-order predecessor (parent for a first child, previous
// sibling otherwise); Next chains siblings; Child is the first child.
type Node struct {
	Kind Kind

	Prev  NodeID
	Next  NodeID
	Child NodeID

	// Document
	DocKey key.Key

	// Section / Leaf
	Line LineID

	// Raw
	Lang    string
	Content string

	// Reference
	RefKey  key.Key
	RefText string
	RefKind RefKind

	// Table
	Header    []inline.Line
	Rows      [][]inline.Line
	Alignment []TableAlign
}

// ChildID, NextID and PrevID satisfy the "every kind knows its own
// projection" design note even though, with a flattened struct, they are
// trivial; they exist so callers never reach into the struct fields
// directly and so a future kind-specific representation could swap in
// without touching call sites.
func (n Node) ChildID() NodeID { return n.Child }
func (n Node) NextID() NodeID  { return n.Next }
func (n Node) PrevID() NodeID  { return n.Prev }

// IsEmpty reports whether the node is a tombstone.
func (n Node) IsEmpty() bool { return n.Kind == KindEmpty }

// IsList reports whether the node is a BulletList or OrderedList.
func (n Node) IsList() bool {
	return n.Kind == KindBulletList || n.Kind == KindOrderedList
}

// Empty returns a tombstone node with no links.
func Empty() Node {
	return Node{Kind: KindEmpty, Prev: NoNode, Next: NoNode, Child: NoNode, Line: NoLine}
}

// Arena is the append-only store of nodes and lines that the graph (C6)
// builds documents into. It is grow-only: "destroying" a node sets its
// slot to Empty rather than shrinking the vector (spec §3 Lifecycles).
type Arena struct {
	nodes []Node
	lines []inline.Line
}

// New returns an empty arena.
func New() *Arena {
	return &Arena{}
}

// NewNodeID allocates the next node id without writing a node into it.
func (a *Arena) NewNodeID() NodeID {
	id := NodeID(len(a.nodes))
	a.nodes = append(a.nodes, Empty())
	return id
}

// NewLineID allocates the next line id with an empty line.
func (a *Arena) NewLineID() LineID {
	id := LineID(len(a.lines))
	a.lines = append(a.lines, inline.Line{})
	return id
}

// SetNode writes n into slot id, growing the vector if id == len(nodes).
func (a *Arena) SetNode(id NodeID, n Node) {
	if int(id) == len(a.nodes) {
		a.nodes = append(a.nodes, n)
		return
	}
	a.nodes[id] = n
}

// Node returns the node at id, or an Empty node if id is out of range or
// NoNode.
func (a *Arena) Node(id NodeID) Node {
	if id == NoNode || int(id) < 0 || int(id) >= len(a.nodes) {
		return Empty()
	}
	return a.nodes[id]
}

// SetLine writes l into slot id, growing the vector if id == len(lines).
func (a *Arena) SetLine(id LineID, l inline.Line) {
	if int(id) == len(a.lines) {
		a.lines = append(a.lines, l)
		return
	}
	a.lines[id] = l
}

// Line returns the line at id, or an empty line if id is NoLine or out of
// range.
func (a *Arena) Line(id LineID) inline.Line {
	if id == NoLine || int(id) < 0 || int(id) >= len(a.lines) {
		return inline.Line{}
	}
	return a.lines[id]
}

// Len returns the number of node slots ever allocated, including
// tombstones.
func (a *Arena) Len() int {
	return len(a.nodes)
}

// DeleteBranch recursively walks child then next from root, zeroing each
// line and setting each visited node to Empty (spec §4.1).
func (a *Arena) DeleteBranch(root NodeID) {
	if root == NoNode {
		return
	}
	n := a.Node(root)
	if n.IsEmpty() {
		return
	}
	child := n.Child
	next := n.Next
	if n.Line != NoLine {
		a.SetLine(n.Line, inline.Line{})
	}
	a.SetNode(root, Empty())
	a.DeleteBranch(child)
	a.DeleteBranch(next)
}

package graph

import (
	"github.com/iwe-org/iwe-sub001/internal/arena"
	"github.com/iwe-org/iwe-sub001/internal/blocktree"
	"github.com/iwe-org/iwe-sub001/internal/inline"
)

// insertChildren writes blocks into the arena as a sibling chain whose
// document-order predecessor is parent, returning the id of the first
// child (arena.NoNode for an empty slice). This is the linking half of
// spec §4.2: children are added left-to-right, Prev of the first child is
// parent, Prev of later siblings is the previous sibling, Next chains
// siblings.
func (g *Graph) insertChildren(parent arena.NodeID, blocks []*blocktree.Block) arena.NodeID {
	if len(blocks) == 0 {
		return arena.NoNode
	}
	ids := make([]arena.NodeID, len(blocks))
	for i := range blocks {
		ids[i] = g.arena.NewNodeID()
	}
	for i, blk := range blocks {
		prev := parent
		if i > 0 {
			prev = ids[i-1]
		}
		next := arena.NoNode
		if i+1 < len(blocks) {
			next = ids[i+1]
		}
		node := g.nodeFromBlock(ids[i], blk)
		node.Prev = prev
		node.Next = next
		g.arena.SetNode(ids[i], node)
		g.lineOf[ids[i]] = blk.SourceLine
	}
	return ids[0]
}

func (g *Graph) nodeFromBlock(id arena.NodeID, blk *blocktree.Block) arena.Node {
	switch blk.Kind {
	case blocktree.Heading:
		lineID := g.storeLine(blk.Line)
		return arena.Node{Kind: arena.KindSection, Line: lineID, Child: g.insertChildren(id, blk.Children)}

	case blocktree.Paragraph:
		lineID := g.storeLine(blk.Line)
		return arena.Node{Kind: arena.KindLeaf, Line: lineID, Child: arena.NoNode}

	case blocktree.Raw:
		return arena.Node{Kind: arena.KindRaw, Lang: blk.Lang, Content: blk.Content, Child: arena.NoNode}

	case blocktree.BulletList, blocktree.OrderedList:
		kind := arena.KindBulletList
		if blk.Kind == blocktree.OrderedList {
			kind = arena.KindOrderedList
		}
		return arena.Node{Kind: kind, Child: g.insertListItems(id, blk.Children)}

	case blocktree.Quote:
		return arena.Node{Kind: arena.KindQuote, Child: g.insertChildren(id, blk.Children)}

	case blocktree.HorizontalRule:
		return arena.Node{Kind: arena.KindHorizontalRule, Child: arena.NoNode}

	case blocktree.Reference:
		return arena.Node{Kind: arena.KindReference, RefKey: blk.RefKey, RefText: blk.RefText, RefKind: blk.RefKind, Child: arena.NoNode}

	case blocktree.Table:
		return arena.Node{Kind: arena.KindTable, Header: blk.TableHeader, Rows: blk.TableRows, Alignment: blk.TableAlign, Child: arena.NoNode}

	default:
		return arena.Empty()
	}
}

// insertListItems links each list item as a Leaf-shaped node (line +
// nested children) under the list node id. The arena's Node kind enum
// (spec §3) has no dedicated "list item" variant; items are structurally
// identical to a Leaf that additionally owns children, so KindLeaf is
// reused here (recorded as a design decision in DESIGN.md).
func (g *Graph) insertListItems(parent arena.NodeID, items []*blocktree.Block) arena.NodeID {
	if len(items) == 0 {
		return arena.NoNode
	}
	ids := make([]arena.NodeID, len(items))
	for i := range items {
		ids[i] = g.arena.NewNodeID()
	}
	for i, item := range items {
		prev := parent
		if i > 0 {
			prev = ids[i-1]
		}
		next := arena.NoNode
		if i+1 < len(items) {
			next = ids[i+1]
		}
		lineID := g.storeLine(item.Line)
		g.arena.SetNode(ids[i], arena.Node{
			Kind: arena.KindLeaf, Line: lineID,
			Prev: prev, Next: next,
			Child: g.insertChildren(ids[i], item.Children),
		})
		g.lineOf[ids[i]] = item.SourceLine
	}
	return ids[0]
}

func (g *Graph) storeLine(l inline.Line) arena.LineID {
	id := g.arena.NewLineID()
	g.arena.SetLine(id, l)
	return id
}

package graph

import (
	"github.com/iwe-org/iwe-sub001/internal/arena"
	"github.com/iwe-org/iwe-sub001/internal/blocktree"
	"github.com/iwe-org/iwe-sub001/internal/project"
)

// NodeVisitor projects id and everything nested under it as a single
// detached block, the plain non-cutting walk of spec §4.6 (node_visitor).
func (g *Graph) NodeVisitor(id arena.NodeID) *blocktree.Block {
	return project.ProjectNode(g.arena, id, g.titleResolver, g.writerOpts())
}

// ChildrenOf projects id's children, truncated at the starting sibling
// chain (node_visitor::children_of, spec §4.6).
func (g *Graph) ChildrenOf(id arena.NodeID) []*blocktree.Block {
	n := g.arena.Node(id)
	return project.ProjectSubtree(g.arena, n.Child, g.titleResolver, g.writerOpts())
}

// CutSubtree projects id as the sole content of a brand-new document: the
// "next returns None at the cut boundary" walker of spec §4.6's CutIter,
// used by Extract to carve a subtree out into its own document. The cut
// node's own Level is recomputed from zero (ProjectNode's depth starts at
// 0), so the extracted content always begins at its document's primary
// heading regardless of how deeply it used to nest.
func (g *Graph) CutSubtree(id arena.NodeID) *blocktree.Block {
	return project.ProjectNode(g.arena, id, g.titleResolver, g.writerOpts())
}

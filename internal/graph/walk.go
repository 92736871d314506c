package graph

import (
	"github.com/iwe-org/iwe-sub001/internal/arena"
	"github.com/iwe-org/iwe-sub001/internal/inline"
	"github.com/iwe-org/iwe-sub001/internal/key"
)

// walkSubtree visits every node reachable from first by following Child
// then Next (document order), invoking visit(id, node) for each.
func walkSubtree(a *arena.Arena, first arena.NodeID, visit func(arena.NodeID, arena.Node)) {
	for id := first; id != arena.NoNode; {
		n := a.Node(id)
		if n.IsEmpty() {
			return
		}
		visit(id, n)
		walkSubtree(a, n.Child, visit)
		id = n.Next
	}
}

// indexDocument builds a fresh RefIndex for one document's subtree, by DFS
// over its nodes (spec §4.3: "Rebuild by DFS over a Document subtree").
// Returning a per-document index (rather than mutating a shared one
// directly) lets the bounded data-parallel import pass (spec §5) build
// these concurrently and fold them with Merge.
func indexDocument(a *arena.Arena, source key.Key, firstChild arena.NodeID, refsExtension string) *RefIndex {
	idx := NewRefIndex()
	walkSubtree(a, firstChild, func(id arena.NodeID, n arena.Node) {
		switch n.Kind {
		case arena.KindReference:
			idx.addBlock(source, n.RefKey, id)
		case arena.KindSection, arena.KindLeaf:
			for _, target := range inline.RefKeys(a.Line(n.Line), source, refsExtension) {
				idx.addInline(source, target, id)
			}
		case arena.KindTable:
			for _, row := range append([][]inline.Line{n.Header}, n.Rows...) {
				for _, cell := range row {
					for _, target := range inline.RefKeys(cell, source, refsExtension) {
						idx.addInline(source, target, id)
					}
				}
			}
		}
	})
	return idx
}

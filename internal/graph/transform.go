package graph

import (
	"github.com/iwe-org/iwe-sub001/internal/arena"
	"github.com/iwe-org/iwe-sub001/internal/blocktree"
)

// replaceByOrigin walks a projected block forest depth-first looking for
// the block whose OriginID equals id, and splices repl(b)'s return value
// in its place (usually one block, sometimes several — Unwrap flattens a
// list's items into its parent's position). Every visitor that targets one
// specific node by id (Unwrap, Wrap, ChangeListType, single-section
// Extract, Inline) shares this walk; they differ only in what repl
// produces. Parent blocks on the path to a match are shallow-copied so the
// source tree (and any other outstanding projection) is left untouched.
func replaceByOrigin(blocks []*blocktree.Block, id arena.NodeID, repl func(*blocktree.Block) []*blocktree.Block) ([]*blocktree.Block, bool) {
	for i, b := range blocks {
		if b.OriginID == id {
			out := make([]*blocktree.Block, 0, len(blocks)-1+2)
			out = append(out, blocks[:i]...)
			out = append(out, repl(b)...)
			out = append(out, blocks[i+1:]...)
			return out, true
		}
		if len(b.Children) > 0 {
			if nc, ok := replaceByOrigin(b.Children, id, repl); ok {
				bc := *b
				bc.Children = nc
				out := make([]*blocktree.Block, len(blocks))
				copy(out, blocks)
				out[i] = &bc
				return out, true
			}
		}
	}
	return blocks, false
}

// findByOrigin returns the block whose OriginID equals id, searching the
// forest depth-first.
func findByOrigin(blocks []*blocktree.Block, id arena.NodeID) (*blocktree.Block, bool) {
	for _, b := range blocks {
		if b.OriginID == id {
			return b, true
		}
		if found, ok := findByOrigin(b.Children, id); ok {
			return found, true
		}
	}
	return nil, false
}

// mapBlocks rewrites every block in the forest (depth-first, Children
// first so replacements see already-rewritten children) via f, which
// returns the replacement for a single block; used by ChangeKeyVisitor to
// rewrite every Reference/line in a document in one pass.
func mapBlocks(blocks []*blocktree.Block, f func(*blocktree.Block) *blocktree.Block) []*blocktree.Block {
	out := make([]*blocktree.Block, len(blocks))
	for i, b := range blocks {
		bc := *b
		bc.Children = mapBlocks(b.Children, f)
		out[i] = f(&bc)
	}
	return out
}

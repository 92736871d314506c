package graph

import (
	"github.com/iwe-org/iwe-sub001/internal/blocktree"
	"github.com/iwe-org/iwe-sub001/internal/key"
	"github.com/iwe-org/iwe-sub001/internal/project"
)

// Squash implements SquashIter(key, depth) (spec §4.6): walks the document
// rooted at key; whenever it meets a Reference at a depth where budget
// remains, it substitutes the referenced document's children in place of
// the reference, consuming one unit of depth, and resumes the surrounding
// walk once the inlined tree is exhausted. depth reaching 0 stops
// substituting; a cycle that would revisit a key already on the current
// substitution path also stops, leaving that Reference as-is (spec §8
// scenario 5, squash_infinite_recursion).
func (g *Graph) Squash(k key.Key, depth int) ([]*blocktree.Block, error) {
	blocks, err := g.projectKey(k)
	if err != nil {
		return nil, err
	}
	return g.squashBlocks(blocks, depth, map[string]bool{k.String(): true}), nil
}

func (g *Graph) squashBlocks(blocks []*blocktree.Block, depth int, onPath map[string]bool) []*blocktree.Block {
	if depth <= 0 {
		return blocks
	}
	out := make([]*blocktree.Block, 0, len(blocks))
	for _, b := range blocks {
		if b.Kind == blocktree.Reference && !onPath[b.RefKey.String()] {
			if targetID, ok := g.docs[b.RefKey.String()]; ok {
				next := make(map[string]bool, len(onPath)+1)
				for kk := range onPath {
					next[kk] = true
				}
				next[b.RefKey.String()] = true
				t := g.arena.Node(targetID)
				sub := project.ProjectSubtree(g.arena, t.Child, g.titleResolver, g.writerOpts())
				out = append(out, g.squashBlocks(sub, depth-1, next)...)
				continue
			}
		}
		bc := *b
		bc.Children = g.squashBlocks(b.Children, depth, onPath)
		out = append(out, &bc)
	}
	return out
}

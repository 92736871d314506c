package graph

import (
	"github.com/iwe-org/iwe-sub001/internal/arena"
	"github.com/iwe-org/iwe-sub001/internal/blocktree"
	"github.com/iwe-org/iwe-sub001/internal/key"
)

// Extract implements ExtractVisitor(keys), spec §4.6: every subtree whose
// root id is a key of keys is cut out into its own document and replaced
// in place by a fresh Reference(newKey). Used by both the "Extract
// section" (one target) and "Extract subsections" (one target per nested
// child section) action providers (spec §4.10).
//
// Returns the rewritten content of k plus a fresh document per extracted
// target, keyed by the target's new key.
func (g *Graph) Extract(k key.Key, targets map[arena.NodeID]key.Key) ([]*blocktree.Block, map[string]*blocktree.Document, error) {
	blocks, err := g.projectKey(k)
	if err != nil {
		return nil, nil, err
	}

	extracted := make(map[string]*blocktree.Document, len(targets))
	for id, newKey := range targets {
		cut, ok := findByOrigin(blocks, id)
		if !ok {
			continue
		}
		title := cut.Line.PlainText()
		extracted[newKey.String()] = &blocktree.Document{
			Blocks: []*blocktree.Block{g.CutSubtree(id)},
		}
		blocks, _ = replaceByOrigin(blocks, id, func(*blocktree.Block) []*blocktree.Block {
			return []*blocktree.Block{blocktree.NewReference(newKey, title, arena.RefRegular)}
		})
	}
	return blocks, extracted, nil
}

package graph

import (
	"fmt"

	"github.com/iwe-org/iwe-sub001/internal/arena"
	"github.com/iwe-org/iwe-sub001/internal/blocktree"
	"github.com/iwe-org/iwe-sub001/internal/key"
)

// ChangeListType implements ChangeListTypeVisitor(key, list_id) (spec
// §4.6): toggles BulletList <-> OrderedList at the target; every other
// node is unchanged.
func (g *Graph) ChangeListType(k key.Key, listID arena.NodeID) ([]*blocktree.Block, error) {
	blocks, err := g.projectKey(k)
	if err != nil {
		return nil, err
	}
	target, ok := findByOrigin(blocks, listID)
	if !ok || (target.Kind != blocktree.BulletList && target.Kind != blocktree.OrderedList) {
		return nil, fmt.Errorf("node %d is not a list in %s", listID, k.String())
	}
	blocks, _ = replaceByOrigin(blocks, listID, func(b *blocktree.Block) []*blocktree.Block {
		bc := *b
		if bc.Kind == blocktree.BulletList {
			bc.Kind = blocktree.OrderedList
			bc.Ordered = true
		} else {
			bc.Kind = blocktree.BulletList
			bc.Ordered = false
		}
		return []*blocktree.Block{&bc}
	})
	return blocks, nil
}

package graph

import (
	"fmt"

	"github.com/iwe-org/iwe-sub001/internal/arena"
	"github.com/iwe-org/iwe-sub001/internal/blocktree"
	"github.com/iwe-org/iwe-sub001/internal/key"
)

// Inline implements InlineVisitor(inline_id) and InlineQuoteVisitor (spec
// §4.6): on reaching the Reference node identified by refID, it is
// replaced by the referenced document's children (wrapped in a Quote when
// asQuote is set), and the host walk continues around it. The target
// document is reported back so the caller can remove its file, matching
// the "Inline section" / "Inline quote" action providers (spec §4.10),
// which both delete the source note after folding its content in.
func (g *Graph) Inline(k key.Key, refID arena.NodeID, asQuote bool) (blocks []*blocktree.Block, removed key.Key, err error) {
	blocks, err = g.projectKey(k)
	if err != nil {
		return nil, key.Empty, err
	}

	ref, ok := findByOrigin(blocks, refID)
	if !ok || ref.Kind != blocktree.Reference {
		return nil, key.Empty, fmt.Errorf("node %d is not a reference in %s", refID, k.String())
	}
	children, err := g.projectKey(ref.RefKey)
	if err != nil {
		return nil, key.Empty, fmt.Errorf("unknown reference target: %s", ref.RefKey.String())
	}

	blocks, _ = replaceByOrigin(blocks, refID, func(*blocktree.Block) []*blocktree.Block {
		if asQuote {
			return []*blocktree.Block{{Kind: blocktree.Quote, Children: children, OriginID: arena.NoNode}}
		}
		return children
	})
	return blocks, ref.RefKey, nil
}

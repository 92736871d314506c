package graph

import (
	"fmt"

	"github.com/iwe-org/iwe-sub001/internal/arena"
	"github.com/iwe-org/iwe-sub001/internal/blocktree"
	"github.com/iwe-org/iwe-sub001/internal/key"
	"github.com/iwe-org/iwe-sub001/internal/project"
)

// Unwrap implements UnwrapIter(key, list_id) (spec §4.6): the children of
// the named list are lifted into its parent's position (each item's own
// text as a Paragraph, followed by the item's nested blocks) and the list
// node itself is dropped; siblings before and after the list are preserved
// because replaceByOrigin splices the lifted items in at exactly the
// list's old index.
func (g *Graph) Unwrap(k key.Key, listID arena.NodeID) ([]*blocktree.Block, error) {
	blocks, err := g.projectKey(k)
	if err != nil {
		return nil, err
	}
	list, ok := findByOrigin(blocks, listID)
	if !ok || (list.Kind != blocktree.BulletList && list.Kind != blocktree.OrderedList) {
		return nil, fmt.Errorf("node %d is not a list in %s", listID, k.String())
	}
	var lifted []*blocktree.Block
	for _, item := range list.Children {
		if !item.Line.IsEmpty() {
			lifted = append(lifted, &blocktree.Block{Kind: blocktree.Paragraph, OriginID: arena.NoNode, Line: item.Line})
		}
		lifted = append(lifted, item.Children...)
	}
	blocks, _ = replaceByOrigin(blocks, listID, func(*blocktree.Block) []*blocktree.Block {
		return lifted
	})
	return blocks, nil
}

// Wrap implements WrapIter(section_id) (spec §4.6): the named top-level
// section is enclosed in a BulletList with a single item whose body is
// that section.
func (g *Graph) Wrap(k key.Key, sectionID arena.NodeID) ([]*blocktree.Block, error) {
	blocks, err := g.projectKey(k)
	if err != nil {
		return nil, err
	}
	section, ok := findByOrigin(blocks, sectionID)
	if !ok {
		return nil, fmt.Errorf("node %d not found in %s", sectionID, k.String())
	}
	blocks, _ = replaceByOrigin(blocks, sectionID, func(b *blocktree.Block) []*blocktree.Block {
		item := &blocktree.Block{Kind: blocktree.ListItem, OriginID: arena.NoNode, Children: []*blocktree.Block{b}}
		list := &blocktree.Block{Kind: blocktree.BulletList, OriginID: arena.NoNode, Children: []*blocktree.Block{item}}
		return []*blocktree.Block{list}
	})
	_ = section
	return blocks, nil
}

// projectKey returns k's current projected block forest, the common
// starting point for every visitor that rewrites one existing document.
func (g *Graph) projectKey(k key.Key) ([]*blocktree.Block, error) {
	docID, ok := g.docs[k.String()]
	if !ok {
		return nil, fmt.Errorf("unknown key: %s", k.String())
	}
	n := g.arena.Node(docID)
	return project.ProjectSubtree(g.arena, n.Child, g.titleResolver, g.writerOpts()), nil
}

package graph

import (
	"fmt"
	"time"

	"github.com/iwe-org/iwe-sub001/internal/arena"
	"github.com/iwe-org/iwe-sub001/internal/blocktree"
	"github.com/iwe-org/iwe-sub001/internal/inline"
	"github.com/iwe-org/iwe-sub001/internal/key"
	"github.com/iwe-org/iwe-sub001/internal/tree"
)

// AttachKey resolves the date-templated key the Attach action provider
// appends to (spec §4.10, §9 open question): two attaches within the same
// day resolve to the same key and so update the same file, since
// formatting now against dateTemplate is deterministic for a given day.
func AttachKey(root key.Key, dateTemplate string, now time.Time) key.Key {
	return root.Child(now.Format(dateTemplate))
}

// AttachPatch implements the "Attach" action provider (spec §4.10): child
// is spliced in at pre_sub_header_position of the date-templated
// document, which is created fresh (a level-1 Heading titled by the date
// key's base name, followed by child as a second top-level block) if it
// doesn't exist yet.
func (g *Graph) AttachPatch(dateKey key.Key, child *blocktree.Block) (*Patch, error) {
	var blocks []*blocktree.Block
	if g.Has(dateKey) {
		existing, err := g.projectKey(dateKey)
		if err != nil {
			return nil, err
		}
		blocks = tree.AppendPreHeader(existing, existing[0].OriginID, []*blocktree.Block{child})
	} else {
		heading := &blocktree.Block{
			Kind:  blocktree.Heading,
			Level: 1,
			Line:  inline.NewTextLine(dateKey.Base()),
		}
		blocks = []*blocktree.Block{heading, child}
	}
	return g.SinglePatch(dateKey, blocks), nil
}

// LinkNewPatch implements the "Link-new" action provider (spec §4.10): a
// brand-new document newKey is created with a single heading (titled
// word), and the word at nodeID's line in k is replaced in place with a
// link to newKey (Markdown or WikiLink form, per wiki).
func (g *Graph) LinkNewPatch(k key.Key, newKey key.Key, nodeID arena.NodeID, word string, wiki bool, refsExtension string) (*Patch, error) {
	blocks, err := g.projectKey(k)
	if err != nil {
		return nil, err
	}
	url := newKey.String()
	if !wiki {
		url = key.LinkURL(newKey, refsExtension)
	}
	rewritten, ok := replaceByOrigin(blocks, nodeID, func(b *blocktree.Block) []*blocktree.Block {
		bc := *b
		if line, replaced := inline.ReplaceWordWithLink(b.Line, word, url, wiki); replaced {
			bc.Line = line
		}
		return []*blocktree.Block{&bc}
	})
	if !ok {
		return nil, fmt.Errorf("node %d not found in %s", nodeID, k.String())
	}

	p := g.SinglePatch(k, rewritten)
	newDoc := &blocktree.Document{Blocks: []*blocktree.Block{
		{Kind: blocktree.Heading, Level: 1, Line: inline.NewTextLine(word)},
	}}
	p.update(newKey.String(), newDoc)
	return p, nil
}

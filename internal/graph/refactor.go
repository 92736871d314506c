package graph

import (
	"fmt"

	"github.com/iwe-org/iwe-sub001/internal/arena"
	"github.com/iwe-org/iwe-sub001/internal/blocktree"
	"github.com/iwe-org/iwe-sub001/internal/key"
)

// docMetaFor looks up a document's frontmatter/tags, falling back to empty
// values for a freshly-synthesized document (e.g. one created by Extract).
func (g *Graph) docMetaFor(k key.Key) docMeta {
	if m, ok := g.meta[k.String()]; ok {
		return m
	}
	return docMeta{}
}

// RenamePatch implements the "Rename" action provider (spec §4.10, I8
// scenario 4): every Reference(old) in the workspace becomes
// Reference(new), old.md is deleted, new.md is created holding old's
// content. Errors when new already names a document.
func (g *Graph) RenamePatch(old, new key.Key) (*Patch, error) {
	if g.Has(new) {
		return nil, fmt.Errorf("rename target already exists: %s", new.String())
	}
	p := newPatch()
	for _, k := range g.Keys() {
		if k.Equal(old) {
			continue
		}
		blocks, err := g.ChangeKey(k, old, new)
		if err != nil {
			return nil, err
		}
		p.update(k.String(), &blocktree.Document{FrontMatter: g.docMetaFor(k).FrontMatter, Tags: g.docMetaFor(k).Tags, Blocks: blocks})
	}
	renamed, err := g.ChangeKey(old, old, new)
	if err != nil {
		return nil, err
	}
	p.update(new.String(), &blocktree.Document{FrontMatter: g.docMetaFor(old).FrontMatter, Tags: g.docMetaFor(old).Tags, Blocks: renamed})
	p.remove(old.String())
	return p, nil
}

// ExtractPatch implements the "Extract section" / "Extract subsections"
// action providers (spec §4.10): targets maps each section root id (under
// k) to a freshly-allocated key.
func (g *Graph) ExtractPatch(k key.Key, targets map[arena.NodeID]key.Key) (*Patch, error) {
	blocks, extracted, err := g.Extract(k, targets)
	if err != nil {
		return nil, err
	}
	p := newPatch()
	p.update(k.String(), &blocktree.Document{FrontMatter: g.docMetaFor(k).FrontMatter, Tags: g.docMetaFor(k).Tags, Blocks: blocks})
	for newKey, doc := range extracted {
		p.update(newKey, doc)
	}
	return p, nil
}

// InlinePatch implements the "Inline section" / "Inline quote" action
// providers (spec §4.10): the referenced document's content is folded into
// k at refID, and the referenced document's file is removed.
func (g *Graph) InlinePatch(k key.Key, refID arena.NodeID, asQuote bool) (*Patch, error) {
	blocks, removedKey, err := g.Inline(k, refID, asQuote)
	if err != nil {
		return nil, err
	}
	p := newPatch()
	p.update(k.String(), &blocktree.Document{FrontMatter: g.docMetaFor(k).FrontMatter, Tags: g.docMetaFor(k).Tags, Blocks: blocks})
	p.remove(removedKey.String())
	return p, nil
}

// SinglePatch wraps any single-document visitor result (Squash, Unwrap,
// Wrap, ChangeListType) as a one-entry Patch updating k.
func (g *Graph) SinglePatch(k key.Key, blocks []*blocktree.Block) *Patch {
	p := newPatch()
	p.update(k.String(), &blocktree.Document{FrontMatter: g.docMetaFor(k).FrontMatter, Tags: g.docMetaFor(k).Tags, Blocks: blocks})
	return p
}

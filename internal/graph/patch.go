package graph

import "github.com/iwe-org/iwe-sub001/internal/blocktree"

// Patch is the materialized form of spec §4.6's "patch graph": a fresh,
// detached set of documents produced by a visitor, never written back into
// the live graph directly. build_key_from_iter's caller (the LSP layer,
// C12) turns a Patch into Create/Update/Remove changes by diffing Updated
// against Removed and the live graph's existing keys.
type Patch struct {
	Updated map[string]*blocktree.Document
	Removed []string
}

func newPatch() *Patch {
	return &Patch{Updated: map[string]*blocktree.Document{}}
}

func (p *Patch) update(k string, doc *blocktree.Document) {
	p.Updated[k] = doc
}

func (p *Patch) remove(k string) {
	p.Removed = append(p.Removed, k)
}

package graph

import (
	"github.com/iwe-org/iwe-sub001/internal/arena"
	"github.com/iwe-org/iwe-sub001/internal/key"
)

// refEntry records one contribution to the index so it can be undone when
// its owning document is reparsed or removed (spec §4.3: "On update_key,
// remove the old subtree's contributions before reindexing").
type refEntry struct {
	target string
	id     arena.NodeID
	inline bool
}

// RefIndex maps a target key to the nodes referencing it: block-level
// Reference nodes and inline links within a Line, kept separate per spec
// §4.3 (I4).
type RefIndex struct {
	block    map[string]map[arena.NodeID]bool
	inlineR  map[string]map[arena.NodeID]bool
	bySource map[string][]refEntry
}

// NewRefIndex returns an empty index.
func NewRefIndex() *RefIndex {
	return &RefIndex{
		block:    map[string]map[arena.NodeID]bool{},
		inlineR:  map[string]map[arena.NodeID]bool{},
		bySource: map[string][]refEntry{},
	}
}

func (r *RefIndex) addBlock(source, target key.Key, id arena.NodeID) {
	r.add(source, target, id, false)
}

func (r *RefIndex) addInline(source, target key.Key, id arena.NodeID) {
	r.add(source, target, id, true)
}

func (r *RefIndex) add(source, target key.Key, id arena.NodeID, isInline bool) {
	m := r.block
	if isInline {
		m = r.inlineR
	}
	t := target.String()
	if m[t] == nil {
		m[t] = map[arena.NodeID]bool{}
	}
	m[t][id] = true
	s := source.String()
	r.bySource[s] = append(r.bySource[s], refEntry{target: t, id: id, inline: isInline})
}

// RemoveSource deletes every contribution a given document previously made
// to the index, in preparation for reindexing it or removing it entirely.
func (r *RefIndex) RemoveSource(source key.Key) {
	s := source.String()
	for _, e := range r.bySource[s] {
		m := r.block
		if e.inline {
			m = r.inlineR
		}
		if set, ok := m[e.target]; ok {
			delete(set, e.id)
		}
	}
	delete(r.bySource, s)
}

// BlockRefsTo returns the ids of every Reference node whose key equals k.
func (r *RefIndex) BlockRefsTo(k key.Key) []arena.NodeID {
	return idsOf(r.block[k.String()])
}

// InlineRefsTo returns the ids of every Line-bearing node whose line
// mentions k in a link URL.
func (r *RefIndex) InlineRefsTo(k key.Key) []arena.NodeID {
	return idsOf(r.inlineR[k.String()])
}

func idsOf(set map[arena.NodeID]bool) []arena.NodeID {
	out := make([]arena.NodeID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

// RefSite names one reference site: the document it lives in, the node id
// within that document, and whether it is an inline or block reference.
// Unlike BlockRefsTo/InlineRefsTo (which only ever feed counts), the LSP
// References provider (spec §4.10) needs to know which document each site
// belongs to in order to build a Location.
type RefSite struct {
	Source key.Key
	ID     arena.NodeID
	Inline bool
}

// SitesTo returns every reference site targeting k, across every source
// document, block and inline references both.
func (r *RefIndex) SitesTo(k key.Key) []RefSite {
	target := k.String()
	var out []RefSite
	for source, entries := range r.bySource {
		for _, e := range entries {
			if e.target == target {
				out = append(out, RefSite{Source: key.New(source), ID: e.id, Inline: e.inline})
			}
		}
	}
	return out
}

// Merge unions other's contributions into r (spec §4.3: "Merging two
// indexes unions the sets"), used when folding per-document index
// fragments built by the bounded data-parallel import pass (spec §5).
func (r *RefIndex) Merge(other *RefIndex) {
	mergeSet(r.block, other.block)
	mergeSet(r.inlineR, other.inlineR)
	for s, entries := range other.bySource {
		r.bySource[s] = append(r.bySource[s], entries...)
	}
}

func mergeSet(dst, src map[string]map[arena.NodeID]bool) {
	for k, set := range src {
		if dst[k] == nil {
			dst[k] = map[arena.NodeID]bool{}
		}
		for id := range set {
			dst[k][id] = true
		}
	}
}

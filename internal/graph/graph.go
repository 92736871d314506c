// Package graph implements the workspace graph (C6): an arena of parsed
// Markdown documents with sibling/child/parent linkage, a reference index
// (C7), and the visitor algebra (C8) that computes refactored views as
// materialized block trees without mutating storage.
package graph

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"k8s.io/klog/v2"

	"github.com/iwe-org/iwe-sub001/internal/arena"
	"github.com/iwe-org/iwe-sub001/internal/blocktree"
	"github.com/iwe-org/iwe-sub001/internal/key"
	"github.com/iwe-org/iwe-sub001/internal/mdparse"
	"github.com/iwe-org/iwe-sub001/internal/project"
)

// Options mirrors the parts of MarkdownOptions the graph core needs.
type Options struct {
	// RefsExtension is markdown.refs_extension: "" means link URLs carry
	// no extension, ".md" means they do.
	RefsExtension string
	// SequentialKeys selects random_key's allocation strategy: sequential
	// numeric suffixes when true, uuid-derived names when false (spec §4.2
	// "sequential vs random per configuration").
	SequentialKeys bool
}

type docMeta struct {
	FrontMatter string
	Tags        []string
}

// Graph is the live in-memory workspace graph. It owns an arena of nodes
// and lines; every other structure here borrows node ids from it (spec §3
// Ownership).
type Graph struct {
	arena   *arena.Arena
	docs    map[string]arena.NodeID
	meta    map[string]docMeta
	index   *RefIndex
	lineOf  map[arena.NodeID]int
	opts    Options
	seqNext int
}

// New returns an empty graph ready to ingest documents.
func New(opts Options) *Graph {
	return &Graph{
		arena:  arena.New(),
		docs:   map[string]arena.NodeID{},
		meta:   map[string]docMeta{},
		index:  NewRefIndex(),
		lineOf: map[arena.NodeID]int{},
		opts:   opts,
	}
}

// Import builds a graph from a map of key -> document content (spec §4.2:
// "build from a map of key -> content"). Per-document parse failures are
// aggregated with go-multierror rather than aborting the whole import,
// mirroring the teacher's fan-in error handling in pkg/reactor/jobs.
func Import(state map[string]string, opts Options) (*Graph, error) {
	g := New(opts)
	var errs *multierror.Error
	for raw, content := range state {
		k := key.New(raw)
		if err := g.FromMarkdown(k, content); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", k.String(), err))
			klog.Errorf("failed to parse %s: %v", k.String(), err)
		}
	}
	return g, errs.ErrorOrNil()
}

// FromMarkdown parses one document and creates or replaces its Document
// root and subtree, rebuilding the partial ref index for that key (spec
// §4.2). This also implements update_key, which spec describes as
// "combined replace + reindex" — there is nothing more to add on top.
func (g *Graph) FromMarkdown(k key.Key, text string) error {
	doc, err := mdparse.Read(k, text, mdparse.Options{RefsExtension: g.opts.RefsExtension})
	if err != nil {
		return err
	}

	if old, ok := g.docs[k.String()]; ok {
		g.index.RemoveSource(k)
		g.arena.DeleteBranch(old)
	}

	docID := g.arena.NewNodeID()
	child := g.insertChildren(docID, doc.Blocks)
	g.arena.SetNode(docID, arena.Node{
		Kind: arena.KindDocument, DocKey: k,
		Prev: arena.NoNode, Next: arena.NoNode, Child: child,
	})
	g.docs[k.String()] = docID
	g.meta[k.String()] = docMeta{FrontMatter: doc.FrontMatter, Tags: doc.Tags}

	idx := indexDocument(g.arena, k, child, g.opts.RefsExtension)
	g.index.Merge(idx)

	klog.V(4).Infof("indexed %s: %d top-level blocks", k.String(), len(doc.Blocks))
	return nil
}

// UpdateKey is the spec-named alias for FromMarkdown (spec §4.2).
func (g *Graph) UpdateKey(k key.Key, text string) error {
	return g.FromMarkdown(k, text)
}

// Remove tombstones every node reachable from key's Document node (spec §3
// Lifecycles).
func (g *Graph) Remove(k key.Key) {
	docID, ok := g.docs[k.String()]
	if !ok {
		return
	}
	g.index.RemoveSource(k)
	g.arena.DeleteBranch(docID)
	delete(g.docs, k.String())
	delete(g.meta, k.String())
}

// Has reports whether key currently names a document.
func (g *Graph) Has(k key.Key) bool {
	_, ok := g.docs[k.String()]
	return ok
}

// Keys returns every document key currently in the graph.
func (g *Graph) Keys() []key.Key {
	out := make([]key.Key, 0, len(g.docs))
	for k := range g.docs {
		out = append(out, key.New(k))
	}
	return out
}

func (g *Graph) writerOpts() project.Options {
	return project.Options{RefsExtension: g.opts.RefsExtension}
}

// titleResolver implements project.TitleResolver by reading the primary
// section's heading text straight out of the live arena (I5, I6).
func (g *Graph) titleResolver(k key.Key) (string, bool) {
	docID, ok := g.docs[k.String()]
	if !ok {
		return "", false
	}
	doc := g.arena.Node(docID)
	first := g.arena.Node(doc.Child)
	if first.Kind != arena.KindSection {
		return "", false
	}
	return g.arena.Line(first.Line).PlainText(), true
}

// ToMarkdown projects key's subtree and writes normalized Markdown (spec
// §4.2). write(read(text)) is idempotent on its second application (spec
// §8) because the writer's layout rules are purely a function of the
// block tree, never of the original source formatting.
func (g *Graph) ToMarkdown(k key.Key) (string, error) {
	docID, ok := g.docs[k.String()]
	if !ok {
		return "", fmt.Errorf("unknown key: %s", k.String())
	}
	n := g.arena.Node(docID)
	blocks := project.ProjectSubtree(g.arena, n.Child, g.titleResolver, g.writerOpts())
	m := g.meta[k.String()]
	return project.Write(&blocktree.Document{FrontMatter: m.FrontMatter, Tags: m.Tags, Blocks: blocks}, g.writerOpts()), nil
}

// Export returns the whole workspace as key -> normalized Markdown.
func (g *Graph) Export() map[string]string {
	out := make(map[string]string, len(g.docs))
	for raw := range g.docs {
		k := key.New(raw)
		if md, err := g.ToMarkdown(k); err == nil {
			out[raw] = md
		}
	}
	return out
}

// ExportKey is the single-document form of Export.
func (g *Graph) ExportKey(k key.Key) (string, error) {
	return g.ToMarkdown(k)
}

// GetBlockReferencesTo returns the ids of every Reference node whose key
// equals k (I4).
func (g *Graph) GetBlockReferencesTo(k key.Key) []arena.NodeID {
	return g.index.BlockRefsTo(k)
}

// GetInlineReferencesTo returns the ids of every line-bearing node whose
// line mentions k in a link URL (I4).
func (g *Graph) GetInlineReferencesTo(k key.Key) []arena.NodeID {
	return g.index.InlineRefsTo(k)
}

// GetBlockReferencesIn returns the ids of every Reference node contained
// within key's own document.
func (g *Graph) GetBlockReferencesIn(k key.Key) []arena.NodeID {
	docID, ok := g.docs[k.String()]
	if !ok {
		return nil
	}
	n := g.arena.Node(docID)
	var out []arena.NodeID
	walkSubtree(g.arena, n.Child, func(id arena.NodeID, node arena.Node) {
		if node.Kind == arena.KindReference {
			out = append(out, id)
		}
	})
	return out
}

// ReferenceSites returns every reference site (block or inline) targeting
// k, each tagged with the document it lives in, for the "References" LSP
// provider (spec §4.10).
func (g *Graph) ReferenceSites(k key.Key) []RefSite {
	return g.index.SitesTo(k)
}

// NodeRank implements node_rank: incoming inline refs + incoming block
// refs for the primary section of k, 0 for a non-primary section (I which
// backs node_rank, spec §8).
func (g *Graph) NodeRank(k key.Key) int {
	return len(g.GetInlineReferencesTo(k)) + len(g.GetBlockReferencesTo(k))
}

// RandomKey allocates a fresh key under parent that does not collide with
// any existing key, either sequentially numbered or uuid-derived depending
// on Options.SequentialKeys (spec §4.2).
func (g *Graph) RandomKey(parent key.Key) key.Key {
	return g.UniqueKeys(parent, 1)[0]
}

// UniqueKeys allocates n fresh, mutually distinct keys under parent.
func (g *Graph) UniqueKeys(parent key.Key, n int) []key.Key {
	out := make([]key.Key, 0, n)
	for len(out) < n {
		var candidate key.Key
		if g.opts.SequentialKeys {
			g.seqNext++
			candidate = parent.Child(fmt.Sprintf("%d", g.seqNext))
		} else {
			candidate = parent.Child(uuid.New().String())
		}
		if !g.Has(candidate) {
			out = append(out, candidate)
		}
	}
	return out
}

// Arena exposes the underlying arena to the companion tree/search/store
// packages that need read access without re-deriving it (kept narrow:
// callers only ever read, the graph remains the sole mutator).
func (g *Graph) Arena() *arena.Arena { return g.arena }

// DocNode returns the Document node id for k, if present.
func (g *Graph) DocNode(k key.Key) (arena.NodeID, bool) {
	id, ok := g.docs[k.String()]
	return id, ok
}

// SourceLine returns the 0-indexed source line a node started on when its
// document was last parsed, used by the LSP source map.
func (g *Graph) SourceLine(id arena.NodeID) int {
	return g.lineOf[id]
}

// Title returns k's current title the same way the projector does,
// exposed for completion/hover/search callers.
func (g *Graph) Title(k key.Key) (string, bool) {
	return g.titleResolver(k)
}

// ProjectKey exposes projectKey to callers outside the package (store's
// stats pass, the LSP hover/inlay providers) that need k's current block
// forest without paying for a full Markdown round trip.
func (g *Graph) ProjectKey(k key.Key) ([]*blocktree.Block, error) {
	return g.projectKey(k)
}

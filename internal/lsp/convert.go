// Package lsp implements the LSP routing layer (C12, spec §4.10): for
// every wire request it resolves a target NodeID via a source-map lookup,
// chooses an action provider, and translates the provider's result into
// LSP response/WorkspaceEdit shapes. The domain logic each provider calls
// into lives in actions.go as plain functions over store.Database/
// graph.Graph, kept free of any glsp dependency so it can be unit tested
// without a wire-protocol handler in the loop.
package lsp

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/iwe-org/iwe-sub001/internal/arena"
	"github.com/iwe-org/iwe-sub001/internal/blocktree"
	"github.com/iwe-org/iwe-sub001/internal/key"
)

// uriToKey converts a file:// document URI into a workspace-relative Key,
// the inverse of keyToURI.
func uriToKey(root string, uri string) key.Key {
	p := uriToPath(uri)
	rel, err := filepath.Rel(root, p)
	if err != nil {
		rel = p
	}
	return key.New(filepath.ToSlash(rel))
}

// keyToURI renders k as the file:// URI of its Markdown file under root.
func keyToURI(root string, k key.Key) string {
	p := filepath.Join(root, filepath.FromSlash(k.String())+".md")
	return pathToURI(p)
}

func uriToPath(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return strings.TrimPrefix(uri, "file://")
	}
	return u.Path
}

func pathToURI(p string) string {
	return "file://" + filepath.ToSlash(p)
}

// findNodeAtLine returns the innermost block starting at or before line
// (0-indexed), the Go shape of get_node_id_at(key, line) (spec §4.10):
// blocks are visited in document order and the latest-starting one not
// past line wins, which is the deepest enclosing block since a parent's
// SourceLine is always <= every descendant's.
func findNodeAtLine(blocks []*blocktree.Block, line int) (*blocktree.Block, bool) {
	var best *blocktree.Block
	var walk func([]*blocktree.Block)
	walk = func(bs []*blocktree.Block) {
		for _, b := range bs {
			if b.SourceLine <= line && (best == nil || b.SourceLine >= best.SourceLine) {
				best = b
			}
			walk(b.Children)
		}
	}
	walk(blocks)
	if best == nil {
		return nil, false
	}
	return best, true
}

// nodeIDAtLine is the NodeID-returning form used by providers that only
// need the id to hand to a graph visitor.
func nodeIDAtLine(blocks []*blocktree.Block, line int) (arena.NodeID, bool) {
	b, ok := findNodeAtLine(blocks, line)
	if !ok {
		return arena.NoNode, false
	}
	return b.OriginID, true
}

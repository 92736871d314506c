// Package project implements the projector and Markdown writer (C5): it
// turns an arena subtree into a blocktree.Document (the projector) and
// serializes a blocktree.Document back to normalized Markdown (the
// writer). Neither half depends on the graph package — the projector
// takes an arena plus a narrow TitleResolver callback — so the graph
// package can import project for Graph.ToMarkdown without a cycle.
package project

import (
	"github.com/iwe-org/iwe-sub001/internal/arena"
	"github.com/iwe-org/iwe-sub001/internal/blocktree"
	"github.com/iwe-org/iwe-sub001/internal/inline"
	"github.com/iwe-org/iwe-sub001/internal/key"
)

// Options mirrors MarkdownOptions for the parts the projector and writer
// need.
type Options struct {
	RefsExtension string
}

// TitleResolver returns the current title (primary-section heading text)
// of a document key, or ok=false if the key is unknown or has no heading
// yet (I6).
type TitleResolver func(key.Key) (title string, ok bool)

// ProjectSubtree walks the arena starting at the first child of a
// Document node (root), producing the block tree that Write will
// serialize. FrontMatter and Tags must be supplied by the caller (the
// graph keeps them alongside the document, outside the arena's
// structural model).
func ProjectSubtree(a *arena.Arena, firstChild arena.NodeID, resolve TitleResolver, opts Options) []*blocktree.Block {
	p := &projector{a: a, resolve: resolve, opts: opts}
	return p.children(firstChild, 0)
}

// ProjectNode projects exactly one node (and everything nested under it),
// as if it were the sole root of a fresh subtree. Used by the visitor
// algebra (C8) to cut a section out as the content of a brand-new
// document: the section's own Level is recomputed from 0 so it becomes a
// document's primary heading regardless of how deeply it used to nest.
func ProjectNode(a *arena.Arena, id arena.NodeID, resolve TitleResolver, opts Options) *blocktree.Block {
	p := &projector{a: a, resolve: resolve, opts: opts}
	return p.node(id, a.Node(id), 0)
}

type projector struct {
	a       *arena.Arena
	resolve TitleResolver
	opts    Options
}

// children projects a sibling chain. depth is the number of enclosing
// sections, so a Heading encountered here becomes Level depth+1 (I3:
// level is the recursion depth, never a value stored on the node).
func (p *projector) children(first arena.NodeID, depth int) []*blocktree.Block {
	var out []*blocktree.Block
	for id := first; id != arena.NoNode; {
		n := p.a.Node(id)
		if n.IsEmpty() {
			break
		}
		if b := p.node(id, n, depth); b != nil {
			out = append(out, b)
		}
		id = n.Next
	}
	return out
}

func (p *projector) node(id arena.NodeID, n arena.Node, depth int) *blocktree.Block {
	b := p.nodeBlock(id, n, depth)
	if b != nil {
		b.OriginID = id
	}
	return b
}

func (p *projector) nodeBlock(id arena.NodeID, n arena.Node, depth int) *blocktree.Block {
	switch n.Kind {
	case arena.KindSection:
		b := &blocktree.Block{Kind: blocktree.Heading, Level: depth + 1, Line: p.a.Line(n.Line)}
		b.Children = p.children(n.Child, depth+1)
		return b

	case arena.KindLeaf:
		return &blocktree.Block{Kind: blocktree.Paragraph, Line: p.a.Line(n.Line)}

	case arena.KindRaw:
		return &blocktree.Block{Kind: blocktree.Raw, Lang: n.Lang, Content: n.Content}

	case arena.KindBulletList, arena.KindOrderedList:
		kind := blocktree.BulletList
		if n.Kind == arena.KindOrderedList {
			kind = blocktree.OrderedList
		}
		return &blocktree.Block{Kind: kind, Ordered: n.Kind == arena.KindOrderedList, Children: p.listItems(n.Child, depth)}

	case arena.KindQuote:
		return &blocktree.Block{Kind: blocktree.Quote, Children: p.children(n.Child, depth)}

	case arena.KindHorizontalRule:
		return &blocktree.Block{Kind: blocktree.HorizontalRule}

	case arena.KindReference:
		text := n.RefText
		if n.RefKind == arena.RefRegular {
			if title, ok := p.resolve(n.RefKey); ok {
				text = title
			}
		}
		return &blocktree.Block{Kind: blocktree.Reference, RefKey: n.RefKey, RefText: text, RefKind: n.RefKind}

	case arena.KindTable:
		return &blocktree.Block{
			Kind:        blocktree.Table,
			TableHeader: n.Header,
			TableRows:   n.Rows,
			TableAlign:  n.Alignment,
		}

	default:
		return nil
	}
}

// listItems projects the children of a list node; each child is itself a
// Section-less "item" that carries its own inline line plus further
// nested blocks (sub-lists, quotes, code). The arena stores list items as
// Leaf-shaped nodes whose Child holds the nested content, distinguished
// here only by position (direct children of a list).
func (p *projector) listItems(first arena.NodeID, depth int) []*blocktree.Block {
	var out []*blocktree.Block
	for id := first; id != arena.NoNode; {
		n := p.a.Node(id)
		if n.IsEmpty() {
			break
		}
		out = append(out, &blocktree.Block{
			Kind:     blocktree.ListItem,
			OriginID: id,
			Line:     p.a.Line(n.Line),
			Children: p.children(n.Child, depth),
		})
		id = n.Next
	}
	return out
}

// RefLine renders a block-level Reference node's visible inline form,
// shared by the writer and by any caller (e.g. hover/completion) needing
// the same text outside of a full document render.
func RefLine(refKey key.Key, text string, kind arena.RefKind, opts Options) inline.Line {
	switch kind {
	case arena.RefWikiLink:
		return inline.Line{Spans: []inline.Span{{
			Kind: inline.Link, LinkKind: inline.LinkWikiLink,
			URL: wikiURL(refKey, opts), IsRefURL: true,
		}}}
	case arena.RefWikiLinkPiped:
		return inline.Line{Spans: []inline.Span{{
			Kind: inline.Link, LinkKind: inline.LinkWikiLinkPiped,
			URL: wikiURL(refKey, opts), IsRefURL: true,
			Children: []inline.Span{{Kind: inline.Text, Text: text}},
		}}}
	default:
		var children []inline.Span
		if text != "" {
			children = []inline.Span{{Kind: inline.Text, Text: text}}
		}
		return inline.Line{Spans: []inline.Span{{
			Kind: inline.Link, LinkKind: inline.LinkRegular,
			URL: key.LinkURL(refKey, opts.RefsExtension), IsRefURL: true,
			Children: children,
		}}}
	}
}

func wikiURL(k key.Key, opts Options) string {
	if opts.RefsExtension == "" {
		return k.String()
	}
	return k.WithExtension(opts.RefsExtension)
}

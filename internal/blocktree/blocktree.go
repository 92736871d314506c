// Package blocktree is the intermediate block-tree representation shared
// by the Markdown reader (C4), which produces it by parsing source text,
// and the projector (C5), which produces it by walking a graph subtree.
// The writer (C5) consumes it in both cases to emit normalized Markdown.
package blocktree

import (
	"github.com/iwe-org/iwe-sub001/internal/arena"
	"github.com/iwe-org/iwe-sub001/internal/inline"
	"github.com/iwe-org/iwe-sub001/internal/key"
)

// Kind discriminates a Block's role.
type Kind int

const (
	Heading Kind = iota
	Paragraph
	Raw
	BulletList
	OrderedList
	ListItem
	Quote
	HorizontalRule
	Reference
	Table
)

// Block is one node of the intermediate tree. Headings nest their section
// content directly in Children (the reader builds this nesting while
// parsing; the projector builds it while walking the graph) so that
// heading level is purely structural by the time the writer sees it
// (invariant I3).
type Block struct {
	Kind Kind

	// OriginID is the arena node id this block was projected from, or
	// arena.NoNode for a block synthesized fresh (e.g. a new Reference
	// created by a refactoring). Tree operations (C9) use it to locate a
	// target node within a detached tree by the same id the live graph
	// uses.
	OriginID arena.NodeID

	// SourceLine is the 0-indexed source line this block started on when
	// read from Markdown text, used to build the LSP source map. Zero for
	// blocks synthesized by a refactoring rather than read from disk.
	SourceLine int

	// Heading / Paragraph
	Line inline.Line

	// Heading only: depth below the document's primary section, 1 being
	// the primary section itself. The writer derives the rendered "#"
	// count from this, never from source level (I3).
	Level int

	// Raw
	Lang    string
	Content string

	// Nested content: Heading's section body, ListItem's body, Quote's
	// body.
	Children []*Block

	// Reference
	RefKey  key.Key
	RefText string
	RefKind arena.RefKind

	// Table
	TableHeader []inline.Line
	TableRows   [][]inline.Line
	TableAlign  []arena.TableAlign

	// List only: ordinal offset hint preserved across round trips when the
	// writer re-numbers an OrderedList from 1; unused by BulletList.
	Ordered bool
}

// Document is a parsed or projected Markdown file: verbatim frontmatter,
// collected hashtags, and a top-level block sequence (headings nest their
// own content, so top level usually holds zero-or-one root heading plus
// any leading non-heading blocks).
type Document struct {
	FrontMatter string
	Tags        []string
	Blocks      []*Block
}

// New builds a fresh block (OriginID set to NoNode: it does not originate
// from any existing arena node).
func New(kind Kind) *Block {
	return &Block{Kind: kind, OriginID: arena.NoNode}
}

// NewHeading builds a heading block at level with inline content line.
func NewHeading(level int, line inline.Line) *Block {
	b := New(Heading)
	b.Level = level
	b.Line = line
	return b
}

// NewReference builds a standalone block-level reference.
func NewReference(k key.Key, text string, kind arena.RefKind) *Block {
	b := New(Reference)
	b.RefKey = k
	b.RefText = text
	b.RefKind = kind
	return b
}

package graph

import (
	"github.com/iwe-org/iwe-sub001/internal/arena"
	"github.com/iwe-org/iwe-sub001/internal/key"
)

// NodePath is one path from a document's primary section down to some
// descendant section (inclusive), used to build search paths (C10) and
// document/workspace symbols (C12).
type NodePath struct {
	Key      key.Key
	Titles   []string
	TargetID arena.NodeID
	Line     int
}

// Joined renders the path the way document/workspace symbols display it:
// headings joined by " • " (spec §4.10, §8 scenario 6).
func (p NodePath) Joined() string {
	out := ""
	for i, t := range p.Titles {
		if i > 0 {
			out += " • "
		}
		out += t
	}
	return out
}

// Paths returns every path from each document's primary section to any
// descendant section, inclusive (spec §4.2).
func (g *Graph) Paths() []NodePath {
	var out []NodePath
	for raw, docID := range g.docs {
		k := key.New(raw)
		doc := g.arena.Node(docID)
		primary := g.arena.Node(doc.Child)
		if primary.Kind != arena.KindSection {
			continue
		}
		g.collectPaths(k, doc.Child, nil, &out)
	}
	return out
}

func (g *Graph) collectPaths(k key.Key, sectionID arena.NodeID, prefix []string, out *[]NodePath) {
	n := g.arena.Node(sectionID)
	if n.Kind != arena.KindSection {
		return
	}
	title := g.arena.Line(n.Line).PlainText()
	titles := append(append([]string{}, prefix...), title)
	*out = append(*out, NodePath{Key: k, Titles: titles, TargetID: sectionID, Line: g.SourceLine(sectionID)})

	// Sections only ever nest directly under another section (or the
	// document root), so a plain sibling walk over n.Child finds every
	// immediate child section without wandering into unrelated subtrees
	// such as list items or quotes.
	for id := n.Child; id != arena.NoNode; {
		child := g.arena.Node(id)
		if child.IsEmpty() {
			break
		}
		if child.Kind == arena.KindSection {
			g.collectPaths(k, id, titles, out)
		}
		id = child.Next
	}
}

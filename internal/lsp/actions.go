package lsp

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iwe-org/iwe-sub001/internal/arena"
	"github.com/iwe-org/iwe-sub001/internal/blocktree"
	"github.com/iwe-org/iwe-sub001/internal/graph"
	"github.com/iwe-org/iwe-sub001/internal/inline"
	"github.com/iwe-org/iwe-sub001/internal/key"
	"github.com/iwe-org/iwe-sub001/internal/project"
	"github.com/iwe-org/iwe-sub001/internal/store"
	"github.com/iwe-org/iwe-sub001/internal/tree"
)

// Location names a position this router can answer a wire request with:
// a document key plus the 0-indexed source line to put the cursor on.
type Location struct {
	Key  key.Key
	Line int
}

// Definition implements the "Goto definition" provider (spec §4.10):
// cursor on an inline or block link resolves to the target document.
func Definition(db *store.Database, k key.Key, line int, refsExtension string) (Location, bool) {
	blocks, err := db.Graph().ProjectKey(k)
	if err != nil {
		return Location{}, false
	}
	b, ok := findNodeAtLine(blocks, line)
	if !ok {
		return Location{}, false
	}
	if b.Kind == blocktree.Reference {
		return Location{Key: b.RefKey}, true
	}
	switch b.Kind {
	case blocktree.Heading, blocktree.Paragraph, blocktree.ListItem:
		if refs := inline.RefKeys(b.Line, k, refsExtension); len(refs) > 0 {
			return Location{Key: refs[0]}, true
		}
	}
	return Location{}, false
}

// References implements the "References" provider (spec §4.10): cursor on
// the primary-section heading of k returns every inline and block
// reference site targeting k, across the whole workspace.
func References(db *store.Database, k key.Key) []Location {
	sites := db.Graph().ReferenceSites(k)
	out := make([]Location, 0, len(sites))
	for _, s := range sites {
		out = append(out, Location{Key: s.Source, Line: db.Graph().SourceLine(s.ID)})
	}
	return out
}

// IsPrimaryHeadingAt reports whether line sits on k's primary-section
// heading, the trigger condition shared by References and
// PrepareRename (spec §4.10, §8 scenario 4: rename "at position (0,0)").
func IsPrimaryHeadingAt(db *store.Database, k key.Key, line int) bool {
	blocks, err := db.Graph().ProjectKey(k)
	if err != nil || len(blocks) == 0 {
		return false
	}
	b, ok := findNodeAtLine(blocks, line)
	return ok && b.Kind == blocktree.Heading && b.Level == 1
}

// PrepareRename returns the placeholder text (the key itself) a client
// should pre-fill for a rename starting at line, or ok=false if line is
// not on k's primary heading.
func PrepareRename(db *store.Database, k key.Key, line int) (string, bool) {
	if !IsPrimaryHeadingAt(db, k, line) {
		return "", false
	}
	return k.String(), true
}

// ExecuteRename implements the "Rename" provider's compute_changes half
// (spec §4.10, §8 scenario 4).
func ExecuteRename(db *store.Database, old, new key.Key) (*graph.Patch, error) {
	return db.Graph().RenamePatch(old, new)
}

// CompletionItem is one candidate the Completion provider offers.
type CompletionItem struct {
	Label  string
	Insert string
}

// Completion implements the "Completion" provider (spec §4.10): one item
// per known key, label=title, insert=Markdown link or WikiLink per
// wikiLinks.
func Completion(db *store.Database, wikiLinks bool, refsExtension string) []CompletionItem {
	keys := db.Graph().Keys()
	out := make([]CompletionItem, 0, len(keys))
	for _, k := range keys {
		title, ok := db.Graph().Title(k)
		if !ok || title == "" {
			title = k.Base()
		}
		insert := fmt.Sprintf("[%s](%s)", title, key.LinkURL(k, refsExtension))
		if wikiLinks {
			insert = "[[" + k.String() + "]]"
		}
		out = append(out, CompletionItem{Label: title, Insert: insert})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// SymbolEntry is one document/workspace symbol: a heading path joined by
// " • " (spec §4.10, §8 scenario 6), the key it lives in, and its source
// line.
type SymbolEntry struct {
	Name string
	Key  key.Key
	Line int
}

// DocumentSymbols implements the "Document symbols" provider: every
// heading path within k alone.
func DocumentSymbols(db *store.Database, k key.Key) []SymbolEntry {
	var out []SymbolEntry
	for _, p := range db.Graph().Paths() {
		if !p.Key.Equal(k) {
			continue
		}
		out = append(out, SymbolEntry{Name: p.Joined(), Key: p.Key, Line: p.Line})
	}
	return out
}

// WorkspaceSymbols implements the "Workspace symbols" provider: every
// heading path across the workspace, optionally fuzzy-filtered by query
// using the same index the search feature (C10) builds.
func WorkspaceSymbols(db *store.Database, query string) []SymbolEntry {
	if query == "" {
		var out []SymbolEntry
		for _, p := range db.Graph().Paths() {
			out = append(out, SymbolEntry{Name: p.Joined(), Key: p.Key, Line: p.Line})
		}
		return out
	}
	paths := db.Search(query)
	out := make([]SymbolEntry, 0, len(paths))
	for _, p := range paths {
		out = append(out, SymbolEntry{Name: p.Text, Key: p.Key, Line: p.Line})
	}
	return out
}

// Format implements the "Format document" provider: a full rewrite with
// normalized Markdown (ref titles refreshed from their targets since
// project.ProjectSubtree re-derives every Reference's display title).
func Format(db *store.Database, k key.Key) (string, bool) {
	md, err := db.Graph().ToMarkdown(k)
	if err != nil {
		return "", false
	}
	return md, true
}

// InlayHint is one end-of-line annotation (spec §4.10).
type InlayHint struct {
	Line int
	Text string
}

// InlayHints implements the "Inlay hints" provider: "↖<title>" at the
// primary heading for each incoming block ref, and "⎘"/"⎘ⁿ" at a block
// reference's own line, counting how many sites target the same key.
func InlayHints(db *store.Database, k key.Key) []InlayHint {
	g := db.Graph()
	blocks, err := g.ProjectKey(k)
	if err != nil || len(blocks) == 0 {
		return nil
	}

	var out []InlayHint
	if blocks[0].Kind == blocktree.Heading {
		for _, site := range g.ReferenceSites(k) {
			if site.Inline {
				continue
			}
			title, _ := g.Title(site.Source)
			out = append(out, InlayHint{Line: blocks[0].SourceLine, Text: "↖" + title})
		}
	}

	var walk func([]*blocktree.Block)
	walk = func(bs []*blocktree.Block) {
		for _, b := range bs {
			if b.Kind == blocktree.Reference {
				n := len(g.ReferenceSites(b.RefKey))
				switch {
				case n == 1:
					out = append(out, InlayHint{Line: b.SourceLine, Text: "⎘"})
				case n > 1:
					out = append(out, InlayHint{Line: b.SourceLine, Text: "⎘" + superscript(n)})
				}
			}
			walk(b.Children)
		}
	}
	walk(blocks)
	return out
}

var superDigits = [...]rune{'⁰', '¹', '²', '³', '⁴', '⁵', '⁶', '⁷', '⁸', '⁹'}

func superscript(n int) string {
	if n == 0 {
		return string(superDigits[0])
	}
	var b strings.Builder
	digits := []rune{}
	for n > 0 {
		digits = append(digits, superDigits[n%10])
		n /= 10
	}
	for i := len(digits) - 1; i >= 0; i-- {
		b.WriteRune(digits[i])
	}
	return b.String()
}

// Hover implements the "Hover" provider: cursor on a link previews the
// linked document's content with frontmatter stripped (achieved simply by
// never passing FrontMatter into the ad-hoc Document Write builds here).
func Hover(db *store.Database, k key.Key, line int, refsExtension string) (string, bool) {
	blocks, err := db.Graph().ProjectKey(k)
	if err != nil {
		return "", false
	}
	b, ok := findNodeAtLine(blocks, line)
	if !ok {
		return "", false
	}
	var target key.Key
	switch b.Kind {
	case blocktree.Reference:
		target = b.RefKey
	case blocktree.Heading, blocktree.Paragraph, blocktree.ListItem:
		refs := inline.RefKeys(b.Line, k, refsExtension)
		if len(refs) == 0 {
			return "", false
		}
		target = refs[0]
	default:
		return "", false
	}
	targetBlocks, err := db.Graph().ProjectKey(target)
	if err != nil {
		return "", false
	}
	return project.Write(&blocktree.Document{Blocks: targetBlocks}, project.Options{RefsExtension: refsExtension}), true
}

// CodeAction names one refactoring available at a cursor position, paired
// with the stable identifier spec §6 requires LSP clients see.
type CodeAction struct {
	ID    string
	Title string
	Patch func() (*graph.Patch, error)
}

// Stable code-action identifiers (spec §6).
const (
	ActionExtractSection    = "refactor.extract.section"
	ActionExtractSubs       = "refactor.extract.subsections"
	ActionInlineSection     = "refactor.inline.reference.section"
	ActionInlineQuote       = "refactor.inline.reference.quote"
	ActionRewriteListType   = "refactor.rewrite.list.type"
	ActionRewriteListToSec  = "refactor.rewrite.list.section"
	ActionRewriteSecToList  = "refactor.rewrite.section.list"
	ActionDelete            = "refactor.delete"
)

// AvailableCodeActions implements the "List ↔ Section", "Extract",
// "Inline", "Sort list" and "refactor.delete" providers (spec §4.10):
// the set offered depends on the kind of node under the cursor.
func AvailableCodeActions(db *store.Database, k key.Key, id arena.NodeID) []CodeAction {
	g := db.Graph()
	blocks, err := g.ProjectKey(k)
	if err != nil {
		return nil
	}
	b, ok := tree.FindID(blocks, id)
	if !ok {
		return nil
	}

	var out []CodeAction
	switch b.Kind {
	case blocktree.Heading:
		out = append(out, CodeAction{
			ID: ActionExtractSection, Title: "Extract section",
			Patch: func() (*graph.Patch, error) {
				newKey := g.RandomKey(k.Parent())
				return g.ExtractPatch(k, map[arena.NodeID]key.Key{id: newKey})
			},
		})
		if hasChildSections(b) {
			out = append(out, CodeAction{
				ID: ActionExtractSubs, Title: "Extract subsections",
				Patch: func() (*graph.Patch, error) {
					targets := map[arena.NodeID]key.Key{}
					for _, c := range b.Children {
						if c.Kind == blocktree.Heading {
							targets[c.OriginID] = g.RandomKey(k.Parent())
						}
					}
					return g.ExtractPatch(k, targets)
				},
			})
		}
		out = append(out, CodeAction{
			ID: ActionRewriteSecToList, Title: "Convert section to list item",
			Patch: func() (*graph.Patch, error) {
				blocks, err := g.Wrap(k, id)
				if err != nil {
					return nil, err
				}
				return g.SinglePatch(k, blocks), nil
			},
		})

	case blocktree.Reference:
		out = append(out,
			CodeAction{
				ID: ActionInlineSection, Title: "Inline reference as section",
				Patch: func() (*graph.Patch, error) { return g.InlinePatch(k, id, false) },
			},
			CodeAction{
				ID: ActionInlineQuote, Title: "Inline reference as quote",
				Patch: func() (*graph.Patch, error) { return g.InlinePatch(k, id, true) },
			},
		)

	case blocktree.BulletList, blocktree.OrderedList:
		out = append(out, CodeAction{
			ID: ActionRewriteListType, Title: "Toggle list type",
			Patch: func() (*graph.Patch, error) {
				blocks, err := g.ChangeListType(k, id)
				if err != nil {
					return nil, err
				}
				return g.SinglePatch(k, blocks), nil
			},
		})
		out = append(out, CodeAction{
			ID: ActionRewriteListToSec, Title: "Convert list to section",
			Patch: func() (*graph.Patch, error) {
				blocks, err := g.Unwrap(k, id)
				if err != nil {
					return nil, err
				}
				return g.SinglePatch(k, blocks), nil
			},
		})
		if asc, desc := sortOffers(blocks, id); asc || desc {
			if asc {
				out = append(out, sortAction(g, k, id, false))
			}
			if desc {
				out = append(out, sortAction(g, k, id, true))
			}
		}
	}

	out = append(out, CodeAction{
		ID: ActionDelete, Title: "Delete",
		Patch: func() (*graph.Patch, error) {
			blocks, err := g.ProjectKey(k)
			if err != nil {
				return nil, err
			}
			return g.SinglePatch(k, tree.RemoveNode(blocks, id)), nil
		},
	})
	return out
}

func hasChildSections(b *blocktree.Block) bool {
	for _, c := range b.Children {
		if c.Kind == blocktree.Heading {
			return true
		}
	}
	return false
}

// sortOffers reports whether ascending/descending sort should be offered
// for listID: only when the list isn't already in that order (spec §4.10
// "offered only when not already sorted").
func sortOffers(blocks []*blocktree.Block, listID arena.NodeID) (asc, desc bool) {
	return !tree.IsSorted(blocks, listID, false), !tree.IsSorted(blocks, listID, true)
}

func sortAction(g *graph.Graph, k key.Key, listID arena.NodeID, reverse bool) CodeAction {
	title := "Sort list ascending"
	if reverse {
		title = "Sort list descending"
	}
	return CodeAction{
		ID: fmt.Sprintf("refactor.sort.list.%v", reverse), Title: title,
		Patch: func() (*graph.Patch, error) {
			blocks, err := g.ProjectKey(k)
			if err != nil {
				return nil, err
			}
			return g.SinglePatch(k, tree.SortChildren(blocks, listID, reverse)), nil
		},
	}
}

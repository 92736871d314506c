// Package tree implements structural edits on a detached, materialized
// block tree (spec §4.6's "Tree operations", C9): the refactorings that
// need more than a single streaming pass over the live graph (sorting,
// reference scrubbing, LLM prompt marking) work here, directly on the
// []*blocktree.Block forest the projector (C5) or visitor algebra (C8)
// already produced. None of these functions touch the arena; they are
// pure functions of the tree they are given.
package tree

import (
	"sort"
	"strings"

	"github.com/iwe-org/iwe-sub001/internal/arena"
	"github.com/iwe-org/iwe-sub001/internal/blocktree"
	"github.com/iwe-org/iwe-sub001/internal/inline"
	"github.com/iwe-org/iwe-sub001/internal/key"
)

// Attach appends child at pre_sub_header_position: immediately before the
// first Heading among blocks' top-level siblings, or at the end if there
// is none (spec §4.7).
func Attach(blocks []*blocktree.Block, child *blocktree.Block) []*blocktree.Block {
	at := preSubHeaderPosition(blocks)
	out := make([]*blocktree.Block, 0, len(blocks)+1)
	out = append(out, blocks[:at]...)
	out = append(out, child)
	out = append(out, blocks[at:]...)
	return out
}

// AppendPreHeader inserts subtree before the first sub-header found under
// parentID's children (spec §4.7).
func AppendPreHeader(blocks []*blocktree.Block, parentID arena.NodeID, subtree []*blocktree.Block) []*blocktree.Block {
	out, _ := replaceByOrigin(blocks, parentID, func(b *blocktree.Block) []*blocktree.Block {
		bc := *b
		at := preSubHeaderPosition(b.Children)
		merged := make([]*blocktree.Block, 0, len(b.Children)+len(subtree))
		merged = append(merged, b.Children[:at]...)
		merged = append(merged, subtree...)
		merged = append(merged, b.Children[at:]...)
		bc.Children = merged
		return []*blocktree.Block{&bc}
	})
	return out
}

func preSubHeaderPosition(blocks []*blocktree.Block) int {
	for i, b := range blocks {
		if b.Kind == blocktree.Heading {
			return i
		}
	}
	return len(blocks)
}

// Replace substitutes the block whose OriginID equals targetID with
// newSubtree (spec §4.7).
func Replace(blocks []*blocktree.Block, targetID arena.NodeID, newSubtree []*blocktree.Block) []*blocktree.Block {
	out, _ := replaceByOrigin(blocks, targetID, func(*blocktree.Block) []*blocktree.Block {
		return newSubtree
	})
	return out
}

// RemoveNode deletes the block whose OriginID equals id.
func RemoveNode(blocks []*blocktree.Block, id arena.NodeID) []*blocktree.Block {
	out, _ := replaceByOrigin(blocks, id, func(*blocktree.Block) []*blocktree.Block {
		return nil
	})
	return out
}

// ExtractTarget names one section to extract: the key it moves to, and
// the title its replacement Reference should display.
type ExtractTarget struct {
	NewKey key.Key
	Title  string
}

// ExtractSections replaces each mapped section with a Reference(newKey,
// title), returning the rewritten tree plus the cut-out content of each
// target, keyed by its new key's string form (spec §4.7).
func ExtractSections(blocks []*blocktree.Block, targets map[arena.NodeID]ExtractTarget) ([]*blocktree.Block, map[string][]*blocktree.Block) {
	extracted := make(map[string][]*blocktree.Block, len(targets))
	for id, t := range targets {
		if cut, ok := FindID(blocks, id); ok {
			extracted[t.NewKey.String()] = []*blocktree.Block{cut}
			blocks, _ = replaceByOrigin(blocks, id, func(*blocktree.Block) []*blocktree.Block {
				return []*blocktree.Block{blocktree.NewReference(t.NewKey, t.Title, arena.RefRegular)}
			})
		}
	}
	return blocks, extracted
}

// ChangeListType toggles BulletList <-> OrderedList at listID.
func ChangeListType(blocks []*blocktree.Block, listID arena.NodeID) []*blocktree.Block {
	out, _ := replaceByOrigin(blocks, listID, func(b *blocktree.Block) []*blocktree.Block {
		bc := *b
		if bc.Kind == blocktree.BulletList {
			bc.Kind, bc.Ordered = blocktree.OrderedList, true
		} else {
			bc.Kind, bc.Ordered = blocktree.BulletList, false
		}
		return []*blocktree.Block{&bc}
	})
	return out
}

// UnwrapList lifts listID's items' children into its parent's position.
func UnwrapList(blocks []*blocktree.Block, listID arena.NodeID) []*blocktree.Block {
	list, ok := FindID(blocks, listID)
	if !ok {
		return blocks
	}
	var lifted []*blocktree.Block
	for _, item := range list.Children {
		lifted = append(lifted, item.Children...)
	}
	out, _ := replaceByOrigin(blocks, listID, func(*blocktree.Block) []*blocktree.Block {
		return lifted
	})
	return out
}

// WrapIntoList encloses sectionID in a BulletList with one item.
func WrapIntoList(blocks []*blocktree.Block, sectionID arena.NodeID) []*blocktree.Block {
	out, _ := replaceByOrigin(blocks, sectionID, func(b *blocktree.Block) []*blocktree.Block {
		item := &blocktree.Block{Kind: blocktree.ListItem, OriginID: arena.NoNode, Children: []*blocktree.Block{b}}
		list := &blocktree.Block{Kind: blocktree.BulletList, OriginID: arena.NoNode, Children: []*blocktree.Block{item}}
		return []*blocktree.Block{list}
	})
	return out
}

// SortChildren sorts listID's top-level items by their first inline's
// lower-cased plain text (spec §4.7, §9: "the cheap heuristic" — only the
// first inline, not a deep comparison). reverse flips the order.
func SortChildren(blocks []*blocktree.Block, listID arena.NodeID, reverse bool) []*blocktree.Block {
	out, _ := replaceByOrigin(blocks, listID, func(b *blocktree.Block) []*blocktree.Block {
		bc := *b
		bc.Children = append([]*blocktree.Block(nil), b.Children...)
		sortItems(bc.Children, reverse)
		return []*blocktree.Block{&bc}
	})
	return out
}

// IsSorted reports whether listID's items are already in sort_children's
// order, used to decide whether the "Sort list" action offers asc/desc at
// all (spec §4.10: "offered only when not already sorted").
func IsSorted(blocks []*blocktree.Block, listID arena.NodeID, reverse bool) bool {
	list, ok := FindID(blocks, listID)
	if !ok {
		return true
	}
	items := append([]*blocktree.Block(nil), list.Children...)
	want := append([]*blocktree.Block(nil), items...)
	sortItems(want, reverse)
	for i := range items {
		if sortKey(items[i]) != sortKey(want[i]) {
			return false
		}
	}
	return true
}

func sortItems(items []*blocktree.Block, reverse bool) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := sortKey(items[i]), sortKey(items[j])
		if reverse {
			return a > b
		}
		return a < b
	})
}

func sortKey(item *blocktree.Block) string {
	return strings.ToLower(item.Line.PlainText())
}

// RemoveBlockReferencesTo strips every Reference block targeting k,
// anywhere in the tree, used to scrub a document when its referent is
// deleted (spec §4.7).
func RemoveBlockReferencesTo(blocks []*blocktree.Block, k key.Key) []*blocktree.Block {
	return mapBlocksFilter(blocks, func(b *blocktree.Block) (*blocktree.Block, bool) {
		if b.Kind == blocktree.Reference && b.RefKey.Equal(k) {
			return nil, false
		}
		return b, true
	})
}

// RemoveInlineLinksTo rewrites every line in the tree so links to k become
// plain text, preserving the visible words but dropping the link (spec
// §4.7).
func RemoveInlineLinksTo(blocks []*blocktree.Block, base key.Key, target key.Key, refsExtension string) []*blocktree.Block {
	return mapBlocks(blocks, func(b *blocktree.Block) *blocktree.Block {
		switch b.Kind {
		case blocktree.Heading, blocktree.Paragraph, blocktree.ListItem:
			b.Line = inline.RemoveRefLinks(b.Line, base, target, refsExtension)
		}
		return b
	})
}

// FindReferenceKey returns the key of the Reference block with the given
// id, if any.
func FindReferenceKey(blocks []*blocktree.Block, id arena.NodeID) (key.Key, bool) {
	b, ok := FindID(blocks, id)
	if !ok || b.Kind != blocktree.Reference {
		return key.Empty, false
	}
	return b.RefKey, true
}

// FindID returns the block whose OriginID equals id, searching
// depth-first.
func FindID(blocks []*blocktree.Block, id arena.NodeID) (*blocktree.Block, bool) {
	for _, b := range blocks {
		if b.OriginID == id {
			return b, true
		}
		if found, ok := FindID(b.Children, id); ok {
			return found, true
		}
	}
	return nil, false
}

// GetSurroundingSectionID returns the OriginID of the nearest ancestor
// Heading containing id, if any.
func GetSurroundingSectionID(blocks []*blocktree.Block, id arena.NodeID) (arena.NodeID, bool) {
	return surroundingID(blocks, id, func(b *blocktree.Block) bool { return b.Kind == blocktree.Heading }, false)
}

// GetSurroundingListID returns the OriginID of the nearest ancestor list
// (Bullet or Ordered) containing id.
func GetSurroundingListID(blocks []*blocktree.Block, id arena.NodeID) (arena.NodeID, bool) {
	return surroundingID(blocks, id, isListKind, false)
}

// GetTopLevelSurroundingListID returns the OriginID of the outermost
// ancestor list containing id — the top-level list even when lists nest.
func GetTopLevelSurroundingListID(blocks []*blocktree.Block, id arena.NodeID) (arena.NodeID, bool) {
	return surroundingID(blocks, id, isListKind, true)
}

func isListKind(b *blocktree.Block) bool {
	return b.Kind == blocktree.BulletList || b.Kind == blocktree.OrderedList
}

// surroundingID walks down from blocks looking for id, recording every
// ancestor matching pred along the way; it returns the innermost match
// unless outermost is set.
func surroundingID(blocks []*blocktree.Block, id arena.NodeID, pred func(*blocktree.Block) bool, outermost bool) (arena.NodeID, bool) {
	var path []*blocktree.Block
	var walk func([]*blocktree.Block) bool
	walk = func(bs []*blocktree.Block) bool {
		for _, b := range bs {
			path = append(path, b)
			if b.OriginID == id || walk(b.Children) {
				return true
			}
			path = path[:len(path)-1]
		}
		return false
	}
	if !walk(blocks) {
		return arena.NoNode, false
	}
	// path includes id's own block as the last element when id matched
	// directly; ancestors of interest are everything strictly above it.
	ancestors := path
	if len(ancestors) > 0 && ancestors[len(ancestors)-1].OriginID == id {
		ancestors = ancestors[:len(ancestors)-1]
	}
	if outermost {
		for _, a := range ancestors {
			if pred(a) {
				return a.OriginID, true
			}
		}
		return arena.NoNode, false
	}
	for i := len(ancestors) - 1; i >= 0; i-- {
		if pred(ancestors[i]) {
			return ancestors[i].OriginID, true
		}
	}
	return arena.NoNode, false
}

// IsHeader reports whether a block is a heading.
func IsHeader(b *blocktree.Block) bool {
	return b.Kind == blocktree.Heading
}

func mapBlocks(blocks []*blocktree.Block, f func(*blocktree.Block) *blocktree.Block) []*blocktree.Block {
	out := make([]*blocktree.Block, len(blocks))
	for i, b := range blocks {
		bc := *b
		bc.Children = mapBlocks(b.Children, f)
		out[i] = f(&bc)
	}
	return out
}

func mapBlocksFilter(blocks []*blocktree.Block, f func(*blocktree.Block) (*blocktree.Block, bool)) []*blocktree.Block {
	out := make([]*blocktree.Block, 0, len(blocks))
	for _, b := range blocks {
		bc := *b
		bc.Children = mapBlocksFilter(b.Children, f)
		if kept, ok := f(&bc); ok {
			out = append(out, kept)
		}
	}
	return out
}

// replaceByOrigin mirrors graph.replaceByOrigin: it is redefined here
// rather than imported so this package stays arena/blocktree-only and
// free of any dependency on the live graph.
func replaceByOrigin(blocks []*blocktree.Block, id arena.NodeID, repl func(*blocktree.Block) []*blocktree.Block) ([]*blocktree.Block, bool) {
	for i, b := range blocks {
		if b.OriginID == id {
			out := make([]*blocktree.Block, 0, len(blocks)-1+2)
			out = append(out, blocks[:i]...)
			out = append(out, repl(b)...)
			out = append(out, blocks[i+1:]...)
			return out, true
		}
		if len(b.Children) > 0 {
			if nc, ok := replaceByOrigin(b.Children, id, repl); ok {
				bc := *b
				bc.Children = nc
				out := make([]*blocktree.Block, len(blocks))
				copy(out, blocks)
				out[i] = &bc
				return out, true
			}
		}
	}
	return blocks, false
}

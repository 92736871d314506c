package graph

import (
	"github.com/iwe-org/iwe-sub001/internal/arena"
	"github.com/iwe-org/iwe-sub001/internal/blocktree"
	"github.com/iwe-org/iwe-sub001/internal/inline"
	"github.com/iwe-org/iwe-sub001/internal/key"
)

// ChangeKey implements ChangeKeyVisitor(key, old, new) (spec §4.6):
// rewrites every Reference whose key is old to new, and every inline link
// URL likewise; the visible text of a Regular reference is refreshed from
// new's title when known (I6). Used by rename (spec §4.10, §8 scenario
// 4): every document in the workspace gets this applied, not just the
// renamed key itself, since references live in any document.
func (g *Graph) ChangeKey(k key.Key, old, new key.Key) ([]*blocktree.Block, error) {
	blocks, err := g.projectKey(k)
	if err != nil {
		return nil, err
	}
	newTitle, _ := g.titleResolver(new)
	opts := g.writerOpts()
	return mapBlocks(blocks, func(b *blocktree.Block) *blocktree.Block {
		switch b.Kind {
		case blocktree.Reference:
			if b.RefKey.Equal(old) {
				b.RefKey = new
				if b.RefKind == arena.RefRegular && newTitle != "" {
					b.RefText = newTitle
				}
			}
		case blocktree.Heading, blocktree.Paragraph, blocktree.ListItem:
			b.Line = inline.RewriteRefKey(b.Line, k, old, new, opts.RefsExtension, newTitle)
		case blocktree.Table:
			b.TableHeader = rewriteRow(b.TableHeader, k, old, new, opts.RefsExtension, newTitle)
			for i, row := range b.TableRows {
				b.TableRows[i] = rewriteRow(row, k, old, new, opts.RefsExtension, newTitle)
			}
		}
		return b
	}), nil
}

func rewriteRow(row []inline.Line, base key.Key, old, new key.Key, ext, newTitle string) []inline.Line {
	out := make([]inline.Line, len(row))
	for i, l := range row {
		out[i] = inline.RewriteRefKey(l, base, old, new, ext, newTitle)
	}
	return out
}

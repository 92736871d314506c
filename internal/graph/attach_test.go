package graph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iwe-org/iwe-sub001/internal/blocktree"
	"github.com/iwe-org/iwe-sub001/internal/inline"
	"github.com/iwe-org/iwe-sub001/internal/key"
)

func renderLine(l inline.Line) string { return inline.Render(l) }

func Test_AttachKey_sameDayResolvesToSameKey(t *testing.T) {
	root := key.New("journal")
	morning := time.Date(2026, 7, 30, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 7, 30, 22, 0, 0, 0, time.UTC)
	assert.Equal(t, AttachKey(root, "2006-01-02", morning).String(), AttachKey(root, "2006-01-02", evening).String())
}

func Test_AttachKey_differentDaysDiffer(t *testing.T) {
	root := key.New("journal")
	day1 := time.Date(2026, 7, 30, 8, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 7, 31, 8, 0, 0, 0, time.UTC)
	assert.NotEqual(t, AttachKey(root, "2006-01-02", day1).String(), AttachKey(root, "2006-01-02", day2).String())
}

func Test_AttachPatch_createsFreshDocument(t *testing.T) {
	g := New(Options{})
	dateKey := key.New("journal/2026-07-30")
	entry := &blocktree.Block{Kind: blocktree.Heading, Level: 2, Line: inline.NewTextLine("New entry")}

	p, err := g.AttachPatch(dateKey, entry)
	require.NoError(t, err)

	doc := p.Updated["journal/2026-07-30"]
	require.NotNil(t, doc)
	require.Len(t, doc.Blocks, 2)
	assert.Equal(t, "2026-07-30", doc.Blocks[0].Line.PlainText())
	assert.Equal(t, "New entry", doc.Blocks[1].Line.PlainText())
}

func Test_AttachPatch_appendsToExistingDocument(t *testing.T) {
	g := New(Options{})
	dateKey := key.New("journal/2026-07-30")
	require.NoError(t, g.FromMarkdown(dateKey, "# 2026-07-30\n\n## Morning entry\n\ntext\n"))

	entry := &blocktree.Block{Kind: blocktree.Heading, Level: 2, Line: inline.NewTextLine("Evening entry")}
	p, err := g.AttachPatch(dateKey, entry)
	require.NoError(t, err)

	doc := p.Updated["journal/2026-07-30"]
	require.Len(t, doc.Blocks[0].Children, 2)
	assert.Equal(t, "Evening entry", doc.Blocks[0].Children[0].Line.PlainText())
}

func Test_LinkNewPatch(t *testing.T) {
	g := New(Options{RefsExtension: ".md"})
	require.NoError(t, g.FromMarkdown(key.New("note"), "# Root\n\nremember to water the plants\n"))
	blocks, _ := g.ProjectKey(key.New("note"))
	paraID := findFirst(t, blocks, blocktree.Paragraph)

	p, err := g.LinkNewPatch(key.New("note"), key.New("water"), paraID, "water", false, ".md")
	require.NoError(t, err)

	updated := p.Updated["note"]
	para := updated.Blocks[0].Children[0]
	assert.Contains(t, renderLine(para.Line), "](water.md)")

	newDoc := p.Updated["water"]
	require.NotNil(t, newDoc)
	assert.Equal(t, "water", newDoc.Blocks[0].Line.PlainText())
}

package project

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iwe-org/iwe-sub001/internal/arena"
	"github.com/iwe-org/iwe-sub001/internal/blocktree"
	"github.com/iwe-org/iwe-sub001/internal/inline"
	"github.com/iwe-org/iwe-sub001/internal/key"
)

func Test_Write_headingAndParagraph(t *testing.T) {
	doc := &blocktree.Document{Blocks: []*blocktree.Block{
		blocktree.NewHeading(1, inline.NewTextLine("Title")),
	}}
	doc.Blocks[0].Children = []*blocktree.Block{
		{Kind: blocktree.Paragraph, Line: inline.NewTextLine("body text")},
	}
	got := Write(doc, Options{})
	assert.Equal(t, "# Title\n\nbody text\n", got)
}

func Test_Write_bulletList(t *testing.T) {
	doc := &blocktree.Document{Blocks: []*blocktree.Block{
		{Kind: blocktree.BulletList, Children: []*blocktree.Block{
			{Kind: blocktree.ListItem, Line: inline.NewTextLine("one")},
			{Kind: blocktree.ListItem, Line: inline.NewTextLine("two")},
		}},
	}}
	got := Write(doc, Options{})
	assert.Equal(t, "- one\n- two\n", got)
}

func Test_Write_orderedList(t *testing.T) {
	doc := &blocktree.Document{Blocks: []*blocktree.Block{
		{Kind: blocktree.OrderedList, Ordered: true, Children: []*blocktree.Block{
			{Kind: blocktree.ListItem, Line: inline.NewTextLine("one")},
			{Kind: blocktree.ListItem, Line: inline.NewTextLine("two")},
		}},
	}}
	got := Write(doc, Options{})
	assert.Equal(t, "1.  one\n2.  two\n", got)
}

func Test_Write_quote(t *testing.T) {
	doc := &blocktree.Document{Blocks: []*blocktree.Block{
		{Kind: blocktree.Quote, Children: []*blocktree.Block{
			{Kind: blocktree.Paragraph, Line: inline.NewTextLine("quoted text")},
		}},
	}}
	got := Write(doc, Options{})
	assert.Equal(t, "> quoted text\n", got)
}

func Test_Write_codeBlockTrimsInnerBlankLines(t *testing.T) {
	doc := &blocktree.Document{Blocks: []*blocktree.Block{
		{Kind: blocktree.Raw, Lang: "go", Content: "\n\nfmt.Println(1)\n\n"},
	}}
	got := Write(doc, Options{})
	assert.Equal(t, "```go\nfmt.Println(1)\n```\n", got)
}

func Test_Write_horizontalRule(t *testing.T) {
	doc := &blocktree.Document{Blocks: []*blocktree.Block{{Kind: blocktree.HorizontalRule}}}
	assert.Equal(t, "---\n", Write(doc, Options{}))
}

func Test_Write_reference(t *testing.T) {
	doc := &blocktree.Document{Blocks: []*blocktree.Block{
		blocktree.NewReference(key.New("a/other"), "Other", arena.RefRegular),
	}}
	got := Write(doc, Options{RefsExtension: ".md"})
	assert.Equal(t, "[Other](a/other.md)\n", got)
}

func Test_Write_table(t *testing.T) {
	doc := &blocktree.Document{Blocks: []*blocktree.Block{
		{
			Kind:        blocktree.Table,
			TableHeader: []inline.Line{inline.NewTextLine("A"), inline.NewTextLine("B")},
			TableRows:   [][]inline.Line{{inline.NewTextLine("1"), inline.NewTextLine("2")}},
			TableAlign:  []arena.TableAlign{arena.AlignNone, arena.AlignRight},
		},
	}}
	got := Write(doc, Options{})
	assert.Equal(t, "| A | B |\n| --- | --: |\n| 1 | 2 |\n", got)
}

func Test_Write_frontMatter(t *testing.T) {
	doc := &blocktree.Document{
		FrontMatter: "title: Note",
		Blocks:      []*blocktree.Block{{Kind: blocktree.Paragraph, Line: inline.NewTextLine("text")}},
	}
	got := Write(doc, Options{})
	assert.Equal(t, "---\ntitle: Note\n---\n\ntext\n", got)
}

func Test_Write_emptyDocument(t *testing.T) {
	assert.Equal(t, "", Write(&blocktree.Document{}, Options{}))
}

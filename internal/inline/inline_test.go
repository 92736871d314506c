package inline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iwe-org/iwe-sub001/internal/key"
)

func Test_Line_PlainText(t *testing.T) {
	l := Line{Spans: []Span{
		{Kind: Text, Text: "hello "},
		{Kind: Strong, Children: []Span{{Kind: Text, Text: "bold"}}},
		{Kind: SoftBreak},
		{Kind: Text, Text: "world"},
	}}
	assert.Equal(t, "hello bold world", l.PlainText())
}

func Test_NewTextLine(t *testing.T) {
	assert.True(t, NewTextLine("").IsEmpty())
	l := NewTextLine("title")
	assert.Equal(t, "title", l.PlainText())
}

func Test_SingleRef(t *testing.T) {
	link := Line{Spans: []Span{{Kind: Link, URL: "note", IsRefURL: true}}}
	_, ok := SingleRef(link)
	assert.True(t, ok)

	text := Line{Spans: []Span{{Kind: Text, Text: "note"}}}
	_, ok = SingleRef(text)
	assert.False(t, ok)

	mixed := Line{Spans: []Span{
		{Kind: Text, Text: "see "},
		{Kind: Link, URL: "note", IsRefURL: true},
	}}
	_, ok = SingleRef(mixed)
	assert.False(t, ok)
}

func Test_RefKeys(t *testing.T) {
	base := key.New("a/note")
	l := Line{Spans: []Span{
		{Kind: Text, Text: "see "},
		{Kind: Link, URL: "sibling", IsRefURL: true},
		{Kind: Strong, Children: []Span{
			{Kind: Link, URL: "nested", IsRefURL: true},
		}},
		{Kind: Link, URL: "https://example.com", IsRefURL: false},
	}}
	keys := RefKeys(l, base, "")
	assert.Len(t, keys, 2)
	assert.Equal(t, "a/sibling", keys[0].String())
	assert.Equal(t, "a/nested", keys[1].String())
}

func Test_RewriteRefKey(t *testing.T) {
	base := key.New("a/note")
	old := key.New("a/old")
	new := key.New("a/new")
	l := Line{Spans: []Span{
		{Kind: Link, URL: "old", IsRefURL: true, LinkKind: LinkRegular,
			Children: []Span{{Kind: Text, Text: "Old title"}}},
	}}
	out := RewriteRefKey(l, base, old, new, "", "New title")
	assert.Equal(t, "new", out.Spans[0].URL)
	assert.Equal(t, "New title", out.Spans[0].Children[0].Text)
}

func Test_RewriteRefKey_leavesUnrelatedLinksAlone(t *testing.T) {
	base := key.New("a/note")
	old := key.New("a/old")
	new := key.New("a/new")
	l := Line{Spans: []Span{{Kind: Link, URL: "other", IsRefURL: true}}}
	out := RewriteRefKey(l, base, old, new, "", "")
	assert.Equal(t, "other", out.Spans[0].URL)
}

func Test_RemoveRefLinks(t *testing.T) {
	base := key.New("a/note")
	target := key.New("a/gone")
	l := Line{Spans: []Span{
		{Kind: Text, Text: "before "},
		{Kind: Link, URL: "gone", IsRefURL: true,
			Children: []Span{{Kind: Text, Text: "gone title"}}},
		{Kind: Text, Text: " after"},
	}}
	out := RemoveRefLinks(l, base, target, "")
	assert.Equal(t, "before gone title after", out.PlainText())
	for _, s := range out.Spans {
		assert.NotEqual(t, Link, s.Kind)
	}
}

func Test_ReplaceWordWithLink(t *testing.T) {
	l := NewTextLine("remember to water the plants today")
	out, ok := ReplaceWordWithLink(l, "water", "tasks/water", false)
	assert.True(t, ok)
	assert.Equal(t, "remember to [water](tasks/water) the plants today", Render(out))
}

func Test_ReplaceWordWithLink_wholeWordOnly(t *testing.T) {
	l := NewTextLine("watering the plants")
	_, ok := ReplaceWordWithLink(l, "water", "tasks/water", false)
	assert.False(t, ok, "water is only a prefix of watering, not a whole word")
}

func Test_ReplaceWordWithLink_wiki(t *testing.T) {
	l := NewTextLine("see plants")
	out, ok := ReplaceWordWithLink(l, "plants", "tasks/plants", true)
	assert.True(t, ok)
	assert.Equal(t, "see [[tasks/plants]]", Render(out))
}

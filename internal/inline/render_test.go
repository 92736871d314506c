package inline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Render(t *testing.T) {
	testCases := []struct {
		name string
		line Line
		want string
	}{
		{
			"plain text",
			NewTextLine("hello"),
			"hello",
		},
		{
			"strong and emphasis",
			Line{Spans: []Span{
				{Kind: Strong, Children: []Span{{Kind: Text, Text: "bold"}}},
				{Kind: Text, Text: " and "},
				{Kind: Emph, Children: []Span{{Kind: Text, Text: "italic"}}},
			}},
			"**bold** and _italic_",
		},
		{
			"code span",
			Line{Spans: []Span{{Kind: Code, Text: "a`b"}}},
			"``a`b``",
		},
		{
			"regular link",
			Line{Spans: []Span{{Kind: Link, URL: "note.md", LinkKind: LinkRegular,
				Children: []Span{{Kind: Text, Text: "Note"}}}}},
			"[Note](note.md)",
		},
		{
			"wikilink",
			Line{Spans: []Span{{Kind: Link, URL: "note", LinkKind: LinkWikiLink}}},
			"[[note]]",
		},
		{
			"piped wikilink",
			Line{Spans: []Span{{Kind: Link, URL: "note", LinkKind: LinkWikiLinkPiped,
				Children: []Span{{Kind: Text, Text: "Display"}}}}},
			"[[note|Display]]",
		},
		{
			"hard line break",
			Line{Spans: []Span{{Kind: Text, Text: "a"}, {Kind: LineBreak}, {Kind: Text, Text: "b"}}},
			"a  \nb",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Render(tc.line))
		})
	}
}

func Test_Render_codeDelimiterGrowsToAvoidCollision(t *testing.T) {
	l := Line{Spans: []Span{{Kind: Code, Text: "``backtick run``"}}}
	rendered := Render(l)
	assert.Equal(t, "```"+"``backtick run``"+"```", rendered)
}

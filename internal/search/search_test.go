package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iwe-org/iwe-sub001/internal/graph"
	"github.com/iwe-org/iwe-sub001/internal/key"
)

func Test_Build_ranksPrimarySectionsByIncomingRefs(t *testing.T) {
	g := graph.New(graph.Options{RefsExtension: ".md"})
	require.NoError(t, g.FromMarkdown(key.New("popular"), "# Popular\n\ntext\n"))
	require.NoError(t, g.FromMarkdown(key.New("quiet"), "# Quiet\n\ntext\n"))
	require.NoError(t, g.FromMarkdown(key.New("a"), "# A\n\n[Popular](popular.md)\n\nsee [popular](popular.md) too\n"))

	paths := Build(g)

	var popular, quiet SearchPath
	for _, p := range paths {
		switch p.Key.String() {
		case "popular":
			popular = p
		case "quiet":
			quiet = p
		}
	}
	assert.Equal(t, 2, popular.NodeRank)
	assert.Equal(t, 0, quiet.NodeRank)
}

func Test_Build_nestedSectionPathIsJoined(t *testing.T) {
	g := graph.New(graph.Options{})
	require.NoError(t, g.FromMarkdown(key.New("note"), "# Root\n\n## Child\n\n### Grandchild\n\ntext\n"))

	paths := Build(g)
	var joined []string
	for _, p := range paths {
		joined = append(joined, p.Text)
	}
	assert.Contains(t, joined, "Root")
	assert.Contains(t, joined, "Root • Child")
	assert.Contains(t, joined, "Root • Child • Grandchild")
}

func Test_Search_emptyQuerySortsByRankThenLength(t *testing.T) {
	paths := []SearchPath{
		{Key: key.New("short"), Text: "Short", NodeRank: 0},
		{Key: key.New("longer"), Text: "Much Longer Title", NodeRank: 0},
		{Key: key.New("ranked"), Text: "Ranked Lower Priority But Long", NodeRank: 5},
	}
	out := Search(paths, "")
	require.Len(t, out, 3)
	assert.Equal(t, "ranked", out[0].Key.String(), "higher node_rank sorts first regardless of length")
	assert.Equal(t, "short", out[1].Key.String(), "among equal rank, shorter text sorts first")
	assert.Equal(t, "longer", out[2].Key.String())
}

func Test_Search_fuzzyQueryOrdersByMatchQuality(t *testing.T) {
	paths := []SearchPath{
		{Key: key.New("exact"), Text: "project notes"},
		{Key: key.New("unrelated"), Text: "grocery list"},
		{Key: key.New("partial"), Text: "project planning notes archive"},
	}
	out := Search(paths, "project notes")
	require.Len(t, out, 3)
	assert.Equal(t, "exact", out[0].Key.String())
	assert.Equal(t, "unrelated", out[2].Key.String(), "a path with no fuzzy match at all scores 0 and sorts last")
}

func Test_Search_capsAtMaxResults(t *testing.T) {
	var paths []SearchPath
	for i := 0; i < maxResults+20; i++ {
		paths = append(paths, SearchPath{Key: key.New("k"), Text: "note"})
	}
	out := Search(paths, "")
	assert.Len(t, out, maxResults)

	out = Search(paths, "note")
	assert.Len(t, out, maxResults)
}

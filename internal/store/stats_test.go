package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iwe-org/iwe-sub001/internal/graph"
)

func Test_Stats_countsWordsSectionsAndRefs(t *testing.T) {
	db, err := Open(map[string]string{
		"a": "# A\n\nsee [Target](target.md) for more\n",
		"target": "# Target\n\none two three words here\n",
	}, graph.Options{RefsExtension: ".md"})
	require.NoError(t, err)

	stats, err := db.Stats()
	require.NoError(t, err)
	require.Len(t, stats, 2)

	// Stats() sorts by key, so "a" precedes "target".
	a := stats[0]
	assert.Equal(t, "a", a.Key)
	assert.Equal(t, "A", a.Title)
	assert.Equal(t, 1, a.Sections)
	assert.Equal(t, 1, a.Paragraphs)
	assert.Equal(t, 1, a.OutgoingInlineRefs)
	assert.True(t, a.Orphan)

	target := stats[1]
	assert.Equal(t, "target", target.Key)
	assert.Equal(t, 1, target.IncomingInlineRefs)
	assert.Equal(t, 1, target.TotalIncomingRefs)
	assert.False(t, target.Orphan)
	assert.Equal(t, 6, target.Words, "heading text and paragraph text both count toward words")
}

func Test_Stats_blockReferenceCounts(t *testing.T) {
	db, err := Open(map[string]string{
		"a":      "# A\n\n[Target](target.md)\n",
		"target": "# Target\n\nbody\n",
	}, graph.Options{RefsExtension: ".md"})
	require.NoError(t, err)

	stats, err := db.Stats()
	require.NoError(t, err)

	var a, target KeyStats
	for _, s := range stats {
		switch s.Key {
		case "a":
			a = s
		case "target":
			target = s
		}
	}
	assert.Equal(t, 1, a.OutgoingBlockRefs)
	assert.Equal(t, 1, target.IncomingBlockRefs)
	assert.Equal(t, 1, target.TotalIncomingRefs)
}

func Test_wordCount(t *testing.T) {
	assert.Equal(t, 0, wordCount(""))
	assert.Equal(t, 3, wordCount("one two three"))
}

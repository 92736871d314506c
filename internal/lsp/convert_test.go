package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iwe-org/iwe-sub001/internal/arena"
	"github.com/iwe-org/iwe-sub001/internal/blocktree"
	"github.com/iwe-org/iwe-sub001/internal/key"
)

func Test_uriToKey_and_keyToURI_roundTrip(t *testing.T) {
	root := "/workspace"
	uri := keyToURI(root, key.New("notes/today"))
	assert.Equal(t, "file:///workspace/notes/today.md", uri)

	k := uriToKey(root, uri)
	assert.Equal(t, "notes/today", k.String())
}

func Test_findNodeAtLine_picksInnermostEnclosingBlock(t *testing.T) {
	inner := &blocktree.Block{Kind: blocktree.Paragraph, OriginID: 2, SourceLine: 3}
	outer := &blocktree.Block{Kind: blocktree.Heading, OriginID: 1, SourceLine: 0, Children: []*blocktree.Block{inner}}

	b, ok := findNodeAtLine([]*blocktree.Block{outer}, 3)
	require.True(t, ok)
	assert.Same(t, inner, b)

	b, ok = findNodeAtLine([]*blocktree.Block{outer}, 1)
	require.True(t, ok)
	assert.Same(t, outer, b, "line 1 falls before the paragraph, so the heading itself is the innermost enclosing block")
}

func Test_findNodeAtLine_noBlockBeforeLine(t *testing.T) {
	b := &blocktree.Block{Kind: blocktree.Heading, OriginID: 1, SourceLine: 5}
	_, ok := findNodeAtLine([]*blocktree.Block{b}, 0)
	assert.False(t, ok)
}

func Test_nodeIDAtLine(t *testing.T) {
	b := &blocktree.Block{Kind: blocktree.Heading, OriginID: 7, SourceLine: 0}
	id, ok := nodeIDAtLine([]*blocktree.Block{b}, 0)
	require.True(t, ok)
	assert.Equal(t, arena.NodeID(7), id)
}

package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iwe-org/iwe-sub001/internal/blocktree"
	"github.com/iwe-org/iwe-sub001/internal/project"
)

func Test_MarkNode(t *testing.T) {
	target := para(2, "mark this paragraph")
	blocks := []*blocktree.Block{
		heading(1, "Title", target),
	}
	marked, ok := MarkNode(blocks, 2, "<<<", ">>>", project.Options{})
	require.True(t, ok)
	assert.Contains(t, marked, "<<<mark this paragraph>>>")
}

func Test_MarkNode_missingID(t *testing.T) {
	blocks := []*blocktree.Block{heading(1, "Title", para(2, "text"))}
	_, ok := MarkNode(blocks, 999, "<<<", ">>>", project.Options{})
	assert.False(t, ok)
}

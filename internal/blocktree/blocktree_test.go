package blocktree

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iwe-org/iwe-sub001/internal/arena"
	"github.com/iwe-org/iwe-sub001/internal/inline"
	"github.com/iwe-org/iwe-sub001/internal/key"
)

func Test_New_originIDDefaultsToNoNode(t *testing.T) {
	b := New(Paragraph)
	assert.Equal(t, Paragraph, b.Kind)
	assert.Equal(t, arena.NoNode, b.OriginID)
}

func Test_NewHeading(t *testing.T) {
	line := inline.NewTextLine("Title")
	b := NewHeading(2, line)
	assert.Equal(t, Heading, b.Kind)
	assert.Equal(t, 2, b.Level)
	assert.Equal(t, "Title", b.Line.PlainText())
	assert.Equal(t, arena.NoNode, b.OriginID)
}

func Test_NewReference(t *testing.T) {
	k := key.New("target")
	b := NewReference(k, "Target", arena.RefRegular)
	assert.Equal(t, Reference, b.Kind)
	assert.Equal(t, "target", b.RefKey.String())
	assert.Equal(t, "Target", b.RefText)
	assert.Equal(t, arena.RefRegular, b.RefKind)
}

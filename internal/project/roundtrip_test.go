package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iwe-org/iwe-sub001/internal/key"
	"github.com/iwe-org/iwe-sub001/internal/mdparse"
)

// write(read(text)) is idempotent on its second application (spec §8): the
// writer's layout is purely a function of the block tree, so re-reading its
// own output and writing again must reproduce the same text.
func Test_WriteRead_idempotentOnSecondApplication(t *testing.T) {
	src := "# Title\n\nSome text with a [link](other.md).\n\n## Sub section\n\n- one\n- two\n\n1.  first\n2.  second\n"
	k := key.New("note")

	doc1, err := mdparse.Read(k, src, mdparse.Options{RefsExtension: ".md"})
	require.NoError(t, err)
	first := Write(doc1, Options{RefsExtension: ".md"})

	doc2, err := mdparse.Read(k, first, mdparse.Options{RefsExtension: ".md"})
	require.NoError(t, err)
	second := Write(doc2, Options{RefsExtension: ".md"})

	assert.Equal(t, first, second)
}

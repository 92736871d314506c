package lsp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iwe-org/iwe-sub001/internal/blocktree"
	"github.com/iwe-org/iwe-sub001/internal/key"
	"github.com/iwe-org/iwe-sub001/internal/llmclient"
)

func Test_Transform_replacesTargetBlockWithLLMResult(t *testing.T) {
	db := openTestDB(t, map[string]string{"a": "# A\n\noriginal text\n"})
	blocks, err := db.Graph().ProjectKey(key.New("a"))
	require.NoError(t, err)
	paraID := findKind(t, blocks, blocktree.Paragraph)

	stub := llmclient.Stub{Response: "rewritten text\n"}
	p, err := Transform(context.Background(), db, stub, "gpt-4", key.New("a"), paraID, "{{.Context}}", "")
	require.NoError(t, err)

	updated := p.Updated["a"]
	require.Len(t, updated.Blocks[0].Children, 1)
	assert.Equal(t, "rewritten text", updated.Blocks[0].Children[0].Line.PlainText())
}

func Test_Transform_llmFailureLeavesNoChange(t *testing.T) {
	db := openTestDB(t, map[string]string{"a": "# A\n\ntext\n"})
	blocks, err := db.Graph().ProjectKey(key.New("a"))
	require.NoError(t, err)
	paraID := findKind(t, blocks, blocktree.Paragraph)

	stub := llmclient.Stub{Err: assert.AnError}
	_, err = Transform(context.Background(), db, stub, "gpt-4", key.New("a"), paraID, "{{.Context}}", "")
	assert.Error(t, err)
}

func Test_Generate_insertsNewDocumentAndPlaceholder(t *testing.T) {
	db := openTestDB(t, map[string]string{
		"prompt": "# Prompt\n\ncontext for generation\n",
		"target": "# Target\n\nplaceholder text\n",
	})
	blocks, err := db.Graph().ProjectKey(key.New("target"))
	require.NoError(t, err)
	paraID := findKind(t, blocks, blocktree.Paragraph)

	stub := llmclient.Stub{Response: "# Generated Title\n\ngenerated body\n"}
	p, err := Generate(context.Background(), db, stub, "gpt-4", key.New("generated"), key.New("prompt"), key.New("target"), paraID, "")
	require.NoError(t, err)

	newDoc := p.Updated["generated"]
	require.NotNil(t, newDoc)
	assert.Equal(t, "Generated Title", newDoc.Blocks[0].Line.PlainText())

	updated := p.Updated["target"]
	placeholder := updated.Blocks[0].Children[0]
	assert.Equal(t, blocktree.Reference, placeholder.Kind)
	assert.Equal(t, "generated", placeholder.RefKey.String())
	assert.Equal(t, "Generated Title", placeholder.RefText)
}

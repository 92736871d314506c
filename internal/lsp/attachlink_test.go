package lsp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iwe-org/iwe-sub001/internal/blocktree"
	"github.com/iwe-org/iwe-sub001/internal/inline"
	"github.com/iwe-org/iwe-sub001/internal/key"
)

func Test_Attach_createsReferenceInDateKeyedDocument(t *testing.T) {
	db := openTestDB(t, map[string]string{"note": "# A note\n"})
	now := time.Date(2026, 7, 30, 9, 0, 0, 0, time.UTC)

	p, err := Attach(db, key.New("note"), key.New("journal"), "2006-01-02", now)
	require.NoError(t, err)

	doc := p.Updated["journal/2026-07-30"]
	require.NotNil(t, doc)
	ref := doc.Blocks[1]
	assert.Equal(t, blocktree.Reference, ref.Kind)
	assert.Equal(t, "note", ref.RefKey.String())
	assert.Equal(t, "A note", ref.RefText)
}

func Test_LinkNew_replacesWordAndCreatesDocument(t *testing.T) {
	db := openTestDB(t, map[string]string{"note": "# Root\n\nwater the garden\n"})
	blocks, err := db.Graph().ProjectKey(key.New("note"))
	require.NoError(t, err)
	paraID := findKind(t, blocks, blocktree.Paragraph)

	p, err := LinkNew(db, key.New("note"), paraID, "water", false, ".md")
	require.NoError(t, err)

	var newKeyName string
	for k := range p.Updated {
		if k != "note" {
			newKeyName = k
		}
	}
	require.NotEmpty(t, newKeyName)
	newDoc := p.Updated[newKeyName]
	assert.Equal(t, "water", newDoc.Blocks[0].Line.PlainText())

	updated := p.Updated["note"]
	para := updated.Blocks[0].Children[0]
	assert.Contains(t, inline.Render(para.Line), "]("+newKeyName+".md)")
}

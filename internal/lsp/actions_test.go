package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iwe-org/iwe-sub001/internal/arena"
	"github.com/iwe-org/iwe-sub001/internal/blocktree"
	"github.com/iwe-org/iwe-sub001/internal/graph"
	"github.com/iwe-org/iwe-sub001/internal/key"
	"github.com/iwe-org/iwe-sub001/internal/store"
)

func openTestDB(t *testing.T, state map[string]string) *store.Database {
	t.Helper()
	db, err := store.Open(state, graph.Options{RefsExtension: ".md"})
	require.NoError(t, err)
	return db
}

func Test_Definition_blockReference(t *testing.T) {
	db := openTestDB(t, map[string]string{
		"a":      "# A\n\n[Target](target.md)\n",
		"target": "# Target\n",
	})
	loc, ok := Definition(db, key.New("a"), 2, ".md")
	require.True(t, ok)
	assert.Equal(t, "target", loc.Key.String())
}

func Test_Definition_inlineReference(t *testing.T) {
	db := openTestDB(t, map[string]string{
		"a":      "# A\n\nsee [target](target.md) please\n",
		"target": "# Target\n",
	})
	loc, ok := Definition(db, key.New("a"), 2, ".md")
	require.True(t, ok)
	assert.Equal(t, "target", loc.Key.String())
}

func Test_Definition_noLinkAtLine(t *testing.T) {
	db := openTestDB(t, map[string]string{"a": "# A\n\ntext\n"})
	_, ok := Definition(db, key.New("a"), 2, ".md")
	assert.False(t, ok)
}

func Test_References(t *testing.T) {
	db := openTestDB(t, map[string]string{
		"a":      "# A\n\n[Target](target.md)\n",
		"b":      "# B\n\nsee [target](target.md)\n",
		"target": "# Target\n",
	})
	locs := References(db, key.New("target"))
	assert.Len(t, locs, 2)
}

func Test_PrepareRename_onlyAtPrimaryHeading(t *testing.T) {
	db := openTestDB(t, map[string]string{"a": "# A\n\ntext\n"})
	text, ok := PrepareRename(db, key.New("a"), 0)
	require.True(t, ok)
	assert.Equal(t, "a", text)

	_, ok = PrepareRename(db, key.New("a"), 2)
	assert.False(t, ok)
}

func Test_ExecuteRename(t *testing.T) {
	db := openTestDB(t, map[string]string{
		"a":      "# A\n\n[Target](target.md)\n",
		"target": "# Target\n",
	})
	p, err := ExecuteRename(db, key.New("target"), key.New("renamed"))
	require.NoError(t, err)
	assert.Contains(t, p.Removed, "target")
	assert.NotNil(t, p.Updated["renamed"])
}

func Test_Completion_labelsAndLinks(t *testing.T) {
	db := openTestDB(t, map[string]string{
		"b-note": "# Bravo\n",
		"a-note": "# Alpha\n",
	})
	items := Completion(db, false, ".md")
	require.Len(t, items, 2)
	assert.Equal(t, "Alpha", items[0].Label, "results sort by label")
	assert.Equal(t, "[Alpha](a-note.md)", items[0].Insert)
}

func Test_Completion_wikiLinks(t *testing.T) {
	db := openTestDB(t, map[string]string{"note": "# Note\n"})
	items := Completion(db, true, "")
	require.Len(t, items, 1)
	assert.Equal(t, "[[note]]", items[0].Insert)
}

func Test_DocumentSymbols_onlyOwnKey(t *testing.T) {
	db := openTestDB(t, map[string]string{
		"a": "# Root\n\n## Child\n\ntext\n",
		"b": "# Other\n",
	})
	symbols := DocumentSymbols(db, key.New("a"))
	require.Len(t, symbols, 2)
	assert.Equal(t, "Root", symbols[0].Name)
	assert.Equal(t, "Root • Child", symbols[1].Name)
}

func Test_WorkspaceSymbols_emptyQueryListsAll(t *testing.T) {
	db := openTestDB(t, map[string]string{
		"a": "# A\n",
		"b": "# B\n",
	})
	symbols := WorkspaceSymbols(db, "")
	assert.Len(t, symbols, 2)
}

func Test_WorkspaceSymbols_queryFiltersByFuzzyMatch(t *testing.T) {
	db := openTestDB(t, map[string]string{
		"a": "# Project Notes\n",
		"b": "# Grocery List\n",
	})
	symbols := WorkspaceSymbols(db, "Project Notes")
	require.NotEmpty(t, symbols)
	assert.Equal(t, "Project Notes", symbols[0].Name)
}

func Test_Format_normalizesMarkdown(t *testing.T) {
	db := openTestDB(t, map[string]string{"a": "#    A\ntext\n"})
	md, ok := Format(db, key.New("a"))
	require.True(t, ok)
	assert.Equal(t, "# A\n\ntext\n", md)
}

func Test_InlayHints_incomingBlockRefOnPrimaryHeading(t *testing.T) {
	db := openTestDB(t, map[string]string{
		"a":      "# A\n\n[Target](target.md)\n",
		"target": "# Target\n",
	})
	hints := InlayHints(db, key.New("target"))
	require.Len(t, hints, 1)
	assert.Equal(t, "↖A", hints[0].Text)
}

func Test_InlayHints_blockRefSiteCountSuperscript(t *testing.T) {
	db := openTestDB(t, map[string]string{
		"a":      "# A\n\n[Target](target.md)\n",
		"b":      "# B\n\n[Target](target.md)\n",
		"target": "# Target\n",
	})
	hints := InlayHints(db, key.New("a"))
	require.Len(t, hints, 1)
	assert.Equal(t, "⎘²", hints[0].Text)
}

func Test_Hover_previewsLinkedDocument(t *testing.T) {
	db := openTestDB(t, map[string]string{
		"a":      "# A\n\n[Target](target.md)\n",
		"target": "# Target\n\nbody\n",
	})
	preview, ok := Hover(db, key.New("a"), 2, ".md")
	require.True(t, ok)
	assert.Equal(t, "# Target\n\nbody\n", preview)
}

func Test_AvailableCodeActions_headingOffersExtractAndConvert(t *testing.T) {
	db := openTestDB(t, map[string]string{"a": "# Root\n\n## Section\n\ntext\n"})
	blocks, err := db.Graph().ProjectKey(key.New("a"))
	require.NoError(t, err)
	sectionID := findHeadingID(t, blocks, "Section")

	actions := AvailableCodeActions(db, key.New("a"), sectionID)
	ids := actionIDs(actions)
	assert.Contains(t, ids, ActionExtractSection)
	assert.Contains(t, ids, ActionRewriteSecToList)
	assert.Contains(t, ids, ActionDelete)
}

func Test_AvailableCodeActions_referenceOffersInline(t *testing.T) {
	db := openTestDB(t, map[string]string{
		"a":      "# A\n\n[Target](target.md)\n",
		"target": "# Target\n",
	})
	blocks, err := db.Graph().ProjectKey(key.New("a"))
	require.NoError(t, err)
	refID := findKind(t, blocks, blocktree.Reference)

	actions := AvailableCodeActions(db, key.New("a"), refID)
	ids := actionIDs(actions)
	assert.Contains(t, ids, ActionInlineSection)
	assert.Contains(t, ids, ActionInlineQuote)
}

func Test_AvailableCodeActions_listOffersSortWhenUnsorted(t *testing.T) {
	db := openTestDB(t, map[string]string{"a": "# A\n\n- banana\n- apple\n"})
	blocks, err := db.Graph().ProjectKey(key.New("a"))
	require.NoError(t, err)
	listID := findKind(t, blocks, blocktree.BulletList)

	actions := AvailableCodeActions(db, key.New("a"), listID)
	ids := actionIDs(actions)
	assert.Contains(t, ids, "refactor.sort.list.false")
}

func Test_AvailableCodeActions_singleItemListOffersNoSortAction(t *testing.T) {
	db := openTestDB(t, map[string]string{"a": "# A\n\n- apple\n"})
	blocks, err := db.Graph().ProjectKey(key.New("a"))
	require.NoError(t, err)
	listID := findKind(t, blocks, blocktree.BulletList)

	actions := AvailableCodeActions(db, key.New("a"), listID)
	ids := actionIDs(actions)
	assert.NotContains(t, ids, "refactor.sort.list.false")
	assert.NotContains(t, ids, "refactor.sort.list.true", "a single-item list is trivially sorted in both directions, so neither sort action is offered")
}

func actionIDs(actions []CodeAction) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = a.ID
	}
	return out
}

func findHeadingID(t *testing.T, blocks []*blocktree.Block, text string) arena.NodeID {
	t.Helper()
	var found arena.NodeID = arena.NoNode
	var walk func([]*blocktree.Block)
	walk = func(bs []*blocktree.Block) {
		for _, b := range bs {
			if found != arena.NoNode {
				return
			}
			if b.Kind == blocktree.Heading && b.Line.PlainText() == text {
				found = b.OriginID
				return
			}
			walk(b.Children)
		}
	}
	walk(blocks)
	require.NotEqual(t, arena.NoNode, found)
	return found
}

func findKind(t *testing.T, blocks []*blocktree.Block, kind blocktree.Kind) arena.NodeID {
	t.Helper()
	var found arena.NodeID = arena.NoNode
	var walk func([]*blocktree.Block)
	walk = func(bs []*blocktree.Block) {
		for _, b := range bs {
			if found != arena.NoNode {
				return
			}
			if b.Kind == kind {
				found = b.OriginID
				return
			}
			walk(b.Children)
		}
	}
	walk(blocks)
	require.NotEqual(t, arena.NoNode, found)
	return found
}

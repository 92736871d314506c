package lsp

import (
	"time"

	"github.com/iwe-org/iwe-sub001/internal/arena"
	"github.com/iwe-org/iwe-sub001/internal/blocktree"
	"github.com/iwe-org/iwe-sub001/internal/graph"
	"github.com/iwe-org/iwe-sub001/internal/key"
	"github.com/iwe-org/iwe-sub001/internal/store"
)

// Attach implements the "Attach" provider (spec §4.10, §9 open question):
// a Reference to k is appended to the date-templated key derived from now
// and dateTemplate, creating that document if it doesn't already exist.
func Attach(db *store.Database, k key.Key, attachRoot key.Key, dateTemplate string, now time.Time) (*graph.Patch, error) {
	dateKey := graph.AttachKey(attachRoot, dateTemplate, now)
	title, _ := db.Graph().Title(k)
	if title == "" {
		title = k.Base()
	}
	child := blocktree.NewReference(k, title, arena.RefRegular)
	return db.Graph().AttachPatch(dateKey, child)
}

// LinkNew implements the "Link-new" provider (spec §4.10): a brand-new
// document newKey is created and the word at the cursor's node in k is
// replaced with a link to it.
func LinkNew(db *store.Database, k key.Key, nodeID arena.NodeID, word string, wikiLinks bool, refsExtension string) (*graph.Patch, error) {
	newKey := db.Graph().RandomKey(k.Parent())
	return db.Graph().LinkNewPatch(k, newKey, nodeID, word, wikiLinks, refsExtension)
}

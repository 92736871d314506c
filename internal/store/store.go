// Package store implements the Database (C11): the state of the world
// combining document text, the live graph, and the search index, behind a
// mutation API that keeps all three in sync.
package store

import (
	"fmt"

	"k8s.io/klog/v2"

	"github.com/iwe-org/iwe-sub001/internal/graph"
	"github.com/iwe-org/iwe-sub001/internal/key"
	"github.com/iwe-org/iwe-sub001/internal/search"
)

// Database owns the workspace's content map, graph and search index, and
// is the sole entry point for mutation (spec §4.9, §5 "the graph is owned
// by the server; all mutation goes through Database").
type Database struct {
	opts    graph.Options
	content map[string]string
	graph   *graph.Graph
	index   []search.SearchPath
}

// Open builds a Database from an initial key -> content map (spec §4.9,
// §2 read path: "filesystem layer -> State -> C4 per document -> C6 ...
// -> C10 builds search -> C11 exposes operations").
func Open(state map[string]string, opts graph.Options) (*Database, error) {
	g, err := graph.Import(state, opts)
	content := make(map[string]string, len(state))
	for k, v := range state {
		content[k] = v
	}
	db := &Database{opts: opts, content: content, graph: g}
	db.reindex()
	return db, err
}

// reindex rebuilds the search index over the whole graph. Indexing is
// full-graph for simplicity (spec §9): a targeted incremental index would
// need to track which paths a changed document used to own, which the
// spec explicitly declines to specify.
func (db *Database) reindex() {
	db.index = search.Build(db.graph)
}

// InsertDocument adds a brand-new document and reindexes (spec §4.9).
func (db *Database) InsertDocument(k key.Key, content string) error {
	return db.UpdateDocument(k, content)
}

// UpdateDocument re-parses k through the graph and rebuilds the search
// index; per spec §5's ordering guarantee, the index rebuild completes
// before this call returns, so the next request always observes it.
func (db *Database) UpdateDocument(k key.Key, content string) error {
	if err := db.graph.FromMarkdown(k, content); err != nil {
		klog.Errorf("update_document %s: %v", k.String(), err)
		return fmt.Errorf("update_document %s: %w", k.String(), err)
	}
	db.content[k.String()] = content
	db.reindex()
	return nil
}

// RemoveDocument deletes k from the graph, content map and search index.
func (db *Database) RemoveDocument(k key.Key) {
	db.graph.Remove(k)
	delete(db.content, k.String())
	db.reindex()
}

// Graph exposes the live graph for read-only query operations (visitor
// algebra, reference lookups, paths) that don't belong on Database itself.
func (db *Database) Graph() *graph.Graph { return db.graph }

// Search runs a query against the current index.
func (db *Database) Search(query string) []search.SearchPath {
	return search.Search(db.index, query)
}

// Content returns the last-known raw Markdown text for k, as stored (not
// the normalized form to_markdown would produce), or "" if unknown.
func (db *Database) Content(k key.Key) (string, bool) {
	c, ok := db.content[k.String()]
	return c, ok
}

// Export returns the whole workspace as normalized Markdown (spec §4.2
// export, surfaced here since Database is the operational entry point).
func (db *Database) Export() map[string]string {
	return db.graph.Export()
}

// ApplyPatch writes every updated document in p through UpdateDocument and
// removes every deleted one, keeping content/graph/index consistent after
// a visitor-algebra refactoring (spec §4.6's patch graph is a staging
// area; Database is where a patch actually lands).
func (db *Database) ApplyPatch(p *graph.Patch, opts graph.Options) error {
	for k, doc := range p.Updated {
		md := writeDocument(doc, opts)
		if err := db.UpdateDocument(key.New(k), md); err != nil {
			return err
		}
	}
	for _, k := range p.Removed {
		db.RemoveDocument(key.New(k))
	}
	return nil
}

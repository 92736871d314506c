package store

import (
	"github.com/iwe-org/iwe-sub001/internal/blocktree"
	"github.com/iwe-org/iwe-sub001/internal/graph"
	"github.com/iwe-org/iwe-sub001/internal/project"
)

// writeDocument serializes a patch-graph document to Markdown the same
// way Graph.ToMarkdown does, for callers (ApplyPatch) that only have the
// detached block tree a visitor produced, not a live graph key.
func writeDocument(doc *blocktree.Document, opts graph.Options) string {
	return project.Write(doc, project.Options{RefsExtension: opts.RefsExtension})
}

package lsp

import (
	"github.com/iwe-org/iwe-sub001/internal/graph"
	"github.com/iwe-org/iwe-sub001/internal/key"
	"github.com/iwe-org/iwe-sub001/internal/project"
)

// FileChange is one of the three kinds of change a patch graph lowers to
// (spec §4.10): Create(key), Update(key, markdown), Remove(key), named
// here by URI rather than key since that's what the wire WorkspaceEdit
// needs.
type FileChange struct {
	Kind    string // "create", "update", "remove"
	URI     string
	Content string
}

// BuildFileChanges turns a Patch into the Create/Update/Remove changes
// the server emits as a WorkspaceEdit (spec §4.10 step 3): a key already
// present in the graph becomes an update, an unknown one becomes a
// create.
func BuildFileChanges(root string, g *graph.Graph, p *graph.Patch, opts project.Options) []FileChange {
	var out []FileChange
	for raw, doc := range p.Updated {
		k := key.New(raw)
		kind := "update"
		if !g.Has(k) {
			kind = "create"
		}
		out = append(out, FileChange{Kind: kind, URI: keyToURI(root, k), Content: project.Write(doc, opts)})
	}
	for _, raw := range p.Removed {
		out = append(out, FileChange{Kind: "remove", URI: keyToURI(root, key.New(raw))})
	}
	return out
}

package llmclient

import (
	"strings"
	"text/template"

	"github.com/iwe-org/iwe-sub001/internal/arena"
	"github.com/iwe-org/iwe-sub001/internal/tree"

	"github.com/iwe-org/iwe-sub001/internal/blocktree"
	"github.com/iwe-org/iwe-sub001/internal/project"
)

// Marker tags used to bracket the node a Transform/Generate call should
// rewrite, and the surrounding context it may read but not touch (ported
// from the original implementation's llm/templates.rs).
const (
	UpdateStart  = "<update_here>"
	UpdateEnd    = "</update_here>"
	ContextStart = "<context>"
	ContextEnd   = "</context>"
)

type promptVars struct {
	Context      string
	ContextStart string
	ContextEnd   string
	UpdateStart  string
	UpdateEnd    string
}

// BlockActionPrompt builds the prompt text for a single-node Transform
// call (spec §4.10): nodeID's rendered Markdown is wrapped in
// update_here/update_here markers within its document's full context, then
// spliced into promptTemplate, a Go text/template string referencing
// {{.Context}}, {{.ContextStart}}, {{.ContextEnd}}, {{.UpdateStart}},
// {{.UpdateEnd}}.
func BlockActionPrompt(promptTemplate string, blocks []*blocktree.Block, nodeID arena.NodeID, opts project.Options) (string, error) {
	marked, _ := tree.MarkNode(blocks, nodeID, UpdateStart, UpdateEnd, opts)

	t, err := template.New("prompt").Parse(promptTemplate)
	if err != nil {
		return "", err
	}
	var out strings.Builder
	err = t.Execute(&out, promptVars{
		Context:      ContextStart + "\n" + marked + "\n" + ContextEnd,
		ContextStart: ContextStart,
		ContextEnd:   ContextEnd,
		UpdateStart:  UpdateStart,
		UpdateEnd:    UpdateEnd,
	})
	return out.String(), err
}

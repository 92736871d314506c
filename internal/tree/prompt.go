package tree

import (
	"strings"

	"github.com/iwe-org/iwe-sub001/internal/arena"
	"github.com/iwe-org/iwe-sub001/internal/blocktree"
	"github.com/iwe-org/iwe-sub001/internal/project"
)

// MarkNode renders blocks to Markdown the way the writer would, but with
// id's own rendered text wrapped in startTag/endTag — the LLM prompt
// marker scheme of spec §4.7 (mark_node), used to point a Transform/
// Generate call at exactly one block within its surrounding context.
func MarkNode(blocks []*blocktree.Block, id arena.NodeID, startTag, endTag string, opts project.Options) (string, bool) {
	target, ok := FindID(blocks, id)
	if !ok {
		return "", false
	}
	full := project.Write(&blocktree.Document{Blocks: blocks}, opts)
	targetText := project.Write(&blocktree.Document{Blocks: []*blocktree.Block{target}}, opts)
	targetText = strings.TrimSuffix(targetText, "\n")
	if targetText == "" || !strings.Contains(full, targetText) {
		return full, false
	}
	marked := strings.Replace(full, targetText, startTag+targetText+endTag, 1)
	return marked, true
}

package lsp

import (
	"context"
	"fmt"

	"github.com/iwe-org/iwe-sub001/internal/arena"
	"github.com/iwe-org/iwe-sub001/internal/blocktree"
	"github.com/iwe-org/iwe-sub001/internal/graph"
	"github.com/iwe-org/iwe-sub001/internal/key"
	"github.com/iwe-org/iwe-sub001/internal/llmclient"
	"github.com/iwe-org/iwe-sub001/internal/mdparse"
	"github.com/iwe-org/iwe-sub001/internal/project"
	"github.com/iwe-org/iwe-sub001/internal/store"
	"github.com/iwe-org/iwe-sub001/internal/tree"
)

// Transform implements the "Transform (LLM)" provider (spec §4.10): the
// block at id is wrapped in update_here markers within k's surrounding
// content, sent to the LLM with promptTemplate, and the result replaces
// that block in place. No change is applied on an LLM failure (spec §7
// kind 4).
func Transform(ctx context.Context, db *store.Database, llm llmclient.Client, model string, k key.Key, id arena.NodeID, promptTemplate string, refsExtension string) (*graph.Patch, error) {
	g := db.Graph()
	blocks, err := g.ProjectKey(k)
	if err != nil {
		return nil, err
	}
	opts := project.Options{RefsExtension: refsExtension}

	prompt, err := llmclient.BlockActionPrompt(promptTemplate, blocks, id, opts)
	if err != nil {
		return nil, fmt.Errorf("building transform prompt: %w", err)
	}
	result, err := llm.Query(ctx, prompt, model)
	if err != nil {
		return nil, fmt.Errorf("transform LLM call failed: %w", err)
	}

	doc, err := mdparse.Read(k, result, mdparse.Options{RefsExtension: refsExtension})
	if err != nil {
		return nil, fmt.Errorf("parsing transform result: %w", err)
	}

	rewritten := tree.Replace(blocks, id, doc.Blocks)
	return g.SinglePatch(k, rewritten), nil
}

// Generate implements the "generate" command (spec §6 commands, §4.10):
// squashes promptKey one level deep, sends it to the LLM, inserts the
// result as newKey, and replaces targetKey's node id with a fresh
// Reference(newKey) placeholder.
func Generate(ctx context.Context, db *store.Database, llm llmclient.Client, model string, newKey, promptKey, targetKey key.Key, targetID arena.NodeID, refsExtension string) (*graph.Patch, error) {
	g := db.Graph()

	squashed, err := g.Squash(promptKey, 1)
	if err != nil {
		return nil, err
	}
	prompt := project.Write(&blocktree.Document{Blocks: squashed}, project.Options{RefsExtension: refsExtension})

	result, err := llm.Query(ctx, prompt, model)
	if err != nil {
		return nil, fmt.Errorf("generate LLM call failed: %w", err)
	}

	generated, err := mdparse.Read(newKey, result, mdparse.Options{RefsExtension: refsExtension})
	if err != nil {
		return nil, fmt.Errorf("parsing generate result: %w", err)
	}

	targetBlocks, err := g.ProjectKey(targetKey)
	if err != nil {
		return nil, err
	}
	title := newKey.Base()
	if len(generated.Blocks) > 0 {
		title = generated.Blocks[0].Line.PlainText()
	}
	placeholder := blocktree.NewReference(newKey, title, arena.RefRegular)
	rewritten := tree.Replace(targetBlocks, targetID, []*blocktree.Block{placeholder})

	p := g.SinglePatch(targetKey, rewritten)
	p.Updated[newKey.String()] = generated
	return p, nil
}

// Package search implements the search index (C10): every heading path in
// the workspace becomes a SearchPath ranked by incoming-reference count,
// fuzzy-matched against a query the way Skim ranks its candidate list.
package search

import (
	"sort"

	"github.com/sahilm/fuzzy"

	"github.com/iwe-org/iwe-sub001/internal/arena"
	"github.com/iwe-org/iwe-sub001/internal/graph"
	"github.com/iwe-org/iwe-sub001/internal/key"
)

// SearchPath is one entry of the index: a heading path from some
// document's primary section down to a descendant section, inclusive
// (spec §4.8).
type SearchPath struct {
	Key      key.Key
	Text     string
	NodeRank int
	Line     int
	TargetID arena.NodeID
}

const maxResults = 100

// Build walks every document's heading paths and ranks each by its
// document's incoming reference count — node_rank is 0 for any path that
// doesn't terminate at a document's primary section (spec §4.8).
func Build(g *graph.Graph) []SearchPath {
	paths := g.Paths()
	out := make([]SearchPath, 0, len(paths))
	for _, p := range paths {
		rank := 0
		if len(p.Titles) == 1 {
			rank = g.NodeRank(p.Key)
		}
		out = append(out, SearchPath{
			Key: p.Key, Text: p.Joined(), NodeRank: rank,
			Line: p.Line, TargetID: p.TargetID,
		})
	}
	sortDefault(out)
	return out
}

// sortDefault applies the stored-list order: node_rank descending,
// tiebreak by key ascending (spec §4.8).
func sortDefault(paths []SearchPath) {
	sort.SliceStable(paths, func(i, j int) bool {
		if paths[i].NodeRank != paths[j].NodeRank {
			return paths[i].NodeRank > paths[j].NodeRank
		}
		return paths[i].Key.Less(paths[j].Key)
	})
}

// Search implements search(query) (spec §4.8): an empty query orders by
// (node_rank desc, text_len asc); otherwise every path is scored by a
// Skim-style fuzzy match (unmatched paths score 0) and ordered by (score
// desc, text_len asc, node_rank desc). Only the top 100 results are kept.
func Search(paths []SearchPath, query string) []SearchPath {
	if query == "" {
		out := append([]SearchPath(nil), paths...)
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].NodeRank != out[j].NodeRank {
				return out[i].NodeRank > out[j].NodeRank
			}
			return len(out[i].Text) < len(out[j].Text)
		})
		return top(out)
	}

	texts := make([]string, len(paths))
	for i, p := range paths {
		texts[i] = p.Text
	}
	// fuzzy.Find returns only the paths that matched at all, already
	// ordered best match first; unmatched paths are absent, which is
	// exactly "missing matches score 0" (spec §4.8) once every path not
	// in this list defaults to score 0 below.
	matches := fuzzy.Find(query, texts)
	scores := make([]int, len(paths))
	for rank, m := range matches {
		scores[m.Index] = len(matches) - rank
	}

	type scoredPath struct {
		SearchPath
		score int
	}
	out := make([]scoredPath, len(paths))
	for i, p := range paths {
		out[i] = scoredPath{SearchPath: p, score: scores[i]}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score > out[j].score
		}
		li, lj := len(out[i].Text), len(out[j].Text)
		if li != lj {
			return li < lj
		}
		return out[i].NodeRank > out[j].NodeRank
	})
	if len(out) > maxResults {
		out = out[:maxResults]
	}
	result := make([]SearchPath, len(out))
	for i, sp := range out {
		result[i] = sp.SearchPath
	}
	return result
}

func top(paths []SearchPath) []SearchPath {
	if len(paths) > maxResults {
		return paths[:maxResults]
	}
	return paths
}

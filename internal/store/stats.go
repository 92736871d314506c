package store

import (
	"sort"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/iwe-org/iwe-sub001/internal/blocktree"
	"github.com/iwe-org/iwe-sub001/internal/inline"
	"github.com/iwe-org/iwe-sub001/internal/key"
)

// KeyStats is one document's statistics, the Go shape of
// key_statistics.rs's KeyStatistics (spec §4.13, supplemented from
// crates/iwe/src/stats/key_statistics.rs).
type KeyStats struct {
	Key   string
	Title string
	Words int
	Lines int

	Sections     int
	Paragraphs   int
	BulletLists  int
	OrderedLists int
	CodeBlocks   int
	Tables       int
	Quotes       int

	IncomingBlockRefs  int
	IncomingInlineRefs int
	TotalIncomingRefs  int
	OutgoingBlockRefs  int
	OutgoingInlineRefs int
	TotalConnections   int

	// Orphan is true when the key has no incoming references of either
	// kind, mirroring the original's orphan detection pass over the
	// aggregated KeyStatistics.
	Orphan bool
}

// Stats computes per-key statistics over the whole graph as a bounded
// data-parallel pass (spec §5, §4.13): a small fixed worker pool consumes
// keys off a channel, one KeyStats per key, folded sequentially into the
// result slice, matching the teacher's pkg/reactor/jobs worker-pool shape.
// Per-key failures are collected with go-multierror rather than aborting
// the whole pass.
func (db *Database) Stats() ([]KeyStats, error) {
	keys := db.graph.Keys()

	const workers = 8
	jobs := make(chan key.Key)
	results := make(chan KeyStats, len(keys))
	var errs *multierror.Error
	var errMu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := range jobs {
				stat, err := db.statsFor(k)
				if err != nil {
					errMu.Lock()
					errs = multierror.Append(errs, err)
					errMu.Unlock()
					continue
				}
				results <- stat
			}
		}()
	}

	go func() {
		for _, k := range keys {
			jobs <- k
		}
		close(jobs)
	}()

	wg.Wait()
	close(results)

	out := make([]KeyStats, 0, len(keys))
	for r := range results {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, errs.ErrorOrNil()
}

func (db *Database) statsFor(k key.Key) (KeyStats, error) {
	title, _ := db.graph.Title(k)
	stat := KeyStats{Key: k.String(), Title: title}

	blocks, err := db.graph.ProjectKey(k)
	if err != nil {
		return stat, err
	}
	for _, b := range blocks {
		countBlock(b, &stat)
	}

	stat.IncomingBlockRefs = len(db.graph.GetBlockReferencesTo(k))
	stat.IncomingInlineRefs = len(db.graph.GetInlineReferencesTo(k))
	stat.TotalIncomingRefs = stat.IncomingBlockRefs + stat.IncomingInlineRefs
	stat.OutgoingBlockRefs = len(db.graph.GetBlockReferencesIn(k))
	stat.OutgoingInlineRefs = countOutgoingInlineRefs(blocks, k, db.opts.RefsExtension)
	stat.TotalConnections = stat.TotalIncomingRefs + stat.OutgoingBlockRefs + stat.OutgoingInlineRefs
	stat.Orphan = stat.TotalIncomingRefs == 0

	return stat, nil
}

func countBlock(b *blocktree.Block, stat *KeyStats) {
	stat.Lines++
	switch b.Kind {
	case blocktree.Heading:
		stat.Sections++
		stat.Words += wordCount(b.Line.PlainText())
	case blocktree.Paragraph:
		stat.Paragraphs++
		stat.Words += wordCount(b.Line.PlainText())
	case blocktree.BulletList:
		stat.BulletLists++
	case blocktree.OrderedList:
		stat.OrderedLists++
	case blocktree.Raw:
		stat.CodeBlocks++
	case blocktree.Table:
		stat.Tables++
	case blocktree.Quote:
		stat.Quotes++
	case blocktree.ListItem:
		stat.Words += wordCount(b.Line.PlainText())
	}
	for _, c := range b.Children {
		countBlock(c, stat)
	}
}

func countOutgoingInlineRefs(blocks []*blocktree.Block, source key.Key, refsExtension string) int {
	n := 0
	for _, b := range blocks {
		switch b.Kind {
		case blocktree.Heading, blocktree.Paragraph, blocktree.ListItem:
			n += len(inline.RefKeys(b.Line, source, refsExtension))
		case blocktree.Table:
			for _, row := range append([][]inline.Line{b.TableHeader}, b.TableRows...) {
				for _, cell := range row {
					n += len(inline.RefKeys(cell, source, refsExtension))
				}
			}
		}
		n += countOutgoingInlineRefs(b.Children, source, refsExtension)
	}
	return n
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

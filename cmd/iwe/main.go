// Command iwe is the workspace CLI (spec §4.13 supplemented features): it
// exports normalized Markdown, reports per-key statistics, and scaffolds
// new documents and a date-templated attach target, all through the same
// store.Database the LSP server uses.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/iwe-org/iwe-sub001/internal/blocktree"
	"github.com/iwe-org/iwe-sub001/internal/graph"
	"github.com/iwe-org/iwe-sub001/internal/inline"
	"github.com/iwe-org/iwe-sub001/internal/key"
	"github.com/iwe-org/iwe-sub001/internal/project"
	"github.com/iwe-org/iwe-sub001/internal/store"
	"github.com/iwe-org/iwe-sub001/internal/wsconfig"
	"github.com/iwe-org/iwe-sub001/internal/wsfs"
)

var version = "dev"

func main() {
	cmd := newCommand()
	if err := flag.CommandLine.Parse([]string{}); err != nil {
		panic(err.Error())
	}
	if err := cmd.Execute(); err != nil {
		os.Exit(-1)
	}
}

func newCommand() *cobra.Command {
	var root string
	cmd := &cobra.Command{
		Use:   "iwe",
		Short: "Command-line tools for a workspace of interlinked Markdown notes",
	}
	cmd.PersistentFlags().StringVar(&root, "root", ".", "workspace root directory")

	cmd.AddCommand(
		newExportCmd(&root),
		newStatsCmd(&root),
		newNewCmd(&root),
		newAttachCmd(&root),
		newInitCmd(&root),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Run:   func(cmd *cobra.Command, args []string) { fmt.Println(version) },
		},
	)

	klog.InitFlags(nil)
	cmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	return cmd
}

// openWorkspace loads configuration, walks root and opens a Database the
// same way cmd/iwes does, so the CLI and the language server always agree
// on how a workspace is read (spec §2 read path).
func openWorkspace(root string) (string, wsconfig.Configuration, *store.Database, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", wsconfig.Configuration{}, nil, fmt.Errorf("resolving workspace root: %w", err)
	}
	cfg, err := wsconfig.FileLoader{}.Load(abs)
	if err != nil {
		return "", wsconfig.Configuration{}, nil, fmt.Errorf("loading workspace configuration: %w", err)
	}
	state, err := wsfs.DirWalker{}.Walk(abs)
	if err != nil {
		return "", wsconfig.Configuration{}, nil, fmt.Errorf("walking workspace: %w", err)
	}
	opts := graph.Options{RefsExtension: cfg.Markdown.RefsExtension, SequentialKeys: cfg.SequentialKeys}
	db, err := store.Open(state, opts)
	if err != nil {
		klog.Warningf("some documents failed to parse: %v", err)
	}
	return abs, cfg, db, nil
}

func newExportCmd(root *string) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every document back out as normalized Markdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			abs, _, db, err := openWorkspace(*root)
			if err != nil {
				return err
			}
			dest := out
			if dest == "" {
				dest = abs
			}
			return wsfs.WriteStoreAtPath(db.Export(), dest)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "destination directory (defaults to the workspace root)")
	return cmd
}

func newStatsCmd(root *string) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print per-document statistics (words, sections, reference counts)",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, db, err := openWorkspace(*root)
			if err != nil {
				return err
			}
			stats, statErr := db.Stats()
			if statErr != nil {
				klog.Warningf("stats: %v", statErr)
			}
			sort.Slice(stats, func(i, j int) bool { return stats[i].Key < stats[j].Key })

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(stats)
			}
			for _, s := range stats {
				fmt.Printf("%-40s %5d words  %3d sections  %3d incoming  %3d outgoing\n",
					s.Key, s.Words, s.Sections, s.TotalIncomingRefs, s.TotalConnections-s.TotalIncomingRefs)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit machine-readable JSON instead of a table")
	return cmd
}

func newNewCmd(root *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new <key> <title>",
		Short: "Create a new document with a single primary heading",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			abs, cfg, db, err := openWorkspace(*root)
			if err != nil {
				return err
			}
			k := key.New(args[0])
			if db.Graph().Has(k) {
				return fmt.Errorf("%s already exists", k.String())
			}
			doc := &blocktree.Document{Blocks: []*blocktree.Block{
				{Kind: blocktree.Heading, Level: 1, Line: inline.NewTextLine(args[1])},
			}}
			md := project.Write(doc, project.Options{RefsExtension: cfg.Markdown.RefsExtension})
			if err := db.InsertDocument(k, md); err != nil {
				return err
			}
			return wsfs.WriteStoreAtPath(map[string]string{k.String(): md}, abs)
		},
	}
	return cmd
}

func newAttachCmd(root *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attach <attach-root> <title>",
		Short: "Append a new entry under today's date-templated document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			abs, cfg, db, err := openWorkspace(*root)
			if err != nil {
				return err
			}
			attachRoot := key.New(args[0])
			dateKey := graph.AttachKey(attachRoot, cfg.AttachTemplate, time.Now())
			entry := &blocktree.Block{Kind: blocktree.Heading, Level: 2, Line: inline.NewTextLine(args[1])}

			p, err := db.Graph().AttachPatch(dateKey, entry)
			if err != nil {
				return err
			}
			opts := graph.Options{RefsExtension: cfg.Markdown.RefsExtension, SequentialKeys: cfg.SequentialKeys}
			if err := db.ApplyPatch(p, opts); err != nil {
				return err
			}
			md, _ := db.Graph().ExportKey(dateKey)
			return wsfs.WriteStoreAtPath(map[string]string{dateKey.String(): md}, abs)
		},
	}
	return cmd
}

func newInitCmd(root *string) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default .iwe/config.toml under the workspace root",
		RunE: func(cmd *cobra.Command, args []string) error {
			abs, err := filepath.Abs(*root)
			if err != nil {
				return err
			}
			dir := filepath.Join(abs, ".iwe")
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			cfg := wsconfig.Default()
			contents := fmt.Sprintf(`# iwe workspace configuration

sequential_keys = %t
wiki_links = %t
attach_template = %q
llm_model = %q

[markdown]
refs_extension = %q
`, cfg.SequentialKeys, cfg.WikiLinks, cfg.AttachTemplate, cfg.LLMModel, cfg.Markdown.RefsExtension)
			path := filepath.Join(dir, "config.toml")
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			return os.WriteFile(path, []byte(contents), 0o644)
		},
	}
}

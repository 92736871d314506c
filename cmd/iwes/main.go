// Command iwes is the LSP server binary (C12, spec §6): it walks a
// workspace root, loads its configuration, and serves refactoring and
// navigation requests over stdio until the client shuts it down.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/iwe-org/iwe-sub001/internal/graph"
	"github.com/iwe-org/iwe-sub001/internal/llmclient"
	"github.com/iwe-org/iwe-sub001/internal/lsp"
	"github.com/iwe-org/iwe-sub001/internal/store"
	"github.com/iwe-org/iwe-sub001/internal/wsconfig"
	"github.com/iwe-org/iwe-sub001/internal/wsfs"
)

// version is set at build time via -ldflags, the way the teacher's
// pkg/version.Version is.
var version = "dev"

func main() {
	if len(os.Getenv("GOMAXPROCS")) == 0 {
		runtime.GOMAXPROCS(runtime.NumCPU())
	}

	_, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 2)
	signal.Notify(c, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer func() {
		signal.Stop(c)
		cancel()
	}()
	go func() {
		<-c
		cancel()
		<-c
		os.Exit(1)
	}()

	cmd := newCommand()
	if err := flag.CommandLine.Parse([]string{}); err != nil {
		panic(err.Error())
	}
	if err := cmd.Execute(); err != nil {
		os.Exit(-1)
	}
}

func newCommand() *cobra.Command {
	var (
		root  string
		debug bool
	)
	cmd := &cobra.Command{
		Use:   "iwes",
		Short: "Language server for a workspace of interlinked Markdown notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return run(root, debug)
		},
	}
	cmd.Flags().StringVar(&root, "root", ".", "workspace root directory")
	cmd.Flags().BoolVar(&debug, "debug", false, "log every wire message")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	})

	klog.InitFlags(nil)
	cmd.Flags().AddGoFlagSet(flag.CommandLine)
	return cmd
}

func run(root string, debug bool) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving workspace root: %w", err)
	}

	cfg, err := wsconfig.FileLoader{}.Load(abs)
	if err != nil {
		return fmt.Errorf("loading workspace configuration: %w", err)
	}

	state, err := wsfs.DirWalker{}.Walk(abs)
	if err != nil {
		return fmt.Errorf("walking workspace: %w", err)
	}

	opts := graph.Options{RefsExtension: cfg.Markdown.RefsExtension, SequentialKeys: cfg.SequentialKeys}
	db, err := store.Open(state, opts)
	if err != nil {
		klog.Warningf("some documents failed to parse on startup: %v", err)
	}

	srv := lsp.NewServer(abs, db, cfg, llmclient.NewOpenAIClient())
	klog.Infof("iwes %s serving workspace %s", version, abs)
	return srv.Run("iwes", version, debug)
}

// Package wsfs is the filesystem collaborator named at its interface only
// by spec §1 ("filesystem walking with gitignore (give me (key, content)
// pairs)"): it turns a workspace root directory into the State map the
// graph imports from, honoring .gitignore.
package wsfs

import (
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"

	"github.com/iwe-org/iwe-sub001/internal/key"
)

// Walker produces a key -> Markdown content map for a workspace root. The
// core never reads files directly; every entry point documented in spec
// §9 ("fs::new_for_path(base) -> State") goes through this interface so
// tests can substitute an in-memory map.
type Walker interface {
	Walk(root string) (map[string]string, error)
}

// DirWalker walks the real filesystem, skipping anything .gitignore
// excludes, and keys every ".md" file by its path relative to root with
// the extension stripped (spec §6 "On-disk layout").
type DirWalker struct{}

// Walk implements Walker.
func (DirWalker) Walk(root string) (map[string]string, error) {
	ignore, _ := gitignore.NewGitIgnore(filepath.Join(root, ".gitignore"))

	out := map[string]string{}
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		if rel == "." {
			return nil
		}
		if ignore != nil && ignore.Match(path, info.IsDir()) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			if info.Name() == ".iwe" || info.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(info.Name()), ".md") {
			return nil
		}
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			return readErr
		}
		k := key.New(filepath.ToSlash(rel))
		out[k.String()] = string(content)
		return nil
	})
	return out, err
}

// WriteStoreAtPath writes every document in state to root as "<key>.md",
// the companion half of spec §9's external I/O boundary
// ("write_store_at_path(state, base)").
func WriteStoreAtPath(state map[string]string, root string) error {
	for k, content := range state {
		path := filepath.Join(root, filepath.FromSlash(k)+".md")
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// Package key implements workspace-relative document identifiers.
//
// A Key is a slash-separated path, always relative to the workspace root,
// with the trailing ".md" suffix stripped. Keys are the only handle by which
// documents, references and search paths identify a file; nothing in the
// graph ever stores an absolute filesystem path.
package key

import (
	"path"
	"strings"
)

// Key is a workspace-relative document identifier without the .md suffix.
type Key struct {
	path string
}

// Empty is the zero-value Key, equal to the workspace root.
var Empty = Key{}

// New builds a Key from a raw path, normalizing separators and stripping a
// trailing ".md" extension if present.
func New(raw string) Key {
	p := strings.TrimSuffix(raw, "/")
	p = strings.TrimPrefix(p, "/")
	p = strings.TrimSuffix(p, ".md")
	p = path.Clean(p)
	if p == "." {
		p = ""
	}
	return Key{path: p}
}

// String returns the key's canonical path form, without extension.
func (k Key) String() string {
	return k.path
}

// WithExtension returns the key's path suffixed with ext (e.g. ".md"), or the
// bare path when ext is empty. Used when resolving link URLs per
// markdown.refs_extension.
func (k Key) WithExtension(ext string) string {
	return k.path + ext
}

// IsEmpty reports whether k is the workspace-root key.
func (k Key) IsEmpty() bool {
	return k.path == ""
}

// Equal reports whether two keys reference the same document.
//
// Two keys are equal iff their relative paths are equal (spec §3).
func (k Key) Equal(other Key) bool {
	return k.path == other.path
}

// Parent returns the key's containing directory as a Key.
//
// At the root, Parent returns the empty Key (path ""); downstream code that
// joins a relative path onto Parent() relies on this contract (spec §9 open
// question), so it must not change to, say, ".".
func (k Key) Parent() Key {
	if k.path == "" {
		return Empty
	}
	dir := path.Dir(k.path)
	if dir == "." {
		return Empty
	}
	return Key{path: dir}
}

// Base returns the final path segment, e.g. "note" for "a/b/note".
func (k Key) Base() string {
	return path.Base(k.path)
}

// Join resolves a relative URL string against k's parent directory,
// producing the key of the referenced document. It mirrors how a browser
// resolves a relative href against the current document's directory.
func (k Key) Join(rel string) Key {
	if rel == "" {
		return k
	}
	if strings.HasPrefix(rel, "/") {
		return New(rel)
	}
	base := k.Parent().path
	joined := path.Join(base, rel)
	return New(joined)
}

// Child resolves rel directly against k, treating k itself as a directory
// rather than a linking document — the counterpart to Join for callers
// that already hold a parent directory key (Graph.random_key, Attach's
// date-templated key) rather than a document whose href needs resolving
// against its own containing directory.
func (k Key) Child(rel string) Key {
	return New(path.Join(k.path, rel))
}

// Less provides a stable total order over keys, used to tiebreak rankings.
func (k Key) Less(other Key) bool {
	return k.path < other.path
}

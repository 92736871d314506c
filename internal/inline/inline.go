// Package inline implements the structured inline span model: the
// representation of a single Markdown line's inline content (text,
// emphasis, code spans, links, wikilinks, math, raw HTML) shared by the
// reader, the graph and the writer.
package inline

import (
	"strings"

	"github.com/iwe-org/iwe-sub001/internal/key"
)

// Kind discriminates a Span's role in the inline tree.
type Kind int

const (
	Text Kind = iota
	Emph
	Strong
	Strikethrough
	Code
	Math
	RawInline
	SoftBreak
	LineBreak
	Link
	Image
)

// LinkKind distinguishes a Markdown link from the two WikiLink forms.
type LinkKind int

const (
	LinkRegular LinkKind = iota
	LinkWikiLink
	LinkWikiLinkPiped
)

// Span is one node of an inline sequence. Container kinds (Emph, Strong,
// Strikethrough, Link, Image) carry Children; leaf kinds carry Text.
type Span struct {
	Kind     Kind
	Text     string
	Children []Span

	// Link/Image only.
	URL      string
	Title    string
	LinkKind LinkKind
	IsRefURL bool
}

// Line is an immutable inline sequence, stored once in the arena and
// referenced by LineID thereafter.
type Line struct {
	Spans []Span
}

// IsEmpty reports whether the line carries no content at all.
func (l Line) IsEmpty() bool {
	return len(l.Spans) == 0
}

// PlainText flattens the line to its visible text, discarding all markup.
// Used for search indexing and for the "already sorted" lower-cased
// first-inline heuristic (spec §9).
func (l Line) PlainText() string {
	var b strings.Builder
	for _, s := range l.Spans {
		writePlainText(&b, s)
	}
	return b.String()
}

func writePlainText(b *strings.Builder, s Span) {
	switch s.Kind {
	case Text, Code, Math, RawInline:
		b.WriteString(s.Text)
	case SoftBreak:
		b.WriteString(" ")
	case LineBreak:
		b.WriteString("\n")
	case Emph, Strong, Strikethrough, Link:
		for _, c := range s.Children {
			writePlainText(b, c)
		}
	case Image:
		b.WriteString(s.Title)
	}
}

// RefKeys returns the set of internal reference keys mentioned by links
// within the line, resolved against base. Used to populate the inline half
// of the reference index (C7).
func RefKeys(l Line, base key.Key, refsExtension string) []key.Key {
	var out []key.Key
	var walk func(s Span)
	walk = func(s Span) {
		if s.Kind == Link && s.IsRefURL {
			out = append(out, key.ResolveRef(base, s.URL, refsExtension))
		}
		for _, c := range s.Children {
			walk(c)
		}
	}
	for _, s := range l.Spans {
		walk(s)
	}
	return out
}

// SingleRef reports whether the line consists of exactly one link span (no
// surrounding text), returning that span. Used by the reader to decide
// whether a standalone paragraph becomes a structural Reference node
// (spec §4.4).
func SingleRef(l Line) (Span, bool) {
	if len(l.Spans) != 1 {
		return Span{}, false
	}
	s := l.Spans[0]
	if s.Kind != Link {
		return Span{}, false
	}
	return s, true
}

// RewriteRefKey returns a copy of l with every link whose resolved key
// equals oldKey rewritten to point at newKey, refreshing visible text when
// newTitle is non-empty and the link kind isn't a verbatim-text WikiLink.
func RewriteRefKey(l Line, base key.Key, oldKey, newKey key.Key, refsExtension string, newTitle string) Line {
	out := Line{Spans: make([]Span, len(l.Spans))}
	for i, s := range l.Spans {
		out.Spans[i] = rewriteSpan(s, base, oldKey, newKey, refsExtension, newTitle)
	}
	return out
}

func rewriteSpan(s Span, base key.Key, oldKey, newKey key.Key, ext, newTitle string) Span {
	if s.Kind == Link && s.IsRefURL {
		target := key.ResolveRef(base, s.URL, ext)
		if target.Equal(oldKey) {
			s.URL = rewriteURL(s, newKey, ext)
			if s.LinkKind == LinkRegular && newTitle != "" {
				s.Children = []Span{{Kind: Text, Text: newTitle}}
			}
		}
	}
	if len(s.Children) > 0 {
		children := make([]Span, len(s.Children))
		for i, c := range s.Children {
			children[i] = rewriteSpan(c, base, oldKey, newKey, ext, newTitle)
		}
		s.Children = children
	}
	return s
}

// RemoveRefLinks returns a copy of l with every link resolving to target
// unwrapped to its plain visible text, dropping the link itself — used to
// scrub a document's mentions of a deleted document (spec §4.7
// remove_inline_links_to).
func RemoveRefLinks(l Line, base key.Key, target key.Key, refsExtension string) Line {
	out := Line{Spans: make([]Span, 0, len(l.Spans))}
	for _, s := range l.Spans {
		out.Spans = append(out.Spans, removeRefLinkSpan(s, base, target, refsExtension)...)
	}
	return out
}

func removeRefLinkSpan(s Span, base key.Key, target key.Key, ext string) []Span {
	if s.Kind == Link && s.IsRefURL && key.ResolveRef(base, s.URL, ext).Equal(target) {
		if len(s.Children) > 0 {
			return s.Children
		}
		return []Span{{Kind: Text, Text: s.Title}}
	}
	if len(s.Children) > 0 {
		children := make([]Span, 0, len(s.Children))
		for _, c := range s.Children {
			children = append(children, removeRefLinkSpan(c, base, target, ext)...)
		}
		s.Children = children
	}
	return []Span{s}
}

func rewriteURL(s Span, newKey key.Key, ext string) string {
	if s.LinkKind != LinkRegular {
		return newKey.String()
	}
	return key.LinkURL(newKey, ext)
}

// ReplaceWordWithLink finds the first whole-word occurrence of word in l's
// text spans and replaces it with a link to url, used by the Link-new
// action provider (spec §4.10). wiki selects a bare WikiLink ([[url]])
// over a regular Markdown link ([word](url)). Returns ok=false if word
// does not occur as a whole word anywhere in l.
func ReplaceWordWithLink(l Line, word string, url string, wiki bool) (Line, bool) {
	out := Line{Spans: make([]Span, 0, len(l.Spans))}
	replaced := false
	for _, s := range l.Spans {
		if !replaced && s.Kind == Text {
			if before, after, ok := splitOnWord(s.Text, word); ok {
				if before != "" {
					out.Spans = append(out.Spans, Span{Kind: Text, Text: before})
				}
				out.Spans = append(out.Spans, linkSpan(word, url, wiki))
				if after != "" {
					out.Spans = append(out.Spans, Span{Kind: Text, Text: after})
				}
				replaced = true
				continue
			}
		}
		out.Spans = append(out.Spans, s)
	}
	return out, replaced
}

func linkSpan(word, url string, wiki bool) Span {
	if wiki {
		return Span{Kind: Link, LinkKind: LinkWikiLink, URL: url, IsRefURL: true}
	}
	return Span{Kind: Link, LinkKind: LinkRegular, URL: url, IsRefURL: true, Children: []Span{{Kind: Text, Text: word}}}
}

func splitOnWord(text, word string) (before, after string, ok bool) {
	for from := 0; from <= len(text); {
		i := strings.Index(text[from:], word)
		if i < 0 {
			return "", "", false
		}
		idx := from + i
		end := idx + len(word)
		if (idx == 0 || !isWordByte(text[idx-1])) && (end >= len(text) || !isWordByte(text[end])) {
			return text[:idx], text[end:], true
		}
		from = idx + 1
	}
	return "", "", false
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// NewTextLine builds a single-span plain-text Line, a convenience used when
// synthesizing titles, hints and ref fallback text.
func NewTextLine(text string) Line {
	if text == "" {
		return Line{}
	}
	return Line{Spans: []Span{{Kind: Text, Text: text}}}
}

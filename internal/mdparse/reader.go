// Package mdparse implements the CommonMark+GFM Markdown reader (C4): it
// turns source text into a blocktree.Document, normalizing heading nesting
// (I3) at parse time, recognizing both Markdown links and WikiLinks, and
// dropping block-level HTML by design while preserving inline HTML
// verbatim.
//
// Grounded on the teacher's pkg/markdown/parser.go: goldmark with the GFM
// extension bundle is the parser; frontmatter is split out manually
// (adapted from pkg/markdown/frontmatter.go) so it survives round-trips
// byte for byte instead of being re-serialized from a parsed map.
package mdparse

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	gmext "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/iwe-org/iwe-sub001/internal/arena"
	"github.com/iwe-org/iwe-sub001/internal/blocktree"
	"github.com/iwe-org/iwe-sub001/internal/inline"
	"github.com/iwe-org/iwe-sub001/internal/key"
)

// Options configures parsing. RefsExtension mirrors
// MarkdownOptions.refs_extension: when non-empty, link URLs carrying that
// suffix are stripped before being resolved to a Key.
type Options struct {
	RefsExtension string
}

var gm = goldmark.New(goldmark.WithExtensions(extension.GFM))

var wikiLinkRe = regexp.MustCompile(`\[\[([^\[\]|]+)(?:\|([^\[\]]+))?\]\]`)

// Read parses source (the content of the document identified by base) into
// a block tree.
func Read(base key.Key, source string, opts Options) (*blocktree.Document, error) {
	fm, body, err := stripFrontMatter([]byte(source))
	if err != nil {
		return nil, err
	}
	tags := collectHashtags(string(body))

	src := []byte(body)
	reader := text.NewReader(src)
	ctx := parser.NewContext()
	doc := gm.Parser().Parse(reader, parser.WithContext(ctx))

	r := &reading{src: src, base: base, opts: opts, lineOffset: strings.Count(source[:len(source)-len(body)], "\n")}
	flat := r.convertSiblings(doc.FirstChild())
	nested := nestHeadings(flat)

	return &blocktree.Document{
		FrontMatter: string(fm),
		Tags:        tags,
		Blocks:      nested,
	}, nil
}

type reading struct {
	src  []byte
	base key.Key
	opts Options

	// lineOffset is the number of source lines before src (the stripped
	// frontmatter block and its fences).
	lineOffset int
}

// convertSiblings walks a goldmark sibling chain into a flat slice of
// blocks; heading nesting is applied afterwards by nestHeadings.
func (r *reading) convertSiblings(n gast.Node) []*blocktree.Block {
	var out []*blocktree.Block
	for c := n; c != nil; c = c.NextSibling() {
		if b := r.convertBlock(c); b != nil {
			out = append(out, b)
		}
	}
	return out
}

func (r *reading) convertBlock(n gast.Node) *blocktree.Block {
	switch n.Kind() {
	case gast.KindHeading:
		h := n.(*gast.Heading)
		b := blocktree.NewHeading(h.Level, r.convertInline(h))
		b.SourceLine = r.lineOf(n)
		return b

	case gast.KindParagraph, gast.KindTextBlock:
		line := r.convertInline(n)
		if span, ok := inline.SingleRef(line); ok {
			k := key.ResolveRef(r.base, span.URL, r.opts.RefsExtension)
			rk := refKindOf(span)
			text := inline.Render(inline.Line{Spans: span.Children})
			b := blocktree.NewReference(k, text, rk)
			b.SourceLine = r.lineOf(n)
			return b
		}
		b := blocktree.New(blocktree.Paragraph)
		b.Line = line
		b.SourceLine = r.lineOf(n)
		return b

	case gast.KindCodeBlock:
		b := blocktree.New(blocktree.Raw)
		b.Content = rawBlockContent(n, r.src)
		b.SourceLine = r.lineOf(n)
		return b

	case gast.KindFencedCodeBlock:
		fc := n.(*gast.FencedCodeBlock)
		lang := ""
		if fc.Info != nil {
			lang = strings.TrimSpace(string(fc.Info.Segment.Value(r.src)))
		}
		b := blocktree.New(blocktree.Raw)
		b.Lang = lang
		b.Content = rawBlockContent(n, r.src)
		b.SourceLine = r.lineOf(n)
		return b

	case gast.KindBlockquote:
		b := blocktree.New(blocktree.Quote)
		b.Children = r.convertSiblings(n.FirstChild())
		b.SourceLine = firstChildLine(b.Children)
		return b

	case gast.KindList:
		l := n.(*gast.List)
		kind := blocktree.BulletList
		if l.IsOrdered() {
			kind = blocktree.OrderedList
		}
		b := blocktree.New(kind)
		b.Ordered = l.IsOrdered()
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			b.Children = append(b.Children, r.convertListItem(item))
		}
		b.SourceLine = firstChildLine(b.Children)
		return b

	case gast.KindThematicBreak:
		b := blocktree.New(blocktree.HorizontalRule)
		b.SourceLine = r.lineOf(n)
		return b

	case gast.KindHTMLBlock:
		// Block-level HTML is dropped by design (spec §4.4 Non-goals).
		return nil

	case gmext.KindTable:
		return r.convertTable(n)

	default:
		return nil
	}
}

func (r *reading) convertListItem(n gast.Node) *blocktree.Block {
	var line inline.Line
	var rest []*blocktree.Block
	first := true
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if first && (c.Kind() == gast.KindParagraph || c.Kind() == gast.KindTextBlock) {
			line = r.convertInline(c)
			first = false
			continue
		}
		first = false
		if b := r.convertBlock(c); b != nil {
			rest = append(rest, b)
		}
	}
	b := blocktree.New(blocktree.ListItem)
	b.Line = line
	b.Children = rest
	b.SourceLine = r.lineOf(n)
	return b
}

func (r *reading) convertTable(n gast.Node) *blocktree.Block {
	t := n.(*gmext.Table)
	align := make([]arena.TableAlign, len(t.Alignments))
	for i, a := range t.Alignments {
		switch a {
		case gmext.AlignLeft:
			align[i] = arena.AlignLeft
		case gmext.AlignCenter:
			align[i] = arena.AlignCenter
		case gmext.AlignRight:
			align[i] = arena.AlignRight
		default:
			align[i] = arena.AlignNone
		}
	}
	b := blocktree.New(blocktree.Table)
	b.TableAlign = align
	b.SourceLine = r.lineOf(n)
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []inline.Line
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, r.convertInline(cell))
		}
		if row.Kind() == gmext.KindTableHeader {
			b.TableHeader = cells
		} else {
			b.TableRows = append(b.TableRows, cells)
		}
	}
	return b
}

// lineOf returns the 0-indexed source line a block-level node starts on,
// used to populate blocktree.Block.SourceLine for the LSP source map.
func (r *reading) lineOf(n gast.Node) int {
	lines := n.Lines()
	if lines == nil || lines.Len() == 0 {
		return 0
	}
	start := lines.At(0).Start
	if start > len(r.src) {
		start = len(r.src)
	}
	return r.lineOffset + bytes.Count(r.src[:start], []byte("\n"))
}

func firstChildLine(children []*blocktree.Block) int {
	if len(children) == 0 {
		return 0
	}
	return children[0].SourceLine
}

func rawBlockContent(n gast.Node, src []byte) string {
	lines := n.Lines()
	var b strings.Builder
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	return strings.Trim(b.String(), "\n")
}

func refKindOf(s inline.Span) arena.RefKind {
	switch s.LinkKind {
	case inline.LinkWikiLink:
		return arena.RefWikiLink
	case inline.LinkWikiLinkPiped:
		return arena.RefWikiLinkPiped
	default:
		return arena.RefRegular
	}
}

// convertInline converts one goldmark inline container's children into a
// Line, then splits any literal "[[key]]"/"[[key|text]]" runs out of the
// resulting Text spans into WikiLink spans (goldmark has no native
// WikiLink syntax, so these survive parsing as plain text).
func (r *reading) convertInline(n gast.Node) inline.Line {
	spans := r.convertInlineChildren(n.FirstChild())
	return inline.Line{Spans: expandWikiLinks(spans, r.base, r.opts)}
}

func (r *reading) convertInlineChildren(n gast.Node) []inline.Span {
	var out []inline.Span
	for c := n; c != nil; c = c.NextSibling() {
		out = append(out, r.convertInlineNode(c)...)
	}
	return out
}

func (r *reading) convertInlineNode(n gast.Node) []inline.Span {
	switch n.Kind() {
	case gast.KindText:
		t := n.(*gast.Text)
		s := inline.Span{Kind: inline.Text, Text: string(t.Segment.Value(r.src))}
		spans := []inline.Span{s}
		if t.HardLineBreak() {
			spans = append(spans, inline.Span{Kind: inline.LineBreak})
		} else if t.SoftLineBreak() {
			spans = append(spans, inline.Span{Kind: inline.SoftBreak})
		}
		return spans

	case gast.KindString:
		s := n.(*gast.String)
		return []inline.Span{{Kind: inline.Text, Text: string(s.Value)}}

	case gast.KindEmphasis:
		e := n.(*gast.Emphasis)
		children := r.convertInlineChildren(n.FirstChild())
		kind := inline.Emph
		if e.Level >= 2 {
			kind = inline.Strong
		}
		return []inline.Span{{Kind: kind, Children: children}}

	case gmext.KindStrikethrough:
		children := r.convertInlineChildren(n.FirstChild())
		return []inline.Span{{Kind: inline.Strikethrough, Children: children}}

	case gast.KindCodeSpan:
		return []inline.Span{{Kind: inline.Code, Text: textOf(n, r.src)}}

	case gast.KindAutoLink:
		a := n.(*gast.AutoLink)
		url := string(a.URL(r.src))
		return []inline.Span{{
			Kind:     inline.Link,
			URL:      url,
			LinkKind: inline.LinkRegular,
			IsRefURL: key.IsRefURL(url),
			Children: []inline.Span{{Kind: inline.Text, Text: string(a.Label(r.src))}},
		}}

	case gast.KindLink:
		l := n.(*gast.Link)
		url := string(l.Destination)
		return []inline.Span{{
			Kind:     inline.Link,
			URL:      url,
			Title:    string(l.Title),
			LinkKind: inline.LinkRegular,
			IsRefURL: key.IsRefURL(url),
			Children: r.convertInlineChildren(n.FirstChild()),
		}}

	case gast.KindImage:
		im := n.(*gast.Image)
		return []inline.Span{{
			Kind:  inline.Image,
			URL:   string(im.Destination),
			Title: textOf(n, r.src),
		}}

	case gast.KindRawHTML:
		return []inline.Span{{Kind: inline.RawInline, Text: textOf(n, r.src)}}

	default:
		return r.convertInlineChildren(n.FirstChild())
	}
}

func textOf(n gast.Node, src []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*gast.Text); ok {
			b.Write(t.Segment.Value(src))
		}
	}
	if b.Len() == 0 {
		if lines := n.Lines(); lines != nil {
			for i := 0; i < lines.Len(); i++ {
				b.Write(lines.At(i).Value(src))
			}
		}
	}
	return b.String()
}

// expandWikiLinks splits "[[key]]"/"[[key|text]]" runs out of Text spans,
// recursing into formatting containers. Link/Image spans are left alone:
// their visible text is rendered separately and is not a candidate for
// further WikiLink recognition.
func expandWikiLinks(spans []inline.Span, base key.Key, opts Options) []inline.Span {
	var out []inline.Span
	for _, s := range spans {
		switch s.Kind {
		case inline.Text:
			out = append(out, splitWikiLinks(s.Text)...)
		case inline.Emph, inline.Strong, inline.Strikethrough:
			s.Children = expandWikiLinks(s.Children, base, opts)
			out = append(out, s)
		default:
			out = append(out, s)
		}
	}
	return out
}

func splitWikiLinks(text string) []inline.Span {
	matches := wikiLinkRe.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return []inline.Span{{Kind: inline.Text, Text: text}}
	}
	var out []inline.Span
	pos := 0
	for _, m := range matches {
		if m[0] > pos {
			out = append(out, inline.Span{Kind: inline.Text, Text: text[pos:m[0]]})
		}
		rawKey := text[m[2]:m[3]]
		if m[4] == -1 {
			out = append(out, inline.Span{
				Kind: inline.Link, URL: strings.TrimSpace(rawKey),
				LinkKind: inline.LinkWikiLink, IsRefURL: true,
			})
		} else {
			display := text[m[4]:m[5]]
			out = append(out, inline.Span{
				Kind: inline.Link, URL: strings.TrimSpace(rawKey),
				LinkKind: inline.LinkWikiLinkPiped, IsRefURL: true,
				Children: []inline.Span{{Kind: inline.Text, Text: display}},
			})
		}
		pos = m[1]
	}
	if pos < len(text) {
		out = append(out, inline.Span{Kind: inline.Text, Text: text[pos:]})
	}
	return out
}

// nestHeadings turns a flat block slice into a tree where each heading's
// section content lives in its Children, with Level recomputed purely from
// nesting depth (I3) — the raw "#" count from the source only decides
// *when a new, deeper level opens*, never the emitted depth.
func nestHeadings(flat []*blocktree.Block) []*blocktree.Block {
	type frame struct {
		block    *blocktree.Block
		rawLevel int
	}
	var result []*blocktree.Block
	var stack []frame

	appendTo := func(b *blocktree.Block) {
		if len(stack) == 0 {
			result = append(result, b)
			return
		}
		top := stack[len(stack)-1].block
		top.Children = append(top.Children, b)
	}

	for _, b := range flat {
		if b.Kind == blocktree.Heading {
			raw := b.Level
			for len(stack) > 0 && stack[len(stack)-1].rawLevel >= raw {
				stack = stack[:len(stack)-1]
			}
			b.Level = len(stack) + 1
			appendTo(b)
			stack = append(stack, frame{block: b, rawLevel: raw})
			continue
		}
		appendTo(b)
	}
	return result
}

var hashtagRe = regexp.MustCompile(`(?:^|\s)#([A-Za-z][\w/-]*)`)

// collectHashtags scans the document body for "#tag" tokens, skipping
// lines that are themselves ATX headings so "# Title" is never mistaken
// for a hashtag.
func collectHashtags(body string) []string {
	var tags []string
	seen := map[string]bool{}
	inFence := false
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence || strings.HasPrefix(trimmed, "#") {
			continue
		}
		for _, m := range hashtagRe.FindAllStringSubmatch(line, -1) {
			tag := m[1]
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

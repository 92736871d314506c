package project

import (
	"fmt"
	"strings"

	"github.com/iwe-org/iwe-sub001/internal/blocktree"
	"github.com/iwe-org/iwe-sub001/internal/inline"
)

// Write serializes a blocktree.Document to normalized Markdown following
// the fixed rules of spec §4.5: one blank line between paragraphs,
// "1.  "/"- " list markers, fence-preserving code blocks with inner
// leading/trailing blank lines stripped, "> "-prefixed quotes, pipe tables
// sized to the widest cell, and "---" horizontal rules. write(read(text))
// is idempotent on its second application.
func Write(doc *blocktree.Document, opts Options) string {
	chunks := flatten(doc.Blocks, opts)
	body := strings.Join(chunks, "\n\n")
	if body != "" {
		body += "\n"
	}
	return insertFrontMatter(doc.FrontMatter, body)
}

// insertFrontMatter prepends fm (without fences) to content, re-adding the
// "---" fences the reader's stripFrontMatter removed (spec §4.4): a no-op
// when fm is empty, so a document without frontmatter round trips plain.
func insertFrontMatter(fm string, content string) string {
	if strings.TrimSpace(fm) == "" {
		return content
	}
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString(fm)
	if !strings.HasSuffix(fm, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("---\n\n")
	b.WriteString(content)
	return b.String()
}

func flatten(blocks []*blocktree.Block, opts Options) []string {
	var out []string
	for _, b := range blocks {
		if b.Kind == blocktree.Heading {
			out = append(out, headingLine(b))
			out = append(out, flatten(b.Children, opts)...)
			continue
		}
		out = append(out, renderBlock(b, opts))
	}
	return out
}

func headingLine(b *blocktree.Block) string {
	level := b.Level
	if level < 1 {
		level = 1
	}
	return strings.Repeat("#", level) + " " + inline.Render(b.Line)
}

func renderBlock(b *blocktree.Block, opts Options) string {
	switch b.Kind {
	case blocktree.Paragraph:
		return inline.Render(b.Line)

	case blocktree.Raw:
		content := strings.Trim(b.Content, "\n")
		return "```" + b.Lang + "\n" + content + "\n```"

	case blocktree.BulletList, blocktree.OrderedList:
		return renderList(b, opts)

	case blocktree.Quote:
		return renderQuote(b, opts)

	case blocktree.HorizontalRule:
		return "---"

	case blocktree.Reference:
		return inline.Render(RefLine(b.RefKey, b.RefText, b.RefKind, opts))

	case blocktree.Table:
		return renderTable(b)

	default:
		return ""
	}
}

func renderList(b *blocktree.Block, opts Options) string {
	var lines []string
	for i, item := range b.Children {
		marker := "- "
		if b.Ordered {
			marker = fmt.Sprintf("%d.  ", i+1)
		}
		itemText := inline.Render(item.Line)
		lines = append(lines, marker+itemText)

		if len(item.Children) > 0 {
			nested := flatten(item.Children, opts)
			body := strings.Join(nested, "\n\n")
			indent := strings.Repeat(" ", len(marker))
			for _, l := range strings.Split(body, "\n") {
				if l == "" {
					lines = append(lines, "")
					continue
				}
				lines = append(lines, indent+l)
			}
		}
	}
	return strings.Join(lines, "\n")
}

func renderQuote(b *blocktree.Block, opts Options) string {
	body := strings.Join(flatten(b.Children, opts), "\n\n")
	var lines []string
	for _, l := range strings.Split(body, "\n") {
		if l == "" {
			lines = append(lines, ">")
			continue
		}
		lines = append(lines, "> "+l)
	}
	return strings.Join(lines, "\n")
}

func renderTable(b *blocktree.Block) string {
	cols := len(b.TableHeader)
	widths := make([]int, cols)
	cellText := func(l inline.Line) string { return inline.Render(l) }

	for i, c := range b.TableHeader {
		if w := len(cellText(c)); w > widths[i] {
			widths[i] = w
		}
	}
	for _, row := range b.TableRows {
		for i, c := range row {
			if i >= cols {
				continue
			}
			if w := len(cellText(c)); w > widths[i] {
				widths[i] = w
			}
		}
	}

	pad := func(s string, w int) string {
		if len(s) >= w {
			return s
		}
		return s + strings.Repeat(" ", w-len(s))
	}

	renderRow := func(cells []inline.Line) string {
		parts := make([]string, cols)
		for i := 0; i < cols; i++ {
			text := ""
			if i < len(cells) {
				text = cellText(cells[i])
			}
			parts[i] = pad(text, widths[i])
		}
		return "| " + strings.Join(parts, " | ") + " |"
	}

	var lines []string
	lines = append(lines, renderRow(b.TableHeader))

	sep := make([]string, cols)
	for i, w := range widths {
		if w < 3 {
			w = 3
		}
		dashes := strings.Repeat("-", w)
		switch alignOf(b, i) {
		case alignLeft:
			sep[i] = ":" + dashes[1:]
		case alignCenter:
			sep[i] = ":" + dashes[2:] + ":"
		case alignRight:
			sep[i] = dashes[1:] + ":"
		default:
			sep[i] = dashes
		}
	}
	lines = append(lines, "| "+strings.Join(sep, " | ")+" |")

	for _, row := range b.TableRows {
		lines = append(lines, renderRow(row))
	}
	return strings.Join(lines, "\n")
}

type align int

const (
	alignNone align = iota
	alignLeft
	alignCenter
	alignRight
)

func alignOf(b *blocktree.Block, i int) align {
	if i >= len(b.TableAlign) {
		return alignNone
	}
	return align(b.TableAlign[i])
}

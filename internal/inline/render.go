package inline

import "strings"

// Render serializes a Line back to normalized inline Markdown text. It is
// the inline half of the C5 writer: block-level layout (blank lines,
// indentation, fences) is the writer's job, this is just spans-to-text.
func Render(l Line) string {
	var b strings.Builder
	for _, s := range l.Spans {
		renderSpan(&b, s)
	}
	return b.String()
}

func renderSpan(b *strings.Builder, s Span) {
	switch s.Kind {
	case Text:
		b.WriteString(s.Text)
	case SoftBreak:
		b.WriteString(" ")
	case LineBreak:
		b.WriteString("  \n")
	case Code:
		delim := codeDelimiter(s.Text)
		b.WriteString(delim)
		b.WriteString(s.Text)
		b.WriteString(delim)
	case Math:
		b.WriteString("$")
		b.WriteString(s.Text)
		b.WriteString("$")
	case RawInline:
		b.WriteString(s.Text)
	case Emph:
		b.WriteString("_")
		renderChildren(b, s.Children)
		b.WriteString("_")
	case Strong:
		b.WriteString("**")
		renderChildren(b, s.Children)
		b.WriteString("**")
	case Strikethrough:
		b.WriteString("~~")
		renderChildren(b, s.Children)
		b.WriteString("~~")
	case Image:
		b.WriteString("![")
		b.WriteString(s.Title)
		b.WriteString("](")
		b.WriteString(s.URL)
		b.WriteString(")")
	case Link:
		renderLink(b, s)
	}
}

func renderChildren(b *strings.Builder, children []Span) {
	for _, c := range children {
		renderSpan(b, c)
	}
}

func renderLink(b *strings.Builder, s Span) {
	switch s.LinkKind {
	case LinkWikiLink:
		b.WriteString("[[")
		b.WriteString(s.URL)
		b.WriteString("]]")
	case LinkWikiLinkPiped:
		b.WriteString("[[")
		b.WriteString(s.URL)
		b.WriteString("|")
		var text strings.Builder
		renderChildren(&text, s.Children)
		b.WriteString(text.String())
		b.WriteString("]]")
	default:
		b.WriteString("[")
		renderChildren(b, s.Children)
		b.WriteString("](")
		b.WriteString(s.URL)
		if s.Title != "" {
			b.WriteString(` "`)
			b.WriteString(s.Title)
			b.WriteString(`"`)
		}
		b.WriteString(")")
	}
}

// codeDelimiter picks a backtick run long enough to safely enclose text
// without being terminated early by an identical run inside it.
func codeDelimiter(text string) string {
	n := 1
	for strings.Contains(text, strings.Repeat("`", n)) {
		n++
	}
	return strings.Repeat("`", n)
}

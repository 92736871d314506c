package mdparse

import (
	"bytes"
	"errors"
	"io"
	"strings"
)

// ErrFrontMatterNotClosed signals a document whose frontmatter block opens
// with "---" but is never closed.
var ErrFrontMatterNotClosed = errors.New("frontmatter not closed with a trailing ---")

// stripFrontMatter splits source into its frontmatter block (without the
// "---" fences) and the remaining body. Adapted from the teacher's
// markdown.StripFrontMatter: frontmatter is kept byte-for-byte so it round
// trips verbatim (spec §4.4), never reparsed as YAML by the writer.
func stripFrontMatter(b []byte) (fm []byte, body []byte, err error) {
	var started bool
	var yamlBeg, yamlEnd, contentStart int

	buf := bytes.NewBuffer(b)
	for {
		line, rerr := buf.ReadString('\n')
		if errors.Is(rerr, io.EOF) {
			if started && yamlEnd == 0 {
				if l := strings.TrimSpace(line); l == "---" {
					yamlEnd = len(b) - buf.Len() - len(line)
					contentStart = len(b)
				}
			}
			break
		}
		if rerr != nil {
			return nil, nil, rerr
		}
		if l := strings.TrimSpace(line); l != "---" {
			if !started && len(l) > 0 {
				return nil, b, nil
			}
			continue
		}
		if !started {
			started = true
			yamlBeg = len(b) - buf.Len()
		} else {
			yamlEnd = len(b) - buf.Len() - len(line)
			contentStart = yamlEnd + len(line)
			break
		}
	}

	if started && yamlEnd == 0 {
		return nil, nil, ErrFrontMatterNotClosed
	}
	if !started {
		return nil, b, nil
	}
	return b[yamlBeg:yamlEnd], bytes.TrimLeft(b[contentStart:], "\n"), nil
}

// insertFrontMatter prepends fm (without fences) to content, re-adding the
// "---" fences. A no-op when fm is empty.
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

package domain

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var (
	wordParser = goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser()
	htmlTag    = regexp.MustCompile(`<[^>]*>`)
)

// StripFrontmatter removes a leading block delimited by --- lines and normalizes line endings
func StripFrontmatter(src string) string {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	if !strings.HasPrefix(src, "---\n") {
		return src
	}
	rest := src[len("---\n"):]
	for offset := 0; offset < len(rest); {
		end := strings.IndexByte(rest[offset:], '\n')
		line := rest[offset:]
		if end >= 0 {
			line = rest[offset : offset+end]
		}
		if trimmed := strings.TrimRight(line, " \t"); trimmed == "---" || trimmed == "..." {
			if end < 0 {
				return ""
			}
			return rest[offset+end+1:]
		}
		if end < 0 {
			break
		}
		offset += end + 1
	}
	return src
}

// PlainText reduces markdown to the words a reader sees: frontmatter, markup,
// fenced and inline code are dropped, link and image text is kept.
// Indented blocks count as prose. HTML blocks keep their text without the
// tags, except comments and script, style or pre blocks.
func PlainText(src string) string {
	body := []byte(StripFrontmatter(src))
	doc := wordParser.Parse(text.NewReader(body))

	var b strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeSpan, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock:
			writeLines(&b, node.Lines(), body, false)
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock:
			if node.HTMLBlockType != ast.HTMLBlockType1 && node.HTMLBlockType != ast.HTMLBlockType2 {
				writeLines(&b, node.Lines(), body, true)
				if node.HasClosure() {
					b.WriteString(htmlTag.ReplaceAllString(string(node.ClosureLine.Value(body)), " "))
				}
			}
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			b.Write(node.Segment.Value(body))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(node.Value)
		case *ast.AutoLink:
			b.WriteByte(' ')
			b.Write(node.Label(body))
			b.WriteByte(' ')
		default:
			if n.Type() == ast.TypeBlock {
				b.WriteByte('\n')
			}
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

func writeLines(b *strings.Builder, lines *text.Segments, body []byte, stripTags bool) {
	b.WriteByte('\n')
	for i := 0; i < lines.Len(); i++ {
		line := string(lines.At(i).Value(body))
		if stripTags {
			line = htmlTag.ReplaceAllString(line, " ")
		}
		b.WriteString(line)
		b.WriteByte(' ')
	}
}

// CountWords counts whitespace separated tokens of the plain text of a markdown document
func CountWords(src string) int {
	if strings.TrimSpace(src) == "" {
		return 0
	}
	return len(strings.Fields(PlainText(src)))
}

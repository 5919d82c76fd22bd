package golang

import (
	"bytes"

	"github.com/humblelang/humble/humblegen/ir"
	"github.com/humblelang/humble/humblegen/markdown"
)

// writeDoc renders a markdown doc block as a Go doc comment immediately
// above the symbol it documents. Paragraph breaks, bullet lists, and code
// blocks survive: lists use the gofmt list form and code blocks become
// indented verbatim lines. A nil doc writes nothing.
func writeDoc(buf *bytes.Buffer, doc *ir.Doc, indent string) {
	if doc == nil {
		return
	}
	blocks := markdown.Parse(doc.Text)
	for i, block := range blocks {
		if i > 0 {
			buf.WriteString(indent)
			buf.WriteString("//\n")
		}
		switch block.Kind {
		case markdown.Paragraph:
			for _, line := range block.Lines {
				buf.WriteString(indent)
				buf.WriteString("// ")
				buf.WriteString(line)
				buf.WriteByte('\n')
			}
		case markdown.List:
			for _, item := range block.Lines {
				buf.WriteString(indent)
				buf.WriteString("//   - ")
				buf.WriteString(item)
				buf.WriteByte('\n')
			}
		case markdown.CodeBlock:
			for _, line := range block.Lines {
				buf.WriteString(indent)
				buf.WriteString("//\t")
				buf.WriteString(line)
				buf.WriteByte('\n')
			}
		}
	}
}

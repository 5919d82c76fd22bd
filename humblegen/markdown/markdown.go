// Package markdown parses doc-comment bodies into block structure. Only
// block-level structure is recognized: paragraphs, bullet lists, and fenced
// code blocks. Inline markup passes through untouched so backends can
// render blocks into target-language doc comments without flattening them
// to prose.
package markdown

import "strings"

// BlockKind identifies a block type.
type BlockKind int

const (
	// Paragraph is a run of ordinary text lines.
	Paragraph BlockKind = iota
	// List is a run of bullet items ("- item" or "* item").
	List
	// CodeBlock is a fenced block; Lines hold the body verbatim, without
	// the fences.
	CodeBlock
)

// Block is one markdown block.
type Block struct {
	Kind BlockKind

	// Lines are paragraph lines, list item texts (markers stripped), or
	// verbatim code lines depending on Kind.
	Lines []string

	// Info is the fence info string of a code block ("go" in ```go).
	Info string
}

// Parse splits a doc-comment body into blocks. Blank lines separate
// blocks; the result never contains empty blocks. An empty or
// whitespace-only body parses to nil.
func Parse(text string) []Block {
	lines := strings.Split(text, "\n")
	var blocks []Block

	var cur *Block
	flush := func() {
		if cur != nil && len(cur.Lines) > 0 {
			blocks = append(blocks, *cur)
		}
		cur = nil
	}

	inCode := false
	for _, line := range lines {
		if inCode {
			if isFence(line) {
				inCode = false
				blocks = append(blocks, *cur)
				cur = nil
				continue
			}
			cur.Lines = append(cur.Lines, line)
			continue
		}

		trimmed := strings.TrimSpace(line)
		switch {
		case isFence(trimmed):
			flush()
			inCode = true
			cur = &Block{Kind: CodeBlock, Info: strings.TrimSpace(trimmed[3:])}
		case trimmed == "":
			flush()
		case isBullet(trimmed):
			if cur == nil || cur.Kind != List {
				flush()
				cur = &Block{Kind: List}
			}
			cur.Lines = append(cur.Lines, strings.TrimSpace(trimmed[2:]))
		default:
			if cur == nil || cur.Kind != Paragraph {
				flush()
				cur = &Block{Kind: Paragraph}
			}
			cur.Lines = append(cur.Lines, trimmed)
		}
	}
	if inCode {
		// Unterminated fence: keep what was collected.
		blocks = append(blocks, *cur)
		cur = nil
	}
	flush()
	return blocks
}

func isFence(line string) bool {
	return strings.HasPrefix(line, "```")
}

func isBullet(line string) bool {
	return strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ")
}

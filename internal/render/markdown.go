// Package render produces the exported forms of a report: a print-ready
// HTML page, a Word document for audits, and PDF through a headless browser.
package render

import (
	"strings"
)

// BlockKind classifies a parsed line.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockHeading
	BlockBullet
	BlockTable
)

// Block is one unit of output. Level is set for headings (1..3); Rows for
// tables, the first row being the header.
type Block struct {
	Kind  BlockKind
	Level int
	Text  string
	Rows  [][]string
}

// ParseMarkdownLines reads Markdown line by line, recognising only headings
// (#, ##, ###), bullets (*, -, +) and plain paragraphs. Translated text is no
// longer machine-addressable, so nothing else is attempted. Blank lines are
// dropped and bold markers are removed.
func ParseMarkdownLines(text string) []Block {
	var out []Block
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if level, rest, ok := heading(line); ok {
			out = append(out, Block{Kind: BlockHeading, Level: level, Text: clean(rest)})
			continue
		}
		if rest, ok := bullet(line); ok {
			out = append(out, Block{Kind: BlockBullet, Text: clean(rest)})
			continue
		}
		out = append(out, Block{Kind: BlockParagraph, Text: clean(line)})
	}
	return out
}

func heading(line string) (int, string, bool) {
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	if n == 0 || n > 6 || n == len(line) || line[n] != ' ' {
		return 0, "", false
	}
	rest := line[n:]
	if n > 3 {
		n = 3
	}
	return n, rest, true
}

func bullet(line string) (string, bool) {
	if len(line) < 2 {
		return "", false
	}
	switch line[0] {
	case '*', '-', '+':
		if line[1] == ' ' {
			return line[2:], true
		}
	}
	return "", false
}

func clean(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "**", ""))
}

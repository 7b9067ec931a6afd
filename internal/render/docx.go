package render

import (
	"bytes"
	"fmt"
	"io"

	"github.com/gomutex/godocx"
)

// Paragraph styles of the godocx default template.
const (
	styleListBullet = "List Bullet"
	styleTable      = "LightList-Accent4"
)

// Document collects headings, paragraphs, bullets and tables and writes them
// as a Word document.
type Document struct {
	blocks []Block
}

func NewDocument() *Document { return &Document{} }

func (d *Document) Heading(text string, level int) {
	if level < 1 {
		level = 1
	}
	if level > 3 {
		level = 3
	}
	d.blocks = append(d.blocks, Block{Kind: BlockHeading, Level: level, Text: text})
}

func (d *Document) Paragraph(text string) {
	d.blocks = append(d.blocks, Block{Kind: BlockParagraph, Text: text})
}

func (d *Document) Bullet(text string) {
	d.blocks = append(d.blocks, Block{Kind: BlockBullet, Text: text})
}

// Table adds a table; rows[0] is rendered bold as the header.
func (d *Document) Table(rows [][]string) {
	cp := make([][]string, len(rows))
	for i, r := range rows {
		cp[i] = append([]string(nil), r...)
	}
	d.blocks = append(d.blocks, Block{Kind: BlockTable, Rows: cp})
}

// Append adds parsed Markdown blocks, shifting heading levels by offset.
func (d *Document) Append(blocks []Block, headingOffset int) {
	for _, b := range blocks {
		switch b.Kind {
		case BlockHeading:
			d.Heading(b.Text, b.Level+headingOffset)
		case BlockBullet:
			d.Bullet(b.Text)
		case BlockTable:
			d.Table(b.Rows)
		default:
			d.Paragraph(b.Text)
		}
	}
}

// Blocks returns the document content in order.
func (d *Document) Blocks() []Block { return append([]Block(nil), d.blocks...) }

// Bytes returns the .docx archive.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo writes the .docx archive to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	doc, err := godocx.NewDocument()
	if err != nil {
		return 0, fmt.Errorf("new docx: %w", err)
	}
	for _, blk := range d.blocks {
		switch blk.Kind {
		case BlockHeading:
			if _, err := doc.AddHeading(blk.Text, uint(blk.Level)); err != nil {
				return 0, fmt.Errorf("docx heading: %w", err)
			}
		case BlockBullet:
			doc.AddParagraph(blk.Text).Style(styleListBullet)
		case BlockTable:
			table := doc.AddTable()
			table.Style(styleTable)
			for i, cells := range blk.Rows {
				row := table.AddRow()
				for _, text := range cells {
					if i == 0 {
						row.AddCell().AddParagraph("").AddText(text).Bold(true)
						continue
					}
					row.AddCell().AddParagraph(text)
				}
			}
		default:
			doc.AddParagraph(blk.Text)
		}
	}

	cw := &countingWriter{w: w}
	if err := doc.Write(cw); err != nil {
		return cw.n, fmt.Errorf("write docx: %w", err)
	}
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

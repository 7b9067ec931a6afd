package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// LedongthucPDF extracts text with github.com/ledongthuc/pdf.
type LedongthucPDF struct {
	// MaxBytes bounds the extracted text; zero means 8 MiB.
	MaxBytes int64
}

func (p LedongthucPDF) ExtractText(data []byte) (text string, err error) {
	// The parser panics on some malformed object streams.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("malformed PDF: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	limit := p.MaxBytes
	if limit <= 0 {
		limit = 8 << 20
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(plain, limit)); err != nil {
		return "", err
	}
	text = strings.TrimSpace(buf.String())
	if text == "" {
		return "", errors.New("no extractable text (scanned PDF?)")
	}
	return text, nil
}

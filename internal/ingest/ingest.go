// Package ingest turns uploaded report files into text for an audit.
package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	// ErrPDFUnsupported is returned for PDF uploads when no extractor is configured.
	ErrPDFUnsupported = errors.New("ingest: PDF text extraction is not available")
	// ErrUnsupportedType is returned for extensions other than .txt and .pdf.
	ErrUnsupportedType = errors.New("ingest: unsupported file type")
)

// DecodeError reports an upload whose content could not be read as text.
type DecodeError struct {
	Name string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("ingest: cannot decode %q: %v", e.Name, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// PDFExtractor pulls plain text out of a PDF document.
type PDFExtractor interface {
	ExtractText(data []byte) (string, error)
}

// Decode returns the text of an uploaded file chosen by its extension.
// pdf may be nil, in which case PDF uploads fail with ErrPDFUnsupported.
func Decode(name string, data []byte, pdf PDFExtractor) (string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".md":
		return DecodeText(name, data)
	case ".pdf":
		if pdf == nil {
			return "", ErrPDFUnsupported
		}
		text, err := pdf.ExtractText(data)
		if err != nil {
			return "", &DecodeError{Name: name, Err: err}
		}
		return normalizeNewlines(text), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, filepath.Ext(name))
	}
}

var (
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DecodeText reads UTF-8 text, honouring a leading byte order mark. A UTF-16
// BOM switches the decoder; otherwise invalid UTF-8 is a DecodeError.
func DecodeText(name string, data []byte) (string, error) {
	utf16 := bytes.HasPrefix(data, bomUTF16LE) || bytes.HasPrefix(data, bomUTF16BE)
	if !utf16 && !utf8.Valid(data) {
		return "", &DecodeError{Name: name, Err: errors.New("content is not valid UTF-8")}
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return "", &DecodeError{Name: name, Err: err}
	}
	return normalizeNewlines(string(out)), nil
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

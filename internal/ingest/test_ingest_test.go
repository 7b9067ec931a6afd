package ingest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPDF struct {
	text string
	err  error
}

func (s stubPDF) ExtractText([]byte) (string, error) { return s.text, s.err }

func TestDecodeText(t *testing.T) {
	got, err := Decode("report.TXT", []byte("\xEF\xBB\xBF8D 报告\r\nD1: 李伟"), nil)
	require.NoError(t, err)
	assert.Equal(t, "8D 报告\nD1: 李伟", got)

	// UTF-16LE with BOM: "hi"
	got, err = Decode("r.txt", []byte{0xFF, 0xFE, 'h', 0, 'i', 0}, nil)
	require.NoError(t, err)
	assert.Equal(t, "hi", got)
}

func TestDecodeInvalidUTF8(t *testing.T) {
	_, err := Decode("r.txt", []byte{0xC3, 0x28}, nil)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "r.txt", de.Name)
}

func TestDecodePDF(t *testing.T) {
	_, err := Decode("r.pdf", []byte("%PDF"), nil)
	assert.ErrorIs(t, err, ErrPDFUnsupported)

	got, err := Decode("r.pdf", []byte("%PDF"), stubPDF{text: "a\r\nb"})
	require.NoError(t, err)
	assert.Equal(t, "a\nb", got)

	boom := errors.New("broken xref")
	_, err = Decode("r.pdf", []byte("%PDF"), stubPDF{err: boom})
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.ErrorIs(t, err, boom)
}

func TestLedongthucRejectsGarbage(t *testing.T) {
	_, err := LedongthucPDF{}.ExtractText([]byte("not a pdf"))
	assert.Error(t, err)
}

func TestDecodeUnsupported(t *testing.T) {
	_, err := Decode("r.docx", []byte("x"), nil)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

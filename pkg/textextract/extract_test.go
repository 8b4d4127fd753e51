package textextract

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"collapses runs of spaces", "a  b   c", "a b c"},
		{"collapses newlines and tabs", "a\n\tb\r\nc", "a b c"},
		{"trims leading and trailing", "  hello world \n", "hello world"},
		{"empty stays empty", "", ""},
		{"whitespace-only becomes empty", " \n\t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeWhitespace(tt.input))
		})
	}
}

func TestExtractPDFRejectsGarbage(t *testing.T) {
	data := []byte("this is not a pdf at all")
	_, err := ExtractPDF(bytes.NewReader(data), int64(len(data)))
	assert.Error(t, err)
}

func TestExtractPDFRejectsTruncated(t *testing.T) {
	data := []byte("%PDF-1.4")
	_, err := ExtractPDF(bytes.NewReader(data), int64(len(data)))
	assert.Error(t, err)
}

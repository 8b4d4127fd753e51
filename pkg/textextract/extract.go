package textextract

import (
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PlaceholderText stands in for documents whose text could not be
// pulled out, so analysis still has something to run against.
const PlaceholderText = "Document uploaded but text extraction failed. File may be image-based PDF or corrupted."

type ExtractedText struct {
	Content string
	Pages   int
}

// ExtractPDF reads the plain text of every page. Pages that fail to
// decode are skipped rather than failing the whole document.
func ExtractPDF(data io.ReaderAt, size int64) (*ExtractedText, error) {
	reader, err := pdf.NewReader(data, size)
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}

	var buf strings.Builder
	numPages := reader.NumPage()

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		buf.WriteString(text)
		buf.WriteString("\n")
	}

	content := NormalizeWhitespace(buf.String())
	if content == "" {
		return nil, fmt.Errorf("no extractable text")
	}

	return &ExtractedText{
		Content: content,
		Pages:   numPages,
	}, nil
}

// NormalizeWhitespace collapses runs of whitespace, including the
// stray newlines PDF extraction leaves mid sentence, into single
// spaces.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

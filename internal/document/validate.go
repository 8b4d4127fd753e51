package document

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
)

var pdfMagic = []byte("%PDF-")

var unsafeFilenameChars = regexp.MustCompile(`[^0-9A-Za-z._\-]`)

// ValidationError is a user-visible upload rejection, rendered as 422.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ValidateUpload checks size bounds and PDF magic bytes. The declared
// content type is ignored; only the file's own leading bytes decide.
// The size limit is inclusive: a file of exactly maxBytes passes.
func ValidateUpload(data []byte, maxBytes int64) error {
	if len(data) == 0 {
		return &ValidationError{Message: "File is empty"}
	}
	if int64(len(data)) > maxBytes {
		return &ValidationError{Message: fmt.Sprintf("File too large (maximum %dMB)", maxBytes/(1024*1024))}
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return &ValidationError{Message: "File must be a PDF"}
	}
	return nil
}

// SanitizeFilename strips any directory components and replaces every
// character outside [0-9A-Za-z._-] with an underscore, defeating path
// traversal and reserved characters like < > : " | ? *.
func SanitizeFilename(name string) string {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) || base == "" {
		return "document.pdf"
	}
	return unsafeFilenameChars.ReplaceAllString(base, "_")
}

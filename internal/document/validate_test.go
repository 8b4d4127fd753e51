package document

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMaxBytes = 50 * 1024 * 1024

func pdfBytes(size int) []byte {
	data := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("a"), size)...)
	return data[:size]
}

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr string
	}{
		{
			name: "valid small PDF",
			data: []byte("%PDF-1.4 minimal content"),
		},
		{
			name:    "empty file",
			data:    []byte{},
			wantErr: "File is empty",
		},
		{
			name:    "nil data",
			data:    nil,
			wantErr: "File is empty",
		},
		{
			name:    "not a PDF despite declared type",
			data:    []byte("<html>not a pdf</html>"),
			wantErr: "File must be a PDF",
		},
		{
			name:    "PDF magic mid-file does not count",
			data:    []byte("junk%PDF-1.4"),
			wantErr: "File must be a PDF",
		},
		{
			name: "exactly at the size limit is accepted",
			data: pdfBytes(testMaxBytes),
		},
		{
			name:    "one byte over the limit is rejected",
			data:    pdfBytes(testMaxBytes + 1),
			wantErr: "File too large (maximum 50MB)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.data, testMaxBytes)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantErr, verr.Message)
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain name untouched", "contract.pdf", "contract.pdf"},
		{"path traversal stripped", "../../etc/passwd", "passwd"},
		{"nested traversal stripped", "a/../../b/../contract.pdf", "contract.pdf"},
		{"reserved characters replaced", `bad<name>:"file"|?*.pdf`, "bad_name___file____.pdf"},
		{"spaces replaced", "my contract final.pdf", "my_contract_final.pdf"},
		{"backslashes replaced", `..\..\evil.pdf`, ".._.._evil.pdf"},
		{"empty name gets a default", "", "document.pdf"},
		{"dot name gets a default", ".", "document.pdf"},
		{"non-ascii replaced", "договор.pdf", strings.Repeat("_", 7) + ".pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeFilename(tt.input)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "/")
		})
	}
}

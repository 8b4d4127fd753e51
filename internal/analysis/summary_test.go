package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeLocal(t *testing.T) {
	t.Run("takes the first three sentences", func(t *testing.T) {
		text := "First sentence. Second sentence! Third sentence? Fourth sentence."
		got := SummarizeLocal(text, 0)
		assert.Equal(t, "First sentence. Second sentence. Third sentence", got)
	})

	t.Run("fewer than three sentences", func(t *testing.T) {
		got := SummarizeLocal("Only one sentence here.", 0)
		assert.Equal(t, "Only one sentence here", got)
	})

	t.Run("long summary is truncated with ellipsis", func(t *testing.T) {
		long := strings.Repeat("word ", 100) + "end."
		got := SummarizeLocal(long, 0)
		assert.Len(t, got, 300)
		assert.True(t, strings.HasSuffix(got, "..."))
	})

	t.Run("empty text falls back to entity count", func(t *testing.T) {
		got := SummarizeLocal("", 7)
		assert.Equal(t, "Document analyzed with 7 entities found.", got)
	})

	t.Run("punctuation-only text falls back", func(t *testing.T) {
		got := SummarizeLocal("... !!! ???", 0)
		assert.Equal(t, "Document analyzed with 0 entities found.", got)
	})
}

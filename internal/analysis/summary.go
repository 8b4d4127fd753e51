package analysis

import (
	"fmt"
	"strings"
)

const summaryMaxLen = 300

// SummarizeLocal builds the fallback summary from the first three
// sentences, hard-truncated with an ellipsis when over budget.
func SummarizeLocal(text string, entityCount int) string {
	var sentences []string
	for _, s := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		s = strings.TrimSpace(s)
		if s != "" {
			sentences = append(sentences, s)
		}
		if len(sentences) == 3 {
			break
		}
	}

	summary := strings.Join(sentences, ". ")
	if len(summary) > summaryMaxLen {
		summary = summary[:summaryMaxLen-3] + "..."
	}
	if summary == "" {
		return fmt.Sprintf("Document analyzed with %d entities found.", entityCount)
	}
	return summary
}

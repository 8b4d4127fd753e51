package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/legastream/legastream/internal/llm"
	"github.com/legastream/legastream/internal/models"
)

const (
	entityPromptChars  = 4000
	summaryPromptChars = 2000
)

// ExtractEntitiesRemote asks the configured model for entities. Any
// failure is returned to the caller, who falls back to the local
// battery rather than surfacing an error.
func ExtractEntitiesRemote(ctx context.Context, gw llm.Gateway, text string) ([]ExtractedEntity, error) {
	prompt := buildEntityPrompt(text)

	resp, err := gw.Chat(ctx, llm.ChatRequest{
		Messages: []llm.Message{
			{Role: "system", Content: "You are a legal document analyst. Respond only with the requested JSON, no commentary."},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.2,
		MaxTokens:   2000,
	})
	if err != nil {
		return nil, fmt.Errorf("entity extraction chat: %w", err)
	}

	entities, err := ParseEntityJSON(resp.Content)
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return nil, fmt.Errorf("model returned no usable entities")
	}
	return dedupeEntities(entities), nil
}

func buildEntityPrompt(text string) string {
	sample := truncate(text, entityPromptChars)
	return fmt.Sprintf(`Extract entities from this legal document. Return ONLY a JSON array with this exact format:
[{"type": "PARTY", "value": "Acme Corporation", "context": "Party to agreement", "confidence": 0.9}, ...]

Entity types: %s

Document text:
%s`, strings.Join(models.EntityTypes(), ", "), sample)
}

// GenerateSummaryRemote asks the model for a short prose summary.
func GenerateSummaryRemote(ctx context.Context, gw llm.Gateway, text string) (string, error) {
	prompt := fmt.Sprintf(`Summarize this legal document in 2-3 sentences. Focus on key points, parties, and obligations.

Document:
%s`, truncate(text, summaryPromptChars))

	resp, err := gw.Chat(ctx, llm.ChatRequest{
		Messages:    []llm.Message{{Role: "user", Content: prompt}},
		Temperature: 0.3,
		MaxTokens:   300,
	})
	if err != nil {
		return "", fmt.Errorf("summary chat: %w", err)
	}

	summary := strings.TrimSpace(resp.Content)
	if summary == "" {
		return "", fmt.Errorf("model returned empty summary")
	}
	return summary, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseEntityJSON pulls a JSON array of entities out of free-text
// model output. Models wrap answers in markdown fences or prepend
// prose, so the cleaner strips fences and takes the first bracketed
// array it can find. Objects missing a type or value are dropped.
func ParseEntityJSON(raw string) ([]ExtractedEntity, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("empty response")
	}

	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array in response")
	}

	var rawEntities []struct {
		Type       *string  `json:"type"`
		Value      *string  `json:"value"`
		Context    string   `json:"context"`
		Confidence *float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &rawEntities); err != nil {
		return nil, fmt.Errorf("parse entity array: %w", err)
	}

	entities := make([]ExtractedEntity, 0, len(rawEntities))
	for _, e := range rawEntities {
		if e.Type == nil || e.Value == nil || *e.Type == "" || *e.Value == "" {
			continue
		}
		confidence := 0.90
		if e.Confidence != nil {
			confidence = *e.Confidence
		}
		entities = append(entities, ExtractedEntity{
			Type:       strings.ToUpper(*e.Type),
			Value:      *e.Value,
			Context:    e.Context,
			Confidence: confidence,
		})
	}
	return entities, nil
}

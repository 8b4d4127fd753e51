package llm

// Per-million-token USD pricing, published vendor rates. Ollama runs
// locally and always costs zero, so it is absent here.
var modelPricing = map[string]struct {
	Input  float64
	Output float64
}{
	"gpt-4o":                     {2.50, 10.00},
	"gpt-4o-mini":                {0.15, 0.60},
	"gpt-3.5-turbo":              {0.50, 1.50},
	"claude-3-5-sonnet-20241022": {3.00, 15.00},
	"claude-3-haiku-20240307":    {0.25, 1.25},
	"gemini-1.5-flash":           {0.075, 0.30},
	"gemini-1.5-pro":             {1.25, 5.00},
}

// CalculateCost estimates the dollar cost of a completion. Unknown
// models report zero rather than guessing.
func CalculateCost(model string, inputTokens, outputTokens int) float64 {
	pricing, ok := modelPricing[model]
	if !ok {
		return 0
	}
	return pricing.Input*float64(inputTokens)/1_000_000 +
		pricing.Output*float64(outputTokens)/1_000_000
}

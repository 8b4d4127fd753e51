package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1"

type GeminiProvider struct {
	apiKey     string
	httpClient *http.Client
}

func NewGeminiProvider(apiKey string) *GeminiProvider {
	return &GeminiProvider{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (p *GeminiProvider) Name() string { return "gemini" }

func (p *GeminiProvider) Models() []string {
	return []string{"gemini-1.5-flash", "gemini-1.5-pro"}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenReq struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig *geminiGenConfig `json:"generationConfig,omitempty"`
}

type geminiGenConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiGenResp struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (p *GeminiProvider) ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	start := time.Now()

	model := req.Model
	if model == "" {
		model = "gemini-1.5-flash"
	}

	// Gemini has no separate system slot on the v1 API; roles map onto
	// user/model turns and system text is prepended to the first user turn.
	var system string
	var contents []geminiContent
	for _, m := range req.Messages {
		switch m.Role {
		case "system":
			system = m.Content
		case "assistant":
			contents = append(contents, geminiContent{Role: "model", Parts: []geminiPart{{Text: m.Content}}})
		default:
			text := m.Content
			if system != "" {
				text = system + "\n\n" + text
				system = ""
			}
			contents = append(contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: text}}})
		}
	}

	gReq := geminiGenReq{Contents: contents}
	if req.Temperature > 0 || req.MaxTokens > 0 {
		gReq.GenerationConfig = &geminiGenConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxTokens,
		}
	}

	body, _ := json.Marshal(gReq)
	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", geminiBaseURL, model, url.QueryEscape(p.apiKey))

	httpReq, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gemini request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gemini chat: %w", err)
	}
	defer resp.Body.Close()

	var gResp geminiGenResp
	if err := json.NewDecoder(resp.Body).Decode(&gResp); err != nil {
		return nil, fmt.Errorf("gemini decode: %w", err)
	}

	if gResp.Error != nil {
		return nil, fmt.Errorf("gemini API error (%d %s): %s", gResp.Error.Code, gResp.Error.Status, gResp.Error.Message)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("gemini chat failed (%d)", resp.StatusCode)
	}
	if len(gResp.Candidates) == 0 {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	candidate := gResp.Candidates[0]
	if candidate.FinishReason == "SAFETY" {
		return nil, fmt.Errorf("gemini blocked content by safety filters")
	}

	content := ""
	for _, part := range candidate.Content.Parts {
		content += part.Text
	}
	if content == "" {
		return nil, fmt.Errorf("gemini returned empty text (finish reason %s)", candidate.FinishReason)
	}

	latency := time.Since(start).Milliseconds()
	cost := CalculateCost(model, gResp.UsageMetadata.PromptTokenCount, gResp.UsageMetadata.CandidatesTokenCount)

	return &ChatResponse{
		Provider:     "gemini",
		Model:        model,
		Content:      content,
		InputTokens:  gResp.UsageMetadata.PromptTokenCount,
		OutputTokens: gResp.UsageMetadata.CandidatesTokenCount,
		TotalTokens:  gResp.UsageMetadata.TotalTokenCount,
		CostUSD:      cost,
		LatencyMs:    latency,
	}, nil
}

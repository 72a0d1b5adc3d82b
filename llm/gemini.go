package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// ============================================================================
// GEMINI CLIENT — Google Gemini generateContent
// ============================================================================
// System messages are joined into systemInstruction; the remaining turns go
// to contents with "assistant" renamed to "model".
// ============================================================================

// DefaultGeminiEndpoint is the public Gemini API base URL.
const DefaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models"

// GeminiClient implements Client using the Google Gemini API.
type GeminiClient struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewGemini creates a Gemini client.
func NewGemini(cfg Config) *GeminiClient {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultGeminiEndpoint
	}
	return &GeminiClient{
		apiKey:   cfg.APIKey,
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		client:   &http.Client{Timeout: httpTimeout(cfg)},
	}
}

type geminiRequest struct {
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature float64 `json:"temperature"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// Complete sends the messages to {endpoint}/{model}:generateContent.
func (g *GeminiClient) Complete(ctx context.Context, req Request) (string, error) {
	jsonBody, err := json.Marshal(buildGeminiRequest(req))
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s:generateContent?key=%s",
		g.endpoint, url.PathEscape(req.Model), url.QueryEscape(g.apiKey))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var geminiResp geminiResponse
	if resp.StatusCode != http.StatusOK {
		msg := truncate(string(body), 200)
		if json.Unmarshal(body, &geminiResp) == nil && geminiResp.Error != nil {
			msg = geminiResp.Error.Message
		}
		return "", &APIError{Provider: ProviderGemini, StatusCode: resp.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", fmt.Errorf("failed to parse Gemini response: %w", err)
	}
	if geminiResp.Error != nil {
		return "", &APIError{Provider: ProviderGemini, StatusCode: geminiResp.Error.Code, Message: geminiResp.Error.Message}
	}
	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}

func buildGeminiRequest(req Request) geminiRequest {
	out := geminiRequest{GenerationConfig: geminiGenerationConfig{Temperature: req.Temperature}}

	var system []string
	for _, m := range req.Messages {
		switch m.Role {
		case RoleSystem:
			system = append(system, m.Content)
		case RoleAssistant:
			out.Contents = append(out.Contents, geminiContent{Role: "model", Parts: []geminiPart{{Text: m.Content}}})
		default:
			out.Contents = append(out.Contents, geminiContent{Role: RoleUser, Parts: []geminiPart{{Text: m.Content}}})
		}
	}
	if len(system) > 0 {
		out.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: strings.Join(system, "\n\n")}}}
	}
	return out
}

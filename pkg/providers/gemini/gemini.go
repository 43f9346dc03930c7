// Package gemini provides a streaming Client implementation for the Google
// Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/germanamz/llmstream/pkg/providers/provider"
)

const (
	// DefaultBaseURL is the base URL for the Gemini API (no trailing slash).
	DefaultBaseURL = "https://generativelanguage.googleapis.com"

	// DefaultModel is the model used when none is configured.
	DefaultModel = "gemini-2.5-flash-lite-preview-06-17"
)

var _ provider.Client = (*Adapter)(nil)

// Adapter streams completions from the Gemini API.
type Adapter struct {
	provider.Provider

	// Model is the model identifier sent with every request.
	Model string
}

// New creates an Adapter with the given API key and HTTP client.
// A nil client falls back to http.DefaultClient.
func New(apiKey string, client *http.Client) *Adapter {
	a := &Adapter{Model: DefaultModel}
	a.Provider = provider.NewProvider(DefaultBaseURL, provider.Auth{
		Key:    apiKey,
		Header: "x-goog-api-key",
	}, client)

	return a
}

// Stream sends the composed prompt to the streaming generateContent endpoint
// and yields decoded text fragments as they arrive. The channel is closed
// when the vendor finishes the response or ctx is cancelled.
func (a *Adapter) Stream(ctx context.Context, prompt, content string, cfg *provider.GenerationConfig) (<-chan string, error) {
	gc := provider.DefaultGenerationConfig()
	if cfg != nil {
		gc = *cfg
	}

	userContent := provider.ComposePrompt(prompt, content)
	a.LogPrompt(ctx, userContent)

	path := fmt.Sprintf("/v1beta/models/%s:streamGenerateContent?alt=sse", a.Model)

	resp, err := a.PostSSE(ctx, path, buildRequest(userContent, gc))
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}

	out := make(chan string)

	go func() {
		defer close(out)
		defer func() { _ = resp.Body.Close() }()

		var collected strings.Builder

		scanErr := provider.ScanSSE(resp.Body, func(data []byte) bool {
			text, err := extractText(data)
			if err != nil {
				a.LogSkippedChunk(ctx, err)
				return true
			}
			if text == "" {
				return true
			}

			collected.WriteString(text)

			select {
			case <-ctx.Done():
				return false
			case out <- text:
				return true
			}
		})
		if scanErr != nil && !errors.Is(scanErr, context.Canceled) {
			a.Logger().DebugContext(ctx, "stream read error", "error", scanErr)
		}

		if collected.Len() > 0 {
			a.LogResponse(ctx, collected.String())
		}
	}()

	return out, nil
}

// Complete sends the composed prompt to the non-streaming generateContent
// endpoint and returns the full response text in one piece.
func (a *Adapter) Complete(ctx context.Context, prompt, content string, cfg *provider.GenerationConfig) (string, error) {
	gc := provider.DefaultGenerationConfig()
	if cfg != nil {
		gc = *cfg
	}

	userContent := provider.ComposePrompt(prompt, content)
	a.LogPrompt(ctx, userContent)

	path := fmt.Sprintf("/v1beta/models/%s:generateContent", a.Model)

	var resp apiResponse
	if err := a.PostJSON(ctx, path, buildRequest(userContent, gc), &resp); err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}

	text, err := resp.text()
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}

	a.LogResponse(ctx, text)

	return text, nil
}

// --- request types ---

type apiRequest struct {
	Contents         []apiContent     `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type apiContent struct {
	Role  string    `json:"role"`
	Parts []apiPart `json:"parts"`
}

type apiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float64         `json:"temperature"`
	MaxOutputTokens  int             `json:"maxOutputTokens"`
	ResponseMIMEType string          `json:"responseMimeType,omitempty"`
	ThinkingConfig   *thinkingConfig `json:"thinkingConfig,omitempty"`
}

type thinkingConfig struct {
	ThinkingBudget int `json:"thinkingBudget"`
}

// --- response types ---

type apiResponse struct {
	Candidates []apiCandidate `json:"candidates"`
}

type apiCandidate struct {
	Content apiContent `json:"content"`
}

func (r *apiResponse) text() (string, error) {
	if len(r.Candidates) == 0 {
		return "", errors.New("empty candidates in response")
	}
	if len(r.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty parts in first candidate")
	}

	return r.Candidates[0].Content.Parts[0].Text, nil
}

func buildRequest(userContent string, gc provider.GenerationConfig) apiRequest {
	return apiRequest{
		Contents: []apiContent{
			{Role: "user", Parts: []apiPart{{Text: userContent}}},
		},
		GenerationConfig: generationConfig{
			Temperature:      gc.Temperature,
			MaxOutputTokens:  gc.MaxOutputTokens,
			ResponseMIMEType: gc.ResponseMIMEType,
			ThinkingConfig:   &thinkingConfig{ThinkingBudget: gc.ThinkingBudget},
		},
	}
}

// extractText decodes one SSE payload and pulls out
// candidates[0].content.parts[0].text.
func extractText(data []byte) (string, error) {
	var resp apiResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", err
	}

	return resp.text()
}

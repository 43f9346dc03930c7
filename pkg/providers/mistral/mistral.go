// Package mistral provides a streaming Client implementation for the Mistral
// AI chat completions API.
package mistral

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/germanamz/llmstream/pkg/providers/provider"
)

// DefaultBaseURL is the base URL for the Mistral API.
const DefaultBaseURL = "https://api.mistral.ai/v1"

// Model is the fixed model identifier. The adapter does not expose model
// selection.
const Model = "mistral-medium-latest"

var _ provider.Client = (*Adapter)(nil)

// doneSentinel terminates an OpenAI-style SSE stream.
var doneSentinel = []byte("[DONE]")

// Adapter streams completions from the Mistral chat completions API.
type Adapter struct {
	provider.Provider
}

// New creates an Adapter with the given API key and HTTP client.
// A nil client falls back to http.DefaultClient.
func New(apiKey string, client *http.Client) *Adapter {
	return &Adapter{
		Provider: provider.NewProvider(DefaultBaseURL, provider.Auth{Key: apiKey}, client),
	}
}

// Stream sends the composed prompt to the chat completions endpoint with
// streaming enabled and yields delta fragments as they arrive. Each fragment
// is yielded exactly once; the channel is closed on the [DONE] sentinel, end
// of stream, or ctx cancellation.
func (a *Adapter) Stream(ctx context.Context, prompt, content string, cfg *provider.GenerationConfig) (<-chan string, error) {
	gc := provider.DefaultGenerationConfig()
	if cfg != nil {
		gc = *cfg
	}

	userContent := provider.ComposePrompt(prompt, content)
	a.LogPrompt(ctx, userContent)

	resp, err := a.PostSSE(ctx, "/chat/completions", buildRequest(userContent, gc, true))
	if err != nil {
		return nil, fmt.Errorf("mistral: %w", err)
	}

	out := make(chan string)

	go func() {
		defer close(out)
		defer func() { _ = resp.Body.Close() }()

		var collected strings.Builder

		scanErr := provider.ScanSSE(resp.Body, func(data []byte) bool {
			if bytes.Equal(data, doneSentinel) {
				return false
			}

			text, err := extractDelta(data)
			if err != nil {
				a.LogSkippedChunk(ctx, err)
				return true
			}
			if text == "" {
				// Role announcements and finish chunks carry no text.
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

// Complete sends the composed prompt to the chat completions endpoint without
// streaming and returns the full response text in one piece.
func (a *Adapter) Complete(ctx context.Context, prompt, content string, cfg *provider.GenerationConfig) (string, error) {
	gc := provider.DefaultGenerationConfig()
	if cfg != nil {
		gc = *cfg
	}

	userContent := provider.ComposePrompt(prompt, content)
	a.LogPrompt(ctx, userContent)

	var resp chatResponse
	if err := a.PostJSON(ctx, "/chat/completions", buildRequest(userContent, gc, false), &resp); err != nil {
		return "", fmt.Errorf("mistral: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("mistral: empty response")
	}

	text := resp.Choices[0].Message.Content
	a.LogResponse(ctx, text)

	return text, nil
}

// --- request/response types ---

type chatRequest struct {
	Model       string       `json:"model"`
	Messages    []apiMessage `json:"messages"`
	Stream      bool         `json:"stream,omitempty"`
	Temperature float64      `json:"temperature,omitempty"`
	MaxTokens   int          `json:"max_tokens,omitempty"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message apiMessage `json:"message"`
	} `json:"choices"`
}

type streamChunk struct {
	Choices []struct {
		Delta struct {
			// Content is a pointer: a null or absent delta means "no text
			// this tick", not an error.
			Content *string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

func buildRequest(userContent string, gc provider.GenerationConfig, stream bool) chatRequest {
	return chatRequest{
		Model:       Model,
		Messages:    []apiMessage{{Role: "user", Content: userContent}},
		Stream:      stream,
		Temperature: gc.Temperature,
		MaxTokens:   gc.MaxOutputTokens,
	}
}

// extractDelta decodes one SSE payload and pulls out
// choices[0].delta.content. A null content yields the empty string.
func extractDelta(data []byte) (string, error) {
	var chunk streamChunk
	if err := json.Unmarshal(data, &chunk); err != nil {
		return "", err
	}

	if len(chunk.Choices) == 0 {
		return "", errors.New("empty choices in chunk")
	}

	if c := chunk.Choices[0].Delta.Content; c != nil {
		return *c, nil
	}

	return "", nil
}

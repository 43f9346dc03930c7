package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// ErrNotImplemented is returned by the Provider stub when Stream is invoked
// without a concrete vendor adapter.
var ErrNotImplemented = errors.New("provider: Stream not implemented")

// Client streams a model completion for a composed prompt+content pair.
//
// The returned channel is a single-pass, forward-only sequence of text
// fragments. It is closed when the backend signals completion and is not
// restartable. Consuming it fully is equivalent to receiving one complete
// response split into pieces.
//
// Failures to open the stream (request build, transport, non-2xx status) are
// returned synchronously. Once the channel has been handed out, malformed
// chunks are skipped with a debug diagnostic rather than terminating the
// stream. Cancelling ctx releases the underlying connection even if the
// caller abandons the channel before exhaustion.
type Client interface {
	Stream(ctx context.Context, prompt, content string, cfg *GenerationConfig) (<-chan string, error)
}

// GenerationConfig holds the sampling and length options sent with a
// completion request. Not every option applies to every vendor.
type GenerationConfig struct {
	Temperature      float64 // Sampling randomness.
	MaxOutputTokens  int     // Cap on generated length.
	ResponseMIMEType string  // Response format (Gemini only).
	ThinkingBudget   int     // Extended reasoning budget (Gemini only, 0 disables).
}

// DefaultGenerationConfig returns the configuration adapters substitute when
// the caller passes nil.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Temperature:      0.2,
		MaxOutputTokens:  8192,
		ResponseMIMEType: "text/plain",
		ThinkingBudget:   0,
	}
}

// ComposePrompt joins a prompt with optional supporting content. Non-empty
// content is separated from the prompt by a blank line; empty content leaves
// the prompt untouched.
func ComposePrompt(prompt, content string) string {
	if content == "" {
		return prompt
	}
	return prompt + "\n\n" + content
}

// Auth holds authentication settings for an LLM provider API.
type Auth struct {
	Key    string // API key value.
	Header string // Header name (default: "Authorization").
	Scheme string // Scheme prefix (default: "Bearer" when Header is "Authorization").
}

// Provider holds shared state for LLM provider implementations. Embed it in
// concrete vendor structs to get HTTP helpers, auth, custom headers, and
// interaction logging. Concrete types should define their own Stream method
// to shadow the default stub.
type Provider struct {
	Auth    Auth              // Authentication settings.
	BaseURL string            // API base URL (no trailing slash).
	Client  *http.Client      // HTTP client; falls back to http.DefaultClient.
	Headers map[string]string // Extra headers applied to every request.
	Log     *slog.Logger      // Interaction logger; nil disables all output.
}

// NewProvider creates a Provider with the given settings.
// A nil client falls back to http.DefaultClient at call time.
func NewProvider(baseURL string, auth Auth, client *http.Client) Provider {
	return Provider{
		Auth:    auth,
		BaseURL: baseURL,
		Client:  client,
	}
}

// Stream is a stub that returns ErrNotImplemented. Concrete providers that
// embed Provider should define their own Stream method to shadow this one.
func (p *Provider) Stream(_ context.Context, _, _ string, _ *GenerationConfig) (<-chan string, error) {
	return nil, ErrNotImplemented
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// Logger returns the configured interaction logger, or a discarding logger
// when none is set. Logging is opt-in; the nil default produces no output.
func (p *Provider) Logger() *slog.Logger {
	if p.Log != nil {
		return p.Log
	}
	return discard
}

// LogPrompt records the full composed content sent to the vendor.
func (p *Provider) LogPrompt(ctx context.Context, text string) {
	p.Logger().InfoContext(ctx, "LLM Prompt", "text", text)
}

// LogResponse records the full concatenated response at end of stream.
func (p *Provider) LogResponse(ctx context.Context, text string) {
	p.Logger().InfoContext(ctx, "LLM Response", "text", text)
}

// LogSkippedChunk records a chunk that could not be decoded, so
// malformed-chunk rates are observable when debugging.
func (p *Provider) LogSkippedChunk(ctx context.Context, err error) {
	p.Logger().DebugContext(ctx, "skipping malformed chunk", "error", err)
}

// httpClient returns the configured client or http.DefaultClient.
func (p *Provider) httpClient() *http.Client {
	if p.Client != nil {
		return p.Client
	}

	return http.DefaultClient
}

// NewRequest builds an *http.Request with the base URL, auth, and custom
// headers already applied.
func (p *Provider) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	url := p.BaseURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}

	// Apply auth.
	if p.Auth.Key != "" {
		header := p.Auth.Header
		if header == "" {
			header = "Authorization"
		}

		value := p.Auth.Key
		if header == "Authorization" {
			scheme := p.Auth.Scheme
			if scheme == "" {
				scheme = "Bearer"
			}

			value = scheme + " " + value
		} else if p.Auth.Scheme != "" {
			value = p.Auth.Scheme + " " + value
		}

		req.Header.Set(header, value)
	}

	// Apply custom headers.
	for k, v := range p.Headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

// Do sends the request using the configured HTTP client.
func (p *Provider) Do(req *http.Request) (*http.Response, error) {
	return p.httpClient().Do(req) //nolint:gosec // URL is built from trusted BaseURL config, not user input.
}

// PostJSON marshals payload as JSON, sends a POST to the given path,
// checks for a 2xx status, and unmarshals the response body into dest.
// If dest is nil the response body is discarded after the status check.
func (p *Provider) PostJSON(ctx context.Context, path string, payload any, dest any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := p.NewRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	if dest == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// PostSSE marshals payload as JSON, sends a POST to the given path, and
// checks for a 2xx status. On success the response is returned with its body
// still open, positioned at the start of the server-sent event stream; the
// caller owns closing it. On failure the body is consumed into the error.
func (p *Provider) PostSSE(ctx context.Context, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := p.NewRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := p.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	return resp, nil
}

// Package providers defines the interface and types for streaming LLM
// completion providers.
//
// It is organized into sub-packages:
//   - [github.com/germanamz/llmstream/pkg/providers/provider] — Client interface, embeddable Provider base struct with HTTP helpers, auth, SSE scanning, and interaction logging
//   - [github.com/germanamz/llmstream/pkg/providers/gemini] — Google Gemini adapter (primary)
//   - [github.com/germanamz/llmstream/pkg/providers/mistral] — Mistral AI adapter (secondary)
//
// This package contains no provider-specific code — concrete adapters live in
// separate packages that import providers.
package providers

// Package llm selects a ready-to-use streaming client from environment
// credentials and provides helpers for consuming a stream.
package llm

import (
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/germanamz/llmstream/pkg/providers/gemini"
	"github.com/germanamz/llmstream/pkg/providers/mistral"
	"github.com/germanamz/llmstream/pkg/providers/provider"
)

// Environment variables holding vendor credentials.
const (
	EnvGeminiAPIKey  = "GEMINI_API_KEY"
	EnvMistralAPIKey = "MISTRAL_API_KEY"
)

// FromEnv returns a client for whichever vendor has a credential configured,
// preferring Gemini over Mistral. The flag is false when neither credential
// is set; callers are expected to degrade gracefully rather than treat an
// unconfigured environment as an error.
//
// A nil httpClient falls back to http.DefaultClient; a nil log disables
// interaction logging.
func FromEnv(httpClient *http.Client, log *slog.Logger) (provider.Client, bool) {
	if key := os.Getenv(EnvGeminiAPIKey); key != "" {
		a := gemini.New(key, httpClient)
		a.Log = log
		return a, true
	}

	if key := os.Getenv(EnvMistralAPIKey); key != "" {
		a := mistral.New(key, httpClient)
		a.Log = log
		return a, true
	}

	return nil, false
}

// Collect drains a fragment stream and returns the complete response text.
// It blocks until the channel is closed.
func Collect(stream <-chan string) string {
	var b strings.Builder
	for fragment := range stream {
		b.WriteString(fragment)
	}

	return b.String()
}

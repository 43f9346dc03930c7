package llm_test

import (
	"testing"

	"github.com/germanamz/llmstream/pkg/llm"
	"github.com/germanamz/llmstream/pkg/providers/gemini"
	"github.com/germanamz/llmstream/pkg/providers/mistral"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_NoCredentials(t *testing.T) {
	t.Setenv(llm.EnvGeminiAPIKey, "")
	t.Setenv(llm.EnvMistralAPIKey, "")

	client, ok := llm.FromEnv(nil, nil)
	assert.False(t, ok)
	assert.Nil(t, client)
}

func TestFromEnv_MistralOnly(t *testing.T) {
	t.Setenv(llm.EnvGeminiAPIKey, "")
	t.Setenv(llm.EnvMistralAPIKey, "mk")

	client, ok := llm.FromEnv(nil, nil)
	require.True(t, ok)

	a, isMistral := client.(*mistral.Adapter)
	require.True(t, isMistral)
	assert.Equal(t, "mk", a.Auth.Key)
}

func TestFromEnv_GeminiOnly(t *testing.T) {
	t.Setenv(llm.EnvGeminiAPIKey, "gk")
	t.Setenv(llm.EnvMistralAPIKey, "")

	client, ok := llm.FromEnv(nil, nil)
	require.True(t, ok)

	a, isGemini := client.(*gemini.Adapter)
	require.True(t, isGemini)
	assert.Equal(t, "gk", a.Auth.Key)
}

func TestFromEnv_PrefersGemini(t *testing.T) {
	t.Setenv(llm.EnvGeminiAPIKey, "gk")
	t.Setenv(llm.EnvMistralAPIKey, "mk")

	client, ok := llm.FromEnv(nil, nil)
	require.True(t, ok)

	_, isGemini := client.(*gemini.Adapter)
	assert.True(t, isGemini)
}

func TestCollect(t *testing.T) {
	ch := make(chan string, 3)
	ch <- "Hel"
	ch <- "lo"
	ch <- "!"
	close(ch)

	assert.Equal(t, "Hello!", llm.Collect(ch))
}

func TestCollect_EmptyStream(t *testing.T) {
	ch := make(chan string)
	close(ch)

	assert.Empty(t, llm.Collect(ch))
}

package llm_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/germanamz/llmstream/pkg/llm"
	"github.com/germanamz/llmstream/pkg/providers/gemini"
	"github.com/germanamz/llmstream/pkg/providers/mistral"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "llmstream.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
model: gemini-test
temperature: 0.7
max_output_tokens: 1024
`)

	cfg, err := llm.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "gemini-test", cfg.Model)
	require.NotNil(t, cfg.Temperature)
	assert.Equal(t, 0.7, *cfg.Temperature)
	assert.Equal(t, 1024, cfg.MaxOutputTokens)
}

func TestLoadConfig_ExpandsEnv(t *testing.T) {
	t.Setenv("LLM_BASE_URL", "http://proxy.internal")

	path := writeConfig(t, "base_url: ${LLM_BASE_URL}\n")

	cfg, err := llm.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://proxy.internal", cfg.BaseURL)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := llm.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadConfig_Malformed(t *testing.T) {
	path := writeConfig(t, "model: [unclosed\n")

	_, err := llm.LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestConfig_ApplyGemini(t *testing.T) {
	a := gemini.New("key", nil)

	cfg := llm.Config{Model: "gemini-other", BaseURL: "http://proxy"}
	cfg.Apply(a)

	assert.Equal(t, "gemini-other", a.Model)
	assert.Equal(t, "http://proxy", a.BaseURL)
}

func TestConfig_ApplyMistral(t *testing.T) {
	a := mistral.New("key", nil)

	cfg := llm.Config{Model: "ignored", BaseURL: "http://proxy"}
	cfg.Apply(a)

	assert.Equal(t, "http://proxy", a.BaseURL)
}

func TestConfig_ApplyZeroValueChangesNothing(t *testing.T) {
	a := gemini.New("key", nil)

	llm.Config{}.Apply(a)

	assert.Equal(t, gemini.DefaultModel, a.Model)
	assert.Equal(t, gemini.DefaultBaseURL, a.BaseURL)
}

func TestConfig_GenerationConfig_NoOverrides(t *testing.T) {
	assert.Nil(t, llm.Config{}.GenerationConfig())
}

func TestConfig_GenerationConfig_Overrides(t *testing.T) {
	temp := 0.9
	cfg := llm.Config{Temperature: &temp, MaxOutputTokens: 256}

	gc := cfg.GenerationConfig()
	require.NotNil(t, gc)
	assert.Equal(t, 0.9, gc.Temperature)
	assert.Equal(t, 256, gc.MaxOutputTokens)
	// Untouched options keep their defaults.
	assert.Equal(t, "text/plain", gc.ResponseMIMEType)
}

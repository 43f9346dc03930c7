package llm

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/germanamz/llmstream/pkg/providers/gemini"
	"github.com/germanamz/llmstream/pkg/providers/mistral"
	"github.com/germanamz/llmstream/pkg/providers/provider"
)

// Config holds optional overrides applied on top of a client selected by
// FromEnv. The zero value changes nothing.
type Config struct {
	Model           string   `yaml:"model"`             // Gemini only; Mistral's model is fixed.
	BaseURL         string   `yaml:"base_url"`          // Endpoint override, e.g. a proxy.
	Temperature     *float64 `yaml:"temperature"`       // nil means "use the default".
	MaxOutputTokens int      `yaml:"max_output_tokens"` // 0 means "use the default".
}

// LoadConfig reads a YAML file and returns a Config.
// Environment variables referenced as ${VAR} or $VAR in the YAML are expanded
// before parsing, so endpoint overrides can carry secrets from the
// environment rather than the file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		return Config{}, fmt.Errorf("llm: load config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("llm: parse config: %w", err)
	}

	return cfg, nil
}

// Apply writes the model and base URL overrides onto the client. Clients of
// unknown concrete types are left untouched.
func (c Config) Apply(client provider.Client) {
	switch a := client.(type) {
	case *gemini.Adapter:
		if c.Model != "" {
			a.Model = c.Model
		}
		if c.BaseURL != "" {
			a.BaseURL = c.BaseURL
		}
	case *mistral.Adapter:
		if c.BaseURL != "" {
			a.BaseURL = c.BaseURL
		}
	}
}

// GenerationConfig converts the sampling overrides into a per-request
// configuration. It returns nil when no override is set, letting the adapter
// fall back to its defaults.
func (c Config) GenerationConfig() *provider.GenerationConfig {
	if c.Temperature == nil && c.MaxOutputTokens == 0 {
		return nil
	}

	gc := provider.DefaultGenerationConfig()
	if c.Temperature != nil {
		gc.Temperature = *c.Temperature
	}
	if c.MaxOutputTokens != 0 {
		gc.MaxOutputTokens = c.MaxOutputTokens
	}

	return &gc
}

package llm

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects the backend: "openai", "gemini", "anthropic" or "mock".
	// Empty means no provider is configured.
	Provider string `yaml:"provider"`

	OpenAI    OpenAIConfig    `yaml:"openai"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`    // Default: "gpt-4o-mini"
	BaseURL string `yaml:"base_url"` // Optional, for OpenAI-compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"` // Default: "gemini-flash"
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"` // Default: "claude-haiku"
	BaseURL string `yaml:"base_url"`
}

// DefaultConfig returns a Config with default model names and no provider.
func DefaultConfig() Config {
	return Config{
		OpenAI:    OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:    GeminiConfig{Model: "gemini-flash"},
		Anthropic: AnthropicConfig{Model: "claude-haiku"},
	}
}

// Discover picks a provider from whichever API key is present, in the
// order OpenAI, Gemini, Anthropic. It leaves an explicit Provider alone.
func (c *Config) Discover() {
	if c.Provider != "" {
		return
	}
	switch {
	case c.OpenAI.APIKey != "":
		c.Provider = "openai"
	case c.Gemini.APIKey != "":
		c.Provider = "gemini"
	case c.Anthropic.APIKey != "":
		c.Provider = "anthropic"
	}
}

package config

import "os"

type AI struct {
	Provider      string
	OpenAIKey     string
	PerplexityKey string
	Model         string
	GateModel     string
	Temperature   float64
	MaxIterations int
}

// LoadAIFromEnv provides a simple env-only loader for the AI stack.
func LoadAIFromEnv() AI {
	provider := os.Getenv("AI_PROVIDER")
	if provider == "" {
		provider = "openai"
	}
	model := os.Getenv("AI_MODEL")
	if model == "" {
		if provider == "perplexity" {
			model = "sonar"
		} else {
			model = "gpt-4o-mini"
		}
	}
	return AI{
		Provider:      provider,
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		PerplexityKey: os.Getenv("PERPLEXITY_API_KEY"),
		Model:         model,
		GateModel:     GetEnv("AI_GATE_MODEL", "gpt-4o-mini"),
	}
}

// KeyFor returns the API key matching a provider name.
func (a AI) KeyFor(provider string) string {
	switch provider {
	case "perplexity":
		return a.PerplexityKey
	default:
		return a.OpenAIKey
	}
}

package llm

import (
	"fmt"
	"net/http"
	"time"
)

type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
)

type ProviderConfig struct {
	Type    ProviderType
	Model   string
	BaseURL string
	APIKey  string
	// Timeout bounds a single HTTP round trip. Zero means no limit.
	Timeout time.Duration
}

func NewProvider(config ProviderConfig) (Provider, error) {
	client := &http.Client{Timeout: config.Timeout}

	switch config.Type {
	case ProviderOpenAI:
		if config.APIKey == "" {
			return nil, fmt.Errorf("provider 'openai' requires an API key")
		}
		p := NewOpenAIProvider(config.BaseURL, config.Model, config.APIKey)
		p.client = client
		return p, nil
	case ProviderOllama:
		p := NewOllamaProvider(config.BaseURL, config.Model)
		p.client = client
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported provider type: %s (supported: %v)", config.Type, SupportedProviders)
	}
}

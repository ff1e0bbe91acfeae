package parsing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/openai"

	"comandero/internal/config"
)

type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

var ErrUnknownProvider = errors.New("cannot infer llm provider from model id")

var openAIPrefixes = []string{"gpt-", "o1-", "o3-", "o4-"}

// ResolveProvider infers the backend from a model id. Ids are matched case-insensitively.
func ResolveProvider(model string) (Provider, error) {
	id := strings.ToLower(strings.TrimSpace(model))
	for _, prefix := range openAIPrefixes {
		if strings.HasPrefix(id, prefix) {
			return ProviderOpenAI, nil
		}
	}
	if strings.Contains(id, "claude") {
		return ProviderAnthropic, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProvider, model)
}

// NewModel builds the client for the configured model. It is called once at startup.
func NewModel(cfg config.LLMConfig) (llms.Model, Provider, error) {
	provider, err := ResolveProvider(cfg.Model)
	if err != nil {
		return nil, "", err
	}

	switch provider {
	case ProviderOpenAI:
		model, err := openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.Model),
		)
		if err != nil {
			return nil, "", fmt.Errorf("creating openai client: %w", err)
		}
		return model, provider, nil
	case ProviderAnthropic:
		model, err := anthropic.New(
			anthropic.WithToken(cfg.AnthropicAPIKey),
			anthropic.WithModel(cfg.Model),
		)
		if err != nil {
			return nil, "", fmt.Errorf("creating anthropic client: %w", err)
		}
		return model, provider, nil
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Model)
	}
}

package provider

import (
	"fmt"
	"strings"
)

// New creates a provider from configuration.
func New(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "mock":
		return NewMockProvider("mock"), nil

	case "openai":
		return NewOpenAIProvider(config)

	case "remote":
		return NewRemoteProvider(config)

	default:
		return nil, fmt.Errorf("unknown provider: %s (supported: mock, openai, remote)", config.Provider)
	}
}

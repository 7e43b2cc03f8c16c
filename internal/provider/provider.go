package provider

import (
	"context"

	"github.com/okulov/sigil/internal/model"
)

// Provider is a single anomaly-detection capability. Implementations must be
// safe for concurrent use: the orchestrator invokes every registered provider
// at once.
type Provider interface {
	// Name returns the provider's registry name.
	Name() string

	// Analyze scores one evidence item for manipulation risk.
	Analyze(ctx context.Context, content []byte, meta model.EvidenceMeta) (*model.ProviderResult, error)
}

// Config holds provider construction settings.
type Config struct {
	// Provider name: "mock", "openai", "remote"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted model providers
	APIKey string

	// BaseURL for custom endpoints (remote detection service, OpenAI-compatible gateways)
	BaseURL string

	// Timeout for API requests, seconds
	Timeout int

	// MaxTokens for model responses
	MaxTokens int
}

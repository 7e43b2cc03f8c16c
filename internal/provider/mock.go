package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/okulov/sigil/internal/digest"
	"github.com/okulov/sigil/internal/model"
)

// MockProvider is a deterministic test double: its verdict is derived from the
// content digest, so the same bytes always score the same. Optional failure
// and delay injection support orchestrator tests.
type MockProvider struct {
	name    string
	digest  digest.Hasher
	failErr error
	delay   time.Duration
}

// NewMockProvider creates a deterministic provider with the given name.
func NewMockProvider(name string) *MockProvider {
	return &MockProvider{name: name, digest: digest.Default()}
}

// WithFailure makes every Analyze call return err.
func (p *MockProvider) WithFailure(err error) *MockProvider {
	p.failErr = err
	return p
}

// WithDelay makes every Analyze call sleep for d before returning.
func (p *MockProvider) WithDelay(d time.Duration) *MockProvider {
	p.delay = d
	return p
}

// Name returns the provider name.
func (p *MockProvider) Name() string { return p.name }

// Analyze scores the content from its digest bytes.
func (p *MockProvider) Analyze(ctx context.Context, content []byte, meta model.EvidenceMeta) (*model.ProviderResult, error) {
	start := time.Now()

	if p.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.delay):
		}
	}
	if p.failErr != nil {
		return nil, p.failErr
	}

	sum := p.digest.Sum(content)
	// First two digest bytes drive the verdict: stable per content item.
	score := int(sum[0]+sum[1]) % 101
	confidence := 60 + int(sum[2])%41

	return &model.ProviderResult{
		Provider:    p.name,
		RiskScore:   score,
		Confidence:  confidence,
		Explanation: fmt.Sprintf("deterministic verdict for %d bytes", len(content)),
		Details: map[string]interface{}{
			"content_digest": sum,
			"filename":       meta.Filename,
		},
		ModelVersion:     "mock-1.0",
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}, nil
}

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/okulov/sigil/internal/digest"
	"github.com/okulov/sigil/internal/model"
)

// OpenAIProvider scores evidence with an OpenAI chat model. The model never
// sees raw bytes, only structural metadata and the content digest; it is asked
// for a strict JSON verdict and anything else is a provider error.
type OpenAIProvider struct {
	client *openai.Client
	config Config
	digest digest.Hasher
}

// NewOpenAIProvider creates a new OpenAI-backed provider.
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
		digest: digest.Default(),
	}, nil
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string { return "openai" }

type openaiVerdict struct {
	RiskScore   int    `json:"risk_score"`
	Confidence  int    `json:"confidence"`
	Explanation string `json:"explanation"`
}

// Analyze requests a manipulation-risk verdict from the configured model.
func (p *OpenAIProvider) Analyze(ctx context.Context, content []byte, meta model.EvidenceMeta) (*model.ProviderResult, error) {
	start := time.Now()

	modelName := p.config.Model
	if modelName == "" {
		modelName = openai.GPT4oMini
	}
	maxTokens := p.config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 500
	}

	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctxWithTimeout, openai.ChatCompletionRequest{
		Model: modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "You assess the manipulation risk of media evidence from its structural metadata. " +
					"Respond with a single JSON object: {\"risk_score\": 0-100, \"confidence\": 0-100, \"explanation\": \"...\"}. " +
					"No prose outside the JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildEvidencePrompt(p.digest.Sum(content), int64(len(content)), meta),
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	var verdict openaiVerdict
	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	reply = strings.TrimPrefix(reply, "```json")
	reply = strings.TrimPrefix(reply, "```")
	reply = strings.TrimSuffix(reply, "```")
	if err := json.Unmarshal([]byte(strings.TrimSpace(reply)), &verdict); err != nil {
		return nil, fmt.Errorf("malformed model verdict: %w", err)
	}
	if verdict.RiskScore < 0 || verdict.RiskScore > 100 || verdict.Confidence < 0 || verdict.Confidence > 100 {
		return nil, fmt.Errorf("model verdict out of range: score=%d confidence=%d", verdict.RiskScore, verdict.Confidence)
	}

	return &model.ProviderResult{
		Provider:    p.Name(),
		RiskScore:   verdict.RiskScore,
		Confidence:  verdict.Confidence,
		Explanation: verdict.Explanation,
		Details: map[string]interface{}{
			"tokens_used": resp.Usage.TotalTokens,
		},
		ModelVersion:     modelName,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}, nil
}

func buildEvidencePrompt(contentDigest string, size int64, meta model.EvidenceMeta) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Evidence item:\n- size_bytes: %d\n- sha256: %s\n", size, contentDigest)
	if meta.Filename != "" {
		fmt.Fprintf(&b, "- filename: %s\n", meta.Filename)
	}
	if meta.MimeType != "" {
		fmt.Fprintf(&b, "- mime_type: %s\n", meta.MimeType)
	}
	if meta.ContentID != "" {
		fmt.Fprintf(&b, "- content_id: %s\n", meta.ContentID)
	}
	for k, v := range meta.Extra {
		fmt.Fprintf(&b, "- %s: %s\n", k, v)
	}
	b.WriteString("\nAssess the likelihood this item was manipulated and return the JSON verdict.")
	return b.String()
}

package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/okulov/sigil/internal/model"
)

// RemoteProvider calls an external detection service over HTTP.
type RemoteProvider struct {
	baseURL    string
	httpClient *http.Client
}

type remoteRequest struct {
	ContentID string            `json:"content_id,omitempty"`
	Filename  string            `json:"filename,omitempty"`
	MimeType  string            `json:"mime_type,omitempty"`
	SizeBytes int64             `json:"size_bytes"`
	Content   string            `json:"content"` // base64
	Metadata  map[string]string `json:"metadata,omitempty"`
}

type remoteResponse struct {
	RiskScore    int                    `json:"risk_score"`
	Confidence   int                    `json:"confidence"`
	Explanation  string                 `json:"explanation"`
	Details      map[string]interface{} `json:"details,omitempty"`
	ModelVersion string                 `json:"model_version,omitempty"`
}

type remoteError struct {
	Error string `json:"error"`
}

// NewRemoteProvider creates a client for an external detection endpoint.
func NewRemoteProvider(config Config) (*RemoteProvider, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("remote provider base URL is required")
	}

	timeout := time.Duration(config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &RemoteProvider{
		baseURL:    strings.TrimSuffix(config.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Name returns the provider name.
func (p *RemoteProvider) Name() string { return "remote" }

// Analyze posts the evidence to the detection service and decodes its verdict.
func (p *RemoteProvider) Analyze(ctx context.Context, content []byte, meta model.EvidenceMeta) (*model.ProviderResult, error) {
	start := time.Now()

	payload, err := json.Marshal(remoteRequest{
		ContentID: meta.ContentID,
		Filename:  meta.Filename,
		MimeType:  meta.MimeType,
		SizeBytes: int64(len(content)),
		Content:   base64.StdEncoding.EncodeToString(content),
		Metadata:  meta.Extra,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	url := p.baseURL + "/v1/analyze"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("detection service request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var remoteErr remoteError
		if json.Unmarshal(body, &remoteErr) == nil && remoteErr.Error != "" {
			return nil, fmt.Errorf("detection service error (%d): %s", resp.StatusCode, remoteErr.Error)
		}
		return nil, fmt.Errorf("detection service returned status %d", resp.StatusCode)
	}

	var verdict remoteResponse
	if err := json.Unmarshal(body, &verdict); err != nil {
		return nil, fmt.Errorf("decode verdict: %w", err)
	}

	return &model.ProviderResult{
		Provider:         p.Name(),
		RiskScore:        verdict.RiskScore,
		Confidence:       verdict.Confidence,
		Explanation:      verdict.Explanation,
		Details:          verdict.Details,
		ModelVersion:     verdict.ModelVersion,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}, nil
}

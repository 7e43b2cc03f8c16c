package model

import "time"

// EvidenceMeta carries descriptive metadata handed to anomaly providers
// alongside the raw content bytes.
type EvidenceMeta struct {
	ContentID string            `json:"content_id,omitempty"`
	Filename  string            `json:"filename,omitempty"`
	MimeType  string            `json:"mime_type,omitempty"`
	SizeBytes int64             `json:"size_bytes,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
}

// ProviderResult is one provider's opinion on a single evidence item.
// An entry with Error set is excluded from aggregation but retained for audit.
type ProviderResult struct {
	Provider         string                 `json:"provider"`
	RiskScore        int                    `json:"risk_score"` // 0..100
	Confidence       int                    `json:"confidence"` // 0..100
	Explanation      string                 `json:"explanation,omitempty"`
	Details          map[string]interface{} `json:"details,omitempty"`
	ModelVersion     string                 `json:"model_version,omitempty"`
	ProcessingTimeMs int64                  `json:"processing_time_ms"`
	Error            string                 `json:"error,omitempty"`
}

// RiskLevel classifies an aggregate score.
type RiskLevel string

const (
	RiskUnknown RiskLevel = "UNKNOWN" // no providers registered
	RiskLow     RiskLevel = "LOW"
	RiskMedium  RiskLevel = "MEDIUM"
	RiskHigh    RiskLevel = "HIGH"
	RiskError   RiskLevel = "ERROR" // every provider failed
)

// AggregateRisk is the confidence-weighted reduction of provider results.
type AggregateRisk struct {
	Score         int       `json:"score"`      // 0..100
	Level         RiskLevel `json:"level"`
	Confidence    int       `json:"confidence"` // 0..100, mean over valid results
	ProviderCount int       `json:"provider_count"`
}

// AnalysisStatus is the lifecycle state of an analysis run.
type AnalysisStatus string

const (
	AnalysisProcessing AnalysisStatus = "PROCESSING"
	AnalysisCompleted  AnalysisStatus = "COMPLETED"
	AnalysisFailed     AnalysisStatus = "FAILED"
)

// AnalysisRecord tracks one analysis run over one evidence item. It is mutated
// only by the orchestrator during its run and is immutable once Status reaches
// a terminal value.
type AnalysisRecord struct {
	ID          string           `json:"id"`
	EvidenceID  string           `json:"evidence_id"`
	Status      AnalysisStatus   `json:"status"`
	Results     []ProviderResult `json:"results"`
	OverallRisk AggregateRisk    `json:"overall_risk"`
	StartedAt   time.Time        `json:"started_at"`
	EndedAt     *time.Time       `json:"ended_at,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// Clone returns a snapshot detached from the original, so readers can hold it
// while the run that produced it is still mutating its source.
func (r *AnalysisRecord) Clone() *AnalysisRecord {
	out := *r
	if r.Results != nil {
		out.Results = make([]ProviderResult, len(r.Results))
		copy(out.Results, r.Results)
	}
	if r.EndedAt != nil {
		ended := *r.EndedAt
		out.EndedAt = &ended
	}
	return &out
}

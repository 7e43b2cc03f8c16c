package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okulov/sigil/internal/model"
	"github.com/okulov/sigil/internal/provider"
	"github.com/okulov/sigil/internal/util"
)

// fixedProvider returns a canned verdict after an optional delay.
type fixedProvider struct {
	name       string
	score      int
	confidence int
	delay      time.Duration
	err        error
	panics     bool
}

func (p *fixedProvider) Name() string { return p.name }

func (p *fixedProvider) Analyze(ctx context.Context, content []byte, meta model.EvidenceMeta) (*model.ProviderResult, error) {
	if p.panics {
		panic("provider blew up")
	}
	if p.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.delay):
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	return &model.ProviderResult{
		Provider:   p.name,
		RiskScore:  p.score,
		Confidence: p.confidence,
	}, nil
}

func newTestOrchestrator(providers ...provider.Provider) (*Orchestrator, *Store) {
	reg := provider.NewRegistry()
	for _, p := range providers {
		reg.Register(p)
	}
	store := NewStore(time.Hour)
	orch := NewOrchestrator(reg, store, util.NewSequenceGenerator("run"), nil, 500*time.Millisecond, nil)
	return orch, store
}

func TestAnalyzeEvidence_ResultsInRegistrationOrder(t *testing.T) {
	// Later registrations finish first; output order must not follow completion.
	orch, _ := newTestOrchestrator(
		&fixedProvider{name: "slow", score: 10, confidence: 50, delay: 80 * time.Millisecond},
		&fixedProvider{name: "mid", score: 20, confidence: 50, delay: 40 * time.Millisecond},
		&fixedProvider{name: "fast", score: 30, confidence: 50},
	)

	record, err := orch.AnalyzeEvidence(context.Background(), "ev-1", []byte("content"), model.EvidenceMeta{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"slow", "mid", "fast"}
	if len(record.Results) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(record.Results))
	}
	for i, name := range want {
		if record.Results[i].Provider != name {
			t.Errorf("result %d: provider %s, want %s", i, record.Results[i].Provider, name)
		}
	}
}

func TestAnalyzeEvidence_ProviderFailureIsolated(t *testing.T) {
	orch, _ := newTestOrchestrator(
		&fixedProvider{name: "ok", score: 80, confidence: 90},
		&fixedProvider{name: "broken", err: errors.New("model unavailable")},
	)

	record, err := orch.AnalyzeEvidence(context.Background(), "ev-1", []byte("content"), model.EvidenceMeta{})
	if err != nil {
		t.Fatalf("one failing provider must not fail the run: %v", err)
	}

	if record.Status != model.AnalysisCompleted {
		t.Errorf("status %s, want COMPLETED", record.Status)
	}
	if record.Results[1].Error == "" {
		t.Error("failed provider's error not retained for audit")
	}
	if record.Results[1].RiskScore != 0 || record.Results[1].Confidence != 0 {
		t.Error("failed provider should carry zero score and confidence")
	}
	if record.OverallRisk.ProviderCount != 1 {
		t.Errorf("provider count %d, want 1", record.OverallRisk.ProviderCount)
	}
	if record.OverallRisk.Score != 80 {
		t.Errorf("score %d, want 80", record.OverallRisk.Score)
	}
}

func TestAnalyzeEvidence_PanicIsolated(t *testing.T) {
	orch, _ := newTestOrchestrator(
		&fixedProvider{name: "calm", score: 40, confidence: 70},
		&fixedProvider{name: "chaotic", panics: true},
	)

	record, err := orch.AnalyzeEvidence(context.Background(), "ev-1", []byte("content"), model.EvidenceMeta{})
	if err != nil {
		t.Fatalf("a panicking provider must not fail the run: %v", err)
	}
	if record.Results[1].Error == "" {
		t.Error("panic not converted into an error result")
	}
	if record.Status != model.AnalysisCompleted {
		t.Errorf("status %s, want COMPLETED", record.Status)
	}
}

func TestAnalyzeEvidence_TimeoutDegrades(t *testing.T) {
	orch, _ := newTestOrchestrator(
		&fixedProvider{name: "quick", score: 50, confidence: 60},
		&fixedProvider{name: "hung", score: 99, confidence: 99, delay: 5 * time.Second},
	)

	start := time.Now()
	record, err := orch.AnalyzeEvidence(context.Background(), "ev-1", []byte("content"), model.EvidenceMeta{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("join blocked on hung provider for %v", elapsed)
	}
	if record.Results[1].Error == "" {
		t.Error("timed-out provider should carry an error entry")
	}
	if record.OverallRisk.ProviderCount != 1 {
		t.Errorf("provider count %d, want 1", record.OverallRisk.ProviderCount)
	}
}

func TestAnalyzeEvidence_NoProviders(t *testing.T) {
	orch, _ := newTestOrchestrator()

	record, err := orch.AnalyzeEvidence(context.Background(), "ev-1", []byte("content"), model.EvidenceMeta{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.OverallRisk.Level != model.RiskUnknown {
		t.Errorf("level %s, want UNKNOWN", record.OverallRisk.Level)
	}
	if record.OverallRisk.ProviderCount != 0 {
		t.Errorf("provider count %d, want 0", record.OverallRisk.ProviderCount)
	}
}

func TestAnalyzeEvidence_AllProvidersError(t *testing.T) {
	orch, _ := newTestOrchestrator(
		&fixedProvider{name: "a", err: errors.New("down")},
		&fixedProvider{name: "b", err: errors.New("also down")},
	)

	record, err := orch.AnalyzeEvidence(context.Background(), "ev-1", []byte("content"), model.EvidenceMeta{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.OverallRisk.Level != model.RiskError {
		t.Errorf("level %s, want ERROR", record.OverallRisk.Level)
	}
	if record.OverallRisk.Score != 0 {
		t.Errorf("score %d, want 0", record.OverallRisk.Score)
	}
}

func TestAnalyzeEvidence_InvalidInputFailsRun(t *testing.T) {
	orch, store := newTestOrchestrator(&fixedProvider{name: "a", score: 1, confidence: 1})

	record, err := orch.AnalyzeEvidence(context.Background(), "", []byte("content"), model.EvidenceMeta{})
	if !errors.Is(err, ErrInvalidEvidence) {
		t.Fatalf("expected ErrInvalidEvidence, got %v", err)
	}
	if record.Status != model.AnalysisFailed {
		t.Errorf("status %s, want FAILED", record.Status)
	}
	stored, ok := store.Get(record.ID)
	if !ok {
		t.Fatal("failed record not stored")
	}
	if stored.Status != model.AnalysisFailed {
		t.Errorf("stored status %s, want FAILED", stored.Status)
	}

	if _, err := orch.AnalyzeEvidence(context.Background(), "ev", nil, model.EvidenceMeta{}); !errors.Is(err, ErrInvalidEvidence) {
		t.Errorf("empty content: expected ErrInvalidEvidence, got %v", err)
	}
}

func TestAnalyzeEvidence_RecordLifecycle(t *testing.T) {
	orch, store := newTestOrchestrator(&fixedProvider{name: "a", score: 30, confidence: 80})

	record, err := orch.AnalyzeEvidence(context.Background(), "ev-9", []byte("content"), model.EvidenceMeta{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if record.ID != "run-1" {
		t.Errorf("id %s: injected generator not used", record.ID)
	}
	if record.EvidenceID != "ev-9" {
		t.Errorf("evidence id %s", record.EvidenceID)
	}
	if record.Status != model.AnalysisCompleted {
		t.Errorf("status %s, want COMPLETED", record.Status)
	}
	if record.EndedAt == nil || record.EndedAt.Before(record.StartedAt) {
		t.Error("ended_at missing or before started_at")
	}
	stored, ok := store.Get("run-1")
	if !ok || stored.Status != model.AnalysisCompleted {
		t.Error("completed record not retrievable from store")
	}
}

func TestStore_PutSnapshotsRecord(t *testing.T) {
	store := NewStore(time.Hour)

	record := &model.AnalysisRecord{
		ID:      "run-snap",
		Status:  model.AnalysisProcessing,
		Results: []model.ProviderResult{{Provider: "mock", RiskScore: 10}},
	}
	store.Put(record)

	record.Status = model.AnalysisCompleted
	record.Results[0].RiskScore = 99
	record.Results = append(record.Results, model.ProviderResult{Provider: "late"})

	stored, ok := store.Get("run-snap")
	if !ok {
		t.Fatal("record missing after put")
	}
	if stored.Status != model.AnalysisProcessing {
		t.Errorf("stored status %s mutated after put, want PROCESSING", stored.Status)
	}
	if len(stored.Results) != 1 || stored.Results[0].RiskScore != 10 {
		t.Errorf("stored results mutated after put: %+v", stored.Results)
	}
}

func TestStore_TTLAndList(t *testing.T) {
	store := NewStore(30 * time.Millisecond)
	store.Put(&model.AnalysisRecord{ID: "x"})

	if _, ok := store.Get("x"); !ok {
		t.Fatal("record missing immediately after put")
	}
	if len(store.List()) != 1 {
		t.Errorf("list size %d, want 1", len(store.List()))
	}

	time.Sleep(60 * time.Millisecond)
	if _, ok := store.Get("x"); ok {
		t.Error("record survived past its TTL")
	}
}

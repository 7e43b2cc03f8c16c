package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/okulov/sigil/internal/model"
	"github.com/okulov/sigil/internal/provider"
	"github.com/okulov/sigil/internal/util"
	"github.com/okulov/sigil/internal/worker"
)

// ErrInvalidEvidence marks a malformed analysis request. It is fatal to the
// caller, unlike individual provider failures which are absorbed as data.
var ErrInvalidEvidence = errors.New("invalid evidence input")

// Orchestrator fans a single evidence item out to every registered provider
// concurrently and reduces the settled results into one verdict.
type Orchestrator struct {
	registry   *provider.Registry
	store      *Store
	aggregator *Aggregator
	ids        util.IDGenerator
	limiter    *worker.Limiter
	timeout    time.Duration
	log        *zap.Logger
}

// NewOrchestrator wires an orchestrator. The registry and store are owned by
// the caller and passed by reference. perProviderTimeout bounds each provider
// call; a timed-out provider degrades to an error result instead of stalling
// the join.
func NewOrchestrator(registry *provider.Registry, store *Store, ids util.IDGenerator, limiter *worker.Limiter, perProviderTimeout time.Duration, log *zap.Logger) *Orchestrator {
	if perProviderTimeout <= 0 {
		perProviderTimeout = 30 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		registry:   registry,
		store:      store,
		aggregator: NewAggregator(),
		ids:        ids,
		limiter:    limiter,
		timeout:    perProviderTimeout,
		log:        log,
	}
}

// AnalyzeEvidence runs every registered provider against the evidence and
// returns the completed record. This is a join-all: the call returns only
// after all provider tasks have settled, successfully or not. Results are
// recorded in registration order regardless of completion order.
func (o *Orchestrator) AnalyzeEvidence(ctx context.Context, evidenceID string, content []byte, meta model.EvidenceMeta) (*model.AnalysisRecord, error) {
	record := &model.AnalysisRecord{
		ID:         o.ids.NewID(),
		EvidenceID: evidenceID,
		Status:     model.AnalysisProcessing,
		StartedAt:  time.Now().UTC(),
	}

	if evidenceID == "" || len(content) == 0 {
		err := fmt.Errorf("%w: evidence id and content are required", ErrInvalidEvidence)
		o.finish(record, model.AnalysisFailed, err.Error())
		return record, err
	}
	o.store.Put(record)

	providers := o.registry.List()
	results := make([]model.ProviderResult, len(providers))

	var wg sync.WaitGroup
	for i, p := range providers {
		wg.Add(1)
		go func(idx int, p provider.Provider) {
			defer wg.Done()
			// Index-slot writes keep registration order deterministic even
			// under concurrent completion.
			results[idx] = o.callProvider(ctx, p, content, meta)
		}(i, p)
	}
	wg.Wait()

	record.Results = results
	record.OverallRisk = o.aggregator.Aggregate(results)
	o.finish(record, model.AnalysisCompleted, "")

	o.log.Info("analysis completed",
		zap.String("analysis_id", record.ID),
		zap.String("evidence_id", evidenceID),
		zap.Int("providers", len(providers)),
		zap.Int("score", record.OverallRisk.Score),
		zap.String("level", string(record.OverallRisk.Level)),
	)

	return record, nil
}

// callProvider runs one provider in isolation: errors, timeouts and panics are
// converted into an error-bearing result and never cross to other providers.
func (o *Orchestrator) callProvider(ctx context.Context, p provider.Provider, content []byte, meta model.EvidenceMeta) (out model.ProviderResult) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			o.log.Warn("provider panicked", zap.String("provider", p.Name()), zap.Any("panic", r))
			out = errorResult(p.Name(), fmt.Sprintf("provider panic: %v", r), start)
		}
	}()

	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	if o.limiter != nil {
		if err := o.limiter.Wait(callCtx, p.Name()); err != nil {
			return errorResult(p.Name(), fmt.Sprintf("rate limit wait: %v", err), start)
		}
	}

	result, err := p.Analyze(callCtx, content, meta)
	if err != nil {
		o.log.Warn("provider failed", zap.String("provider", p.Name()), zap.Error(err))
		return errorResult(p.Name(), err.Error(), start)
	}
	if result == nil {
		return errorResult(p.Name(), "provider returned no result", start)
	}

	out = *result
	if out.Provider == "" {
		out.Provider = p.Name()
	}
	out.RiskScore = clampScore(out.RiskScore)
	out.Confidence = clampScore(out.Confidence)
	if out.ProcessingTimeMs == 0 {
		out.ProcessingTimeMs = time.Since(start).Milliseconds()
	}
	return out
}

func (o *Orchestrator) finish(record *model.AnalysisRecord, status model.AnalysisStatus, errMsg string) {
	now := time.Now().UTC()
	record.Status = status
	record.EndedAt = &now
	record.Error = errMsg
	o.store.Put(record)
}

func errorResult(name, msg string, start time.Time) model.ProviderResult {
	return model.ProviderResult{
		Provider:         name,
		RiskScore:        0,
		Confidence:       0,
		Error:            msg,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

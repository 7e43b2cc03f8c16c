package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/okulov/sigil/internal/model"
)

// Sealer seals one file's content into a manifest.
type Sealer interface {
	Seal(contentID string, content []byte, totalDuration, segmentDuration float64, meta map[string]string) (*model.Manifest, error)
}

// Verifier checks current content against a manifest.
type Verifier interface {
	Verify(manifest *model.Manifest, content []byte) *model.VerificationResult
}

// SealJob seals a single file.
type SealJob struct {
	Path     string
	Sealer   Sealer
	Duration float64
	SegDur   float64
}

// Execute reads the file and seals it, using the path as content id.
func (j *SealJob) Execute(ctx context.Context) Result {
	content, err := os.ReadFile(j.Path)
	if err != nil {
		return &BatchResult{Path: j.Path, Err: fmt.Errorf("read file: %w", err)}
	}
	manifest, err := j.Sealer.Seal(j.Path, content, j.Duration, j.SegDur, nil)
	if err != nil {
		return &BatchResult{Path: j.Path, Err: fmt.Errorf("seal: %w", err)}
	}
	return &BatchResult{Path: j.Path, Manifest: manifest}
}

// VerifyJob verifies a single file against its manifest.
type VerifyJob struct {
	Path     string
	Manifest *model.Manifest
	Verifier Verifier
}

// Execute reads the file and runs verification. Tampered content is not an
// error here; it is reported in the verification result.
func (j *VerifyJob) Execute(ctx context.Context) Result {
	content, err := os.ReadFile(j.Path)
	if err != nil {
		return &BatchResult{Path: j.Path, Err: fmt.Errorf("read file: %w", err)}
	}
	return &BatchResult{Path: j.Path, Verification: j.Verifier.Verify(j.Manifest, content)}
}

// BatchResult is the outcome of one batch job.
type BatchResult struct {
	Path         string
	Manifest     *model.Manifest
	Verification *model.VerificationResult
	Err          error
}

// GetError returns the job-level error, if any.
func (r *BatchResult) GetError() error { return r.Err }

// RunJobs executes jobs on a bounded pool and returns one result per job.
func RunJobs(jobs []Job, concurrency int) []*BatchResult {
	if len(jobs) == 0 {
		return []*BatchResult{}
	}

	pool := NewPool(concurrency)
	pool.Start()
	for _, job := range jobs {
		pool.Submit(job)
	}

	results := pool.Wait()
	out := make([]*BatchResult, len(results))
	for i, r := range results {
		out[i] = r.(*BatchResult)
	}
	return out
}

// ReadPathsFromFile reads file paths from a list file, one per line, skipping
// blank lines and # comments, deduplicating in order.
func ReadPathsFromFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return paths, nil
}

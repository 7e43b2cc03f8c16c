package worker

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okulov/sigil/internal/digest"
	"github.com/okulov/sigil/internal/integrity"
	"github.com/okulov/sigil/internal/segment"
)

func writeTempFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestRunJobs_SealThenVerify(t *testing.T) {
	dir := t.TempDir()
	sealer := integrity.NewSealer(segment.NewHasher(digest.Default(), 4096))

	var sealJobs []Job
	paths := make([]string, 3)
	for i := range paths {
		content := bytes.Repeat([]byte{byte(i + 1)}, 10_000)
		paths[i] = writeTempFile(t, dir, fmt.Sprintf("clip-%d.bin", i), content)
		sealJobs = append(sealJobs, &SealJob{Path: paths[i], Sealer: sealer, Duration: 10, SegDur: 5})
	}

	sealResults := RunJobs(sealJobs, 2)
	if len(sealResults) != 3 {
		t.Fatalf("expected 3 seal results, got %d", len(sealResults))
	}

	verifier := integrity.NewVerifier(4096)
	var verifyJobs []Job
	for _, r := range sealResults {
		if r.Err != nil {
			t.Fatalf("%s: seal failed: %v", r.Path, r.Err)
		}
		if r.Manifest == nil || r.Manifest.SegmentCount != 2 {
			t.Fatalf("%s: unexpected manifest %+v", r.Path, r.Manifest)
		}
		verifyJobs = append(verifyJobs, &VerifyJob{Path: r.Path, Manifest: r.Manifest, Verifier: verifier})
	}

	for _, r := range RunJobs(verifyJobs, 2) {
		if r.Err != nil {
			t.Errorf("%s: verify job failed: %v", r.Path, r.Err)
			continue
		}
		if r.Verification == nil || !r.Verification.IsValid {
			t.Errorf("%s: expected valid verification", r.Path)
		}
	}
}

func TestRunJobs_OneResultPerJobAtScale(t *testing.T) {
	dir := t.TempDir()
	sealer := integrity.NewSealer(segment.NewHasher(digest.Default(), 4096))

	count := 40
	jobs := make([]Job, count)
	for i := 0; i < count; i++ {
		content := bytes.Repeat([]byte{byte(i)}, 5_000)
		path := writeTempFile(t, dir, fmt.Sprintf("clip-%d.bin", i), content)
		jobs[i] = &SealJob{Path: path, Sealer: sealer, Duration: 10, SegDur: 5}
	}

	done := make(chan []*BatchResult, 1)
	go func() { done <- RunJobs(jobs, 4) }()

	select {
	case results := <-done:
		if len(results) != count {
			t.Fatalf("expected %d results, got %d", count, len(results))
		}
		for _, r := range results {
			if r.Err != nil {
				t.Errorf("%s: %v", r.Path, r.Err)
			}
		}
	case <-time.After(10 * time.Second):
		t.Fatal("RunJobs stalled on a batch larger than the pool's queue capacity")
	}
}

func TestRunJobs_MissingFileIsJobError(t *testing.T) {
	sealer := integrity.NewSealer(segment.NewHasher(digest.Default(), 4096))
	results := RunJobs([]Job{
		&SealJob{Path: "/does/not/exist", Sealer: sealer, Duration: 10, SegDur: 5},
	}, 1)

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].GetError() == nil {
		t.Error("expected an error result for a missing file")
	}
}

func TestRunJobs_Empty(t *testing.T) {
	if results := RunJobs(nil, 4); len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestReadPathsFromFile(t *testing.T) {
	dir := t.TempDir()
	list := writeTempFile(t, dir, "list.txt", []byte("a.mp4\n\n# comment\nb.mp4\na.mp4\n"))

	paths, err := ReadPathsFromFile(list)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"a.mp4", "b.mp4"}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %s, want %s", i, paths[i], want[i])
		}
	}
}

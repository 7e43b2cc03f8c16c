package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okulov/sigil/internal/integrity"
	"github.com/okulov/sigil/internal/worker"
)

var (
	batchMode     string
	batchWorkers  int
	batchDuration float64
	batchSegDur   float64
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <list-file>",
	Short: "Seal or verify many evidence files concurrently",
	Long: `Batch reads file paths from a list file (one per line, # comments
allowed) and processes them on a bounded worker pool.

In seal mode each file's manifest is written next to it as
<file>.manifest.json; in verify mode that same manifest is read back and the
file is checked against it.

Example:
  sigil batch files.txt --mode seal --duration 60
  sigil batch files.txt --mode verify --workers 8`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&batchMode, "mode", "seal", "batch mode: seal or verify")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "worker count (default from config)")
	batchCmd.Flags().Float64Var(&batchDuration, "duration", 0, "total duration in seconds for seal mode")
	batchCmd.Flags().Float64Var(&batchSegDur, "segment-duration", 0, "segment duration in seconds (default from config)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	paths, err := worker.ReadPathsFromFile(args[0])
	if err != nil {
		return fmt.Errorf("read list: %w", err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no paths in %s", args[0])
	}

	workers := batchWorkers
	if workers <= 0 {
		workers = cfg.Concurrency.BatchWorkers
	}
	segDur := batchSegDur
	if segDur <= 0 {
		segDur = cfg.Segmentation.SegmentSeconds
	}

	var jobs []worker.Job
	switch batchMode {
	case "seal":
		if batchDuration <= 0 {
			return fmt.Errorf("--duration is required in seal mode")
		}
		sealer, err := newSealer(cfg, cfg.Digest.Algorithm)
		if err != nil {
			return err
		}
		for _, path := range paths {
			jobs = append(jobs, &worker.SealJob{
				Path:     path,
				Sealer:   sealer,
				Duration: batchDuration,
				SegDur:   segDur,
			})
		}

	case "verify":
		verifier := integrity.NewVerifier(cfg.Segmentation.UnitSizeBytes)
		for _, path := range paths {
			manifest, err := readManifest(path + ".manifest.json")
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			jobs = append(jobs, &worker.VerifyJob{
				Path:     path,
				Manifest: manifest,
				Verifier: verifier,
			})
		}

	default:
		return fmt.Errorf("unknown mode %q (supported: seal, verify)", batchMode)
	}

	results := worker.RunJobs(jobs, workers)

	failed := 0
	tampered := 0
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.Path, r.Err)
		case r.Manifest != nil:
			out := r.Path + ".manifest.json"
			if err := writeJSON(out, integrity.ExportManifest(r.Manifest)); err != nil {
				failed++
				fmt.Fprintf(os.Stderr, "✗ %s: write manifest: %v\n", r.Path, err)
				continue
			}
			if cfg.Output.Verbose {
				fmt.Printf("✓ %s: %d segments sealed\n", r.Path, r.Manifest.SegmentCount)
			}
		case r.Verification != nil:
			status := r.Verification.Status()
			fmt.Printf("%s: %s\n", r.Path, status)
			if !r.Verification.IsValid {
				tampered++
			}
		}
	}

	fmt.Printf("\n%d processed, %d failed", len(results), failed)
	if batchMode == "verify" {
		fmt.Printf(", %d not verified", tampered)
	}
	fmt.Println()

	if failed > 0 || tampered > 0 {
		os.Exit(1)
	}
	return nil
}

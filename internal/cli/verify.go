package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okulov/sigil/internal/integrity"
	"github.com/okulov/sigil/internal/model"
)

var (
	verifyManifest string
	verifyOut      string
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <file>",
	Short: "Verify a content file against its sealed manifest",
	Long: `Verify re-hashes the file using the segment boundaries recorded in the
manifest and compares every segment and the Merkle root against the sealed
baseline. Tampered segments are reported with their time ranges.

Exit status: 0 VERIFIED, 1 TAMPERED, 2 ERROR.

Example:
  sigil verify clip.mp4 --manifest clip.mp4.manifest.json
  sigil verify clip.mp4 --manifest clip.mp4.manifest.json --out result.json`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&verifyManifest, "manifest", "", "manifest path (required)")
	verifyCmd.Flags().StringVar(&verifyOut, "out", "", "write full verification result JSON to this path")
	_ = verifyCmd.MarkFlagRequired("manifest")
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	manifest, err := readManifest(verifyManifest)
	if err != nil {
		return err
	}

	content, readErr := os.ReadFile(args[0])
	var result *model.VerificationResult
	if readErr != nil {
		// Unreadable content degrades like a re-hash failure.
		result = &model.VerificationResult{
			OriginalRoot: manifest.MerkleRoot,
			Error:        fmt.Sprintf("read content: %v", readErr),
		}
	} else {
		result = integrity.NewVerifier(cfg.Segmentation.UnitSizeBytes).Verify(manifest, content)
	}

	if verifyOut != "" {
		if err := writeJSON(verifyOut, result); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
	}

	printVerification(manifest, result)

	switch result.Status() {
	case model.StatusVerified:
		return nil
	case model.StatusTampered:
		os.Exit(1)
	default:
		os.Exit(2)
	}
	return nil
}

func printVerification(manifest *model.Manifest, result *model.VerificationResult) {
	fmt.Printf("Content:  %s\n", manifest.ContentID)
	fmt.Printf("Status:   %s\n", result.Status())

	switch result.Status() {
	case model.StatusError:
		fmt.Printf("Error:    %s\n", result.Error)
	case model.StatusTampered:
		fmt.Printf("Original root: %s\n", result.OriginalRoot)
		fmt.Printf("Current root:  %s\n", result.CurrentRoot)
		fmt.Printf("Tampered segments (%d):\n", len(result.TamperedSegments))
		for _, ts := range result.TamperedSegments {
			fmt.Printf("  #%d  [%.1fs - %.1fs]  %s\n", ts.Index, ts.StartTime, ts.EndTime, ts.Reason)
		}
	default:
		fmt.Printf("Segments: %d verified\n", len(result.SegmentComparison))
	}
}

package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okulov/sigil/internal/anchor"
	"github.com/okulov/sigil/internal/digest"
	"github.com/okulov/sigil/internal/util"
)

var (
	anchorManifest string
	anchorOut      string
)

// anchorCmd represents the anchor command
var anchorCmd = &cobra.Command{
	Use:   "anchor",
	Short: "Derive a ledger-ready anchor record from a manifest",
	Long: `Anchor produces a compact summary record suitable for submission to an
external tamper-evident store. Its compact hash is reproducible from the
merkle root and content id alone; the anchor id is fresh per invocation.

Example:
  sigil anchor --manifest clip.mp4.manifest.json`,
	RunE: runAnchor,
}

func init() {
	rootCmd.AddCommand(anchorCmd)

	anchorCmd.Flags().StringVar(&anchorManifest, "manifest", "", "manifest path (required)")
	anchorCmd.Flags().StringVar(&anchorOut, "out", "", "write anchor record JSON to this path (default: stdout)")
	_ = anchorCmd.MarkFlagRequired("manifest")
}

func runAnchor(cmd *cobra.Command, args []string) error {
	manifest, err := readManifest(anchorManifest)
	if err != nil {
		return err
	}

	hasher, err := digest.New(digest.Algorithm(manifest.Algorithm))
	if err != nil {
		return err
	}

	record := anchor.NewGenerator(hasher, util.NewUUIDGenerator()).Generate(manifest)

	if anchorOut != "" {
		if err := writeJSON(anchorOut, record); err != nil {
			return fmt.Errorf("write anchor: %w", err)
		}
		fmt.Printf("✓ Wrote anchor: %s\n", anchorOut)
		return nil
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

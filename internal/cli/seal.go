package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/okulov/sigil/internal/digest"
	"github.com/okulov/sigil/internal/integrity"
	"github.com/okulov/sigil/internal/model"
	"github.com/okulov/sigil/internal/segment"
)

var (
	sealContentID string
	sealDuration  float64
	sealSegDur    float64
	sealAlgo      string
	sealOut       string
	sealMeta      []string
)

// sealCmd represents the seal command
var sealCmd = &cobra.Command{
	Use:   "seal <file>",
	Short: "Seal a content file into a tamper-evident manifest",
	Long: `Seal splits the file into ordered, time-bounded byte ranges, hashes
every range and folds the hashes into a Merkle root. The resulting manifest
is the baseline later verifications compare against.

Example:
  sigil seal clip.mp4 --duration 60
  sigil seal clip.mp4 --duration 60 --segment-duration 5 --out clip.manifest.json
  sigil seal clip.mp4 --duration 60 --algo blake3 --meta camera=17 --meta site=lobby`,
	Args: cobra.ExactArgs(1),
	RunE: runSeal,
}

func init() {
	rootCmd.AddCommand(sealCmd)

	sealCmd.Flags().StringVar(&sealContentID, "content-id", "", "content identifier (default: file name)")
	sealCmd.Flags().Float64Var(&sealDuration, "duration", 0, "total content duration in seconds (required)")
	sealCmd.Flags().Float64Var(&sealSegDur, "segment-duration", 0, "segment duration in seconds (default from config)")
	sealCmd.Flags().StringVar(&sealAlgo, "algo", "", "digest algorithm: sha256 or blake3 (default from config)")
	sealCmd.Flags().StringVar(&sealOut, "out", "", "manifest output path (default: <file>.manifest.json)")
	sealCmd.Flags().StringArrayVar(&sealMeta, "meta", nil, "source metadata as key=value (repeatable)")
	_ = sealCmd.MarkFlagRequired("duration")
}

func runSeal(cmd *cobra.Command, args []string) error {
	path := args[0]
	cfg := loadConfig()

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read content: %w", err)
	}

	contentID := sealContentID
	if contentID == "" {
		contentID = filepath.Base(path)
	}
	segDur := sealSegDur
	if segDur <= 0 {
		segDur = cfg.Segmentation.SegmentSeconds
	}
	algo := sealAlgo
	if algo == "" {
		algo = cfg.Digest.Algorithm
	}

	meta, err := parseMeta(sealMeta)
	if err != nil {
		return err
	}

	sealer, err := newSealer(cfg, algo)
	if err != nil {
		return err
	}

	manifest, err := sealer.Seal(contentID, content, sealDuration, segDur, meta)
	if err != nil {
		return fmt.Errorf("seal failed: %w", err)
	}

	out := sealOut
	if out == "" {
		out = path + ".manifest.json"
	}
	if err := writeJSON(out, integrity.ExportManifest(manifest)); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "✓ Sealed %d segments (%s)\n", manifest.SegmentCount, manifest.Algorithm)
		fmt.Fprintf(os.Stderr, "✓ Merkle root: %s\n", manifest.MerkleRoot)
	}
	fmt.Printf("✓ Wrote manifest: %s\n", out)

	return nil
}

func newSealer(cfg *model.Config, algo string) (*integrity.Sealer, error) {
	hasher, err := digest.New(digest.Algorithm(algo))
	if err != nil {
		return nil, err
	}
	return integrity.NewSealer(segment.NewHasher(hasher, cfg.Segmentation.UnitSizeBytes)), nil
}

func parseMeta(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	meta := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := splitPair(pair)
		if !ok {
			return nil, fmt.Errorf("invalid --meta %q, expected key=value", pair)
		}
		meta[k] = v
	}
	return meta, nil
}

func splitPair(s string) (string, string, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == '=' {
			return s[:i], s[i+1:], i > 0
		}
	}
	return "", "", false
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

func readManifest(path string) (*model.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var export integrity.ManifestExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &export.Manifest, nil
}

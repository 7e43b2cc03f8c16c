package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/okulov/sigil/internal/analysis"
	"github.com/okulov/sigil/internal/model"
	"github.com/okulov/sigil/internal/provider"
	"github.com/okulov/sigil/internal/util"
	"github.com/okulov/sigil/internal/worker"
)

var (
	analyzeEvidenceID string
	analyzeProviders  []string
	analyzeTimeout    time.Duration
	analyzeOut        string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Run anomaly-detection providers against an evidence file",
	Long: `Analyze fans the evidence out to every configured provider concurrently
and waits for all of them to settle. A failing provider is recorded and
excluded from the verdict; it never aborts the run. The aggregate verdict is
confidence-weighted across the providers that answered.

Example:
  sigil analyze clip.mp4
  sigil analyze clip.mp4 --providers mock,remote
  sigil analyze clip.mp4 --providers openai --provider-timeout 45s`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeEvidenceID, "evidence-id", "", "evidence identifier (default: file name)")
	analyzeCmd.Flags().StringSliceVar(&analyzeProviders, "providers", nil, "providers to run (default from config)")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "provider-timeout", 0, "per-provider timeout (default from config)")
	analyzeCmd.Flags().StringVar(&analyzeOut, "out", "", "write analysis record JSON to this path (default: stdout)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]
	cfg := loadConfig()

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read evidence: %w", err)
	}

	names := analyzeProviders
	if len(names) == 0 {
		names = cfg.Analysis.Providers
	}
	registry, err := buildRegistry(cfg, names)
	if err != nil {
		return err
	}

	timeout := analyzeTimeout
	if timeout <= 0 {
		timeout = cfg.Analysis.ProviderTimeout
	}

	logger := zap.NewNop()
	if cfg.Output.Verbose {
		if l, err := zap.NewDevelopment(); err == nil {
			logger = l
			defer func() { _ = logger.Sync() }()
		}
	}

	orch := analysis.NewOrchestrator(
		registry,
		analysis.NewStore(cfg.Analysis.RecordTTL),
		util.NewUUIDGenerator(),
		worker.NewLimiter(cfg.Analysis.RatePerSecond, cfg.Analysis.RateBurst),
		timeout,
		logger,
	)

	evidenceID := analyzeEvidenceID
	if evidenceID == "" {
		evidenceID = filepath.Base(path)
	}
	meta := model.EvidenceMeta{
		ContentID: evidenceID,
		Filename:  filepath.Base(path),
		MimeType:  mime.TypeByExtension(filepath.Ext(path)),
		SizeBytes: int64(len(content)),
	}

	record, err := orch.AnalyzeEvidence(context.Background(), evidenceID, content, meta)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "✓ %d providers settled\n", len(record.Results))
		fmt.Fprintf(os.Stderr, "✓ Risk: %d/100 (%s)\n", record.OverallRisk.Score, record.OverallRisk.Level)
	}

	if analyzeOut != "" {
		if err := writeJSON(analyzeOut, record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
		fmt.Printf("✓ Wrote analysis: %s\n", analyzeOut)
		return nil
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func buildRegistry(cfg *model.Config, names []string) (*provider.Registry, error) {
	registry := provider.NewRegistry()
	for _, name := range names {
		p, err := provider.New(providerConfig(cfg, strings.TrimSpace(name)))
		if err != nil {
			return nil, fmt.Errorf("provider %s: %w", name, err)
		}
		registry.Register(p)
	}
	return registry, nil
}

func providerConfig(cfg *model.Config, name string) provider.Config {
	pc := provider.Config{Provider: name}
	switch name {
	case "openai":
		pc.APIKey = cfg.Providers.OpenAI.APIKey
		pc.Model = cfg.Providers.OpenAI.Model
		pc.BaseURL = cfg.Providers.OpenAI.BaseURL
		pc.MaxTokens = cfg.Providers.OpenAI.MaxTokens
	case "remote":
		pc.BaseURL = cfg.Providers.Remote.BaseURL
		pc.Timeout = cfg.Providers.Remote.TimeoutSeconds
	}
	return pc
}

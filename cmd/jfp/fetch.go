package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/matsen/journalfp/internal/abstracts"
	"github.com/matsen/journalfp/internal/config"
	"github.com/matsen/journalfp/internal/fingerprint"
	"github.com/matsen/journalfp/internal/lemma"
	"github.com/matsen/journalfp/internal/pipeline"
	"github.com/spf13/cobra"
)

var noProgress bool

func init() {
	// Load .env file if present (for JFP_API_KEY)
	_ = godotenv.Load()

	fetchCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Suppress progress output")
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fingerprint every journal in the records directory",
	Long: `Fingerprint every journal in the configured records directory.

Each journal's sampled abstracts are aggregated and sent to the fingerprint
service, and the resulting record is appended to journals.jsonl. Journals
already present in journals.jsonl are skipped, so an interrupted run can be
restarted without re-querying the service.

Environment Variables:
  JFP_API_KEY  Fingerprint service API key`,
	RunE: runFetch,
}

// FailedJournal is one journal whose service calls failed during a run.
type FailedJournal struct {
	Journal string `json:"journal"`
	Error   string `json:"error"`
}

// FetchResult is the response for the fetch command.
type FetchResult struct {
	Status          string          `json:"status"`
	Processed       int             `json:"processed"`
	Resumed         int             `json:"resumed"`
	Degenerate      int             `json:"degenerate"`
	Failed          []FailedJournal `json:"failed,omitempty"`
	DurationSeconds float64         `json:"duration_seconds"`
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)

	if cfg.RecordsDir == "" {
		exitWithError(ExitConfigError, "records-dir is not configured\n\nRun 'jfp config records-dir /path/to/abstracts' first.")
	}
	if err := config.ValidateRecordsDir(cfg.RecordsDir); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	service := newServiceClient(cfg)
	normalizer := mustLoadNormalizer(cfg)

	source := abstracts.NewSource(config.ExpandPath(cfg.RecordsDir))
	runner := pipeline.NewRunner(source, service, normalizer, config.JournalsPath(repoRoot))

	if humanOutput && !noProgress {
		runner.SetProgressReporter(pipeline.ProgressFunc(printProgress))
		fmt.Fprintf(os.Stderr, "Fingerprinting journals...\n")
	}

	stats, err := runner.Run(ctx)
	if err != nil {
		exitWithError(ExitError, "fetching fingerprints: %v", err)
	}

	// Clear progress line if we were showing progress
	if humanOutput && !noProgress {
		fmt.Fprintf(os.Stderr, "\r%s\r", "                                                  ")
	}

	// A run where every attempted journal failed on credentials is a
	// service error, not a partial success.
	if stats.Processed == 0 && len(stats.Failed) > 0 && allAuthFailures(stats.Failed) {
		exitWithError(ExitServiceError, "fingerprint service rejected the API key\n\nSet JFP_API_KEY or add api_key to %s.", config.GlobalConfigPath())
	}

	// Keep the query cache in sync with the freshly appended records.
	if err := rebuildCache(repoRoot); err != nil {
		exitWithError(ExitError, "rebuilding cache: %v", err)
	}

	failed := make([]FailedJournal, 0, len(stats.Failed))
	for _, f := range stats.Failed {
		failed = append(failed, FailedJournal{Journal: f.Journal, Error: f.Err.Error()})
	}

	status := "complete"
	if len(failed) > 0 {
		status = "partial"
	}

	if humanOutput {
		fmt.Printf("\nFetch complete:\n")
		fmt.Printf("  Journals fingerprinted: %d\n", stats.Processed)
		fmt.Printf("  Already persisted: %d\n", stats.Resumed)
		fmt.Printf("  Without usable abstracts: %d\n", stats.Degenerate)
		fmt.Printf("  Failed: %d\n", len(failed))
		fmt.Printf("  Time elapsed: %s\n", formatDuration(stats.Duration))
		for _, f := range failed {
			fmt.Printf("  failed %s: %s\n", f.Journal, f.Error)
		}
	} else {
		outputJSON(FetchResult{
			Status:          status,
			Processed:       stats.Processed,
			Resumed:         stats.Resumed,
			Degenerate:      stats.Degenerate,
			Failed:          failed,
			DurationSeconds: stats.Duration.Seconds(),
		})
	}

	if len(failed) > 0 {
		os.Exit(ExitServiceError)
	}
	return nil
}

// newServiceClient builds the fingerprint client from repository config,
// falling back to global config for the service URL and API key.
func newServiceClient(cfg *config.Config) *fingerprint.Client {
	var opts []fingerprint.ClientOption

	serviceURL := cfg.ServiceURL
	if serviceURL == "" {
		serviceURL = config.GetServiceURL()
	}
	if serviceURL != "" {
		opts = append(opts, fingerprint.WithBaseURL(serviceURL))
	}

	if cfg.RatePerSecond > 0 {
		opts = append(opts, fingerprint.WithRateLimit(cfg.RatePerSecond))
	}

	if os.Getenv("JFP_API_KEY") == "" {
		if key := config.GetAPIKey(); key != "" {
			opts = append(opts, fingerprint.WithAPIKey(key))
		}
	}

	return fingerprint.NewClient(opts...)
}

// mustLoadNormalizer loads the configured lemma dictionary, exits on error.
// Without a dictionary every term is its own lemma.
func mustLoadNormalizer(cfg *config.Config) *lemma.Normalizer {
	if cfg.LemmaDict == "" {
		return lemma.NewNormalizer(lemma.NewDictionary(nil))
	}

	dict, err := lemma.LoadDictionary(cfg.LemmaDict)
	if err != nil {
		exitWithError(ExitDataError, "loading lemma dictionary: %v", err)
	}
	return lemma.NewNormalizer(dict)
}

// allAuthFailures reports whether every failure is an authentication error.
func allAuthFailures(failed []pipeline.Failure) bool {
	for _, f := range failed {
		if !fingerprint.IsAuthError(f.Err) {
			return false
		}
	}
	return true
}

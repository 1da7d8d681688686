// Package main provides the jfp CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/matsen/journalfp/internal/config"
	"github.com/matsen/journalfp/internal/store"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "jfp",
	Short: "Journal fingerprinting and comparison",
	Long: `jfp builds semantic fingerprints for scholarly journals from sampled
article abstracts and compares journals pairwise.

Journal records are stored in git-versionable JSONL format with an ephemeral
SQLite database for fast queries. All commands output JSON by default for
easy integration with other tools.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

// getRepoRoot returns the starting directory for repository discovery, or
// exits with an error if it cannot be determined.
func getRepoRoot() (string, int) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", outputError(ExitError, "getting current directory: %v", err)
	}

	// Check JFP_ROOT environment variable first
	if root := os.Getenv("JFP_ROOT"); root != "" {
		cwd = root
	}

	return cwd, 0
}

// mustFindRepository locates the enclosing repository, exits on error.
func mustFindRepository() string {
	start, exitCode := getRepoRoot()
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	repoRoot, err := config.FindRepository(start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n\nRun 'jfp init' to create one.\n", err)
		os.Exit(ExitConfigError)
	}
	return repoRoot
}

// mustOpenDatabase opens the SQLite cache database, exits on error.
func mustOpenDatabase(repoRoot string) *store.DB {
	dbPath := config.DBPath(repoRoot)
	db, err := store.OpenDB(dbPath)
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	return db
}

// mustLoadConfig loads repository configuration, exits on error.
func mustLoadConfig(repoRoot string) *config.Config {
	cfg, err := config.Load(repoRoot)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

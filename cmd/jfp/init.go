package main

import (
	"fmt"
	"os"

	"github.com/matsen/journalfp/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new journalfp repository",
	Long: `Initialize a new journalfp repository in the current directory.

Creates:
  .journalfp/
  ├── journals.jsonl  # Empty file
  ├── config.json     # Default config
  └── cache/          # Empty directory (gitignored)`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root, exitCode := getRepoRoot()
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	// Check if already initialized
	if config.IsRepository(root) {
		exitWithError(ExitError, "directory already contains a journalfp repository")
	}

	// Create directory structure
	jfpDir := config.JournalfpPath(root)
	if err := os.MkdirAll(jfpDir, 0755); err != nil {
		exitWithError(ExitError, "creating .journalfp directory: %v", err)
	}

	cacheDir := config.CachePath(root)
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}

	// Create empty journals.jsonl
	journalsPath := config.JournalsPath(root)
	journalsFile, err := os.Create(journalsPath)
	if err != nil {
		exitWithError(ExitError, "creating journals.jsonl: %v", err)
	}
	journalsFile.Close()

	// Create default config
	cfg := &config.Config{}
	if err := cfg.Save(root); err != nil {
		exitWithError(ExitError, "creating config.json: %v", err)
	}

	// Output success
	if humanOutput {
		fmt.Printf("Initialized journalfp repository in %s\n", root)
	} else {
		outputJSON(StatusResponse{
			Status: "initialized",
			Path:   root,
		})
	}

	return nil
}

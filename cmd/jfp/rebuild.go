package main

import (
	"fmt"
	"os"

	"github.com/matsen/journalfp/internal/config"
	"github.com/matsen/journalfp/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the query layer from source data",
	Long: `Rebuild the SQLite query database from the JSONL source file.

Use this after pulling changes from git or if the database becomes corrupted.`,
	RunE: runRebuild,
}

// RebuildResult is the response for the rebuild command.
type RebuildResult struct {
	Status   string `json:"status"`
	Journals int    `json:"journals"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()

	count, err := rebuildCacheCount(repoRoot)
	if err != nil {
		exitWithError(ExitDataError, "rebuilding database: %v", err)
	}

	if humanOutput {
		fmt.Printf("Rebuilt query database with %d journals\n", count)
	} else {
		outputJSON(RebuildResult{
			Status:   "rebuilt",
			Journals: count,
		})
	}

	return nil
}

// rebuildCache rebuilds the SQLite cache from journals.jsonl.
func rebuildCache(repoRoot string) error {
	_, err := rebuildCacheCount(repoRoot)
	return err
}

func rebuildCacheCount(repoRoot string) (int, error) {
	if err := os.MkdirAll(config.CachePath(repoRoot), 0755); err != nil {
		return 0, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := store.OpenDB(config.DBPath(repoRoot))
	if err != nil {
		return 0, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	return db.RebuildFromJSONL(config.JournalsPath(repoRoot))
}

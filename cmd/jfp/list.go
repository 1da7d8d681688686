package main

import (
	"fmt"
	"strings"

	"github.com/matsen/journalfp/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all fingerprinted journals",
	Long: `List all journal records in the repository.

Examples:
  jfp list
  jfp list --human`,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	records, err := db.All()
	if err != nil {
		exitWithError(ExitError, "listing journals: %v", err)
	}

	if humanOutput {
		if len(records) == 0 {
			fmt.Println("No journals in repository")
			return nil
		}
		fmt.Printf("%d journals in repository:\n\n", len(records))
		for _, rec := range records {
			name := truncateString(rec.Journal, ListJournalMaxLen)
			if !rec.HasFingerprint() {
				fmt.Printf("  %-40s (no usable abstracts)\n", name)
				continue
			}
			fmt.Printf("  %-40s %d abstracts, median %d\n", name, rec.AbstractCount, rec.MedianYear)
			if len(rec.Similar) > 0 {
				terms := rec.Similar
				if len(terms) > ListTermsShown {
					terms = terms[:ListTermsShown]
				}
				fmt.Printf("  %-40s %s\n", "", strings.Join(terms, ", "))
			}
		}
	} else {
		if records == nil {
			records = []store.JournalRecord{}
		}
		outputJSON(records)
	}

	return nil
}

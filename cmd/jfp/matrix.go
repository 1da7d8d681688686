package main

import (
	"fmt"
	"os"

	"github.com/matsen/journalfp/internal/config"
	"github.com/matsen/journalfp/internal/matrix"
	"github.com/matsen/journalfp/internal/store"
	"github.com/matsen/journalfp/internal/viz"
	"github.com/spf13/cobra"
)

var (
	matrixHTMLPath     string
	matrixMinAbstracts int
)

func init() {
	matrixCmd.Flags().StringVar(&matrixHTMLPath, "html", "", "Write an HTML heatmap to the given file")
	matrixCmd.Flags().IntVar(&matrixMinAbstracts, "min-abstracts", 0, "Exclude journals with fewer sampled abstracts")
	rootCmd.AddCommand(matrixCmd)
}

var matrixCmd = &cobra.Command{
	Use:   "matrix",
	Short: "Compare all fingerprinted journals pairwise",
	Long: `Compute the pairwise Jaccard distance matrix over all fingerprinted
journals and emit the full grid of visualization records.

Journals without a fingerprint (no usable abstracts) are excluded. Distances
are computed once per unordered pair; the lower triangle mirrors the upper.

Examples:
  jfp matrix
  jfp matrix --html matrix.html
  jfp matrix --min-abstracts 50`,
	RunE: runMatrix,
}

func runMatrix(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()

	records, err := store.ReadAll(config.JournalsPath(repoRoot))
	if err != nil {
		exitWithError(ExitDataError, "reading journal records: %v", err)
	}

	fingerprints := make(map[string][]int)
	terms := make(map[string][]string)
	for _, rec := range records {
		if !rec.HasFingerprint() || rec.AbstractCount < matrixMinAbstracts {
			continue
		}
		fingerprints[rec.Journal] = rec.Fingerprint
		terms[rec.Journal] = rec.Similar
	}

	m := matrix.Build(fingerprints)
	data := viz.Assemble(m, terms)

	if matrixHTMLPath != "" {
		html, err := viz.GenerateHTML(data)
		if err != nil {
			exitWithError(ExitError, "generating HTML: %v", err)
		}
		if err := os.WriteFile(matrixHTMLPath, []byte(html), 0644); err != nil {
			exitWithError(ExitError, "writing %s: %v", matrixHTMLPath, err)
		}
		if humanOutput {
			fmt.Printf("Wrote %dx%d matrix to %s\n", m.Size(), m.Size(), matrixHTMLPath)
		} else {
			outputJSON(StatusResponse{Status: "written", Path: matrixHTMLPath})
		}
		return nil
	}

	if humanOutput {
		printMatrixHuman(m)
	} else {
		outputJSON(data)
	}

	return nil
}

// printMatrixHuman prints the unordered journal pairs with their distances.
func printMatrixHuman(m *matrix.Matrix) {
	journals := m.Journals()
	if len(journals) == 0 {
		fmt.Println("No fingerprinted journals to compare")
		return
	}

	fmt.Printf("%d journals, %d pairs:\n\n", len(journals), len(journals)*(len(journals)-1)/2)
	for i := 0; i < len(journals); i++ {
		for j := i + 1; j < len(journals); j++ {
			d := m.Distance(i, j)
			fmt.Printf("  %.3f  %s / %s\n", d, journals[i], journals[j])
		}
	}
}

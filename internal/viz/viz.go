// Package viz assembles similarity-matrix visualization records.
//
// The assembler expands the upper-triangular distance matrix into the full
// N×N grid the rendering side consumes. The mirroring is purely
// presentational: lower-triangle cells never recompute a distance, they
// reflect the corresponding upper cell.
package viz

import (
	"github.com/matsen/journalfp/internal/matrix"
)

// Cell categories. Upper cells carry the similarity intensity; diagonal
// cells surface a journal's own term set on hover; lower cells mirror the
// upper triangle.
const (
	CategoryUpper    = "upper"
	CategoryDiagonal = "diagonal"
	CategoryLower    = "lower"
)

// Record is one cell of the rendered similarity matrix.
type Record struct {
	Row        int     `json:"row"`
	Col        int     `json:"col"`
	RowJournal string  `json:"row_journal"`
	ColJournal string  `json:"col_journal"`
	Distance   float64 `json:"distance"`
	Category   string  `json:"category"`

	// Alpha is the normalized color intensity in [0, 1]. More similar
	// pairs get higher intensity (1 − normalized distance). Only
	// meaningful for upper cells; diagonal and lower cells are fixed at 1.
	Alpha float64 `json:"alpha"`

	// SharedTerms is the intersection of the two journals' reduced term
	// sets, sorted.
	SharedTerms []string `json:"shared_terms"`
}

// MatrixData contains everything the rendering side needs: the ordered
// journal axis labels and one record per ordered (row, col) pair.
type MatrixData struct {
	Journals []string `json:"journals"`
	Records  []Record `json:"records"`
}

// IsEmpty returns true if the matrix has no journals.
func (d *MatrixData) IsEmpty() bool {
	return len(d.Journals) == 0
}

// Assemble joins the distance matrix with per-journal reduced term sets
// into the full visualization grid. terms maps canonical journal name to
// its sorted reduced term set; journals without an entry get empty shared
// terms. The assembler only recombines validated upstream data and has no
// failure modes of its own.
func Assemble(m *matrix.Matrix, terms map[string][]string) *MatrixData {
	journals := m.Journals()
	records := make([]Record, 0, len(journals)*len(journals))

	for i, rowJournal := range journals {
		for j, colJournal := range journals {
			rec := Record{
				Row:         i,
				Col:         j,
				RowJournal:  rowJournal,
				ColJournal:  colJournal,
				SharedTerms: intersectTerms(terms[rowJournal], terms[colJournal]),
			}

			switch {
			case i == j:
				rec.Category = CategoryDiagonal
				rec.Distance = m.Distance(i, j)
				rec.Alpha = 1
			case j > i:
				rec.Category = CategoryUpper
				rec.Distance = m.Distance(i, j)
				rec.Alpha = 1 - m.Normalized(rec.Distance)
			default:
				// Mirrored from the upper cell, never recomputed.
				rec.Category = CategoryLower
				rec.Distance = m.Distance(j, i)
				rec.Alpha = 1
			}

			records = append(records, rec)
		}
	}

	return &MatrixData{
		Journals: journals,
		Records:  records,
	}
}

// intersectTerms returns the common elements of two sorted term sets.
func intersectTerms(a, b []string) []string {
	shared := []string{}
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			shared = append(shared, a[i])
			i++
			j++
		}
	}
	return shared
}

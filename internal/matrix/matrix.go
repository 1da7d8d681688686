// Package matrix computes pairwise Jaccard distances between journal
// fingerprints.
//
// Fingerprints are canonical position sets (sorted, deduplicated int
// slices). Only the upper triangle of the distance matrix is computed:
// Jaccard distance is symmetric, so the lower triangle is redundant and
// skipping it halves the O(N²) pairwise work.
package matrix

import (
	"fmt"
	"sort"
)

// JaccardDistance returns 1 − |A∩B| / |A∪B| for two canonical position
// sets. The union size is derived as |A| + |B| − |A∩B| rather than
// materializing the union. Two empty sets are identical, distance 0.
func JaccardDistance(a, b []int) float64 {
	inter := intersectionSize(a, b)
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return 1 - float64(inter)/float64(union)
}

// intersectionSize counts common elements of two sorted int slices.
func intersectionSize(a, b []int) int {
	count := 0
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			count++
			i++
			j++
		}
	}
	return count
}

// Matrix holds the upper-triangular distance matrix over a fixed sorted
// journal ordering. Cell (i, j) is stored only for j ≥ i.
type Matrix struct {
	journals []string
	rows     [][]float64 // rows[i][j-i] holds the distance for cell (i, j)
	maxDist  float64
}

// Build computes the distance matrix for the given journal fingerprints.
// The matrix ordering is the sorted journal names; the diagonal is computed
// like any other cell and naturally evaluates to 0.
func Build(fingerprints map[string][]int) *Matrix {
	journals := make([]string, 0, len(fingerprints))
	for journal := range fingerprints {
		journals = append(journals, journal)
	}
	sort.Strings(journals)

	m := &Matrix{
		journals: journals,
		rows:     make([][]float64, len(journals)),
	}

	for i, rowJournal := range journals {
		m.rows[i] = make([]float64, len(journals)-i)
		for j := i; j < len(journals); j++ {
			d := JaccardDistance(fingerprints[rowJournal], fingerprints[journals[j]])
			m.rows[i][j-i] = d
			if d > m.maxDist {
				m.maxDist = d
			}
		}
	}

	return m
}

// Journals returns the fixed matrix ordering.
func (m *Matrix) Journals() []string {
	return m.journals
}

// Size returns the number of journals on each axis.
func (m *Matrix) Size() int {
	return len(m.journals)
}

// Distance returns the distance for cell (i, j). Only the upper triangle is
// stored; callers needing the mirrored value must ask for (j, i) themselves.
func (m *Matrix) Distance(i, j int) float64 {
	if j < i {
		panic(fmt.Sprintf("matrix: lower-triangle cell (%d, %d) is never computed", i, j))
	}
	return m.rows[i][j-i]
}

// MaxDistance returns the maximum computed distance.
func (m *Matrix) MaxDistance() float64 {
	return m.maxDist
}

// Normalized scales a distance by the maximum computed distance, yielding a
// color intensity in [0, 1] independent of the matrix's absolute range.
// A matrix of identical fingerprints (max 0) normalizes everything to 0.
func (m *Matrix) Normalized(d float64) float64 {
	if m.maxDist == 0 {
		return 0
	}
	return d / m.maxDist
}

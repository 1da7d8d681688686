// Package abstracts loads per-journal abstract records and reduces them
// to bounded, aggregated samples for fingerprinting.
package abstracts

import (
	"sort"
	"strings"
)

const (
	// MaxSampleSize is the maximum number of abstracts sampled per journal.
	// Rationale: the fingerprinting service accepts bounded input, and a few
	// hundred abstracts is enough to characterize a journal's subject matter.
	MaxSampleSize = 200

	// MedianYearUnknown marks a sample whose publication years are all absent.
	MedianYearUnknown = 0

	// journalSuffixToken is the PubMed-style field tag carried by raw journal
	// identifiers (e.g. "Genome Biol [jour]"). Canonical names strip it.
	journalSuffixToken = "[jour]"
)

// Record is one publication's abstract data as loaded from the source.
// A Record is immutable once loaded.
type Record struct {
	ArticleID string `json:"article_id"`
	Abstract  string `json:"abstract"`
	Year      int    `json:"year,omitempty"` // 0 means absent
}

// Sample is the bounded per-journal aggregate derived from its records.
type Sample struct {
	Journal        string `json:"journal"`     // canonical name
	SampleSize     int    `json:"sample_size"` // min(MaxSampleSize, non-empty abstracts)
	MedianYear     int    `json:"median_year"` // MedianYearUnknown if no year available
	AggregatedText string `json:"-"`
}

// CanonicalName strips the journal suffix token and surrounding whitespace
// from a raw journal identifier.
func CanonicalName(raw string) string {
	name := strings.TrimSpace(raw)
	name = strings.TrimSuffix(name, journalSuffixToken)
	return strings.TrimSpace(name)
}

// Aggregate filters out records with empty abstracts, samples the first
// MaxSampleSize of the remainder in original order, and joins their texts
// with single spaces. The median year is computed over the same sampled
// subset; records without a year are excluded from the median, and a sample
// with no usable years gets MedianYearUnknown.
//
// A journal with zero usable abstracts produces a degenerate but valid
// Sample (SampleSize 0, empty text), never an error.
func Aggregate(journal string, records []Record) Sample {
	sampled := make([]Record, 0, MaxSampleSize)
	for _, r := range records {
		if r.Abstract == "" {
			continue
		}
		sampled = append(sampled, r)
		if len(sampled) == MaxSampleSize {
			break
		}
	}

	texts := make([]string, len(sampled))
	for i, r := range sampled {
		texts[i] = r.Abstract
	}

	return Sample{
		Journal:        CanonicalName(journal),
		SampleSize:     len(sampled),
		MedianYear:     medianYear(sampled),
		AggregatedText: strings.Join(texts, " "),
	}
}

// medianYear returns the median publication year of the sampled records,
// ignoring absent years. For an even count the two middle values are
// averaged with integer division.
func medianYear(sampled []Record) int {
	var years []int
	for _, r := range sampled {
		if r.Year != 0 {
			years = append(years, r.Year)
		}
	}
	if len(years) == 0 {
		return MedianYearUnknown
	}

	sort.Ints(years)
	mid := len(years) / 2
	if len(years)%2 == 1 {
		return years[mid]
	}
	return (years[mid-1] + years[mid]) / 2
}

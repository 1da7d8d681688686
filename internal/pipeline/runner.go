// Package pipeline drives the fingerprint-acquisition phase: aggregate each
// journal's abstracts, query the fingerprinting service, normalize the
// related terms, and persist one record per journal.
//
// Execution is strictly sequential: one journal is processed fully before
// the next begins. Rate discipline toward the external service lives in the
// service client, not here.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matsen/journalfp/internal/abstracts"
	"github.com/matsen/journalfp/internal/lemma"
	"github.com/matsen/journalfp/internal/store"
)

// Service is the external fingerprinting collaborator. Both operations are
// synchronous and must fail with a distinguishable error rather than an
// empty success.
type Service interface {
	Fingerprint(ctx context.Context, text string) ([]int, error)
	SimilarTerms(ctx context.Context, text string) ([]string, error)
}

// ProgressReporter receives progress updates during a run.
type ProgressReporter interface {
	// OnProgress is called with the current progress.
	OnProgress(current, total int)
}

// ProgressFunc is a function adapter for ProgressReporter.
type ProgressFunc func(current, total int)

// OnProgress implements ProgressReporter.
func (f ProgressFunc) OnProgress(current, total int) {
	f(current, total)
}

// Failure records a journal whose service calls failed. The journal is
// excluded from the persisted store, never defaulted to an empty
// fingerprint, so a failed run reports exactly which journals are missing.
type Failure struct {
	Journal string `json:"journal"`
	Err     error  `json:"-"`
}

// RunStats summarizes an acquisition run.
type RunStats struct {
	Processed  int           `json:"processed"`  // journals fingerprinted and persisted
	Resumed    int           `json:"resumed"`    // journals already persisted, skipped
	Degenerate int           `json:"degenerate"` // journals with zero usable abstracts
	Failed     []Failure     `json:"failed,omitempty"`
	Duration   time.Duration `json:"-"`
}

// Runner executes the acquisition phase.
type Runner struct {
	source       *abstracts.Source
	service      Service
	normalizer   *lemma.Normalizer
	journalsPath string
	progress     ProgressReporter
}

// NewRunner creates a Runner that appends journal records to the JSONL file
// at journalsPath.
func NewRunner(source *abstracts.Source, service Service, normalizer *lemma.Normalizer, journalsPath string) *Runner {
	return &Runner{
		source:       source,
		service:      service,
		normalizer:   normalizer,
		journalsPath: journalsPath,
	}
}

// SetProgressReporter sets the progress reporter for the runner.
func (r *Runner) SetProgressReporter(reporter ProgressReporter) {
	r.progress = reporter
}

// Run processes every journal in the source. Journals already persisted are
// skipped, which makes an interrupted run resumable without re-querying the
// service. Service failures are collected per journal and the run continues;
// only I/O errors on the local store abort it.
func (r *Runner) Run(ctx context.Context) (*RunStats, error) {
	startTime := time.Now()
	stats := &RunStats{}

	journals, err := r.source.Journals()
	if err != nil {
		return nil, fmt.Errorf("listing journals: %w", err)
	}

	existing, err := store.ReadAll(r.journalsPath)
	if err != nil {
		return nil, fmt.Errorf("reading persisted journals: %w", err)
	}
	persisted := make(map[string]bool, len(existing))
	for _, rec := range existing {
		persisted[rec.Journal] = true
	}

	total := len(journals)
	for i, journal := range journals {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if r.progress != nil {
			r.progress.OnProgress(i+1, total)
		}

		name := abstracts.CanonicalName(journal)
		if persisted[name] {
			stats.Resumed++
			continue
		}

		rec, degenerate, err := r.processJournal(ctx, journal)
		if err != nil {
			stats.Failed = append(stats.Failed, Failure{Journal: name, Err: err})
			continue
		}

		if err := store.Append(r.journalsPath, rec); err != nil {
			return nil, fmt.Errorf("persisting %s: %w", name, err)
		}

		if degenerate {
			stats.Degenerate++
		} else {
			stats.Processed++
		}
	}

	stats.Duration = time.Since(startTime)
	return stats, nil
}

// processJournal aggregates one journal and queries the service for it.
// A journal with zero usable abstracts persists a degenerate record without
// any service call.
func (r *Runner) processJournal(ctx context.Context, journal string) (store.JournalRecord, bool, error) {
	records, err := r.source.Load(journal)
	if err != nil {
		return store.JournalRecord{}, false, fmt.Errorf("loading abstracts: %w", err)
	}

	sample := abstracts.Aggregate(journal, records)

	rec := store.JournalRecord{
		Journal:       sample.Journal,
		AbstractCount: sample.SampleSize,
		MedianYear:    sample.MedianYear,
	}

	if sample.SampleSize == 0 {
		return rec, true, nil
	}

	fingerprint, err := r.service.Fingerprint(ctx, sample.AggregatedText)
	if err != nil {
		return store.JournalRecord{}, false, fmt.Errorf("fingerprint call: %w", err)
	}

	terms, err := r.service.SimilarTerms(ctx, sample.AggregatedText)
	if err != nil {
		return store.JournalRecord{}, false, fmt.Errorf("similar-terms call: %w", err)
	}

	rec.Fingerprint = fingerprint
	rec.Similar = r.normalizer.Reduce(terms)
	return rec, false, nil
}

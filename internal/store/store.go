// Package store handles persistence of per-journal fingerprint records in
// JSONL and SQLite formats.
//
// The JSONL file is the git-versionable source of truth, written
// incrementally so an interrupted acquisition run can resume without
// re-querying the fingerprint service. The SQLite database is an ephemeral
// query cache rebuilt from the JSONL file.
package store

// JournalRecord is the persisted state for one journal: everything needed
// to rebuild the similarity matrix without another service call.
type JournalRecord struct {
	Journal       string   `json:"journal"`
	Fingerprint   []int    `json:"fingerprint"`
	Similar       []string `json:"similar"`
	AbstractCount int      `json:"abstract_count"`
	MedianYear    int      `json:"median_year"` // 0 when unknown
}

// HasFingerprint reports whether the record carries a non-empty fingerprint.
// Degenerate records (journals with zero usable abstracts) do not, and are
// excluded from the similarity matrix.
func (r JournalRecord) HasFingerprint() bool {
	return len(r.Fingerprint) > 0
}

// FindByJournal searches records by canonical journal name.
func FindByJournal(records []JournalRecord, journal string) (int, bool) {
	for i, r := range records {
		if r.Journal == journal {
			return i, true
		}
	}
	return -1, false
}

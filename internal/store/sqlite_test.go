package store

import (
	"path/filepath"
	"reflect"
	"testing"
)

func newTestDB(t *testing.T) (*DB, string) {
	t.Helper()
	dir := t.TempDir()

	jsonlPath := filepath.Join(dir, "journals.jsonl")
	if err := WriteAll(jsonlPath, sampleRecords()); err != nil {
		t.Fatalf("writing JSONL: %v", err)
	}

	db, err := OpenDB(filepath.Join(dir, "journals.db"))
	if err != nil {
		t.Fatalf("OpenDB() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db, jsonlPath
}

func TestDB_RebuildFromJSONL(t *testing.T) {
	db, jsonlPath := newTestDB(t)

	count, err := db.RebuildFromJSONL(jsonlPath)
	if err != nil {
		t.Fatalf("RebuildFromJSONL() error: %v", err)
	}
	if count != 3 {
		t.Errorf("RebuildFromJSONL() = %d, want 3", count)
	}

	// Rebuilding again must not duplicate rows.
	if _, err := db.RebuildFromJSONL(jsonlPath); err != nil {
		t.Fatalf("second RebuildFromJSONL() error: %v", err)
	}
	dbCount, err := db.Count()
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if dbCount != 3 {
		t.Errorf("Count() = %d after double rebuild, want 3", dbCount)
	}
}

func TestDB_GetByJournal(t *testing.T) {
	db, jsonlPath := newTestDB(t)
	if _, err := db.RebuildFromJSONL(jsonlPath); err != nil {
		t.Fatalf("RebuildFromJSONL() error: %v", err)
	}

	rec, err := db.GetByJournal("Genome Biol")
	if err != nil {
		t.Fatalf("GetByJournal() error: %v", err)
	}
	if rec == nil {
		t.Fatal("GetByJournal() = nil, want record")
	}
	if !reflect.DeepEqual(rec.Fingerprint, []int{1, 7, 42}) {
		t.Errorf("Fingerprint = %v, want [1 7 42]", rec.Fingerprint)
	}
	if rec.MedianYear != 2018 || rec.AbstractCount != 200 {
		t.Errorf("record = %+v", rec)
	}

	missing, err := db.GetByJournal("No Such J")
	if err != nil {
		t.Fatalf("GetByJournal(missing) error: %v", err)
	}
	if missing != nil {
		t.Errorf("GetByJournal(missing) = %+v, want nil", missing)
	}
}

func TestDB_All_SortedByJournal(t *testing.T) {
	db, jsonlPath := newTestDB(t)
	if _, err := db.RebuildFromJSONL(jsonlPath); err != nil {
		t.Fatalf("RebuildFromJSONL() error: %v", err)
	}

	records, err := db.All()
	if err != nil {
		t.Fatalf("All() error: %v", err)
	}

	var names []string
	for _, r := range records {
		names = append(names, r.Journal)
	}
	want := []string{"Empty J", "Genome Biol", "Syst Biol"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("All() journals = %v, want %v", names, want)
	}

	// The degenerate record round-trips with its empty fingerprint intact.
	if records[0].HasFingerprint() {
		t.Error("degenerate record gained a fingerprint through the cache")
	}
}

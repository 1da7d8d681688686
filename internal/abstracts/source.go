package abstracts

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// MaxRecordLineCapacity is the maximum buffer size for reading abstract
// record lines (1MB per line).
const MaxRecordLineCapacity = 1024 * 1024

// recordFileExt is the extension of per-journal record files.
const recordFileExt = ".jsonl"

// Source reads per-journal abstract record files from a directory.
// Each journal has one JSONL file named after its raw identifier,
// e.g. "Genome Biol [jour].jsonl".
type Source struct {
	dir string
}

// NewSource creates a Source for the given records directory.
func NewSource(dir string) *Source {
	return &Source{dir: dir}
}

// Journals lists the raw journal identifiers available in the source
// directory, sorted for a stable processing order.
func (s *Source) Journals() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading records directory: %w", err)
	}

	var journals []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), recordFileExt) {
			continue
		}
		journals = append(journals, strings.TrimSuffix(e.Name(), recordFileExt))
	}

	sort.Strings(journals)
	return journals, nil
}

// Load reads all abstract records for a journal. A missing file returns an
// empty slice, matching an empty record file.
func (s *Source) Load(journal string) ([]Record, error) {
	path := filepath.Join(s.dir, journal+recordFileExt)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening records file: %w", err)
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	buf := make([]byte, MaxRecordLineCapacity)
	scanner.Buffer(buf, MaxRecordLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("parsing %s line %d: %w", path, lineNum, err)
		}
		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading records file: %w", err)
	}

	return records, nil
}

// Package lemma reduces related-term lists to canonical, deduplicated form
// using a dictionary-based lemma lookup.
package lemma

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Dictionary maps inflected word forms to their canonical lemmas.
// Lookup is total: a word without an entry is its own lemma.
type Dictionary struct {
	lemmas map[string]string
}

// NewDictionary creates a Dictionary from an in-memory form→lemma map.
// Keys and values are lowercased.
func NewDictionary(lemmas map[string]string) *Dictionary {
	d := &Dictionary{lemmas: make(map[string]string, len(lemmas))}
	for form, canon := range lemmas {
		d.lemmas[strings.ToLower(form)] = strings.ToLower(canon)
	}
	return d
}

// LoadDictionary reads a tab-separated lemma file with one "form<TAB>lemma"
// pair per line. Blank lines and lines starting with '#' are skipped.
func LoadDictionary(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening lemma dictionary: %w", err)
	}
	defer f.Close()

	lemmas := make(map[string]string)
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		form, canon, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, fmt.Errorf("lemma dictionary line %d: expected form<TAB>lemma, got %q", lineNum, line)
		}
		lemmas[strings.ToLower(strings.TrimSpace(form))] = strings.ToLower(strings.TrimSpace(canon))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading lemma dictionary: %w", err)
	}

	return NewDictionary(lemmas), nil
}

// Size returns the number of dictionary entries.
func (d *Dictionary) Size() int {
	return len(d.lemmas)
}

// Lemmatize returns the canonical lemma for a word. The word is trimmed and
// lowercased first; a word without a dictionary entry comes back unchanged.
func (d *Dictionary) Lemmatize(word string) string {
	w := strings.ToLower(strings.TrimSpace(word))
	if canon, ok := d.lemmas[w]; ok {
		return canon
	}
	return w
}

// Normalizer reduces ranked term lists to canonical term sets.
type Normalizer struct {
	dict *Dictionary
}

// NewNormalizer creates a Normalizer backed by the given dictionary.
func NewNormalizer(dict *Dictionary) *Normalizer {
	return &Normalizer{dict: dict}
}

// Reduce lemmatizes every term, discards duplicates and empty entries, and
// returns the resulting set sorted for determinism. Input order and ranking
// are deliberately dropped: the reduced set feeds set intersections, not
// ranked display.
func (n *Normalizer) Reduce(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	for _, term := range terms {
		canon := n.dict.Lemmatize(term)
		if canon == "" {
			continue
		}
		seen[canon] = true
	}

	reduced := make([]string, 0, len(seen))
	for term := range seen {
		reduced = append(reduced, term)
	}
	sort.Strings(reduced)
	return reduced
}

package lemma

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func testDictionary() *Dictionary {
	return NewDictionary(map[string]string{
		"genomes":     "genome",
		"mutations":   "mutation",
		"phylogeny":   "phylogeny",
		"phylogenies": "phylogeny",
	})
}

func TestDictionary_Lemmatize(t *testing.T) {
	dict := testDictionary()

	tests := []struct {
		name     string
		word     string
		expected string
	}{
		{
			name:     "known plural",
			word:     "genomes",
			expected: "genome",
		},
		{
			name:     "unknown word unchanged",
			word:     "coalescent",
			expected: "coalescent",
		},
		{
			name:     "case folded before lookup",
			word:     "Genomes",
			expected: "genome",
		},
		{
			name:     "whitespace trimmed",
			word:     "  mutations ",
			expected: "mutation",
		},
		{
			name:     "identity entry",
			word:     "phylogeny",
			expected: "phylogeny",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dict.Lemmatize(tt.word); got != tt.expected {
				t.Errorf("Lemmatize(%q) = %q, want %q", tt.word, got, tt.expected)
			}
		})
	}
}

func TestNormalizer_Reduce(t *testing.T) {
	n := NewNormalizer(testDictionary())

	t.Run("collapses inflectional variants", func(t *testing.T) {
		got := n.Reduce([]string{"genome", "genomes", "mutations", "mutation"})
		want := []string{"genome", "mutation"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Reduce() = %v, want %v", got, want)
		}
	})

	t.Run("drops order and duplicates", func(t *testing.T) {
		got := n.Reduce([]string{"phylogenies", "Phylogeny", "phylogeny"})
		want := []string{"phylogeny"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Reduce() = %v, want %v", got, want)
		}
	})

	t.Run("deterministic for same input", func(t *testing.T) {
		terms := []string{"mutations", "genomes", "coalescent", "genome"}
		first := n.Reduce(terms)
		second := n.Reduce(terms)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Reduce() not deterministic: %v vs %v", first, second)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if got := n.Reduce(nil); len(got) != 0 {
			t.Errorf("Reduce(nil) = %v, want empty", got)
		}
	})
}

func TestLoadDictionary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lemmas.tsv")
	content := "# form\tlemma\ngenomes\tgenome\n\nMutations\tmutation\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	dict, err := LoadDictionary(path)
	if err != nil {
		t.Fatalf("LoadDictionary() error: %v", err)
	}

	if dict.Size() != 2 {
		t.Errorf("Size() = %d, want 2", dict.Size())
	}
	if got := dict.Lemmatize("mutations"); got != "mutation" {
		t.Errorf("Lemmatize(mutations) = %q, want mutation", got)
	}
}

func TestLoadDictionary_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lemmas.tsv")
	if err := os.WriteFile(path, []byte("no-tab-here\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadDictionary(path); err == nil {
		t.Error("LoadDictionary() succeeded on malformed line, want error")
	}
}

func TestLoadDictionary_Missing(t *testing.T) {
	if _, err := LoadDictionary(filepath.Join(t.TempDir(), "absent.tsv")); err == nil {
		t.Error("LoadDictionary() succeeded on missing file, want error")
	}
}

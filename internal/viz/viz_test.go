package viz

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/matsen/journalfp/internal/matrix"
)

func testMatrix() (*matrix.Matrix, map[string][]string) {
	m := matrix.Build(map[string][]int{
		"A": {1, 2, 3, 4},
		"B": {3, 4, 5, 6},
		"C": {100, 101},
	})
	terms := map[string][]string{
		"A": {"genome", "mutation", "selection"},
		"B": {"genome", "phylogeny"},
		"C": {"protein"},
	}
	return m, terms
}

func TestAssemble_FullGrid(t *testing.T) {
	m, terms := testMatrix()
	data := Assemble(m, terms)

	if len(data.Journals) != 3 {
		t.Fatalf("len(Journals) = %d, want 3", len(data.Journals))
	}
	if len(data.Records) != 9 {
		t.Fatalf("len(Records) = %d, want 9 (full N×N grid)", len(data.Records))
	}

	// Records come out in row-major order over the full grid.
	for idx, rec := range data.Records {
		if rec.Row != idx/3 || rec.Col != idx%3 {
			t.Errorf("record %d at (%d, %d), want (%d, %d)", idx, rec.Row, rec.Col, idx/3, idx%3)
		}
	}
}

func TestAssemble_Categories(t *testing.T) {
	m, terms := testMatrix()
	data := Assemble(m, terms)

	for _, rec := range data.Records {
		var want string
		switch {
		case rec.Row == rec.Col:
			want = CategoryDiagonal
		case rec.Col > rec.Row:
			want = CategoryUpper
		default:
			want = CategoryLower
		}
		if rec.Category != want {
			t.Errorf("cell (%d, %d) category = %s, want %s", rec.Row, rec.Col, rec.Category, want)
		}
	}
}

func TestAssemble_Alpha(t *testing.T) {
	m, terms := testMatrix()
	data := Assemble(m, terms)

	for _, rec := range data.Records {
		switch rec.Category {
		case CategoryDiagonal, CategoryLower:
			if rec.Alpha != 1 {
				t.Errorf("cell (%d, %d) alpha = %v, want 1", rec.Row, rec.Col, rec.Alpha)
			}
		case CategoryUpper:
			if rec.Alpha < 0 || rec.Alpha > 1 {
				t.Errorf("cell (%d, %d) alpha = %v, outside [0, 1]", rec.Row, rec.Col, rec.Alpha)
			}
			want := 1 - m.Normalized(rec.Distance)
			if math.Abs(rec.Alpha-want) > 1e-9 {
				t.Errorf("cell (%d, %d) alpha = %v, want %v", rec.Row, rec.Col, rec.Alpha, want)
			}
		}
	}
}

func TestAssemble_LowerMirrorsUpper(t *testing.T) {
	// The full grid must be reproducible from the upper triangle alone:
	// every lower cell carries its mirrored upper cell's distance.
	m, terms := testMatrix()
	data := Assemble(m, terms)

	n := len(data.Journals)
	for _, rec := range data.Records {
		if rec.Category != CategoryLower {
			continue
		}
		mirror := data.Records[rec.Col*n+rec.Row]
		if mirror.Category != CategoryUpper {
			t.Fatalf("mirror of (%d, %d) has category %s", rec.Row, rec.Col, mirror.Category)
		}
		if rec.Distance != mirror.Distance {
			t.Errorf("cell (%d, %d) distance %v != mirrored %v", rec.Row, rec.Col, rec.Distance, mirror.Distance)
		}
	}
}

func TestAssemble_SharedTerms(t *testing.T) {
	m, terms := testMatrix()
	data := Assemble(m, terms)
	n := len(data.Journals)

	t.Run("intersection of the pair's term sets", func(t *testing.T) {
		// A × B share "genome".
		rec := data.Records[0*n+1]
		if !reflect.DeepEqual(rec.SharedTerms, []string{"genome"}) {
			t.Errorf("SharedTerms(A, B) = %v, want [genome]", rec.SharedTerms)
		}

		// A × C share nothing.
		rec = data.Records[0*n+2]
		if len(rec.SharedTerms) != 0 {
			t.Errorf("SharedTerms(A, C) = %v, want empty", rec.SharedTerms)
		}
	})

	t.Run("commutative", func(t *testing.T) {
		for _, rec := range data.Records {
			mirror := data.Records[rec.Col*n+rec.Row]
			if !reflect.DeepEqual(rec.SharedTerms, mirror.SharedTerms) {
				t.Errorf("SharedTerms(%d, %d) = %v, mirrored = %v",
					rec.Row, rec.Col, rec.SharedTerms, mirror.SharedTerms)
			}
		}
	})

	t.Run("diagonal surfaces the journal's own set", func(t *testing.T) {
		rec := data.Records[0]
		if !reflect.DeepEqual(rec.SharedTerms, terms["A"]) {
			t.Errorf("diagonal SharedTerms = %v, want %v", rec.SharedTerms, terms["A"])
		}
	})

	t.Run("journal without terms gets empty set", func(t *testing.T) {
		data := Assemble(m, nil)
		for _, rec := range data.Records {
			if len(rec.SharedTerms) != 0 {
				t.Errorf("cell (%d, %d) SharedTerms = %v, want empty", rec.Row, rec.Col, rec.SharedTerms)
			}
		}
	})
}

func TestGenerateHTML(t *testing.T) {
	m, terms := testMatrix()
	data := Assemble(m, terms)

	html, err := GenerateHTML(data)
	if err != nil {
		t.Fatalf("GenerateHTML() error: %v", err)
	}

	for _, want := range []string{"<!DOCTYPE html>", "d3js.org", "A", "shared_terms"} {
		if !strings.Contains(html, want) {
			t.Errorf("generated HTML missing %q", want)
		}
	}
}

func TestGenerateHTML_Empty(t *testing.T) {
	html, err := GenerateHTML(&MatrixData{})
	if err != nil {
		t.Fatalf("GenerateHTML() error: %v", err)
	}
	if !strings.Contains(html, "No matrix data") {
		t.Error("empty-state HTML missing message")
	}
}

func TestGenerateHTML_Nil(t *testing.T) {
	if _, err := GenerateHTML(nil); err == nil {
		t.Error("GenerateHTML(nil) succeeded, want error")
	}
}

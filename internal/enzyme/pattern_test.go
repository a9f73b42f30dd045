package enzyme

import (
	"errors"
	"testing"
)

func TestCompile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		pos     int
	}{
		{"empty pattern", "", 0},
		{"digit", "GA1TTC", 2},
		{"caret", "G^AATTC", 1},
		{"trailing X", "ACGTX", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.pattern)
			var pe *InvalidPatternError
			if !errors.As(err, &pe) {
				t.Fatalf("Compile(%q) error = %v, want InvalidPatternError", tt.pattern, err)
			}
			if pe.Pos != tt.pos {
				t.Errorf("Pos = %d, want %d", pe.Pos, tt.pos)
			}
		})
	}
}

func TestCompile_LowerCasePattern(t *testing.T) {
	m, err := Compile("gaattc")
	if err != nil {
		t.Fatal(err)
	}
	if m.Len() != 6 || !m.MatchAt([]byte("GAATTC"), 0, false) {
		t.Fatal("lower-case pattern should compile like upper-case")
	}
}

func TestMatchAt_DegenerateR(t *testing.T) {
	m := MustCompile("ACGTR") // R = A|G
	if !m.MatchAt([]byte("ACGTA"), 0, false) {
		t.Fatal("R should match A")
	}
	if !m.MatchAt([]byte("ACGTG"), 0, false) {
		t.Fatal("R should match G")
	}
	if m.MatchAt([]byte("ACGTC"), 0, false) {
		t.Fatal("R should not match C")
	}
}

func TestMatchAt_SequenceNDoesNotMatch(t *testing.T) {
	m := MustCompile("N")
	if m.MatchAt([]byte("N"), 0, false) {
		t.Fatal("sequence 'N' must not match any site base")
	}
	if MustCompile("R").MatchAt([]byte("R"), 0, false) {
		t.Fatal("ambiguity codes in the sequence must not match")
	}
}

func TestMatchAt_SoftMask(t *testing.T) {
	m := MustCompile("GAATTC")
	seq := []byte("xxgaattc")
	if !m.MatchAt(seq, 2, false) {
		t.Fatal("lower-case bases match when soft-masking is off")
	}
	if m.MatchAt(seq, 2, true) {
		t.Fatal("lower-case bases must not match when soft-masking is on")
	}
}

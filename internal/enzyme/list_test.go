package enzyme

import (
	"bytes"
	"errors"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const enzymeList = `# name	site	cut
ecoRI	GAATTC	1
  # indented comment
mspI	ccgg	1

sbfI	CCTGCAGG	6
`

func TestParseList(t *testing.T) {
	got, err := ParseList(strings.NewReader(enzymeList), ListOptions{})
	if err != nil {
		t.Fatal(err)
	}
	want := []Enzyme{
		{Name: "ecoRI", Pattern: "GAATTC", Cut: 1},
		{Name: "mspI", Pattern: "CCGG", Cut: 1},
		{Name: "sbfI", Pattern: "CCTGCAGG", Cut: 6},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseList() = %+v, want %+v", got, want)
	}
}

func TestParseList_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		pattern bool // expect an InvalidPatternError underneath
	}{
		{"two fields", "ecoRI\tGAATTC", false},
		{"four fields", "ecoRI\tGAATTC\t1\textra", false},
		{"negative cut", "ecoRI\tGAATTC\t-1", false},
		{"cut past site", "ecoRI\tGAATTC\t7", false},
		{"non-numeric cut", "ecoRI\tGAATTC\tone", false},
		{"bad base", "ecoRI\tGAZTTC\t1", true},
		{"empty site", "ecoRI\t\t0", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseList(strings.NewReader("#hdr\n"+tt.line+"\n"), ListOptions{})
			var se *InvalidEnzymeSpecError
			if !errors.As(err, &se) {
				t.Fatalf("error = %v, want InvalidEnzymeSpecError", err)
			}
			if se.Line != 2 {
				t.Errorf("Line = %d, want 2", se.Line)
			}
			var pe *InvalidPatternError
			if got := errors.As(err, &pe); got != tt.pattern {
				t.Errorf("InvalidPatternError present = %v, want %v", got, tt.pattern)
			}
		})
	}
}

func TestParseList_SkipInvalid(t *testing.T) {
	var logBuf bytes.Buffer
	in := "a\tGAATTC\t1\nb\tGAATTC\nc\tCCGG\t1\n"
	got, err := ParseList(strings.NewReader(in), ListOptions{
		SkipInvalid: true,
		Logger:      log.New(&logBuf, "", 0),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Name != "a" || got[1].Name != "c" {
		t.Fatalf("got %+v", got)
	}
	if !strings.Contains(logBuf.String(), "line 2") {
		t.Fatalf("skipped line not reported: %q", logBuf.String())
	}
}

func TestReadList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enzymes.txt")
	if err := os.WriteFile(path, []byte(enzymeList), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := ReadList(path, ListOptions{})
	if err != nil || len(got) != 3 {
		t.Fatalf("ReadList() = %v, %v", got, err)
	}
	if _, err := ReadList(filepath.Join(t.TempDir(), "missing"), ListOptions{}); err == nil {
		t.Fatal("missing file should fail")
	}
}

func TestParseList_DuplicateOutput(t *testing.T) {
	in := "ecoRI\tGAATTC\t1\nmspI\tCCGG\t1\necoRI\tgaattc\t5\necoRI\tGANTC\t1\n"
	_, err := ParseList(strings.NewReader(in), ListOptions{})
	var se *InvalidEnzymeSpecError
	if !errors.As(err, &se) || se.Line != 3 {
		t.Fatalf("want InvalidEnzymeSpecError on line 3, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 1") {
		t.Errorf("error should name the first entry: %v", err)
	}

	var logBuf bytes.Buffer
	got, err := ParseList(strings.NewReader(in), ListOptions{SkipInvalid: true, Logger: log.New(&logBuf, "", 0)})
	if err != nil {
		t.Fatal(err)
	}
	want := []Enzyme{
		{Name: "ecoRI", Pattern: "GAATTC", Cut: 1},
		{Name: "mspI", Pattern: "CCGG", Cut: 1},
		{Name: "ecoRI", Pattern: "GANTC", Cut: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseList() = %+v, want %+v", got, want)
	}
	if !strings.Contains(logBuf.String(), "line 3") {
		t.Fatalf("dropped duplicate not reported: %q", logBuf.String())
	}
}

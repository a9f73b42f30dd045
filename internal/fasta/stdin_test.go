package fasta

import (
	"bytes"
	"compress/gzip"
	"os"
	"testing"
)

func withStdin(t *testing.T, data []byte) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	old := os.Stdin
	os.Stdin = r
	t.Cleanup(func() { os.Stdin = old; r.Close() })
	go func() {
		_, _ = w.Write(data)
		_ = w.Close()
	}()
}

func TestStdinPlain(t *testing.T) {
	withStdin(t, []byte(">chr1\nACGT\n>chr2\nNN\n"))
	recs := collect(t, FileSource{Path: "-"})
	if len(recs) != 2 || recs[0].ID != "chr1" || string(recs[1].Seq) != "NN" {
		t.Fatalf("bad records: %+v", recs)
	}
}

func TestStdinGzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, _ = zw.Write([]byte(">chr1\nac\n>chr2\nGg\n"))
	_ = zw.Close()
	withStdin(t, buf.Bytes())

	recs := collect(t, FileSource{Path: "-"})
	if len(recs) != 2 || string(recs[0].Seq) != "ac" || string(recs[1].Seq) != "Gg" {
		t.Fatalf("bad gunzip via stdin: %+v", recs)
	}
}

func TestWindowsCRLF_Trimmed(t *testing.T) {
	recs := collect(t, FileSource{Path: writeTemp(t, "crlf.fa", []byte(">c\r\nA\r\nC\r\n"))})
	if len(recs) != 1 || recs[0].ID != "c" || string(recs[0].Seq) != "AC" {
		t.Fatalf("CR should be trimmed: %+v", recs)
	}
}

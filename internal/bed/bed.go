// Package bed writes per-enzyme cut-site files: six tab-separated columns
// (sequence, start, end, enzyme, label, strand), both coordinates equal to
// the 0-based cut position.
package bed

import (
	"bufio"
	"compress/gzip"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strconv"

	"github.com/golang/snappy"
	"golang.org/x/crypto/sha3"

	"redigest/internal/digest"
	"redigest/internal/enzyme"
)

// Label selects the fifth column.
type Label int

const (
	LabelDot     Label = iota // literal "."
	LabelCounter              // "cut-<n>", n counts sites per enzyme from 0
)

// ParseLabel accepts "dot" (or ".") and "counter".
func ParseLabel(s string) (Label, error) {
	switch s {
	case "", "dot", ".":
		return LabelDot, nil
	case "counter":
		return LabelCounter, nil
	}
	return 0, fmt.Errorf("unknown label mode %q (want dot or counter)", s)
}

// Compression of the output file.
type Compression int

const (
	None Compression = iota
	Gzip
	Snappy
)

// ParseCompression accepts "none", "gzip" and "snappy".
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "", "none":
		return None, nil
	case "gzip", "gz":
		return Gzip, nil
	case "snappy", "sz":
		return Snappy, nil
	}
	return 0, fmt.Errorf("unknown compression %q (want none, gzip or snappy)", s)
}

// Ext is the file-name suffix added after ".bed".
func (c Compression) Ext() string {
	switch c {
	case Gzip:
		return ".gz"
	case Snappy:
		return ".sz"
	}
	return ""
}

// Options for a Writer.
type Options struct {
	Label    Label
	Compress Compression
}

// FileName is <prefix>_<name>_<pattern>_<site length>.bed plus the
// compression suffix.
func FileName(prefix string, e enzyme.Enzyme, c Compression) string {
	return prefix + "_" + e.Key() + ".bed" + c.Ext()
}

// OutputWriteError reports a destination that cannot be created or written.
type OutputWriteError struct {
	Path string
	Err  error
}

func (e *OutputWriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *OutputWriteError) Unwrap() error { return e.Err }

// Result describes a closed destination.
type Result struct {
	Path    string
	Matches int
	Lines   int
	SHA3    string // hex SHA3-256 of the uncompressed text
}

// Writer streams cut records for a single enzyme. Not safe for concurrent use.
type Writer struct {
	path    string
	closer  io.Closer // underlying file, nil for NewWriter
	zw      io.WriteCloser
	bw      *bufio.Writer
	sum     hash.Hash
	label   Label
	matches int
	lines   int
	err     error
}

// Create truncates or creates path.
func Create(path string, opt Options) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, &OutputWriteError{Path: path, Err: err}
	}
	w := NewWriter(f, opt)
	w.path, w.closer = path, f
	return w, nil
}

// NewWriter writes to dst; closing the Writer does not close dst.
func NewWriter(dst io.Writer, opt Options) *Writer {
	w := &Writer{sum: sha3.New256(), label: opt.Label}
	sink := dst
	switch opt.Compress {
	case Gzip:
		w.zw = gzip.NewWriter(dst)
		sink = w.zw
	case Snappy:
		w.zw = snappy.NewBufferedWriter(dst)
		sink = w.zw
	}
	w.bw = bufio.NewWriter(io.MultiWriter(w.sum, sink))
	return w
}

// WriteMatch writes both lines of one site, in the order given.
func (w *Writer) WriteMatch(pair [2]digest.CutRecord) error {
	if w.err != nil {
		return w.err
	}
	label := "."
	if w.label == LabelCounter {
		label = "cut-" + strconv.Itoa(w.matches)
	}
	for _, r := range pair {
		if _, err := fmt.Fprintf(w.bw, "%s\t%d\t%d\t%s\t%s\t%c\n",
			r.SeqID, r.Pos, r.Pos, r.Enzyme, label, byte(r.Strand)); err != nil {
			w.err = &OutputWriteError{Path: w.path, Err: err}
			return w.err
		}
		w.lines++
	}
	w.matches++
	return nil
}

// Close flushes everything and closes the file. The Result is filled in
// even when an error is returned.
func (w *Writer) Close() (Result, error) {
	err := w.err
	if ferr := w.bw.Flush(); ferr != nil && err == nil {
		err = &OutputWriteError{Path: w.path, Err: ferr}
	}
	if w.zw != nil {
		if zerr := w.zw.Close(); zerr != nil && err == nil {
			err = &OutputWriteError{Path: w.path, Err: zerr}
		}
	}
	if w.closer != nil {
		if cerr := w.closer.Close(); cerr != nil && err == nil {
			err = &OutputWriteError{Path: w.path, Err: cerr}
		}
	}
	return Result{
		Path:    w.path,
		Matches: w.matches,
		Lines:   w.lines,
		SHA3:    hex.EncodeToString(w.sum.Sum(nil)),
	}, err
}

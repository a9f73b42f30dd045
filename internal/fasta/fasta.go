// Package fasta streams FASTA records from plain, gzip or snappy-framed
// files and from stdin. A record's ID is its header up to the first blank
// (empty for a bare ">"); blanks anywhere in sequence lines are dropped.
package fasta

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/golang/snappy"
)

const bufSize = 4 << 20 // 4 MiB

var (
	gzipMagic   = []byte{0x1f, 0x8b}
	snappyMagic = []byte("\xff\x06\x00\x00sNaPpY") // framing-format stream identifier
)

// Record is one FASTA entry (whole chromosome or contig).
type Record struct {
	ID  string
	Seq []byte // no newlines, case as in the file
}

// Source yields sequence records. Each call to Each starts again from the
// first record, so a Source can be walked any number of times.
type Source interface {
	Each(ctx context.Context, fn func(Record) error) error
}

// SequenceSourceError reports input that cannot be opened or parsed.
type SequenceSourceError struct {
	Path string
	Err  error
}

func (e *SequenceSourceError) Error() string {
	return fmt.Sprintf("sequence source %s: %v", e.Path, e.Err)
}

func (e *SequenceSourceError) Unwrap() error { return e.Err }

// FileSource reads Path on every Each call. "-" reads stdin, which can
// only be consumed once; Load it into a MemorySource to walk it again.
type FileSource struct {
	Path string
}

func (s FileSource) Each(ctx context.Context, fn func(Record) error) error {
	rc, err := open(s.Path)
	if err != nil {
		return &SequenceSourceError{Path: s.Path, Err: err}
	}
	defer rc.Close()
	return parse(ctx, s.Path, rc, fn)
}

// Parse walks FASTA text from r. name is used in error messages only.
func Parse(ctx context.Context, name string, r io.Reader, fn func(Record) error) error {
	return parse(ctx, name, bufio.NewReaderSize(r, bufSize), fn)
}

type readCloser struct {
	io.Reader
	closers []func() error
}

func (rc readCloser) Close() error {
	var first error
	for _, c := range rc.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// open returns a reader over the decompressed contents of path.
func open(path string) (io.ReadCloser, error) {
	var f *os.File
	var closers []func() error
	if path == "-" {
		f = os.Stdin
	} else {
		var err error
		if f, err = os.Open(path); err != nil {
			return nil, err
		}
		closers = append(closers, f.Close)
	}
	br := bufio.NewReaderSize(f, bufSize)
	head, _ := br.Peek(len(snappyMagic)) // short files return what is there
	switch {
	case bytes.HasPrefix(head, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			readCloser{closers: closers}.Close()
			return nil, err
		}
		closers = append([]func() error{zr.Close}, closers...)
		return readCloser{Reader: bufio.NewReaderSize(zr, bufSize), closers: closers}, nil
	case bytes.Equal(head, snappyMagic):
		return readCloser{Reader: bufio.NewReaderSize(snappy.NewReader(br), bufSize), closers: closers}, nil
	}
	return readCloser{Reader: br, closers: closers}, nil
}

func parse(ctx context.Context, name string, r io.Reader, fn func(Record) error) error {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReaderSize(r, bufSize)
	}
	var (
		id     string
		inRec  bool
		seq    []byte
		line   []byte
		err    error
		lineNo int
	)
	flush := func() error {
		if !inRec {
			return nil
		}
		rec := Record{ID: id, Seq: seq}
		seq = make([]byte, 0, len(seq))
		return fn(rec)
	}
	for {
		line, err = br.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return &SequenceSourceError{Path: name, Err: err}
		}
		lineNo++
		line = bytes.TrimRight(line, "\r\n")
		if len(line) > 0 && line[0] == '>' { // header
			if ferr := flush(); ferr != nil {
				return ferr
			}
			if cerr := ctx.Err(); cerr != nil {
				return cerr
			}
			id, inRec = "", true
			if fields := bytes.Fields(line[1:]); len(fields) > 0 {
				id = string(fields[0]) // grab up-to-first-space
			}
		} else if len(bytes.TrimSpace(line)) > 0 {
			if !inRec {
				return &SequenceSourceError{Path: name, Err: fmt.Errorf("line %d: sequence before first header", lineNo)}
			}
			seq = appendBases(seq, line)
		}
		if err == io.EOF {
			return flush()
		}
	}
}

const blanks = " \t\r\v\f"

// appendBases appends line to seq, leaving out blanks.
func appendBases(seq, line []byte) []byte {
	if bytes.IndexAny(line, blanks) < 0 {
		return append(seq, line...)
	}
	for _, b := range line {
		switch b {
		case ' ', '\t', '\r', '\v', '\f':
		default:
			seq = append(seq, b)
		}
	}
	return seq
}

// MemorySource holds parsed records in memory; safe for concurrent Each
// calls as long as nobody mutates the records.
type MemorySource struct {
	Records []Record
}

func (s *MemorySource) Each(ctx context.Context, fn func(Record) error) error {
	for _, rec := range s.Records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	return nil
}

// Load reads every record of src into memory.
func Load(ctx context.Context, src Source) (*MemorySource, error) {
	ms := &MemorySource{}
	err := src.Each(ctx, func(rec Record) error {
		ms.Records = append(ms.Records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ms, nil
}

// Package digest finds recognition sites in a sequence and turns each hit
// into a pair of strand-specific cut records.
package digest

import (
	"redigest/internal/enzyme"
	"redigest/internal/fasta"
)

// CutRecord is one output line: a cut on one strand of one sequence.
type CutRecord struct {
	SeqID  string
	Pos    int
	Enzyme string
	Strand Strand
}

// Digester applies one compiled enzyme to sequence records.
type Digester struct {
	enz      enzyme.Enzyme
	m        enzyme.Matcher
	softMask bool
}

// New compiles e once for reuse over many records.
func New(e enzyme.Enzyme, softMask bool) (*Digester, error) {
	m, err := enzyme.Compile(e.Pattern)
	if err != nil {
		return nil, &enzyme.InvalidEnzymeSpecError{Reason: e.Name, Err: err}
	}
	if e.Cut < 0 || e.Cut > m.Len() {
		return nil, &enzyme.InvalidEnzymeSpecError{Reason: e.Name + ": cut offset outside site"}
	}
	return &Digester{enz: e, m: m, softMask: softMask}, nil
}

func (d *Digester) Enzyme() enzyme.Enzyme { return d.enz }

// Digest scans rec and calls emit once per site with its ordered cut pair.
// It returns the number of sites emitted; an emit error stops the scan.
func (d *Digester) Digest(rec fasta.Record, emit func([2]CutRecord) error) (int, error) {
	n := 0
	for start := range Matches(d.m, rec.Seq, d.softMask) {
		cuts := Emit(start, d.m.Len(), d.enz.Cut)
		var pair [2]CutRecord
		for i, c := range cuts {
			pair[i] = CutRecord{SeqID: rec.ID, Pos: c.Pos, Enzyme: d.enz.Name, Strand: c.Strand}
		}
		if err := emit(pair); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Cuts digests seq and collects the records in output order.
func Cuts(e enzyme.Enzyme, rec fasta.Record, softMask bool) ([]CutRecord, error) {
	d, err := New(e, softMask)
	if err != nil {
		return nil, err
	}
	var out []CutRecord
	_, err = d.Digest(rec, func(p [2]CutRecord) error {
		out = append(out, p[0], p[1])
		return nil
	})
	return out, err
}

package enzyme

import "strings"

// Matcher is a compiled recognition pattern: one base mask per position.
type Matcher struct {
	mask []uint8
}

// Compile converts an IUPAC recognition string to per-position masks.
// Input is upper-cased first; any code outside the IUPAC table, or an
// empty pattern, is an *InvalidPatternError.
func Compile(pattern string) (Matcher, error) {
	site := strings.ToUpper(pattern)
	if site == "" {
		return Matcher{}, &InvalidPatternError{Pattern: pattern}
	}
	m := make([]uint8, len(site))
	for i := 0; i < len(site); i++ {
		code, ok := codeMap[site[i]]
		if !ok {
			return Matcher{}, &InvalidPatternError{Pattern: pattern, Pos: i, Char: site[i]}
		}
		m[i] = code
	}
	return Matcher{mask: m}, nil
}

// MustCompile is Compile for patterns known to be valid.
func MustCompile(pattern string) Matcher {
	m, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return m
}

// Len is the recognition site length.
func (m Matcher) Len() int { return len(m.mask) }

// Accepts reports whether base b is compatible with pattern position pos.
// Lower-case bases are accepted like their upper-case form.
func (m Matcher) Accepts(pos int, b byte) bool {
	return seqBases[b]&m.mask[pos] != 0
}

// MatchAt reports whether the site matches seq[i:i+Len()]. With softMask
// set, lower-case bases never match. Caller guarantees i+Len() <= len(seq).
func (m Matcher) MatchAt(seq []byte, i int, softMask bool) bool {
	tbl := &seqBases
	if softMask {
		tbl = &maskedBases
	}
	n := len(m.mask)
	w := seq[i : i+n]
	// fast reject on last position
	if tbl[w[n-1]]&m.mask[n-1] == 0 {
		return false
	}
	for j := 0; j < n-1; j++ {
		if tbl[w[j]]&m.mask[j] == 0 {
			return false
		}
	}
	return true
}

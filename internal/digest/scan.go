package digest

import (
	"iter"

	"redigest/internal/enzyme"
)

// Matches yields every start offset i, in increasing order, at which m
// matches seq[i:i+m.Len()]. Scanning resumes at i+1 after a hit, so
// overlapping sites are all reported. The sequence is lazy and can be
// ranged over again to rescan.
func Matches(m enzyme.Matcher, seq []byte, softMask bool) iter.Seq[int] {
	return func(yield func(int) bool) {
		n := m.Len()
		if n == 0 || len(seq) < n {
			return
		}
		for pos := 0; pos <= len(seq)-n; pos++ {
			if m.MatchAt(seq, pos, softMask) && !yield(pos) {
				return
			}
		}
	}
}

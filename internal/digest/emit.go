package digest

// Strand of a cut: '+' sense, '-' antisense.
type Strand byte

const (
	Sense     Strand = '+'
	Antisense Strand = '-'
)

func (s Strand) String() string { return string(s) }

// Cut is a single-base cut coordinate on one strand, 0-based.
type Cut struct {
	Pos    int
	Strand Strand
}

// Emit returns the two cuts of a site matched at start, in output order.
// siteLen is the pattern length L and cut the offset C from its 5' end:
// sense at start+C, antisense at start+L-C. When C > L/2 the antisense cut
// lies left of the sense cut and is emitted first.
func Emit(start, siteLen, cut int) [2]Cut {
	sense := Cut{Pos: start + cut, Strand: Sense}
	anti := Cut{Pos: start + siteLen - cut, Strand: Antisense}
	if 2*cut > siteLen {
		return [2]Cut{anti, sense}
	}
	return [2]Cut{sense, anti}
}

package enzyme

// 4‑bit mask per base
const (
	baseA uint8 = 1 << iota
	baseC
	baseG
	baseT
)

var codeMap = map[byte]uint8{
	'A': baseA,
	'C': baseC,
	'G': baseG,
	'T': baseT,
	'R': baseA | baseG,
	'Y': baseC | baseT,
	'S': baseG | baseC,
	'W': baseA | baseT,
	'K': baseG | baseT,
	'M': baseA | baseC,
	'B': baseC | baseG | baseT,
	'D': baseA | baseG | baseT,
	'H': baseA | baseC | baseT,
	'V': baseA | baseC | baseG,
	'N': baseA | baseC | baseG | baseT,
}

// Sequence-side lookup tables. Only the four literal bases carry a mask, so
// 'N' or an ambiguity code in the reference never matches a site.
// maskedBases leaves lower-case (soft-masked) bases at zero.
var (
	seqBases    [256]uint8
	maskedBases [256]uint8
)

func init() {
	for _, b := range []byte("ACGT") {
		m := codeMap[b]
		seqBases[b] = m
		seqBases[b+'a'-'A'] = m
		maskedBases[b] = m
	}
}

// Expand returns the literal bases an IUPAC code stands for, in ACGT order.
func Expand(code byte) ([]byte, bool) {
	if code >= 'a' && code <= 'z' {
		code -= 'a' - 'A'
	}
	m, ok := codeMap[code]
	if !ok {
		return nil, false
	}
	out := make([]byte, 0, 4)
	for i, b := range []byte("ACGT") {
		if m&(1<<i) != 0 {
			out = append(out, b)
		}
	}
	return out, true
}

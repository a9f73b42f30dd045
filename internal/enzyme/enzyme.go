// Package enzyme holds restriction enzyme definitions, the IUPAC pattern
// compiler and the tab-separated enzyme list reader.
package enzyme

import (
	"fmt"
	"strconv"
	"strings"
)

// Enzyme is immutable once built by New or ParseList.
type Enzyme struct {
	Name    string
	Pattern string // upper-case IUPAC recognition site, 5'→3'
	Cut     int    // 0‑based offset from the 5' end of the site, 0 ≤ Cut ≤ len(Pattern)
}

// New validates and normalizes an enzyme definition.
func New(name, pattern string, cut int) (Enzyme, error) {
	site := strings.ToUpper(pattern)
	if _, err := Compile(site); err != nil {
		return Enzyme{}, &InvalidEnzymeSpecError{Reason: name, Err: err}
	}
	if cut < 0 || cut > len(site) {
		return Enzyme{}, &InvalidEnzymeSpecError{
			Reason: fmt.Sprintf("%s: cut offset %d outside [0,%d]", name, cut, len(site)),
		}
	}
	return Enzyme{Name: name, Pattern: site, Cut: cut}, nil
}

// Len is the recognition site length.
func (e Enzyme) Len() int { return len(e.Pattern) }

// Key names the enzyme's output file, "<name>_<pattern>_<site length>".
// Patterns never contain '_', so distinct name/pattern pairs give
// distinct keys.
func (e Enzyme) Key() string {
	return e.Name + "_" + e.Pattern + "_" + strconv.Itoa(e.Len())
}

func (e Enzyme) String() string { return fmt.Sprintf("%s (%s)", e.Name, e.Pattern) }

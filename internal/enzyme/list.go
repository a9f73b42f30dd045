package enzyme

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
)

// ListOptions controls ParseList.
type ListOptions struct {
	SkipInvalid bool        // drop bad lines instead of failing
	Logger      *log.Logger // receives skipped-line warnings; nil = silent
}

// ReadList opens path and parses it with ParseList.
func ReadList(path string, opt ListOptions) ([]Enzyme, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("enzyme list: %w", err)
	}
	defer f.Close()
	return ParseList(f, opt)
}

// ParseList reads tab-separated "name, pattern, cut offset" lines.
// Lines whose first non-blank character is '#' are comments; blank lines
// are ignored. Order of the input is kept. An entry with the same name and
// pattern as an earlier one would share its output file and is rejected.
func ParseList(r io.Reader, opt ListOptions) ([]Enzyme, error) {
	var out []Enzyme
	seen := make(map[string]int) // Key -> line
	sc := bufio.NewScanner(r)
	for ln := 1; sc.Scan(); ln++ {
		line := strings.TrimRight(sc.Text(), " \t\r\n")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		e, err := parseLine(line)
		if err == nil {
			if prev, dup := seen[e.Key()]; dup {
				err = &InvalidEnzymeSpecError{
					Reason: fmt.Sprintf("%s: same name and site as line %d", e.Name, prev),
				}
			}
		}
		if err != nil {
			err.Line, err.Text = ln, line
			if !opt.SkipInvalid {
				return nil, err
			}
			if opt.Logger != nil {
				opt.Logger.Printf("skipping %v", err)
			}
			continue
		}
		seen[e.Key()] = ln
		out = append(out, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("enzyme list: %w", err)
	}
	return out, nil
}

func parseLine(line string) (Enzyme, *InvalidEnzymeSpecError) {
	fields := strings.Split(line, "\t")
	if len(fields) != 3 {
		return Enzyme{}, &InvalidEnzymeSpecError{
			Reason: fmt.Sprintf("want 3 tab-separated fields, got %d", len(fields)),
		}
	}
	name := strings.TrimSpace(fields[0])
	pattern := strings.ToUpper(strings.TrimSpace(fields[1]))
	if name == "" {
		return Enzyme{}, &InvalidEnzymeSpecError{Reason: "empty enzyme name"}
	}
	if _, err := Compile(pattern); err != nil {
		return Enzyme{}, &InvalidEnzymeSpecError{Reason: name, Err: err}
	}
	cut, err := strconv.ParseUint(strings.TrimSpace(fields[2]), 10, 31)
	if err != nil {
		return Enzyme{}, &InvalidEnzymeSpecError{Reason: name + ": bad cut offset", Err: err}
	}
	if int(cut) > len(pattern) {
		return Enzyme{}, &InvalidEnzymeSpecError{
			Reason: fmt.Sprintf("%s: cut offset %d beyond site length %d", name, cut, len(pattern)),
		}
	}
	return Enzyme{Name: name, Pattern: pattern, Cut: int(cut)}, nil
}

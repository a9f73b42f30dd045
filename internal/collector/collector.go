package collector

// Msg reports the outcome of one enzyme's output file.
type Msg struct {
	Enzyme  string
	Pattern string
	File    string
	Matches int
	Lines   int
	SHA3    string
	Err     error
}

// EnzymeStats is the per-enzyme part of Stats.
type EnzymeStats struct {
	Pattern string `json:"pattern"`
	File    string `json:"file,omitempty"`
	Matches int    `json:"matches"`
	Lines   int    `json:"lines"`
	SHA3    string `json:"sha3,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Stats is emitted after the input channel closes.
type Stats struct {
	TotalMatches int                    `json:"total_matches"`
	TotalLines   int                    `json:"total_lines"`
	Failed       int                    `json:"failed"`
	PerEnzyme    map[string]EnzymeStats `json:"per_enzyme"` // keyed by "<name>_<pattern>"
}

// New starts the collector goroutine.
//   - send Msg values on the returned chan
//   - close the chan when workers are done
//   - read the final Stats from the second chan
func New() (chan<- Msg, <-chan Stats) {
	in := make(chan Msg)
	out := make(chan Stats, 1)

	go func() {
		defer close(out)

		stats := Stats{PerEnzyme: make(map[string]EnzymeStats)}
		for msg := range in {
			es := EnzymeStats{
				Pattern: msg.Pattern,
				File:    msg.File,
				Matches: msg.Matches,
				Lines:   msg.Lines,
				SHA3:    msg.SHA3,
			}
			if msg.Err != nil {
				es.Error = msg.Err.Error()
				stats.Failed++
			}
			stats.TotalMatches += msg.Matches
			stats.TotalLines += msg.Lines
			stats.PerEnzyme[msg.Enzyme+"_"+msg.Pattern] = es
		}
		out <- stats
	}()

	return in, out
}

package extract

import "math/big"

// PhaseMarker is one located report marker.
type PhaseMarker struct {
	Phase    string
	Position string
	Start    bool
}

// ExtractPhases returns end - start for every phase, in grammar order. Each
// marker defaults to "0" independently, so an absent phase is 0. A negative
// delta is returned as is.
func (c *Compiled) ExtractPhases(text, policy string) ([]RawMetric, error) {
	out := make([]RawMetric, 0, len(c.phases))
	for _, p := range c.phases {
		name := PhaseMetric(p.phase)

		start, err := search(p.start, text, name, policy)
		if err != nil {
			return nil, err
		}
		end, err := search(p.end, text, name, policy)
		if err != nil {
			return nil, err
		}

		out = append(out, RawMetric{
			Name:    name,
			Value:   Delta(PhaseMarker{Phase: p.phase, Position: start.Value, Start: true}, PhaseMarker{Phase: p.phase, Position: end.Value}),
			Matches: max(start.Count, end.Count),
		})
	}
	return out, nil
}

// Delta subtracts start from end in arbitrary precision. An operand that is
// not a base-10 integer is returned verbatim so validation reports it.
func Delta(start, end PhaseMarker) string {
	s, ok := new(big.Int).SetString(start.Position, 10)
	if !ok {
		return start.Position
	}
	e, ok := new(big.Int).SetString(end.Position, 10)
	if !ok {
		return end.Position
	}
	return new(big.Int).Sub(e, s).String()
}

package extract

// RawMetric is an extracted value before validation. Value is kept textual so
// that the validator sees exactly what the log produced.
type RawMetric struct {
	Name  string
	Value string
	// Matches is the total number of occurrences behind the value. For phase
	// metrics it is the larger of the start and end counts.
	Matches int
}

// ExtractScalars returns one RawMetric per scalar rule, in grammar order.
// A pattern absent from the log yields "0".
func (c *Compiled) ExtractScalars(text, policy string) ([]RawMetric, error) {
	out := make([]RawMetric, 0, len(c.scalars))
	for _, s := range c.scalars {
		m, err := search(s.re, text, s.metric, policy)
		if err != nil {
			return nil, err
		}
		out = append(out, RawMetric{Name: s.metric, Value: m.Value, Matches: m.Count})
	}
	return out, nil
}

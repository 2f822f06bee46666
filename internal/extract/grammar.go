package extract

import (
	"fmt"
	"regexp"
	"strings"

	"cycle-metrics/internal/domain"
)

const (
	PolicyFirst = "first"
	PolicyFail  = "fail"
)

const PhasePlaceholder = "{phase}"

// ScalarRule maps a whole-run pattern to a metric. Pattern must hold exactly
// one capture group, the unsigned value.
type ScalarRule struct {
	Metric  string `yaml:"metric" validate:"required"`
	Pattern string `yaml:"pattern" validate:"required"`
}

// Grammar is the fixed set of textual conventions the extractor recognises.
// StartMarker and EndMarker contain PhasePlaceholder, which is replaced by the
// quoted phase name.
type Grammar struct {
	Scalars     []ScalarRule `yaml:"scalars" validate:"required,min=1,dive"`
	StartMarker string       `yaml:"start_marker" validate:"required,contains={phase}"`
	EndMarker   string       `yaml:"end_marker" validate:"required,contains={phase}"`
	Phases      []string     `yaml:"phases" validate:"dive,required"`
}

func DefaultGrammar() Grammar {
	return Grammar{
		Scalars: []ScalarRule{
			{Metric: domain.TotalCycles, Pattern: `([0-9]+) total cycles`},
			{Metric: domain.UserCycles, Pattern: `([0-9]+) user cycles`},
		},
		StartMarker: `R0VM\[([0-9]+)\] cycle-tracker-report-start: {phase}\b`,
		EndMarker:   `R0VM\[([0-9]+)\] cycle-tracker-report-end: {phase}\b`,
		Phases:      []string{"read_input", "validation"},
	}
}

// PhaseMetric names the metric derived from a phase.
func PhaseMetric(phase string) string {
	return phase + "_cycles"
}

// MetricNames lists every metric the grammar produces, scalars first.
func (g Grammar) MetricNames() []string {
	names := make([]string, 0, len(g.Scalars)+len(g.Phases))
	for _, s := range g.Scalars {
		names = append(names, s.Metric)
	}
	for _, p := range g.Phases {
		names = append(names, PhaseMetric(p))
	}
	return names
}

type compiledScalar struct {
	metric string
	re     *regexp.Regexp
}

type compiledPhase struct {
	phase string
	start *regexp.Regexp
	end   *regexp.Regexp
}

// Compiled is a Grammar with every pattern compiled.
type Compiled struct {
	scalars []compiledScalar
	phases  []compiledPhase
	names   []string
}

func (g Grammar) Compile() (*Compiled, error) {
	c := &Compiled{names: g.MetricNames()}

	for _, s := range g.Scalars {
		re, err := compileRule(s.Metric, s.Pattern)
		if err != nil {
			return nil, err
		}
		c.scalars = append(c.scalars, compiledScalar{metric: s.Metric, re: re})
	}

	for _, p := range g.Phases {
		quoted := regexp.QuoteMeta(p)
		start, err := compileRule(PhaseMetric(p), strings.ReplaceAll(g.StartMarker, PhasePlaceholder, quoted))
		if err != nil {
			return nil, err
		}
		end, err := compileRule(PhaseMetric(p), strings.ReplaceAll(g.EndMarker, PhasePlaceholder, quoted))
		if err != nil {
			return nil, err
		}
		c.phases = append(c.phases, compiledPhase{phase: p, start: start, end: end})
	}
	return c, nil
}

// MetricNames returns the required metric names in emission order.
func (c *Compiled) MetricNames() []string {
	return c.names
}

func compileRule(metric, pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidGrammar, metric, err)
	}
	if re.NumSubexp() != 1 {
		return nil, fmt.Errorf("%w: %s: pattern %q must have exactly one capture group", ErrInvalidGrammar, metric, pattern)
	}
	return re, nil
}

// Match is the outcome of one pattern search. Count is the number of
// occurrences found; Value is "0" when Count is zero.
type Match struct {
	Value string
	Count int
}

func search(re *regexp.Regexp, text, metric, policy string) (Match, error) {
	all := re.FindAllStringSubmatch(text, -1)
	if len(all) == 0 {
		return Match{Value: "0"}, nil
	}
	if len(all) > 1 && policy == PolicyFail {
		return Match{}, &MetricError{Name: metric, Value: fmt.Sprint(len(all)), Err: ErrAmbiguousMatch}
	}
	return Match{Value: all[0][1], Count: len(all)}, nil
}

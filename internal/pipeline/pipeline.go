package pipeline

import (
	"cycle-metrics/internal/domain"
	"cycle-metrics/internal/extract"
	"cycle-metrics/internal/util"
)

// Run extracts, derives and validates the metric set of one log. It performs
// no I/O besides logging; on error no metric is returned.
func Run(logText string, grammar *extract.Compiled, policy string, logger *util.MetricsLogger) (domain.MetricSet, error) {
	scalars, err := grammar.ExtractScalars(logText, policy)
	if err != nil {
		return nil, err
	}
	phases, err := grammar.ExtractPhases(logText, policy)
	if err != nil {
		return nil, err
	}

	raw := append(scalars, phases...)
	for _, r := range raw {
		switch {
		case r.Matches == 0:
			logger.LogEvent(util.LOG_LEVEL_DEBUG, r.Name, "not found in log, defaulting to 0")
		case r.Matches > 1:
			logger.LogEvent(util.LOG_LEVEL_WARN, r.Name, "matched", r.Matches, "times, using first match", r.Value)
		}
	}

	return extract.Validate(domain.MetricOrder, raw)
}

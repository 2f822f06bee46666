package extract

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidMetric  = errors.New("invalid metric value")
	ErrAmbiguousMatch = errors.New("ambiguous match")
	ErrInvalidGrammar = errors.New("invalid grammar")
)

// MetricError identifies the metric that failed extraction or validation.
type MetricError struct {
	Name  string
	Value string
	Err   error
}

func (e *MetricError) Error() string {
	if errors.Is(e.Err, ErrAmbiguousMatch) {
		return fmt.Sprintf("%s: %s matched %s times", e.Err, e.Name, e.Value)
	}
	return fmt.Sprintf("%s: %s=%q", e.Err, e.Name, e.Value)
}

func (e *MetricError) Unwrap() error {
	return e.Err
}

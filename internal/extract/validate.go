package extract

import (
	"regexp"
	"strconv"

	"cycle-metrics/internal/domain"
)

var integerLiteral = regexp.MustCompile(`^-?[0-9]+$`)

// IsIntegerLiteral reports whether v is an optionally negative run of digits
// with nothing else, newlines included.
func IsIntegerLiteral(v string) bool {
	return integerLiteral.MatchString(v)
}

// Validate checks every required metric in order and converts the set. The
// first missing or malformed metric aborts with a *MetricError.
func Validate(required []string, raw []RawMetric) (domain.MetricSet, error) {
	byName := make(map[string]string, len(raw))
	for _, r := range raw {
		byName[r.Name] = r.Value
	}

	set := make(domain.MetricSet, 0, len(required))
	for _, name := range required {
		v, ok := byName[name]
		if !ok || !IsIntegerLiteral(v) {
			return nil, &MetricError{Name: name, Value: v, Err: ErrInvalidMetric}
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			// out of int64 range
			return nil, &MetricError{Name: name, Value: v, Err: ErrInvalidMetric}
		}
		set = append(set, domain.Metric{Name: name, Unit: domain.UnitCycles, Value: n})
	}
	return set, nil
}

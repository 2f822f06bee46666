package pipeline

import (
	"errors"
	"fmt"
	"os"
)

var ErrMissingInput = errors.New("input log not found")

// ReadLog loads the whole log. Any failure to read it is ErrMissingInput.
func ReadLog(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrMissingInput, path)
	}
	return string(data), nil
}

package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"cycle-metrics/internal/domain"
	"cycle-metrics/internal/util"
)

// Emitter writes a validated metric set to every sink. It must only be
// called after validation succeeded.
type Emitter struct {
	SinkPath   string
	OutputPath string
	Stdout     io.Writer
	logger     *util.MetricsLogger
}

func NewEmitter(sinkPath, outputPath string, stdout io.Writer, logger *util.MetricsLogger) *Emitter {
	return &Emitter{SinkPath: sinkPath, OutputPath: outputPath, Stdout: stdout, logger: logger}
}

// Emit opens the sink before replacing the document and appends to it only
// once the document is in place. A failure on either destination leaves the
// other unchanged.
func (e *Emitter) Emit(set domain.MetricSet) error {
	var sink *sinkFile
	if e.SinkPath != "" {
		s, err := openSink(e.SinkPath)
		if err != nil {
			return err
		}
		sink = s
	}

	if err := WriteDocument(e.OutputPath, set); err != nil {
		sink.discard()
		return err
	}
	e.logger.LogEvent(util.LOG_LEVEL_INFO, "benchmark written to", e.OutputPath)

	if sink != nil {
		if err := sink.append(set); err != nil {
			return err
		}
		e.logger.LogEvent(util.LOG_LEVEL_DEBUG, "appended", len(set), "outputs to", e.SinkPath)
	}

	if e.Stdout != nil {
		WriteSummary(e.Stdout, set)
	}
	return nil
}

// AppendSink appends one name=value line per metric to the CI output file.
func AppendSink(path string, set domain.MetricSet) error {
	sink, err := openSink(path)
	if err != nil {
		return err
	}
	return sink.append(set)
}

type sinkFile struct {
	f       *os.File
	created bool
}

func openSink(path string) (*sinkFile, error) {
	_, statErr := os.Stat(path)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("error opening output sink: %w", err)
	}
	return &sinkFile{f: f, created: errors.Is(statErr, fs.ErrNotExist)}, nil
}

// discard closes the sink unwritten and removes it if openSink created it.
func (s *sinkFile) discard() {
	if s == nil {
		return
	}
	s.f.Close()
	if s.created {
		os.Remove(s.f.Name())
	}
}

func (s *sinkFile) append(set domain.MetricSet) error {
	var buf bytes.Buffer
	for _, m := range set {
		fmt.Fprintf(&buf, "%s=%d\n", m.Name, m.Value)
	}

	if _, err := s.f.Write(buf.Bytes()); err != nil {
		s.f.Close()
		return fmt.Errorf("error writing output sink: %w", err)
	}
	return s.f.Close()
}

// Encode renders the benchmark document. Equal sets encode to equal bytes.
func Encode(set domain.MetricSet) ([]byte, error) {
	if set == nil {
		set = domain.MetricSet{}
	}
	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// WriteDocument replaces path with the benchmark document. The content goes
// to a temporary file in the same directory first, so path is never partial.
func WriteDocument(path string, set domain.MetricSet) error {
	data, err := Encode(set)
	if err != nil {
		return fmt.Errorf("error encoding benchmark: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("error creating benchmark file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("error writing benchmark file: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("error writing benchmark file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error writing benchmark file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("error replacing benchmark file: %w", err)
	}
	return nil
}

func WriteSummary(w io.Writer, set domain.MetricSet) {
	for _, m := range set {
		fmt.Fprintf(w, "%-18s %d %s\n", m.Name+":", m.Value, m.Unit)
	}
}

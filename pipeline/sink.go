package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/WelCode99/ArticleData/datasus"
	"github.com/WelCode99/ArticleData/logging"
)

// SchemaMismatchError reports a batch whose column set differs from the
// schema captured by the first written batch.
type SchemaMismatchError struct {
	Expected []string
	Got      []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch: output file has columns %v, batch has %v", e.Expected, e.Got)
}

// CSVSink owns the growing output file. Creating a sink removes any file
// left at the path by a previous run; the file itself is created lazily by
// the first written batch, so a run that keeps no rows leaves no file.
type CSVSink struct {
	path    string
	file    *os.File
	writer  *csv.Writer
	schema  []string
	started bool
}

// NewCSVSink prepares a sink at path, deleting a pre-existing file.
func NewCSVSink(path string) (*CSVSink, error) {
	if err := os.Remove(path); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove previous output %s: %w", path, err)
		}
	} else {
		logging.Info("Removed output file from a previous run", "path", path)
	}

	return &CSVSink{path: path}, nil
}

// EnsureStarted creates the output file, writes the header exactly once and
// captures the schema every later batch is validated against. Calls after
// the first are no-ops.
func (s *CSVSink) EnsureStarted(columns []string) error {
	if s.started {
		return nil
	}

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", s.path, err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(columns); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to flush header: %w", err)
	}

	s.file = file
	s.writer = writer
	s.schema = append([]string(nil), columns...)
	s.started = true
	return nil
}

// Append writes all rows of the table. The batch must carry the captured
// column set; a batch with the same columns in a different order is
// reordered to match, any other difference is a SchemaMismatchError.
func (s *CSVSink) Append(t *datasus.Table) error {
	if !s.started {
		if err := s.EnsureStarted(t.Columns); err != nil {
			return err
		}
	}

	order, err := s.columnOrder(t)
	if err != nil {
		return err
	}

	for _, row := range t.Rows {
		out := row
		if order != nil {
			out = make([]string, len(row))
			for i, src := range order {
				out[i] = row[src]
			}
		}
		if err := s.writer.Write(out); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		return fmt.Errorf("failed to flush rows: %w", err)
	}
	return nil
}

// columnOrder maps sink schema positions to batch positions. A nil order
// means the batch already matches the schema.
func (s *CSVSink) columnOrder(t *datasus.Table) ([]int, error) {
	if len(t.Columns) != len(s.schema) {
		return nil, &SchemaMismatchError{Expected: s.schema, Got: t.Columns}
	}

	identical := true
	for i, col := range s.schema {
		if t.Columns[i] != col {
			identical = false
			break
		}
	}
	if identical {
		return nil, nil
	}

	order := make([]int, len(s.schema))
	for i, col := range s.schema {
		idx, ok := t.ColumnIndex(col)
		if !ok {
			return nil, &SchemaMismatchError{Expected: s.schema, Got: t.Columns}
		}
		order[i] = idx
	}
	logging.Warn("Batch columns arrived reordered, coercing to the captured schema")
	return order, nil
}

// Close flushes and closes the output file. Closing a sink that never
// started is a no-op.
func (s *CSVSink) Close() error {
	if s.file == nil {
		return nil
	}
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		_ = s.file.Close()
		return fmt.Errorf("failed to flush output: %w", err)
	}
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	s.file = nil
	return nil
}

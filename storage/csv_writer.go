package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"homesnacks-cycle/models"
)

var warningHeader = []string{"cycle_id", "mls_id", "mls_property_id", "field", "raw_value", "logged_at"}

// CSVWarningWriter appends normaliser field warnings to a CSV audit file.
// It is safe for concurrent use.
type CSVWarningWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWarningWriter opens (or creates) the CSV file at path in append mode,
// writing the header row when the file is new. Intermediate directories are
// created automatically.
func NewCSVWarningWriter(path string) (*CSVWarningWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	_, statErr := os.Stat(path)
	isNew := errors.Is(statErr, fs.ErrNotExist)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("csv: open file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if isNew {
		if err := w.Write(warningHeader); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("csv: write header: %w", err)
		}
		w.Flush()
	}

	return &CSVWarningWriter{file: f, writer: w}, nil
}

// WriteWarnings appends one row per warning.
func (c *CSVWarningWriter) WriteWarnings(cycleID int64, warnings []models.FieldWarning) error {
	if len(warnings) == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ts := time.Now().UTC().Format(time.RFC3339)
	id := strconv.FormatInt(cycleID, 10)
	for _, w := range warnings {
		row := []string{id, w.MLSID, w.MLSPropertyID, w.Field, w.RawValue, ts}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWarningWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

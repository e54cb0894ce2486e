package corpus

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrOutputExists is returned when the output file already exists and no
// explicit overwrite intent was given.
var ErrOutputExists = errors.New("output file already exists")

// Writer appends one JSON record per line to the output file. It is not
// safe for concurrent use; callers running subjects in parallel must
// serialize writes.
type Writer struct {
	path string
	f    *os.File
	enc  *json.Encoder
}

// NewWriter opens the output file in append mode. Without overwrite the
// call fails if the file already exists; with overwrite any existing
// content is truncated first.
func NewWriter(path string, overwrite bool) (*Writer, error) {
	if path == "" {
		return nil, fmt.Errorf("output path cannot be empty")
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if overwrite {
		flags |= os.O_TRUNC
	} else if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrOutputExists, path)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("cannot access output file %s: %w", path, err)
	}

	f, err := os.OpenFile(path, flags, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open output file %s: %w", path, err)
	}

	enc := json.NewEncoder(f)
	// Keep markdown table markup like <br> readable in the output.
	enc.SetEscapeHTML(false)

	return &Writer{path: path, f: f, enc: enc}, nil
}

// WriteRecord serializes one record as a single JSON line.
func (w *Writer) WriteRecord(rec Record) error {
	if err := w.enc.Encode(rec); err != nil {
		return fmt.Errorf("failed to write record %s: %w", rec.ID, err)
	}
	return nil
}

// Path returns the output file path.
func (w *Writer) Path() string {
	return w.path
}

// Close flushes and closes the underlying file.
func (w *Writer) Close() error {
	if w.f == nil {
		return nil
	}
	err := w.f.Close()
	w.f = nil
	return err
}

package sink

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"sync"

	"jdeprez/immoharvester/internal/harvester"
	"jdeprez/immoharvester/pkg/errors"
)

// CSVSink appends records to a CSV file. It is safe for concurrent use: the
// mutex spans the empty-file check, the header write, and the row write, so
// two concurrent first writers cannot both emit the header. The file is
// opened in append mode and an existing non-empty file keeps its rows.
type CSVSink struct {
	mu            sync.Mutex
	file          *os.File
	writer        *csv.Writer
	headerEnsured bool
}

var _ RecordSink = (*CSVSink)(nil)

// NewCSVSink opens (or creates) the CSV file at the given path.
// Intermediate directories are created automatically.
func NewCSVSink(path string) (*CSVSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.NewSink("failed to create output directory", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.NewSink("failed to open output file "+path, err)
	}

	return &CSVSink{
		file:   f,
		writer: csv.NewWriter(f),
	}, nil
}

// Append writes one record row, emitting the header first if the file is
// still empty. The lock covers only this decision and the write, never any
// network or parse work.
func (c *CSVSink) Append(record harvester.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.headerEnsured {
		info, err := c.file.Stat()
		if err != nil {
			return errors.NewSink("failed to stat output file", err)
		}
		if info.Size() == 0 {
			if err := c.writer.Write(harvester.Columns); err != nil {
				return errors.NewSink("failed to write header row", err)
			}
		}
		c.headerEnsured = true
	}

	if err := c.writer.Write(record.Row()); err != nil {
		return errors.NewSink("failed to write record row", err)
	}

	// Flush per record so an interrupted run keeps what it harvested
	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		return errors.NewSink("failed to flush output file", err)
	}
	return nil
}

// Close flushes and closes the underlying file
func (c *CSVSink) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		c.file.Close()
		return errors.NewSink("failed to flush output file", err)
	}
	if err := c.file.Close(); err != nil {
		return errors.NewSink("failed to close output file", err)
	}
	return nil
}
